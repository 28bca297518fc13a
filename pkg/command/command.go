// Package command splits chat text into an action token and its arguments.
package command

import "strings"

// FormalPrefix marks a slash command
const FormalPrefix = "/"

// Command is one parsed chat message
type Command struct {
	Action string
	Args   []string
}

// Parse trims text and splits it on whitespace. The first token is the action,
// kept verbatim; the rest are the arguments. Empty text gives an empty action
// and an empty, non-nil argument list.
func Parse(text string) Command {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{Args: []string{}}
	}
	return Command{Action: fields[0], Args: fields[1:]}
}

// JoinArgs joins args with single spaces and trims the result.
func JoinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// IsFormal reports whether the action is a slash command
func (c Command) IsFormal() bool {
	return strings.HasPrefix(c.Action, FormalPrefix)
}

// Name returns the lowercased action without the slash and any @botname suffix.
// It returns an empty string for actions that are not formal.
func (c Command) Name() string {
	if !c.IsFormal() {
		return ""
	}
	name := strings.TrimPrefix(c.Action, FormalPrefix)
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	return strings.ToLower(name)
}
