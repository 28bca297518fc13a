package application

import (
	"strings"

	"picturedrive/internal/domain"
	"picturedrive/pkg/command"
)

var commandIntents = map[string]domain.IntentKind{
	"start":        domain.IntentStart,
	"help":         domain.IntentHelp,
	"cancel":       domain.IntentCancel,
	"register":     domain.IntentRegister,
	"login":        domain.IntentLogin,
	"logout":       domain.IntentLogout,
	"createfolder": domain.IntentCreateFolder,
	"myfolders":    domain.IntentListFolders,
	"open":         domain.IntentOpenFolder,
}

// Classify turns one text message into a single Intent. Menu labels are
// matched first and never carry arguments; formal commands are matched
// case-insensitively with any @botname suffix ignored; everything else is
// free text.
func Classify(text string) domain.Intent {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Intent{Kind: domain.IntentNone, Args: []string{}}
	}

	if kind, ok := domain.MenuAction(text); ok {
		return domain.Intent{Kind: kind, Action: text, Args: []string{}, Text: text}
	}

	cmd := command.Parse(text)
	if !cmd.IsFormal() {
		return domain.Intent{Kind: domain.IntentFreeText, Action: cmd.Action, Args: cmd.Args, Text: text}
	}

	kind, ok := commandIntents[cmd.Name()]
	if !ok {
		kind = domain.IntentUnknownCommand
	}
	return domain.Intent{Kind: kind, Action: cmd.Action, Args: cmd.Args, Text: text, Typed: true}
}
