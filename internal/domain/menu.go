package domain

// Menu button labels
const (
	LabelRegister     = "📝 Register"
	LabelLogin        = "🔐 Login"
	LabelHelp         = "❓ Help"
	LabelCreateFolder = "📁 Create Folder"
	LabelMyFolders    = "📂 My Folders"
	LabelOpenFolder   = "📤 Open Folder"
	LabelLogout       = "🚪 Logout"
)

var (
	// LoggedOutKeyboard is the button layout shown to anonymous participants
	LoggedOutKeyboard = [][]string{
		{LabelRegister, LabelLogin},
		{LabelHelp},
	}

	// LoggedInKeyboard is the button layout shown after login
	LoggedInKeyboard = [][]string{
		{LabelMyFolders, LabelOpenFolder},
		{LabelCreateFolder, LabelLogout},
		{LabelHelp},
	}
)

var menuActions = map[string]IntentKind{
	LabelRegister:     IntentRegister,
	LabelLogin:        IntentLogin,
	LabelHelp:         IntentHelp,
	LabelCreateFolder: IntentCreateFolder,
	LabelMyFolders:    IntentListFolders,
	LabelOpenFolder:   IntentOpenFolder,
	LabelLogout:       IntentLogout,
}

// MenuAction maps a button label to its intent
func MenuAction(label string) (IntentKind, bool) {
	kind, ok := menuActions[label]
	return kind, ok
}

// Keyboard returns the button rows of a menu, or nil when the menu has no buttons
func (m Menu) Keyboard() [][]string {
	switch m {
	case MenuLoggedOut:
		return LoggedOutKeyboard
	case MenuLoggedIn:
		return LoggedInKeyboard
	default:
		return nil
	}
}
