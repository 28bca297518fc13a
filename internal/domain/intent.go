package domain

// IntentKind is what a participant asked for
type IntentKind int

const (
	// IntentNone - nothing to do (empty text)
	IntentNone IntentKind = iota
	// IntentStart - /start, welcome text
	IntentStart
	// IntentHelp - /help or the Help label
	IntentHelp
	// IntentCancel - /cancel, drops the pending flow
	IntentCancel
	// IntentRegister - /register or the Register label
	IntentRegister
	// IntentLogin - /login or the Login label
	IntentLogin
	// IntentLogout - /logout or the Logout label
	IntentLogout
	// IntentCreateFolder - /createfolder or the Create Folder label
	IntentCreateFolder
	// IntentListFolders - /myfolders or the My Folders label
	IntentListFolders
	// IntentOpenFolder - /open or the Open Folder label
	IntentOpenFolder
	// IntentUnknownCommand - formal command that is not recognized
	IntentUnknownCommand
	// IntentFreeText - anything that is neither a command nor a menu label
	IntentFreeText
)

var intentNames = map[IntentKind]string{
	IntentNone:           "none",
	IntentStart:          "start",
	IntentHelp:           "help",
	IntentCancel:         "cancel",
	IntentRegister:       "register",
	IntentLogin:          "login",
	IntentLogout:         "logout",
	IntentCreateFolder:   "create_folder",
	IntentListFolders:    "list_folders",
	IntentOpenFolder:     "open_folder",
	IntentUnknownCommand: "unknown_command",
	IntentFreeText:       "free_text",
}

// String returns the log and metric name of the intent
func (k IntentKind) String() string {
	if name, ok := intentNames[k]; ok {
		return name
	}
	return "unknown"
}

// Intent is the single classification of one text message
type Intent struct {
	Kind   IntentKind
	Action string   // Command token or menu label as received
	Args   []string // Arguments of a formal command, empty for menu labels
	Text   string   // Trimmed message text
	Typed  bool     // Sent as a formal command rather than a menu tap
}

// Recognized reports whether the intent preempts a pending flow
func (i Intent) Recognized() bool {
	switch i.Kind {
	case IntentNone, IntentFreeText, IntentUnknownCommand:
		return false
	default:
		return true
	}
}
