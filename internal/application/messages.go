package application

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"picturedrive/internal/domain"
)

// Participant facing texts
const (
	msgRegisterPrompt         = "📝 Registration\nPlease enter your username."
	msgRegisterPasswordPrompt = "🔒 Great. Now enter your password."
	msgLoginPrompt            = "🔐 Login\nPlease enter your username."
	msgLoginPasswordPrompt    = "🔒 Now enter your password."
	msgCreateFolderPrompt     = "📁 Enter folder name."
	msgOpenFolderPrompt       = "📤 Enter folder name to open."
	msgInvalidUsername        = "Please enter a valid username (3 to 32 characters, no spaces)."
	msgInvalidPassword        = "Please enter a valid password."
	msgInvalidFolderName      = "Please enter a valid folder name (up to 64 characters)."

	msgRegistered         = "✅ Registration complete. Tap 🔐 Login to continue."
	msgAlreadyLoggedIn    = "You are already logged in. Use 🚪 Logout first if needed."
	msgLoggedOut          = "✅ Logged out successfully."
	msgLoginFirst         = "Please login first using 🔐 Login."
	msgLoginFirstTap      = "Please login first. Tap 🔐 Login."
	msgUseMenu            = "Please use 📝 Register or 🔐 Login from the menu below."
	msgNoFolders          = "No folders yet. Tap 📁 Create Folder to add one."
	msgFolderEmpty        = "This folder is empty. Send an image to upload it."
	msgUploaded           = "✅ Image uploaded to your cloud folder successfully. Send another image or tap 📂 My Folders."
	msgCancelled          = "✖️ Cancelled."
	msgNothingToCancel    = "Nothing to cancel."
	msgSomethingWentWrong = "❌ Something went wrong. Please try again."
)

func startMessage(loggedIn bool) string {
	hint := "Use the buttons below to register or login. No command typing needed."
	if loggedIn {
		hint = "Use the menu buttons below to manage folders and uploads."
	}
	return strings.Join([]string{
		"👋 Welcome to *PictureDrive*",
		"",
		"Store and organize your images in Telegram like a mini cloud drive.",
		"",
		hint,
		"Need help anytime? Tap ❓ Help or use /help.",
		"Use /start command when stuck",
	}, "\n")
}

func helpMessage(loggedIn bool) string {
	if loggedIn {
		return strings.Join([]string{
			"📘 *PictureDrive Actions*",
			"",
			"• 📁 Create Folder → make a new folder",
			"• 📂 My Folders → list all your folders",
			"• 📤 Open Folder → choose folder for viewing/uploading",
			"• 🚪 Logout → end your session",
			"",
			"To upload: open a folder first, then send a photo or image file.",
			"Send /cancel to stop a step you started.",
		}, "\n")
	}
	return strings.Join([]string{
		"📘 *How to get started*",
		"",
		"1) Tap *📝 Register* then enter username and password step by step.",
		"2) Tap *🔐 Login* then enter username and password step by step.",
		"",
		"You can still use commands: /register and /login",
	}, "\n")
}

func dashboardMessage(folders []domain.Folder) string {
	if len(folders) == 0 {
		return strings.Join([]string{
			"✅ *Login successful*",
			"",
			"You have no folders yet.",
			"Tap *📁 Create Folder* to make your first one.",
		}, "\n")
	}
	return strings.Join([]string{
		"✅ *Login successful*",
		"",
		"📂 *Your folders*",
		folderList(folders, escapeMarkdown),
		"",
		"Tap *📤 Open Folder* to choose one and upload images.",
	}, "\n")
}

func unknownCommandMessage(loggedIn bool) string {
	if loggedIn {
		return "🤔 I did not recognize that action. Please use the menu buttons below or /help."
	}
	return "🤔 Please use 📝 Register or 🔐 Login buttons to continue, or /help for details."
}

func foldersMessage(folders []domain.Folder) string {
	return fmt.Sprintf("📂 Your folders:\n%s\n\nTap 📤 Open Folder to continue.", folderList(folders, nil))
}

func folderCreatedMessage(folder *domain.Folder) string {
	return fmt.Sprintf("✅ Folder created: %s\nTap 📤 Open Folder to choose it.", folder.Name)
}

func folderOpenedMessage(folder domain.Folder) string {
	return fmt.Sprintf("📂 Opened folder: %s\nSend an image now to upload it.", folder.Name)
}

func fileCaption(file domain.File, location *time.Location) string {
	return fmt.Sprintf("%s (%s)", file.Name, domain.FormatUploadedAt(file.UploadedAt, location))
}

func folderList(folders []domain.Folder, escape func(string) string) string {
	lines := make([]string, 0, len(folders))
	for _, folder := range folders {
		name := folder.Name
		if escape != nil {
			name = escape(name)
		}
		lines = append(lines, "• "+name)
	}
	return strings.Join(lines, "\n")
}

var markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

// escapeMarkdown protects participant supplied text inside Markdown bodies
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// errorReply maps a failed operation to the text and menu shown to the participant
func errorReply(err error, loggedIn bool) (string, domain.Menu) {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return msgLoginFirst, domain.MenuLoggedOut
	case errors.Is(err, domain.ErrNoActiveFolder):
		return "Open a folder first using 📤 Open Folder before uploading images.", domain.MenuLoggedIn
	case errors.Is(err, domain.ErrUnsupportedAttachment):
		return "Only photos and image files can be uploaded.", domain.MenuFor(loggedIn)
	case errors.Is(err, domain.ErrDuplicateUsername):
		return "❌ Username already exists. Try a different one.", domain.MenuNone
	case errors.Is(err, domain.ErrDuplicateFolder), errors.Is(err, domain.ErrDuplicateRecord):
		return "This item already exists. Try a different name.", domain.MenuNone
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "❌ Invalid username or password.", domain.MenuNone
	case errors.Is(err, domain.ErrNoActiveSession):
		return "❌ No active session found.", domain.MenuLoggedOut
	case errors.Is(err, domain.ErrSessionConflict):
		return "❌ This account is active in another chat. Logout there first.", domain.MenuNone
	case errors.Is(err, domain.ErrInvalidUsername):
		return "❌ Username must be 3 to 32 characters without spaces.", domain.MenuNone
	case errors.Is(err, domain.ErrInvalidPassword):
		return "❌ Password must not be empty or longer than 72 bytes.", domain.MenuNone
	case errors.Is(err, domain.ErrFolderNameEmpty):
		return "❌ Folder name cannot be empty.", domain.MenuNone
	case errors.Is(err, domain.ErrFolderNameTooLong):
		return "❌ Folder name must be at most 64 characters.", domain.MenuNone
	case errors.Is(err, domain.ErrFolderNotFound):
		return "❌ Folder not found.", domain.MenuNone
	case errors.Is(err, domain.ErrFolderNotOwned):
		return "❌ Active folder does not exist or does not belong to you.", domain.MenuNone
	case errors.Is(err, domain.ErrBlobHostUnavailable):
		return "❌ Storage channel not found. Confirm TELEGRAM_STORAGE_CHANNEL_ID and add bot as a channel admin.", domain.MenuNone
	case errors.Is(err, domain.ErrBlobRelayFailed):
		return "❌ Could not store the image right now. Please try again.", domain.MenuNone
	default:
		return msgSomethingWentWrong, domain.MenuNone
	}
}

// replyBuilder collects the messages produced while handling one event
type replyBuilder struct {
	reply domain.Reply
}

func newReplyBuilder(to domain.ReplyTarget) *replyBuilder {
	return &replyBuilder{reply: domain.Reply{To: to}}
}

func (b *replyBuilder) say(body string, menu domain.Menu) {
	b.reply.Messages = append(b.reply.Messages, domain.OutboundMessage{Body: body, Menu: menu})
}

func (b *replyBuilder) sayMarkdown(body string, menu domain.Menu) {
	b.reply.Messages = append(b.reply.Messages, domain.OutboundMessage{Body: body, Menu: menu, ParseMode: domain.ParseModeMarkdown})
}

func (b *replyBuilder) prompt(body string) {
	b.say(body, domain.MenuForceReply)
}

func (b *replyBuilder) photo(fileID, caption string) {
	b.reply.Messages = append(b.reply.Messages, domain.OutboundMessage{Body: caption, PhotoFileID: fileID})
}

func (b *replyBuilder) reset() {
	b.reply.Messages = nil
}

func (b *replyBuilder) empty() bool {
	return len(b.reply.Messages) == 0
}
