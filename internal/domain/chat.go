package domain

import (
	"strings"
	"time"
)

// Platform identifies the chat platform an event came from
type Platform string

const (
	// PlatformTelegram - Telegram Bot API
	PlatformTelegram Platform = "telegram"
	// PlatformLine - LINE Messaging API
	PlatformLine Platform = "line"
)

// AttachmentKind represents the kind of media attached to a message
type AttachmentKind string

const (
	// AttachmentPhoto - compressed photo with several resolutions
	AttachmentPhoto AttachmentKind = "photo"
	// AttachmentDocument - file sent as a generic document
	AttachmentDocument AttachmentKind = "document"
)

// ReplyTarget tells the messenger where to answer
type ReplyTarget struct {
	Platform   Platform
	ChatID     string
	ReplyToken string // LINE only
}

// PhotoSize is one resolution of a photo
type PhotoSize struct {
	FileID   string
	Width    int
	Height   int
	FileSize int
}

// Attachment represents media sent by the participant
type Attachment struct {
	Kind AttachmentKind
	// Photos are kept in platform order, smallest resolution first.
	Photos   []PhotoSize
	FileID   string // For document
	FileName string // For document
	MimeType string // For document
}

// IsImage reports whether the attachment carries an image
func (a *Attachment) IsImage() bool {
	if a == nil {
		return false
	}
	switch a.Kind {
	case AttachmentPhoto:
		return len(a.Photos) > 0
	case AttachmentDocument:
		return a.FileID != "" && strings.HasPrefix(strings.ToLower(a.MimeType), "image/")
	default:
		return false
	}
}

// BestImage selects the image to store: the last (largest) photo size, or the
// document itself when its content type is an image.
func (a *Attachment) BestImage() (ImageRef, bool) {
	if !a.IsImage() {
		return ImageRef{}, false
	}
	if a.Kind == AttachmentPhoto {
		best := a.Photos[len(a.Photos)-1]
		return ImageRef{Kind: AttachmentPhoto, FileID: best.FileID}, true
	}
	return ImageRef{Kind: AttachmentDocument, FileID: a.FileID, FileName: a.FileName}, true
}

// ImageRef points at an image on the platform it was received from
type ImageRef struct {
	Platform Platform
	Kind     AttachmentKind
	FileID   string
	FileName string
}

// InboundEvent is a chat message normalized across platforms
type InboundEvent struct {
	ID            string
	Platform      Platform
	ParticipantID string
	ReplyTo       ReplyTarget
	Text          *string
	Attachment    *Attachment
	Caption       string
	ReceivedAt    time.Time
}

// Menu selects the quick-reply keyboard shown with a message
type Menu int

const (
	// MenuNone - no keyboard change
	MenuNone Menu = iota
	// MenuLoggedOut - register/login/help buttons
	MenuLoggedOut
	// MenuLoggedIn - folder management buttons
	MenuLoggedIn
	// MenuForceReply - ask the client to answer the prompt
	MenuForceReply
)

// MenuFor returns the keyboard matching the authentication state
func MenuFor(loggedIn bool) Menu {
	if loggedIn {
		return MenuLoggedIn
	}
	return MenuLoggedOut
}

// ParseMode is a rendering hint for the message body
type ParseMode string

const (
	// ParseModePlain - body is plain text
	ParseModePlain ParseMode = ""
	// ParseModeMarkdown - body uses Markdown emphasis
	ParseModeMarkdown ParseMode = "Markdown"
)

// OutboundMessage is one message of a reply
type OutboundMessage struct {
	Body        string
	Menu        Menu
	ParseMode   ParseMode
	PhotoFileID string // Body becomes the caption when set
}

// Reply groups the messages produced while handling one inbound event
type Reply struct {
	To       ReplyTarget
	Messages []OutboundMessage
}
