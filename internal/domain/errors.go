package domain

import "errors"

// Validation errors
var (
	// ErrInvalidUsername indicates a username that is blank, too short, too long or contains spaces
	ErrInvalidUsername = errors.New("invalid username")

	// ErrInvalidPassword indicates a blank password or one longer than 72 bytes
	ErrInvalidPassword = errors.New("invalid password")

	// ErrFolderNameEmpty indicates a folder name that trims to nothing
	ErrFolderNameEmpty = errors.New("folder name is empty")

	// ErrFolderNameTooLong indicates a folder name over the storage limit
	ErrFolderNameTooLong = errors.New("folder name is too long")

	// ErrUnsupportedAttachment indicates an attachment that is not an image
	ErrUnsupportedAttachment = errors.New("attachment is not an image")
)

// Authorization errors
var (
	// ErrInvalidCredentials indicates an unknown username or a wrong password
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNoActiveSession indicates a logout without an authenticated account
	ErrNoActiveSession = errors.New("no active session")

	// ErrNotAuthenticated indicates an operation that requires login
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoActiveFolder indicates an upload before any folder was opened
	ErrNoActiveFolder = errors.New("no active folder")

	// ErrFolderNotOwned indicates a folder that is missing or belongs to another account
	ErrFolderNotOwned = errors.New("folder does not exist or is not owned by the account")

	// ErrFolderNotFound indicates no folder with the requested name
	ErrFolderNotFound = errors.New("folder not found")

	// ErrSessionConflict indicates a login refused because another participant holds the session
	ErrSessionConflict = errors.New("account is active in another chat")
)

// Conflict errors
var (
	// ErrDuplicateUsername indicates the username is taken
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrDuplicateFolder indicates the owner already has a folder with that name
	ErrDuplicateFolder = errors.New("folder already exists")

	// ErrDuplicateRecord indicates a unique constraint hit while recording a file
	ErrDuplicateRecord = errors.New("record already exists")
)

// External dependency errors
var (
	// ErrBlobHostUnavailable indicates the storage channel is unreachable or misconfigured
	ErrBlobHostUnavailable = errors.New("blob host unavailable")

	// ErrBlobRelayFailed indicates a relay failure that is not a configuration problem
	ErrBlobRelayFailed = errors.New("blob relay failed")
)

// ErrorKind classifies errors for reporting
type ErrorKind string

const (
	// KindValidation - corrected by the participant
	KindValidation ErrorKind = "validation"
	// KindAuthorization - access denied
	KindAuthorization ErrorKind = "authorization"
	// KindConflict - uniqueness violated
	KindConflict ErrorKind = "conflict"
	// KindExternal - a collaborator failed
	KindExternal ErrorKind = "external"
	// KindUnclassified - anything else
	KindUnclassified ErrorKind = "unclassified"
)

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidUsername, KindValidation},
	{ErrInvalidPassword, KindValidation},
	{ErrFolderNameEmpty, KindValidation},
	{ErrFolderNameTooLong, KindValidation},
	{ErrUnsupportedAttachment, KindValidation},
	{ErrInvalidCredentials, KindAuthorization},
	{ErrNoActiveSession, KindAuthorization},
	{ErrNotAuthenticated, KindAuthorization},
	{ErrNoActiveFolder, KindAuthorization},
	{ErrFolderNotOwned, KindAuthorization},
	{ErrFolderNotFound, KindAuthorization},
	{ErrSessionConflict, KindAuthorization},
	{ErrDuplicateUsername, KindConflict},
	{ErrDuplicateFolder, KindConflict},
	{ErrDuplicateRecord, KindConflict},
	{ErrBlobHostUnavailable, KindExternal},
	{ErrBlobRelayFailed, KindExternal},
}

// KindOf returns the kind of the first known error in err's chain
func KindOf(err error) ErrorKind {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnclassified
}
