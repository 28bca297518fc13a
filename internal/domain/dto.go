package domain

// DTOs (Data Transfer Objects) - Domain layer request/response structures

type (
	// Credentials struct - username and password submitted by a participant
	Credentials struct {
		Username string `validate:"required,min=3,max=32"`
		Password string `validate:"required,max=72"`
	}

	// UploadRequest struct - image received while a folder is open
	UploadRequest struct {
		Platform   Platform
		Attachment *Attachment
		Caption    string
	}

	// RelayRequest struct - image to copy into the storage channel
	RelayRequest struct {
		Image   ImageRef
		Caption string
	}

	// BlobPointer struct - where the relayed image lives on the blob host
	BlobPointer struct {
		MessageID int64
		FileID    string
	}

	// OpenedFolder struct - result of opening a folder
	OpenedFolder struct {
		Folder Folder
		Files  []File
	}
)
