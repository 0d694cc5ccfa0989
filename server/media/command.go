package media

import (
	"github.com/google/uuid"
	"github.com/sarchlab/overlaynet/web"
)

// AddMediaFile stores a file, replacing any file with the same ID.
type AddMediaFile struct {
	File web.MediaFile
}

// RemoveMediaFile drops a file.
type RemoveMediaFile struct {
	ID uuid.UUID
}

// ListMediaFiles reports the stored files.
type ListMediaFiles struct{}
