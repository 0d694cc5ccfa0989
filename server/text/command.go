package text

import (
	"github.com/google/uuid"
	"github.com/sarchlab/overlaynet/web"
)

// AddTextFile stores a document, replacing any document with the same ID.
type AddTextFile struct {
	File web.TextFile
}

// RemoveTextFile drops a document.
type RemoveTextFile struct {
	ID uuid.UUID
}

// ListTextFiles reports the stored documents.
type ListTextFiles struct{}
