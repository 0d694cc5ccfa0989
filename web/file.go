package web

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ServerType names a personality.
type ServerType string

// The personalities of the network.
const (
	MediaServer ServerType = "MediaServer"
	TextServer  ServerType = "TextServer"
	ChatServer  ServerType = "ChatServer"
)

// TextFile is a document served by a text catalog. MediaRefs name the media
// files the document embeds.
type TextFile struct {
	ID        uuid.UUID   `json:"id"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	MediaRefs []uuid.UUID `json:"media_refs,omitempty"`
}

// NewTextFile creates a text file with a fresh ID.
func NewTextFile(title, content string, mediaRefs ...uuid.UUID) TextFile {
	return TextFile{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		MediaRefs: mediaRefs,
	}
}

// Marshal serializes the text file the way it travels inside a
// TextFileResponse.
func (f TextFile) Marshal() []byte {
	b, err := json.Marshal(f)
	if err != nil {
		panic(err)
	}

	return b
}

// UnmarshalTextFile parses the data of a TextFileResponse.
func UnmarshalTextFile(b []byte) (TextFile, error) {
	var f TextFile

	err := json.Unmarshal(b, &f)
	if err != nil {
		return f, fmt.Errorf("%w: text file: %w", ErrMalformed, err)
	}

	return f, nil
}

// MediaFile is a binary file served by a media catalog.
type MediaFile struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Content []byte    `json:"content"`
}

// NewMediaFile creates a media file with a fresh ID.
func NewMediaFile(title string, content []byte) MediaFile {
	return MediaFile{ID: uuid.New(), Title: title, Content: content}
}

// ListEntry formats one line of a file listing.
func ListEntry(id uuid.UUID, title string) string {
	return id.String() + ":" + title
}

// ParseListEntry splits a line of a file listing. Titles may contain colons;
// IDs never do.
func ParseListEntry(entry string) (uuid.UUID, string, error) {
	raw, title, found := strings.Cut(entry, ":")
	if !found {
		return uuid.Nil, "", fmt.Errorf("%w: list entry %q", ErrMalformed, entry)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: list entry %q: %w",
			ErrMalformed, entry, err)
	}

	return id, title, nil
}
