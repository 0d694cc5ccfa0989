package web

// A Request is a query a client sends to a catalog.
type Request interface {
	Typed
	isRequest()
}

// ServerTypeQuery asks a node for its personality.
type ServerTypeQuery struct{}

// TextFilesListQuery asks a text catalog for its listing.
type TextFilesListQuery struct{}

// FileQuery asks a text catalog for one document. FileID is the textual
// form of the ID; it is parsed by the server.
type FileQuery struct {
	FileID string `json:"file_id"`
}

// MediaQuery asks a media catalog for one file.
type MediaQuery struct {
	MediaID string `json:"media_id"`
}

// MediaListQuery asks a media catalog for its listing.
type MediaListQuery struct{}

func (ServerTypeQuery) TypeName() string    { return "ServerTypeQuery" }
func (TextFilesListQuery) TypeName() string { return "TextFilesListQuery" }
func (FileQuery) TypeName() string          { return "FileQuery" }
func (MediaQuery) TypeName() string         { return "MediaQuery" }
func (MediaListQuery) TypeName() string     { return "MediaListQuery" }

func (ServerTypeQuery) isRequest()    {}
func (TextFilesListQuery) isRequest() {}
func (FileQuery) isRequest()          {}
func (MediaQuery) isRequest()         {}
func (MediaListQuery) isRequest()     {}

// Requests is the codec of every catalog request.
var Requests = newRequestCodec()

func newRequestCodec() *Codec[Request] {
	c := NewCodec[Request]("request")
	Register[ServerTypeQuery](c)
	Register[TextFilesListQuery](c)
	Register[FileQuery](c)
	Register[MediaQuery](c)
	Register[MediaListQuery](c)

	return c
}
