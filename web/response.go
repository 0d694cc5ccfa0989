package web

import "github.com/google/uuid"

// A Response is what a catalog answers.
type Response interface {
	Typed
	isResponse()
}

// ServerTypeResponse answers a ServerTypeQuery.
type ServerTypeResponse struct {
	ServerType ServerType `json:"server_type"`
}

// TextFilesList answers a TextFilesListQuery. Each entry is formatted by
// ListEntry.
type TextFilesList struct {
	Files []string `json:"files"`
}

// TextFileResponse carries one document serialized by TextFile.Marshal.
type TextFileResponse struct {
	FileData []byte `json:"file_data"`
}

// MediaFileFound answers a MediaQuery for a stored file.
type MediaFileFound struct {
	Media MediaFile `json:"media"`
}

// MediaList answers a MediaListQuery. Each entry is formatted by ListEntry.
type MediaList struct {
	Files []string `json:"files"`
}

// ErrorFileNotFound reports a well-formed ID that is not stored.
type ErrorFileNotFound struct {
	ID uuid.UUID `json:"id"`
}

// ErrorBadUUID reports an ID that cannot be parsed.
type ErrorBadUUID struct {
	Raw string `json:"raw"`
}

// ErrorUnsupportedRequest reports a request the server does not serve.
type ErrorUnsupportedRequest struct {
	Request string `json:"request"`
}

// InvalidRequest reports a message that could not be decoded.
type InvalidRequest struct {
	Reason string `json:"reason"`
}

func (ServerTypeResponse) TypeName() string      { return "ServerType" }
func (TextFilesList) TypeName() string           { return "TextFilesList" }
func (TextFileResponse) TypeName() string        { return "TextFile" }
func (MediaFileFound) TypeName() string          { return "MediaFileFound" }
func (MediaList) TypeName() string               { return "MediaList" }
func (ErrorFileNotFound) TypeName() string       { return "ErrorFileNotFound" }
func (ErrorBadUUID) TypeName() string            { return "ErrorBadUUID" }
func (ErrorUnsupportedRequest) TypeName() string { return "ErrorUnsupportedRequest" }
func (InvalidRequest) TypeName() string          { return "InvalidRequest" }

func (ServerTypeResponse) isResponse()      {}
func (TextFilesList) isResponse()           {}
func (TextFileResponse) isResponse()        {}
func (MediaFileFound) isResponse()          {}
func (MediaList) isResponse()               {}
func (ErrorFileNotFound) isResponse()       {}
func (ErrorBadUUID) isResponse()            {}
func (ErrorUnsupportedRequest) isResponse() {}
func (InvalidRequest) isResponse()          {}

// Responses is the codec of every catalog response.
var Responses = newResponseCodec()

func newResponseCodec() *Codec[Response] {
	c := NewCodec[Response]("response")
	Register[ServerTypeResponse](c)
	Register[TextFilesList](c)
	Register[TextFileResponse](c)
	Register[MediaFileFound](c)
	Register[MediaList](c)
	Register[ErrorFileNotFound](c)
	Register[ErrorBadUUID](c)
	Register[ErrorUnsupportedRequest](c)
	Register[InvalidRequest](c)

	return c
}

// EncodeResponse serializes a response. It never fails: a response that
// cannot be encoded is replaced by an InvalidRequest naming the problem.
func EncodeResponse(rsp Response) []byte {
	b, err := Responses.Encode(rsp)
	if err == nil {
		return b
	}

	b, _ = Responses.Encode(InvalidRequest{Reason: err.Error()})

	return b
}
