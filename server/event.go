package server

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sarchlab/overlaynet/node"
	"github.com/sarchlab/overlaynet/web"
)

// ServerTypeServed reports an answered ServerTypeQuery.
type ServerTypeServed struct {
	ServerType web.ServerType
}

func (ServerTypeServed) Kind() string { return "server_type_served" }

func (e ServerTypeServed) String() string {
	return fmt.Sprintf("server type %s served", e.ServerType)
}

// ListServed reports an answered listing query.
type ListServed struct {
	Count int
}

func (ListServed) Kind() string { return "list_served" }

func (e ListServed) String() string {
	return fmt.Sprintf("list of %d files served", e.Count)
}

// FileServed reports a file sent to a client.
type FileServed struct {
	ID uuid.UUID
}

func (FileServed) Kind() string { return "file_served" }

func (e FileServed) String() string {
	return fmt.Sprintf("file %s served", e.ID)
}

// BadUUID reports a query with an unparsable ID.
type BadUUID struct {
	Raw string
}

func (BadUUID) Kind() string { return "bad_uuid" }

func (e BadUUID) String() string {
	return fmt.Sprintf("bad uuid %q", e.Raw)
}

// FileNotFound reports a query for an ID that is not stored.
type FileNotFound struct {
	ID uuid.UUID
}

func (FileNotFound) Kind() string { return "file_not_found" }

func (e FileNotFound) String() string {
	return fmt.Sprintf("file %s not found", e.ID)
}

// RequestUnsupported reports a request the personality does not serve.
type RequestUnsupported struct {
	Request string
}

func (RequestUnsupported) Kind() string { return "request_unsupported" }

func (e RequestUnsupported) String() string {
	return fmt.Sprintf("request %s unsupported", e.Request)
}

// FileAdded reports a file stored by a command. Replaced is set when a file
// with the same ID was already stored.
type FileAdded struct {
	ID       uuid.UUID
	Title    string
	Replaced bool
}

func (FileAdded) Kind() string { return "file_added" }

func (e FileAdded) String() string {
	return fmt.Sprintf("file %s (%s) added", e.ID, e.Title)
}

// FileRemoved reports a processed removal command.
type FileRemoved struct {
	ID    uuid.UUID
	Found bool
}

func (FileRemoved) Kind() string { return "file_removed" }

func (e FileRemoved) String() string {
	if !e.Found {
		return fmt.Sprintf("file %s not stored, nothing removed", e.ID)
	}

	return fmt.Sprintf("file %s removed", e.ID)
}

// FilesListed answers a listing command.
type FilesListed struct {
	Files []string
}

func (FilesListed) Kind() string { return "files_listed" }

func (e FilesListed) String() string {
	return fmt.Sprintf("%d files stored", len(e.Files))
}

// CommandUnsupported reports a command the personality does not know.
type CommandUnsupported struct {
	Command node.Command
}

func (CommandUnsupported) Kind() string { return "command_unsupported" }

func (e CommandUnsupported) String() string {
	return fmt.Sprintf("command %T unsupported", e.Command)
}

// Unsupported answers a command the personality does not know.
func Unsupported(cmd node.Command) []node.Outcome {
	return []node.Outcome{{Event: CommandUnsupported{Command: cmd}}}
}
