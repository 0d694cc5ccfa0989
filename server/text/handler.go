package text

import (
	"sort"

	"github.com/google/uuid"
	"github.com/sarchlab/overlaynet/node"
	"github.com/sarchlab/overlaynet/server"
	"github.com/sarchlab/overlaynet/web"
)

// Handler serves text documents. Media references inside documents are
// served by media catalogs, never by this handler.
type Handler struct {
	server.WebCodec

	files map[uuid.UUID]web.TextFile
}

// NewHandler creates a text catalog holding the given documents.
func NewHandler(files ...web.TextFile) *Handler {
	h := &Handler{files: make(map[uuid.UUID]web.TextFile)}
	for _, f := range files {
		h.files[f.ID] = f
	}

	return h
}

// ServerType returns TextServer.
func (h *Handler) ServerType() string {
	return string(web.TextServer)
}

// NumFiles returns the number of stored documents.
func (h *Handler) NumFiles() int {
	return len(h.files)
}

// HandleRequest serves one web request.
func (h *Handler) HandleRequest(
	req node.Request,
	_ node.RequestContext,
) node.Reply {
	switch req := req.(type) {
	case web.ServerTypeQuery:
		return node.Reply{
			Response: web.ServerTypeResponse{ServerType: web.TextServer},
			Event:    server.ServerTypeServed{ServerType: web.TextServer},
		}
	case web.TextFilesListQuery:
		list := h.list()
		return node.Reply{
			Response: web.TextFilesList{Files: list},
			Event:    server.ListServed{Count: len(list)},
		}
	case web.FileQuery:
		return h.serve(req.FileID)
	case web.Request:
		return node.Reply{
			Response: web.ErrorUnsupportedRequest{Request: req.TypeName()},
			Event:    server.RequestUnsupported{Request: req.TypeName()},
		}
	default:
		return node.Reply{
			Response: web.InvalidRequest{Reason: "not a web request"},
		}
	}
}

func (h *Handler) serve(raw string) node.Reply {
	id, err := uuid.Parse(raw)
	if err != nil {
		return node.Reply{
			Response: web.ErrorBadUUID{Raw: raw},
			Event:    server.BadUUID{Raw: raw},
		}
	}

	f, found := h.files[id]
	if !found {
		return node.Reply{
			Response: web.ErrorFileNotFound{ID: id},
			Event:    server.FileNotFound{ID: id},
		}
	}

	return node.Reply{
		Response: web.TextFileResponse{FileData: f.Marshal()},
		Event:    server.FileServed{ID: id},
	}
}

// HandleCommand serves the catalog commands.
func (h *Handler) HandleCommand(cmd node.Command) []node.Outcome {
	switch cmd := cmd.(type) {
	case AddTextFile:
		_, replaced := h.files[cmd.File.ID]
		h.files[cmd.File.ID] = cmd.File

		return []node.Outcome{{Event: server.FileAdded{
			ID:       cmd.File.ID,
			Title:    cmd.File.Title,
			Replaced: replaced,
		}}}
	case RemoveTextFile:
		_, found := h.files[cmd.ID]
		delete(h.files, cmd.ID)

		return []node.Outcome{{Event: server.FileRemoved{ID: cmd.ID, Found: found}}}
	case ListTextFiles:
		return []node.Outcome{{Event: server.FilesListed{Files: h.list()}}}
	default:
		return server.Unsupported(cmd)
	}
}

func (h *Handler) list() []string {
	list := make([]string, 0, len(h.files))
	for id, f := range h.files {
		list = append(list, web.ListEntry(id, f.Title))
	}

	sort.Strings(list)

	return list
}
