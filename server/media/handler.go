package media

import (
	"sort"

	"github.com/google/uuid"
	"github.com/sarchlab/overlaynet/node"
	"github.com/sarchlab/overlaynet/server"
	"github.com/sarchlab/overlaynet/web"
)

// Handler serves media files.
type Handler struct {
	server.WebCodec

	files map[uuid.UUID]web.MediaFile
}

// NewHandler creates a media catalog holding the given files.
func NewHandler(files ...web.MediaFile) *Handler {
	h := &Handler{files: make(map[uuid.UUID]web.MediaFile)}
	for _, f := range files {
		h.files[f.ID] = f
	}

	return h
}

// ServerType returns MediaServer.
func (h *Handler) ServerType() string {
	return string(web.MediaServer)
}

// NumFiles returns the number of stored files.
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
			Response: web.ServerTypeResponse{ServerType: web.MediaServer},
			Event:    server.ServerTypeServed{ServerType: web.MediaServer},
		}
	case web.MediaListQuery:
		list := h.list()
		return node.Reply{
			Response: web.MediaList{Files: list},
			Event:    server.ListServed{Count: len(list)},
		}
	case web.MediaQuery:
		return h.serve(req.MediaID)
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
		Response: web.MediaFileFound{Media: f},
		Event:    server.FileServed{ID: id},
	}
}

// HandleCommand serves the catalog commands.
func (h *Handler) HandleCommand(cmd node.Command) []node.Outcome {
	switch cmd := cmd.(type) {
	case AddMediaFile:
		_, replaced := h.files[cmd.File.ID]
		h.files[cmd.File.ID] = cmd.File

		return []node.Outcome{{Event: server.FileAdded{
			ID:       cmd.File.ID,
			Title:    cmd.File.Title,
			Replaced: replaced,
		}}}
	case RemoveMediaFile:
		_, found := h.files[cmd.ID]
		delete(h.files, cmd.ID)

		return []node.Outcome{{Event: server.FileRemoved{ID: cmd.ID, Found: found}}}
	case ListMediaFiles:
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
