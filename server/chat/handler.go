package chat

import (
	"fmt"
	"sort"

	"github.com/sarchlab/overlaynet/network"
	"github.com/sarchlab/overlaynet/node"
	"github.com/sarchlab/overlaynet/server"
	"github.com/sarchlab/overlaynet/web"
)

// noticeSessionBase is the first session ID of the notices the relay sends on
// its own. It stays clear of requester sessions and of node-allocated ones.
const noticeSessionBase = uint64(1) << 62

type client struct {
	name string

	// path leads from the relay to the client. It is the request path of the
	// registration, reversed.
	path []network.NodeID
}

// Handler relays messages between registered clients.
type Handler struct {
	clients    map[network.NodeID]client
	nextNotice uint64
}

// NewHandler creates a relay without clients.
func NewHandler() *Handler {
	return &Handler{clients: make(map[network.NodeID]client)}
}

// ServerType returns ChatServer.
func (h *Handler) ServerType() string {
	return string(web.ChatServer)
}

// NumClients returns the number of registered clients.
func (h *Handler) NumClients() int {
	return len(h.clients)
}

// Decode parses a chat request.
func (h *Handler) Decode(payload []byte) (node.Request, error) {
	return Requests.Decode(payload)
}

// Encode serializes a chat response. Values that are not chat responses are
// reported as invalid.
func (h *Handler) Encode(rsp node.Response) []byte {
	r, ok := rsp.(Response)
	if !ok {
		r = InvalidRequest{Reason: fmt.Sprintf("cannot encode %T", rsp)}
	}

	b, err := Responses.Encode(r)
	if err != nil {
		b, _ = Responses.Encode(InvalidRequest{Reason: err.Error()})
	}

	return b
}

// InvalidRequest builds the answer to an undecodable message.
func (h *Handler) InvalidRequest(reason string) node.Response {
	return InvalidRequest{Reason: reason}
}

// HandleRequest serves one chat request.
func (h *Handler) HandleRequest(
	req node.Request,
	ctx node.RequestContext,
) node.Reply {
	switch req := req.(type) {
	case ServerTypeQuery:
		return node.Reply{
			Response: ServerType{ServerType: web.ChatServer},
			Event:    server.ServerTypeServed{ServerType: web.ChatServer},
		}
	case RegistrationToChat:
		return h.register(req, ctx)
	case ClientListQuery:
		list := h.list()
		return node.Reply{
			Response: ClientList{Clients: list},
			Event:    ClientListServed{Count: len(list)},
		}
	case MessageFor:
		return h.relay(req, ctx)
	case Unregister:
		return h.unregister(ctx)
	default:
		return node.Reply{
			Response: InvalidRequest{Reason: fmt.Sprintf("%T is not a chat request", req)},
		}
	}
}

func (h *Handler) register(
	req RegistrationToChat,
	ctx node.RequestContext,
) node.Reply {
	_, rejoined := h.clients[ctx.From]
	path := append([]network.NodeID(nil), ctx.ReplyPath...)
	h.clients[ctx.From] = client{name: req.Name, path: path}

	return node.Reply{
		Response: RegistrationSuccess{},
		Event: ClientRegistered{
			ID:       ctx.From,
			Name:     req.Name,
			Path:     path,
			Rejoined: rejoined,
		},
	}
}

func (h *Handler) relay(req MessageFor, ctx node.RequestContext) node.Reply {
	if _, registered := h.clients[ctx.From]; !registered {
		return notRegistered(req, ctx)
	}

	target, found := h.clients[req.ClientID]
	if !found {
		return node.Reply{
			Response: ErrorWrongClientID{ID: req.ClientID},
			Event:    WrongClientID{From: ctx.From, To: req.ClientID},
		}
	}

	return node.Reply{
		Response: MessageFrom{From: ctx.From, Message: req.Message},
		Event:    MessageForwarded{From: ctx.From, To: req.ClientID},
		Path:     target.path,
	}
}

func (h *Handler) unregister(ctx node.RequestContext) node.Reply {
	if _, registered := h.clients[ctx.From]; !registered {
		return notRegistered(Unregister{}, ctx)
	}

	delete(h.clients, ctx.From)

	return node.Reply{
		Response: UnregisterSuccess{},
		Event:    ClientUnregistered{ID: ctx.From},
	}
}

func notRegistered(req Request, ctx node.RequestContext) node.Reply {
	return node.Reply{
		Response: ErrorNotRegistered{},
		Event:    NotRegistered{ID: ctx.From, Request: req.TypeName()},
	}
}

// HandleCommand serves the relay commands.
func (h *Handler) HandleCommand(cmd node.Command) []node.Outcome {
	switch cmd := cmd.(type) {
	case ListClients:
		return []node.Outcome{{Event: ClientsListed{Clients: h.list()}}}
	case KickClient:
		return h.kick(cmd.ID)
	default:
		return server.Unsupported(cmd)
	}
}

func (h *Handler) kick(id network.NodeID) []node.Outcome {
	c, found := h.clients[id]
	if !found {
		return []node.Outcome{{Event: ClientKicked{ID: id}}}
	}

	delete(h.clients, id)

	notice := network.PacketBuilder{}.
		WithPath(c.path).
		WithSessionID(noticeSessionBase | h.nextNotice).
		WithFragmentTotal(1).
		WithBody(h.Encode(UnregisterSuccess{})).
		Build()
	h.nextNotice++

	return []node.Outcome{{
		Event:    ClientKicked{ID: id, Found: true},
		Outbound: &notice,
	}}
}

func (h *Handler) list() []Client {
	list := make([]Client, 0, len(h.clients))
	for id, c := range h.clients {
		list = append(list, Client{ID: id, Name: c.name})
	}

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	return list
}
