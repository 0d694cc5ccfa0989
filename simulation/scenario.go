package simulation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sarchlab/overlaynet/monitoring"
	"github.com/sarchlab/overlaynet/network"
	"github.com/sarchlab/overlaynet/server/chat"
	"github.com/sarchlab/overlaynet/web"
)

// Exchange is one request of a scenario and what came back.
type Exchange struct {
	Client   network.NodeID
	Server   network.NodeID
	Path     []network.NodeID
	Request  string
	Response string
	Err      error
}

func (e Exchange) String() string {
	if e.Err != nil {
		return fmt.Sprintf("%d -> %d %s: error: %v",
			e.Client, e.Server, e.Request, e.Err)
	}

	return fmt.Sprintf("%d -> %d %s: %s", e.Client, e.Server, e.Request, e.Response)
}

// Ask sends a request from a client to a server along a shortest path and
// waits for the next message the client receives.
func (s *Simulation) Ask(
	ctx context.Context,
	client, server network.NodeID,
	payload []byte,
) (Message, []network.NodeID, error) {
	c, found := s.clients[client]
	if !found {
		return Message{}, nil, fmt.Errorf("%w: client %d", ErrUnknownNode, client)
	}

	path, found := s.Path(client, server)
	if !found {
		return Message{}, nil, fmt.Errorf("%w: no path from %d to %d",
			ErrUnknownNode, client, server)
	}

	if _, err := c.Request(payload, path); err != nil {
		return Message{}, path, err
	}

	msg, err := c.Receive(ctx)

	return msg, path, err
}

// Scenario runs a scripted exchange between every client and every server.
type Scenario struct {
	Timeout  time.Duration
	Progress *monitoring.ProgressBar
}

// Run executes the scenario:
//   - every client asks every server for its type;
//   - every client lists every catalog and fetches the first entry;
//   - every client registers with every chat server, then each client sends
//     a greeting to the next one.
func (sc Scenario) Run(ctx context.Context, s *Simulation) []Exchange {
	var out []Exchange

	clients := s.sortedClients()

	for _, c := range clients {
		for _, comp := range s.Nodes() {
			out = append(out,
				sc.queryCatalog(ctx, s, c, comp.ID(), comp.ServerType())...)
		}
	}

	for _, comp := range s.Nodes() {
		if comp.ServerType() == string(web.ChatServer) {
			out = append(out, sc.chat(ctx, s, clients, comp.ID())...)
		}
	}

	return out
}

func (sc Scenario) queryCatalog(
	ctx context.Context,
	s *Simulation,
	client, server network.NodeID,
	serverType string,
) []Exchange {
	switch web.ServerType(serverType) {
	case web.ChatServer:
		e, _ := sc.ask(ctx, s, client, server, chat.ServerTypeQuery{})
		return []Exchange{e}
	case web.TextServer:
		typ, _ := sc.ask(ctx, s, client, server, web.ServerTypeQuery{})
		e, rsp := sc.ask(ctx, s, client, server, web.TextFilesListQuery{})
		out := []Exchange{typ, e}

		if id, ok := firstEntry(rsp); ok {
			e, _ = sc.ask(ctx, s, client, server, web.FileQuery{FileID: id})
			out = append(out, e)
		}

		return out
	case web.MediaServer:
		typ, _ := sc.ask(ctx, s, client, server, web.ServerTypeQuery{})
		e, rsp := sc.ask(ctx, s, client, server, web.MediaListQuery{})
		out := []Exchange{typ, e}

		if id, ok := firstEntry(rsp); ok {
			e, _ = sc.ask(ctx, s, client, server, web.MediaQuery{MediaID: id})
			out = append(out, e)
		}

		return out
	default:
		return nil
	}
}

func firstEntry(rsp any) (string, bool) {
	var files []string

	switch rsp := rsp.(type) {
	case web.TextFilesList:
		files = rsp.Files
	case web.MediaList:
		files = rsp.Files
	}

	if len(files) == 0 {
		return "", false
	}

	id, _, err := web.ParseListEntry(files[0])
	if err != nil {
		return "", false
	}

	return id.String(), true
}

func (sc Scenario) chat(
	ctx context.Context,
	s *Simulation,
	clients []network.NodeID,
	server network.NodeID,
) []Exchange {
	var (
		out        []Exchange
		registered []network.NodeID
	)

	for _, c := range clients {
		e, rsp := sc.ask(ctx, s, c, server, chat.RegistrationToChat{
			Name: s.clients[c].Name(),
		})
		out = append(out, e)

		if _, ok := rsp.(chat.RegistrationSuccess); ok {
			registered = append(registered, c)
		}
	}

	if len(registered) < 2 {
		return out
	}

	for i, from := range registered {
		to := registered[(i+1)%len(registered)]
		out = append(out, sc.deliver(ctx, s, from, to, server))
	}

	return out
}

// deliver sends a MessageFor and waits for the target to receive it.
func (sc Scenario) deliver(
	ctx context.Context,
	s *Simulation,
	from, to, server network.NodeID,
) Exchange {
	req := chat.MessageFor{ClientID: to, Message: fmt.Sprintf("hello from %d", from)}
	e := Exchange{Client: from, Server: server, Request: describe(req)}

	sc.started()
	defer func() { sc.finished(e.Err) }()

	payload, err := chat.Requests.Encode(req)
	if err != nil {
		e.Err = err
		return e
	}

	path, found := s.Path(from, server)
	if !found {
		e.Err = fmt.Errorf("%w: no path from %d to %d", ErrUnknownNode, from, server)
		return e
	}

	e.Path = path

	if _, err := s.clients[from].Request(payload, path); err != nil {
		e.Err = err
		return e
	}

	ctx, cancel := sc.withTimeout(ctx)
	defer cancel()

	msg, err := s.clients[to].Receive(ctx)
	if err != nil {
		e.Err = err
		return e
	}

	rsp, err := chat.Responses.Decode(msg.Payload)
	if err != nil {
		e.Err = err
		return e
	}

	e.Response = fmt.Sprintf("%s received by %d", describe(rsp), to)

	return e
}

// ask sends one request and decodes the answer with the codec matching the
// request family.
func (sc Scenario) ask(
	ctx context.Context,
	s *Simulation,
	client, server network.NodeID,
	req web.Typed,
) (Exchange, any) {
	e := Exchange{Client: client, Server: server, Request: describe(req)}

	sc.started()
	defer func() { sc.finished(e.Err) }()

	var (
		payload []byte
		err     error
	)

	chatReq, isChat := req.(chat.Request)
	if isChat {
		payload, err = chat.Requests.Encode(chatReq)
	} else if webReq, ok := req.(web.Request); ok {
		payload, err = web.Requests.Encode(webReq)
	} else {
		err = fmt.Errorf("%T is not a request", req)
	}

	if err != nil {
		e.Err = err
		return e, nil
	}

	ctx, cancel := sc.withTimeout(ctx)
	defer cancel()

	msg, path, err := s.Ask(ctx, client, server, payload)
	e.Path = path

	if err != nil {
		e.Err = err
		return e, nil
	}

	var rsp any
	if isChat {
		rsp, err = chat.Responses.Decode(msg.Payload)
	} else {
		rsp, err = web.Responses.Decode(msg.Payload)
	}

	if err != nil {
		e.Err = err
		return e, nil
	}

	e.Response = describe(rsp)

	return e, rsp
}

func describe(v any) string {
	switch v := v.(type) {
	case web.MediaFileFound:
		return fmt.Sprintf("MediaFileFound{%s %q, %d bytes}",
			v.Media.ID, v.Media.Title, len(v.Media.Content))
	case web.TextFileResponse:
		f, err := web.UnmarshalTextFile(v.FileData)
		if err != nil {
			return "TextFile{unreadable}"
		}

		return fmt.Sprintf("TextFile{%s %q}", f.ID, f.Title)
	case web.Typed:
		return fmt.Sprintf("%s%+v", v.TypeName(), v)
	default:
		return fmt.Sprintf("%T%+v", v, v)
	}
}

func (sc Scenario) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if sc.Timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, sc.Timeout)
}

func (sc Scenario) started() {
	if sc.Progress != nil {
		sc.Progress.Start()
	}
}

func (sc Scenario) finished(err error) {
	if sc.Progress != nil {
		sc.Progress.Finish(err == nil)
	}
}

func (s *Simulation) sortedClients() []network.NodeID {
	ids := make([]network.NodeID, 0, len(s.clients))
	for id := range s.clients {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
