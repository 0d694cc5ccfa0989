package chat

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/overlaynet/network"
	"github.com/sarchlab/overlaynet/network/routing"
	"github.com/sarchlab/overlaynet/node"
	"github.com/sarchlab/overlaynet/server"
	"github.com/sarchlab/overlaynet/web"
)

var _ node.Handler = (*Handler)(nil)

func from(id network.NodeID, path ...network.NodeID) node.RequestContext {
	return node.RequestContext{Self: 9, From: id, SessionID: 1, ReplyPath: path}
}

var _ = Describe("Handler", func() {
	var handler *Handler

	BeforeEach(func() {
		handler = NewHandler()
	})

	It("should tell its type", func() {
		reply := handler.HandleRequest(ServerTypeQuery{}, from(1, 9, 1))

		Expect(reply.Response).To(Equal(ServerType{ServerType: web.ChatServer}))
		Expect(reply.Event).To(Equal(
			server.ServerTypeServed{ServerType: web.ChatServer}))
	})

	It("should register clients and list them", func() {
		handler.HandleRequest(RegistrationToChat{Name: "bob"}, from(2, 9, 2))
		reply := handler.HandleRequest(
			RegistrationToChat{Name: "alice"}, from(1, 9, 3, 1))

		Expect(reply.Response).To(Equal(RegistrationSuccess{}))
		Expect(reply.Event).To(Equal(ClientRegistered{
			ID: 1, Name: "alice", Path: []network.NodeID{9, 3, 1},
		}))

		reply = handler.HandleRequest(ClientListQuery{}, from(1, 9, 3, 1))
		Expect(reply.Response).To(Equal(ClientList{Clients: []Client{
			{ID: 1, Name: "alice"}, {ID: 2, Name: "bob"},
		}}))
	})

	It("should keep its own copy of the registration path", func() {
		ctx := from(1, 9, 3, 1)
		handler.HandleRequest(RegistrationToChat{Name: "alice"}, ctx)
		ctx.ReplyPath[1] = 7

		reply := handler.HandleRequest(
			MessageFor{ClientID: 1, Message: "me"}, from(1, 9, 3, 1))

		Expect(reply.Path).To(Equal([]network.NodeID{9, 3, 1}))
	})

	It("should relay along the target path", func() {
		handler.HandleRequest(RegistrationToChat{Name: "a"}, from(1, 9, 3, 1))
		handler.HandleRequest(RegistrationToChat{Name: "b"}, from(2, 9, 4, 2))

		reply := handler.HandleRequest(
			MessageFor{ClientID: 2, Message: "hi"}, from(1, 9, 3, 1))

		Expect(reply.Response).To(Equal(MessageFrom{From: 1, Message: "hi"}))
		Expect(reply.Path).To(Equal([]network.NodeID{9, 4, 2}))
		Expect(reply.Event).To(Equal(MessageForwarded{From: 1, To: 2}))
	})

	It("should refuse messages for unknown clients", func() {
		handler.HandleRequest(RegistrationToChat{Name: "a"}, from(1, 9, 1))

		reply := handler.HandleRequest(
			MessageFor{ClientID: 8, Message: "hi"}, from(1, 9, 1))

		Expect(reply.Response).To(Equal(ErrorWrongClientID{ID: 8}))
		Expect(reply.Path).To(BeNil())
	})

	It("should refuse messages from unregistered clients", func() {
		reply := handler.HandleRequest(
			MessageFor{ClientID: 1, Message: "hi"}, from(1, 9, 1))

		Expect(reply.Response).To(Equal(ErrorNotRegistered{}))
		Expect(reply.Event).To(Equal(NotRegistered{ID: 1, Request: "MessageFor"}))
	})

	It("should unregister clients", func() {
		handler.HandleRequest(RegistrationToChat{Name: "a"}, from(1, 9, 1))

		reply := handler.HandleRequest(Unregister{}, from(1, 9, 1))
		Expect(reply.Response).To(Equal(UnregisterSuccess{}))
		Expect(handler.NumClients()).To(Equal(0))

		reply = handler.HandleRequest(Unregister{}, from(1, 9, 1))
		Expect(reply.Response).To(Equal(ErrorNotRegistered{}))
	})

	It("should kick a client and notify it", func() {
		handler.HandleRequest(RegistrationToChat{Name: "a"}, from(1, 9, 3, 1))

		out := handler.HandleCommand(KickClient{ID: 1})

		Expect(out).To(HaveLen(1))
		Expect(out[0].Event).To(Equal(ClientKicked{ID: 1, Found: true}))
		Expect(out[0].Outbound.Path).To(Equal([]network.NodeID{9, 3, 1}))
		Expect(out[0].Outbound.SessionID).To(BeNumerically(">=", noticeSessionBase))

		rsp, err := Responses.Decode(out[0].Outbound.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(rsp).To(Equal(UnregisterSuccess{}))

		out = handler.HandleCommand(KickClient{ID: 1})
		Expect(out).To(Equal([]node.Outcome{{Event: ClientKicked{ID: 1}}}))
	})

	It("should list clients by command", func() {
		handler.HandleRequest(RegistrationToChat{Name: "a"}, from(1, 9, 1))

		out := handler.HandleCommand(ListClients{})

		Expect(out[0].Event).To(Equal(ClientsListed{
			Clients: []Client{{ID: 1, Name: "a"}},
		}))
		Expect(handler.HandleCommand(struct{}{})[0].Event.Kind()).
			To(Equal("command_unsupported"))
	})

	It("should decode what it encodes", func() {
		responses := []Response{
			ServerType{ServerType: web.ChatServer},
			RegistrationSuccess{},
			ClientList{Clients: []Client{{ID: 4, Name: "x"}}},
			MessageFrom{From: 3, Message: "hi"},
			ErrorWrongClientID{ID: 7},
			ErrorNotRegistered{},
			UnregisterSuccess{},
			InvalidRequest{Reason: "bad"},
		}

		for _, rsp := range responses {
			decoded, err := Responses.Decode(handler.Encode(rsp))
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded).To(Equal(rsp))
		}
	})
})

var _ = Describe("Chat relay", func() {
	var (
		toA, toB *network.Link
		comp     *node.Comp
		clients  *routing.Handler
	)

	BeforeEach(func() {
		toA = network.NewLink("ToDroneA", 16)
		toB = network.NewLink("ToDroneB", 16)
		clients = routing.NewHandler(0)

		comp = node.MakeBuilder().
			WithID(9).
			WithHandler(NewHandler()).
			WithCommandSource(make(chan node.Command)).
			WithPacketSource(make(chan network.Packet)).
			WithNeighbors(map[network.NodeID]network.Channel{3: toA, 4: toB}).
			Build("ChatServer")
	})

	send := func(req Request, session uint64, path ...network.NodeID) {
		b, err := Requests.Encode(req)
		Expect(err).NotTo(HaveOccurred())

		for _, p := range clients.BuildFragments(b, session, path) {
			comp.HandlePacket(p)
		}
	}

	receive := func(link *network.Link) (network.Packet, Response) {
		Expect(link.Size()).To(Equal(1))

		p := <-link.Incoming()
		rsp, err := Responses.Decode(p.Body)
		Expect(err).NotTo(HaveOccurred())

		return p, rsp
	}

	BeforeEach(func() {
		send(RegistrationToChat{Name: "A"}, 1, 1, 3, 9)
		send(RegistrationToChat{Name: "B"}, 1, 2, 4, 9)

		_, rsp := receive(toA)
		Expect(rsp).To(Equal(RegistrationSuccess{}))
		_, rsp = receive(toB)
		Expect(rsp).To(Equal(RegistrationSuccess{}))
	})

	It("should deliver a message along the path of the target", func() {
		send(MessageFor{ClientID: 2, Message: "hi"}, 2, 1, 3, 9)

		Expect(toA.Size()).To(Equal(0))
		p, rsp := receive(toB)
		Expect(p.Path).To(Equal([]network.NodeID{9, 4, 2}))
		Expect(rsp).To(Equal(MessageFrom{From: 1, Message: "hi"}))
	})

	It("should relay a retransmitted message only once", func() {
		send(MessageFor{ClientID: 2, Message: "hi"}, 2, 1, 3, 9)
		send(MessageFor{ClientID: 2, Message: "hi"}, 2, 1, 3, 9)

		Expect(toA.Size()).To(Equal(0))
		_, rsp := receive(toB)
		Expect(rsp).To(Equal(MessageFrom{From: 1, Message: "hi"}))
	})

	It("should answer the sender when the target is unknown", func() {
		send(MessageFor{ClientID: 6, Message: "hi"}, 3, 1, 3, 9)

		Expect(toB.Size()).To(Equal(0))
		p, rsp := receive(toA)
		Expect(p.Path).To(Equal([]network.NodeID{9, 3, 1}))
		Expect(p.SessionID).To(Equal(uint64(3)))
		Expect(rsp).To(Equal(ErrorWrongClientID{ID: 6}))
	})

	It("should notify a kicked client", func() {
		comp.HandleCommand(KickClient{ID: 2})

		_, rsp := receive(toB)
		Expect(rsp).To(Equal(UnregisterSuccess{}))

		send(MessageFor{ClientID: 2, Message: "hi"}, 4, 1, 3, 9)
		_, rsp = receive(toA)
		Expect(rsp).To(Equal(ErrorWrongClientID{ID: 2}))
	})
})
