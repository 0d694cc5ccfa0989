package network

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Packet", func() {
	It("should copy path and body when building", func() {
		path := []NodeID{1, 2, 3}
		body := []byte("abc")

		p := PacketBuilder{}.
			WithPath(path).
			WithSessionID(7).
			WithFragmentIndex(1).
			WithFragmentTotal(2).
			WithBody(body).
			Build()

		path[0] = 9
		body[0] = 'z'

		Expect(p.Path).To(Equal([]NodeID{1, 2, 3}))
		Expect(p.Body).To(Equal([]byte("abc")))
		Expect(p.SessionID).To(Equal(uint64(7)))
		Expect(p.FragmentIndex).To(Equal(uint64(1)))
		Expect(p.FragmentTotal).To(Equal(uint64(2)))
	})

	It("should panic if the body is larger than a fragment", func() {
		Expect(func() {
			PacketBuilder{}.WithBody(make([]byte, FragmentSize+1)).Build()
		}).To(Panic())
	})

	It("should report source and destination", func() {
		p := PacketBuilder{}.WithPath([]NodeID{4, 5, 6}).Build()

		src, ok := p.Src()
		Expect(ok).To(BeTrue())
		Expect(src).To(Equal(NodeID(4)))

		dst, ok := p.Dst()
		Expect(ok).To(BeTrue())
		Expect(dst).To(Equal(NodeID(6)))

		_, ok = Packet{}.Src()
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("Path", func() {
	path := []NodeID{10, 20, 30, 40}

	It("should find the next hop", func() {
		next, ok := NextHop(path, 20)
		Expect(ok).To(BeTrue())
		Expect(next).To(Equal(NodeID(30)))
	})

	It("should find repeated hops", func() {
		_, repeated := RepeatedHop(path)
		Expect(repeated).To(BeFalse())

		hop, repeated := RepeatedHop([]NodeID{1, 2, 3, 2, 1})
		Expect(repeated).To(BeTrue())
		Expect(hop).To(Equal(NodeID(2)))
	})

	It("should not find a next hop at the end of the path", func() {
		_, ok := NextHop(path, 40)
		Expect(ok).To(BeFalse())
	})

	It("should not find a next hop off the path", func() {
		_, ok := NextHop(path, 99)
		Expect(ok).To(BeFalse())
	})

	It("should reverse the traversed part of the path", func() {
		Expect(ReversePath(path, 30)).To(Equal([]NodeID{30, 20, 10}))
		Expect(ReversePath(path, 10)).To(Equal([]NodeID{10}))
		Expect(ReversePath(path, 99)).To(BeNil())
	})
})

var _ = Describe("Link", func() {
	var link *Link

	BeforeEach(func() {
		link = NewLink("Link", 2)
	})

	It("should deliver packets in order", func() {
		Expect(link.TrySend(Packet{Header: Header{SessionID: 1}})).To(Succeed())
		Expect(link.TrySend(Packet{Header: Header{SessionID: 2}})).To(Succeed())
		Expect(link.Size()).To(Equal(2))

		Expect((<-link.Incoming()).SessionID).To(Equal(uint64(1)))
		Expect((<-link.Incoming()).SessionID).To(Equal(uint64(2)))
	})

	It("should fail without blocking when full", func() {
		Expect(link.TrySend(Packet{})).To(Succeed())
		Expect(link.TrySend(Packet{})).To(Succeed())

		err := link.TrySend(Packet{})
		Expect(err).To(MatchError(ErrChannelFull))
	})

	It("should fail after being closed", func() {
		link.Close()
		link.Close()

		err := link.TrySend(Packet{})
		Expect(err).To(MatchError(ErrChannelClosed))
	})

	It("should not alias the sender's packet", func() {
		p := Packet{Body: []byte("x")}
		Expect(link.TrySend(p)).To(Succeed())
		p.Body[0] = 'y'

		Expect((<-link.Incoming()).Body).To(Equal([]byte("x")))
	})

	It("should reject a non-positive capacity", func() {
		Expect(func() { NewLink("Bad", 0) }).To(Panic())
	})
})
