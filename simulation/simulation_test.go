package simulation

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/overlaynet/config"
	"github.com/sarchlab/overlaynet/datarecording"
	"github.com/sarchlab/overlaynet/monitoring"
	"github.com/sarchlab/overlaynet/network"
	"github.com/sarchlab/overlaynet/node"
	"github.com/sarchlab/overlaynet/server/chat"
	"github.com/sarchlab/overlaynet/server/media"
	"github.com/sarchlab/overlaynet/server/text"
	"github.com/sarchlab/overlaynet/web"
)

var _ = Describe("Simulation", func() {
	var (
		s   *Simulation
		ctx context.Context
	)

	receive := func(c *Client) Message {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		msg, err := c.Receive(ctx)
		Expect(err).NotTo(HaveOccurred())

		return msg
	}

	BeforeEach(func() {
		ctx = context.Background()
		s = MakeBuilder().WithLinkCapacity(32).Build()
	})

	AfterEach(func() {
		Expect(s.Terminate()).To(Succeed())
	})

	It("should refuse two members with the same id", func() {
		s.AddClient(1, "")

		Expect(func() { s.AddServer(1, "", chat.NewHandler()) }).To(Panic())
	})

	It("should find shortest paths that do not cross clients", func() {
		s.AddClient(1, "")
		s.AddClient(2, "")
		s.AddServer(10, "", chat.NewHandler())
		s.AddServer(11, "", text.NewHandler())
		Expect(s.Connect(1, 10)).To(Succeed())
		Expect(s.Connect(1, 2)).To(Succeed())
		Expect(s.Connect(2, 11)).To(Succeed())
		Expect(s.Connect(10, 11)).To(Succeed())

		path, found := s.Path(1, 11)
		Expect(found).To(BeTrue())
		Expect(path).To(Equal([]network.NodeID{1, 10, 11}))

		_, found = s.Path(10, 1)
		Expect(found).To(BeTrue())

		Expect(s.Disconnect(10, 11)).To(Succeed())
		_, found = s.Path(1, 11)
		Expect(found).To(BeFalse())
	})

	It("should report unknown members", func() {
		Expect(s.Connect(1, 2)).To(MatchError(ErrUnknownNode))
		Expect(s.Command(3, node.Shutdown{})).To(MatchError(ErrUnknownNode))
	})

	It("should apply commands issued while the simulation starts", func() {
		s.AddClient(1, "")
		s.AddServer(10, "", media.NewHandler())
		Expect(s.Connect(1, 10)).To(Succeed())

		const numFiles = 40
		done := make(chan struct{})

		go func() {
			defer GinkgoRecover()
			defer close(done)

			for i := 0; i < numFiles; i++ {
				file := web.NewMediaFile("f", []byte("x"))
				Expect(s.Command(10, media.AddMediaFile{File: file})).To(Succeed())
			}
		}()

		s.Start(ctx)
		Eventually(done).Should(BeClosed())

		payload, err := web.Requests.Encode(web.MediaListQuery{})
		Expect(err).NotTo(HaveOccurred())

		askCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		msg, _, err := s.Ask(askCtx, 1, 10, payload)
		Expect(err).NotTo(HaveOccurred())

		rsp, err := web.Responses.Decode(msg.Payload)
		Expect(err).NotTo(HaveOccurred())
		Expect(rsp.(web.MediaList).Files).To(HaveLen(numFiles))
	})

	Context("when running", func() {
		var (
			alice, bob *Client
			song       web.MediaFile
		)

		BeforeEach(func() {
			song = web.NewMediaFile("song", make([]byte, 300))

			alice = s.AddClient(1, "Alice")
			bob = s.AddClient(2, "Bob")
			s.AddServer(10, "Media", media.NewHandler(song))
			s.AddServer(11, "Chat", chat.NewHandler())

			Expect(s.Connect(1, 10)).To(Succeed())
			Expect(s.Connect(2, 10)).To(Succeed())
			Expect(s.Connect(10, 11)).To(Succeed())

			s.Start(ctx)
		})

		It("should serve a multi-fragment file", func() {
			payload, err := web.Requests.Encode(web.MediaQuery{MediaID: song.ID.String()})
			Expect(err).NotTo(HaveOccurred())

			_, err = alice.Request(payload, []network.NodeID{1, 10})
			Expect(err).NotTo(HaveOccurred())

			msg := receive(alice)
			Expect(msg.From).To(Equal(network.NodeID(10)))

			rsp, err := web.Responses.Decode(msg.Payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(rsp).To(Equal(web.MediaFileFound{Media: song}))
		})

		It("should relay chat messages through another server", func() {
			for _, c := range []*Client{alice, bob} {
				payload, err := chat.Requests.Encode(
					chat.RegistrationToChat{Name: c.Name()})
				Expect(err).NotTo(HaveOccurred())

				msg, path, err := s.Ask(ctx, c.ID(), 11, payload)
				Expect(err).NotTo(HaveOccurred())
				Expect(path).To(Equal([]network.NodeID{c.ID(), 10, 11}))

				rsp, err := chat.Responses.Decode(msg.Payload)
				Expect(err).NotTo(HaveOccurred())
				Expect(rsp).To(Equal(chat.RegistrationSuccess{}))
			}

			payload, err := chat.Requests.Encode(
				chat.MessageFor{ClientID: 2, Message: "hi"})
			Expect(err).NotTo(HaveOccurred())

			_, err = alice.Request(payload, []network.NodeID{1, 10, 11})
			Expect(err).NotTo(HaveOccurred())

			msg := receive(bob)
			Expect(msg.Path).To(Equal([]network.NodeID{11, 10, 2}))

			rsp, err := chat.Responses.Decode(msg.Payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(rsp).To(Equal(chat.MessageFrom{From: 1, Message: "hi"}))
		})

		It("should deliver personality commands to running nodes", func() {
			extra := web.NewMediaFile("extra", []byte("x"))
			Expect(s.Command(10, media.AddMediaFile{File: extra})).To(Succeed())

			payload, err := web.Requests.Encode(web.MediaListQuery{})
			Expect(err).NotTo(HaveOccurred())

			msg, _, err := s.Ask(ctx, 1, 10, payload)
			Expect(err).NotTo(HaveOccurred())

			rsp, err := web.Responses.Decode(msg.Payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(rsp.(web.MediaList).Files).To(HaveLen(2))
		})

		It("should stop every node on shutdown", func() {
			s.Shutdown()

			for _, comp := range s.Nodes() {
				Expect(comp.State()).To(Equal(node.StateStopped))
			}

			Expect(s.Command(10, node.Shutdown{})).To(MatchError(ErrNotRunning))

			_, err := alice.Receive(ctx)
			Expect(err).To(MatchError(ErrClientClosed))
		})
	})
})

var _ = Describe("Topology", func() {
	It("should run the scripted scenario", func() {
		topo, err := config.LoadTopology(
			filepath.Join("..", "config", "testdata", "topology.yaml"))
		Expect(err).NotTo(HaveOccurred())

		recorder := datarecording.New(filepath.Join(GinkgoT().TempDir(), "events"))
		monitor := monitoring.NewMonitor()

		s, err := BuildFromTopology(topo, MakeBuilder().
			WithDataRecorder(recorder).
			WithMonitor(monitor))
		Expect(err).NotTo(HaveOccurred())

		s.Start(context.Background())

		bar := monitor.CreateProgressBar("scenario", 0)
		exchanges := Scenario{Timeout: 2 * time.Second, Progress: bar}.
			Run(context.Background(), s)

		Expect(s.Terminate()).To(Succeed())

		for _, e := range exchanges {
			Expect(e.Err).NotTo(HaveOccurred(), e.String())
		}

		// 2 clients x (media 3 + text 3 + chat 1) + 2 registrations + 2 messages
		Expect(exchanges).To(HaveLen(18))
		Expect(exchanges[len(exchanges)-1].Response).
			To(ContainSubstring("received by 1"))
		Expect(bar.Status().Finished).To(Equal(uint64(18)))
		Expect(bar.Status().Failed).To(BeZero())

		stats, found := monitor.Stats(10)
		Expect(found).To(BeTrue())
		Expect(stats.Counts["packet_forwarded"]).To(BeNumerically(">", 0))
		Expect(s.Recorder().NumRecorded()).To(BeNumerically(">", 18))
	})

	It("should refuse a bad file id", func() {
		topo := config.Topology{
			LinkCapacity: 4,
			Nodes: []config.NodeSpec{{
				ID:         1,
				Type:       config.TypeMedia,
				MediaFiles: []config.MediaFileSpec{{ID: "nope"}},
			}},
		}

		_, err := BuildFromTopology(topo, MakeBuilder())

		Expect(err).To(MatchError(config.ErrInvalidTopology))
	})

	It("should seed catalogs with fixed ids", func() {
		id := uuid.New()
		topo := config.Topology{
			LinkCapacity: 8,
			Nodes: []config.NodeSpec{
				{ID: 1, Type: config.TypeClient},
				{
					ID:        2,
					Type:      config.TypeText,
					TextFiles: []config.TextFileSpec{{ID: id.String(), Title: "t"}},
				},
			},
			Links: []config.LinkSpec{{A: 1, B: 2}},
		}

		s, err := BuildFromTopology(topo, MakeBuilder())
		Expect(err).NotTo(HaveOccurred())
		defer s.Terminate()

		s.Start(context.Background())

		payload, err := web.Requests.Encode(web.TextFilesListQuery{})
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		msg, _, err := s.Ask(ctx, 1, 2, payload)
		Expect(err).NotTo(HaveOccurred())

		rsp, err := web.Responses.Decode(msg.Payload)
		Expect(err).NotTo(HaveOccurred())
		Expect(rsp).To(Equal(web.TextFilesList{Files: []string{id.String() + ":t"}}))
	})
})
