package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/overlaynet/hooking"
	"github.com/sarchlab/overlaynet/network"
)

type fakeNode struct {
	hooking.HookableBase

	id network.NodeID
}

func (n *fakeNode) Name() string         { return "Fake" }
func (n *fakeNode) ID() network.NodeID   { return n.id }
func (n *fakeNode) ServerType() string   { return "FakeServer" }
func (n *fakeNode) emit(kind kindedItem) { n.InvokeHook(hooking.HookCtx{Domain: n, Item: kind}) }

type kindedItem string

func (k kindedItem) Kind() string { return string(k) }

var _ = Describe("Monitor", func() {
	var (
		m    *Monitor
		node *fakeNode
	)

	get := func(url string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))

		return w
	}

	BeforeEach(func() {
		m = NewMonitor().WithRecentEvents(2)
		node = &fakeNode{id: 4}
		m.RegisterNode(node)

		node.emit("file_served")
		node.emit("bad_uuid")
		node.emit("file_served")
	})

	It("should attach a statistics hook to the node", func() {
		Expect(node.NumHooks()).To(Equal(1))

		stats, found := m.Stats(4)
		Expect(found).To(BeTrue())
		Expect(stats.Counts).To(Equal(map[string]uint64{
			"file_served": 2, "bad_uuid": 1,
		}))
		Expect(stats.Recent).To(HaveLen(2))
	})

	It("should refuse a node registered twice", func() {
		Expect(func() { m.RegisterNode(&fakeNode{id: 4}) }).To(Panic())
	})

	It("should list nodes", func() {
		w := get("/api/nodes")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(
			`[{"id":4,"name":"Fake","type":"FakeServer","total":3}]`))
	})

	It("should list the recent events of a node", func() {
		w := get("/api/node/4/events?limit=1")

		var records []hooking.Record
		Expect(json.Unmarshal(w.Body.Bytes(), &records)).To(Succeed())
		Expect(records).To(Equal([]hooking.Record{
			{Seq: 3, Kind: "file_served", Detail: "file_served"},
		}))
	})

	It("should reject a bad limit", func() {
		Expect(get("/api/node/4/events?limit=x").Code).
			To(Equal(http.StatusBadRequest))
	})

	It("should serialize node details", func() {
		w := get("/api/node/4")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("FakeServer"))
	})

	It("should answer 404 for unknown nodes", func() {
		Expect(get("/api/node/9").Code).To(Equal(http.StatusNotFound))
		Expect(get("/api/node/999").Code).To(Equal(http.StatusNotFound))
	})

	It("should report progress bars until completed", func() {
		bar := m.CreateProgressBar("requests", 10)
		bar.Start()
		bar.Start()
		bar.Start()
		bar.Finish(true)
		bar.Finish(false)

		var bars []ProgressBarStatus
		Expect(json.Unmarshal(get("/api/progress").Body.Bytes(), &bars)).
			To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Finished).To(Equal(uint64(2)))
		Expect(bars[0].InProgress).To(Equal(uint64(1)))
		Expect(bars[0].Failed).To(Equal(uint64(1)))

		m.CompleteProgressBar(bar)
		Expect(get("/api/progress").Body.String()).To(Equal("[]"))
	})

	It("should report resource usage", func() {
		var rsp resourceRsp

		w := get("/api/resource")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(json.Unmarshal(w.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should serve the dashboard", func() {
		w := get("/")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(HavePrefix("<!DOCTYPE html>"))
	})
})
