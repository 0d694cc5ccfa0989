package web

import (
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Codec", func() {
	It("should wrap values into a typed envelope", func() {
		b, err := Requests.Encode(MediaQuery{MediaID: "abc"})

		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(MatchJSON(
			`{"type":"MediaQuery","data":{"media_id":"abc"}}`))
	})

	It("should accept an envelope without data", func() {
		req, err := Requests.Decode([]byte(`{"type":"ServerTypeQuery"}`))

		Expect(err).NotTo(HaveOccurred())
		Expect(req).To(Equal(ServerTypeQuery{}))
	})

	DescribeTable("should reject bad bytes",
		func(raw string, kind error) {
			_, err := Requests.Decode([]byte(raw))
			Expect(err).To(MatchError(kind))
		},
		Entry("not json", `hello`, ErrMalformed),
		Entry("no type", `{"data":{}}`, ErrMalformed),
		Entry("wrong data", `{"type":"FileQuery","data":{"file_id":3}}`,
			ErrMalformed),
		Entry("unknown type", `{"type":"Teleport"}`, ErrUnknownType),
		Entry("response sent as request", `{"type":"MediaList"}`,
			ErrUnknownType),
	)

	It("should know every request and response", func() {
		Expect(Requests.Types()).To(Equal(5))
		Expect(Responses.Types()).To(Equal(9))
	})

	It("should refuse to register a type twice", func() {
		c := NewCodec[Request]("test")
		Register[FileQuery](c)

		Expect(func() { Register[FileQuery](c) }).To(Panic())
	})

	It("should refuse types from another family", func() {
		c := NewCodec[Request]("test")

		Expect(func() { Register[MediaList](c) }).To(Panic())
	})

	It("should decode what it encodes", func() {
		id := uuid.New()
		doc := NewTextFile("notes", "body", id)
		responses := []Response{
			ServerTypeResponse{ServerType: TextServer},
			TextFilesList{Files: []string{ListEntry(id, "a:b")}},
			TextFileResponse{FileData: doc.Marshal()},
			MediaFileFound{Media: MediaFile{ID: id, Title: "t", Content: []byte{0, 1}}},
			MediaList{Files: []string{ListEntry(id, "clip")}},
			ErrorFileNotFound{ID: id},
			ErrorBadUUID{Raw: "not-a-uuid"},
			ErrorUnsupportedRequest{Request: "MediaQuery"},
			InvalidRequest{Reason: "bad"},
		}

		for _, rsp := range responses {
			decoded, err := Responses.Decode(EncodeResponse(rsp))
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded).To(Equal(rsp))
		}
	})
})

var _ = Describe("Files", func() {
	It("should round trip a text file through its response", func() {
		doc := NewTextFile("title", "content")

		parsed, err := UnmarshalTextFile(doc.Marshal())

		Expect(err).NotTo(HaveOccurred())
		Expect(parsed).To(Equal(doc))
	})

	It("should split list entries at the first colon", func() {
		id := uuid.New()

		parsedID, title, err := ParseListEntry(ListEntry(id, "a:b"))

		Expect(err).NotTo(HaveOccurred())
		Expect(parsedID).To(Equal(id))
		Expect(title).To(Equal("a:b"))
	})

	It("should reject list entries without id", func() {
		_, _, err := ParseListEntry("nothing")
		Expect(err).To(MatchError(ErrMalformed))

		_, _, err = ParseListEntry("x:title")
		Expect(err).To(MatchError(ErrMalformed))
	})
})
