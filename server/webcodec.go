package server

import (
	"fmt"

	"github.com/sarchlab/overlaynet/node"
	"github.com/sarchlab/overlaynet/web"
)

// WebCodec implements the byte contract of node.Handler with the web
// vocabulary. Catalogs embed it.
type WebCodec struct{}

// Decode parses a web request.
func (WebCodec) Decode(payload []byte) (node.Request, error) {
	return web.Requests.Decode(payload)
}

// Encode serializes a web response. Values that are not web responses are
// reported as invalid.
func (WebCodec) Encode(rsp node.Response) []byte {
	r, ok := rsp.(web.Response)
	if !ok {
		r = web.InvalidRequest{Reason: fmt.Sprintf("cannot encode %T", rsp)}
	}

	return web.EncodeResponse(r)
}

// InvalidRequest builds the answer to an undecodable message.
func (WebCodec) InvalidRequest(reason string) node.Response {
	return web.InvalidRequest{Reason: reason}
}
