package chat

import (
	"github.com/sarchlab/overlaynet/network"
	"github.com/sarchlab/overlaynet/web"
)

// A Request is a message a client sends to the relay.
type Request interface {
	web.Typed
	isChatRequest()
}

// A Response is a message the relay sends to a client.
type Response interface {
	web.Typed
	isChatResponse()
}

// ServerTypeQuery asks the relay for its personality.
type ServerTypeQuery struct{}

// RegistrationToChat joins the chat under a display name.
type RegistrationToChat struct {
	Name string `json:"name"`
}

// ClientListQuery asks for the registered clients.
type ClientListQuery struct{}

// MessageFor asks the relay to deliver a message to another client.
type MessageFor struct {
	ClientID network.NodeID `json:"client_id"`
	Message  string         `json:"message"`
}

// Unregister leaves the chat.
type Unregister struct{}

func (ServerTypeQuery) TypeName() string    { return "ServerTypeQuery" }
func (RegistrationToChat) TypeName() string { return "RegistrationToChat" }
func (ClientListQuery) TypeName() string    { return "ClientListQuery" }
func (MessageFor) TypeName() string         { return "MessageFor" }
func (Unregister) TypeName() string         { return "Unregister" }

func (ServerTypeQuery) isChatRequest()    {}
func (RegistrationToChat) isChatRequest() {}
func (ClientListQuery) isChatRequest()    {}
func (MessageFor) isChatRequest()         {}
func (Unregister) isChatRequest()         {}

// Client is one entry of a ClientList.
type Client struct {
	ID   network.NodeID `json:"id"`
	Name string         `json:"name"`
}

// ServerType answers a ServerTypeQuery.
type ServerType struct {
	ServerType web.ServerType `json:"server_type"`
}

// RegistrationSuccess confirms a registration.
type RegistrationSuccess struct{}

// ClientList lists the registered clients ordered by ID.
type ClientList struct {
	Clients []Client `json:"clients"`
}

// MessageFrom delivers a message sent by another client.
type MessageFrom struct {
	From    network.NodeID `json:"from"`
	Message string         `json:"message"`
}

// ErrorWrongClientID reports a message for a client that is not registered.
type ErrorWrongClientID struct {
	ID network.NodeID `json:"id"`
}

// ErrorNotRegistered reports a request that needs a registration first.
type ErrorNotRegistered struct{}

// UnregisterSuccess confirms that the client left the chat. It is also sent
// to kicked clients.
type UnregisterSuccess struct{}

// InvalidRequest reports a message that could not be decoded.
type InvalidRequest struct {
	Reason string `json:"reason"`
}

func (ServerType) TypeName() string          { return "ServerType" }
func (RegistrationSuccess) TypeName() string { return "RegistrationSuccess" }
func (ClientList) TypeName() string          { return "ClientList" }
func (MessageFrom) TypeName() string         { return "MessageFrom" }
func (ErrorWrongClientID) TypeName() string  { return "ErrorWrongClientID" }
func (ErrorNotRegistered) TypeName() string  { return "ErrorNotRegistered" }
func (UnregisterSuccess) TypeName() string   { return "UnregisterSuccess" }
func (InvalidRequest) TypeName() string      { return "InvalidRequest" }

func (ServerType) isChatResponse()          {}
func (RegistrationSuccess) isChatResponse() {}
func (ClientList) isChatResponse()          {}
func (MessageFrom) isChatResponse()         {}
func (ErrorWrongClientID) isChatResponse()  {}
func (ErrorNotRegistered) isChatResponse()  {}
func (UnregisterSuccess) isChatResponse()   {}
func (InvalidRequest) isChatResponse()      {}

// Requests is the codec of chat requests.
var Requests = newRequestCodec()

// Responses is the codec of chat responses.
var Responses = newResponseCodec()

func newRequestCodec() *web.Codec[Request] {
	c := web.NewCodec[Request]("chat request")
	web.Register[ServerTypeQuery](c)
	web.Register[RegistrationToChat](c)
	web.Register[ClientListQuery](c)
	web.Register[MessageFor](c)
	web.Register[Unregister](c)

	return c
}

func newResponseCodec() *web.Codec[Response] {
	c := web.NewCodec[Response]("chat response")
	web.Register[ServerType](c)
	web.Register[RegistrationSuccess](c)
	web.Register[ClientList](c)
	web.Register[MessageFrom](c)
	web.Register[ErrorWrongClientID](c)
	web.Register[ErrorNotRegistered](c)
	web.Register[UnregisterSuccess](c)
	web.Register[InvalidRequest](c)

	return c
}
