package chat

import (
	"fmt"

	"github.com/sarchlab/overlaynet/network"
)

// ClientRegistered reports a registration. Rejoined is set when the client
// was already registered; its name and path are replaced.
type ClientRegistered struct {
	ID       network.NodeID
	Name     string
	Path     []network.NodeID
	Rejoined bool
}

func (ClientRegistered) Kind() string { return "client_registered" }

func (e ClientRegistered) String() string {
	return fmt.Sprintf("client %d registered as %q via %v", e.ID, e.Name, e.Path)
}

// ClientUnregistered reports a client that left.
type ClientUnregistered struct {
	ID network.NodeID
}

func (ClientUnregistered) Kind() string { return "client_unregistered" }

func (e ClientUnregistered) String() string {
	return fmt.Sprintf("client %d unregistered", e.ID)
}

// MessageForwarded reports a message relayed between two clients.
type MessageForwarded struct {
	From network.NodeID
	To   network.NodeID
}

func (MessageForwarded) Kind() string { return "message_forwarded" }

func (e MessageForwarded) String() string {
	return fmt.Sprintf("message from %d forwarded to %d", e.From, e.To)
}

// WrongClientID reports a message for an unknown client.
type WrongClientID struct {
	From network.NodeID
	To   network.NodeID
}

func (WrongClientID) Kind() string { return "wrong_client_id" }

func (e WrongClientID) String() string {
	return fmt.Sprintf("client %d sent to unknown client %d", e.From, e.To)
}

// NotRegistered reports a request from a client that did not register.
type NotRegistered struct {
	ID      network.NodeID
	Request string
}

func (NotRegistered) Kind() string { return "not_registered" }

func (e NotRegistered) String() string {
	return fmt.Sprintf("%s from unregistered client %d", e.Request, e.ID)
}

// ClientListServed reports an answered ClientListQuery.
type ClientListServed struct {
	Count int
}

func (ClientListServed) Kind() string { return "client_list_served" }

func (e ClientListServed) String() string {
	return fmt.Sprintf("list of %d clients served", e.Count)
}

// ClientsListed answers a ListClients command.
type ClientsListed struct {
	Clients []Client
}

func (ClientsListed) Kind() string { return "clients_listed" }

func (e ClientsListed) String() string {
	return fmt.Sprintf("%d clients registered", len(e.Clients))
}

// ClientKicked reports a processed KickClient command. Found is false when
// the client was not registered.
type ClientKicked struct {
	ID    network.NodeID
	Found bool
}

func (ClientKicked) Kind() string { return "client_kicked" }

func (e ClientKicked) String() string {
	if !e.Found {
		return fmt.Sprintf("client %d not registered, nobody kicked", e.ID)
	}

	return fmt.Sprintf("client %d kicked", e.ID)
}
