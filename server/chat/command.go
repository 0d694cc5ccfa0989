package chat

import "github.com/sarchlab/overlaynet/network"

// ListClients reports the registered clients.
type ListClients struct{}

// KickClient unregisters a client and tells it so.
type KickClient struct {
	ID network.NodeID
}
