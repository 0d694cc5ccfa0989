// Package chat implements the chat relay personality. Clients register with
// the relay, then send messages that the relay delivers along the path it
// learned when the target registered.
package chat
