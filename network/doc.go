// Package network defines what travels between the nodes of an overlay
// network: node identifiers, source-routed packets, and the channels that
// connect neighbors.
//
// A message that does not fit in a single packet is split into fragments of
// at most FragmentSize bytes. Every fragment of a message carries the same
// session ID and fragment total, and its own fragment index.
package network
