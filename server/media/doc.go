// Package media implements the media catalog personality. It stores binary
// files by ID and serves them to clients.
package media
