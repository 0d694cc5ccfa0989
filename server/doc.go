// Package server holds what the catalog personalities share: the web codec
// binding and the events they report.
package server
