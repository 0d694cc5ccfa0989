// Package web defines the request and response vocabulary shared by the
// catalog personalities and the JSON envelope that carries it.
package web
