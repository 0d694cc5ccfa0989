// Package text implements the text catalog personality.
package text
