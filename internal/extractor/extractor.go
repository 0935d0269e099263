// Package extractor turns raw document bytes into ordered per-page text.
package extractor

import "errors"

// Page is one page of extracted text. Number is the 1-based page index in
// the source document; pages with no extractable text are never emitted.
type Page struct {
	Number int
	Text   string
}

// Extractor converts document bytes into ordered pages.
type Extractor interface {
	Extract(data []byte) ([]Page, error)
}

// ErrUnreadableDocument indicates the byte stream is not a parseable
// document of the expected type. A user error, not a service fault.
var ErrUnreadableDocument = errors.New("unreadable document")
