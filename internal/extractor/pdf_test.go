package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPDF_RejectsGarbage(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{name: "empty input", data: nil},
		{name: "not a pdf", data: []byte("just some plain text, definitely not a PDF")},
		{name: "truncated header", data: []byte("%PDF-1.7\ngarbage")},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pages, err := NewPDF().Extract(c.data)
			assert.ErrorIs(t, err, ErrUnreadableDocument)
			assert.Empty(t, pages)
		})
	}
}
