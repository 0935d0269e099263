// Package chunker splits extracted page text into overlapping fixed-size
// fragments. Overlap intentionally duplicates content between consecutive
// chunks so context split across a boundary is not lost.
package chunker

import (
	"errors"
	"fmt"
)

// Defaults used by ingestion. Units are characters, not tokens.
const (
	DefaultSize    = 900
	DefaultOverlap = 300
)

// ErrInvalidConfig reports chunk geometry under which the window would never
// advance. It must be caught at startup, never mid-ingestion.
var ErrInvalidConfig = errors.New("invalid chunk config")

// Validate checks chunk geometry without running the chunker.
func Validate(size, overlap int) error {
	if size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return fmt.Errorf("%w: need 0 <= overlap < size, got size=%d overlap=%d", ErrInvalidConfig, size, overlap)
	}
	return nil
}

// Chunk slides a window of size runes over text, advancing size-overlap per
// step. The final chunk may be shorter than size; text shorter than size
// yields a single chunk. Pure and deterministic.
func Chunk(text string, size, overlap int) ([]string, error) {
	if err := Validate(size, overlap); err != nil {
		return nil, err
	}

	runes := []rune(text)
	length := len(runes)
	if length == 0 {
		return nil, nil
	}

	step := size - overlap
	chunks := make([]string, 0, length/step+1)
	for start := 0; start < length; start += step {
		end := min(start+size, length)
		chunks = append(chunks, string(runes[start:end]))
		if end == length {
			break
		}
	}
	return chunks, nil
}
