// Package linescan reassembles logical text lines from an arbitrarily chunked
// byte stream. Chunks carry no alignment guarantees: a single line may span
// many chunks and a single chunk may carry many lines.
package linescan

import (
	"bytes"
	"io"
	"iter"
)

// DefaultChunkSize is the read size used by Lines.
const DefaultChunkSize = 4096

// Assembler buffers the unterminated tail between chunks. The zero value is
// ready to use. An Assembler serves exactly one stream and is not safe for
// concurrent use.
type Assembler struct {
	pending []byte
}

// Push appends chunk to the pending buffer and returns every line completed
// by it, in order, with terminators stripped. The text after the last newline
// stays buffered for the next call. Empty chunks are valid and complete
// nothing.
func (a *Assembler) Push(chunk []byte) []string {
	a.pending = append(a.pending, chunk...)

	n := bytes.Count(a.pending, []byte{'\n'})
	if n == 0 {
		return nil
	}

	lines := make([]string, 0, n)
	rest := a.pending
	for {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, string(rest[:i]))
		rest = rest[i+1:]
	}
	a.pending = append(a.pending[:0], rest...)
	return lines
}

// Pending returns the current unterminated tail. Mostly useful in tests.
func (a *Assembler) Pending() string {
	return string(a.pending)
}

// Lines returns a one-shot iterator over the complete lines of r, reading
// DefaultChunkSize bytes at a time.
func Lines(r io.Reader) iter.Seq[string] {
	return ChunkedLines(r, DefaultChunkSize)
}

// ChunkedLines is Lines with an explicit read size. At end of stream any
// unterminated tail is discarded rather than emitted: well-formed log streams
// end with a trailing newline, and a partial tail is more likely a truncated
// write than a record. Read errors likewise terminate the sequence; there is
// nothing to retry on a pipe that failed mid-read.
func ChunkedLines(r io.Reader, chunkSize int) iter.Seq[string] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return func(yield func(string) bool) {
		var asm Assembler
		buf := make([]byte, chunkSize)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				for _, line := range asm.Push(buf[:n]) {
					if !yield(line) {
						return
					}
				}
			}
			if err != nil {
				return
			}
		}
	}
}
