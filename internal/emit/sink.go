package emit

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gofrs/flock"
)

// Sink appends one line of text to some destination. Implementations must
// make the append atomic: a line from one emit call never interleaves with
// another at sub-line granularity.
type Sink interface {
	WriteLine(line string) error
}

// WriterSink wraps any io.Writer. A mutex plus a single Write call per line
// provides the atomicity guarantee within one process.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink returns a sink appending newline-terminated lines to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) WriteLine(line string) error {
	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(buf); err != nil {
		return fmt.Errorf("write log line: %w", err)
	}
	return nil
}

// FileSink appends to a log file, holding an advisory flock for the duration
// of each write so emitters in separate processes do not interleave lines.
type FileSink struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

// NewFileSink returns a sink appending to the file at path. The file is
// created on first write.
func NewFileSink(path string) *FileSink {
	return &FileSink{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

func (s *FileSink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire log lock: %w", err)
	}
	defer s.lock.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("append log line: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}
