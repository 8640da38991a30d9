// Package follow reads newline-delimited log files by offset so the CLI can
// show the most recent records and keep following as new ones are appended.
package follow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"lumen/internal/linescan"
)

const pollInterval = 250 * time.Millisecond

// Options controls one Tail call. Offset -1 means "start from the end,
// returning the last Limit lines"; any other non-negative value resumes a
// previous read.
type Options struct {
	Offset int64
	Limit  int
	Follow bool
	Wait   time.Duration
}

// Result carries the lines read and the offset to resume from.
type Result struct {
	Lines  []string
	Offset int64
}

// Tail reads complete lines from the log file at path. A missing file is not
// an error: the daemon may simply not have written yet, so Tail reports no
// lines and offset zero. With Follow set and no lines immediately available,
// Tail polls until new lines arrive, the wait elapses, or ctx is canceled.
func Tail(ctx context.Context, path string, opts Options) (Result, error) {
	if opts.Wait < 0 {
		opts.Wait = 0
	}

	var res Result
	var err error
	if opts.Offset < 0 {
		res, err = readLast(path, opts.Limit)
	} else {
		res, err = readForward(path, opts.Offset)
	}
	if err != nil {
		return res, err
	}

	if opts.Follow && opts.Wait > 0 && len(res.Lines) == 0 {
		return awaitLines(ctx, path, res.Offset, opts.Wait)
	}
	return res, nil
}

// readLast returns the last limit complete lines of the file and the offset
// just past the last of them. A ring over the scan keeps retained memory
// proportional to limit rather than file size.
func readLast(path string, limit int) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if limit <= 0 {
		end, err := f.Seek(0, io.SeekEnd)
		if err != nil {
			return Result{}, fmt.Errorf("seek log file: %w", err)
		}
		return Result{Offset: end}, nil
	}

	var asm linescan.Assembler
	ring := make([]string, limit)
	count, next := 0, 0
	var pos int64
	buf := make([]byte, linescan.DefaultChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			for _, line := range asm.Push(buf[:n]) {
				ring[next] = line
				next = (next + 1) % limit
				if count < limit {
					count++
				}
			}
			pos += int64(n)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Result{}, fmt.Errorf("read log file: %w", err)
		}
	}

	lines := make([]string, count)
	if count == limit {
		for i := range lines {
			lines[i] = ring[(next+i)%limit]
		}
	} else {
		copy(lines, ring[:count])
	}
	return Result{Lines: lines, Offset: pos - int64(len(asm.Pending()))}, nil
}

// readForward returns every complete line from offset to the current end of
// file and the offset reached.
func readForward(path string, offset int64) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return Result{}, fmt.Errorf("seek log file: %w", err)
	}
	if offset > size {
		// Truncated or rotated; start over from the top.
		offset = 0
	}
	lines, pos, err := scanLines(f, offset)
	if err != nil {
		return Result{}, err
	}
	return Result{Lines: lines, Offset: pos}, nil
}

// scanLines reads complete lines starting at offset and reports the offset
// just past the last newline it saw. A partially written final line stays in
// the file for a later read; returning its bytes now would tear records that
// a writer is still appending.
func scanLines(f *os.File, offset int64) ([]string, int64, error) {
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek log file: %w", err)
	}

	var asm linescan.Assembler
	var lines []string
	pos := offset
	buf := make([]byte, linescan.DefaultChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			lines = append(lines, asm.Push(buf[:n])...)
			pos += int64(n)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, 0, fmt.Errorf("read log file: %w", err)
		}
	}
	return lines, pos - int64(len(asm.Pending())), nil
}

// awaitLines polls for new complete lines past offset until some appear, the
// wait elapses, or ctx is canceled.
func awaitLines(ctx context.Context, path string, offset int64, wait time.Duration) (Result, error) {
	deadline := time.Now().Add(wait)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		res, err := readForward(path, offset)
		if err != nil {
			return res, err
		}
		if len(res.Lines) > 0 || time.Now().After(deadline) {
			return res, nil
		}
		offset = res.Offset

		select {
		case <-ctx.Done():
			return Result{Offset: offset}, ctx.Err()
		case <-ticker.C:
		}
	}
}
