package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/klauspost/compress/zstd"
	"github.com/mattn/go-isatty"
)

// parseContextArgs converts trailing key=value arguments into a context map.
// Values parse as JSON when they can (numbers, booleans, null, quoted
// strings, arrays, objects) and stay raw strings otherwise.
func parseContextArgs(args []string) (map[string]any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	ctx := make(map[string]any, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("context argument %q: want key=value", arg)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		ctx[key] = v
	}
	return ctx, nil
}

// openInput opens the named file for decoding, transparently decompressing
// zstd archives.
func openInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}
	zr, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open zstd archive: %w", err)
	}
	return &zstdReadCloser{Decoder: zr, file: f}, nil
}

type zstdReadCloser struct {
	*zstd.Decoder
	file *os.File
}

func (z *zstdReadCloser) Close() error {
	z.Decoder.Close()
	return z.file.Close()
}

// resolveColor maps a color mode onto a concrete decision for w and flips the
// process-wide go-pretty switch to match, so decorated strings actually carry
// codes exactly when we want them.
func resolveColor(mode string, w io.Writer) bool {
	colorize := false
	switch mode {
	case "always":
		colorize = true
	case "never":
	default: // auto
		if f, ok := w.(*os.File); ok {
			colorize = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	if colorize {
		text.EnableColors()
	} else {
		text.DisableColors()
	}
	return colorize
}
