// Package render turns wire-format log lines back into colorized,
// human-readable text. Anything that is not a log record passes through
// verbatim, so the renderer can sit on live process output that interleaves
// foreign text with records.
package render

import (
	"bytes"
	"encoding/json"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/valyala/fastjson"

	"lumen/internal/level"
)

var levelColors = map[level.Severity]text.Colors{
	level.Trace: {text.FgHiBlack},
	level.Debug: {text.FgCyan},
	level.Info:  {text.FgGreen},
	level.Warn:  {text.FgYellow},
	level.Error: {text.FgRed},
	level.Fatal: {text.FgHiRed, text.Bold},
}

var (
	namespaceColor   = text.Colors{text.FgMagenta}
	passThroughColor = text.Colors{text.Faint}
)

// Renderer converts one line at a time. It reuses a single parser, so a
// Renderer serves one consumer and is not safe for concurrent use.
type Renderer struct {
	parser   fastjson.Parser
	colorize bool
}

// New returns a Renderer. Colorization only decorates; the semantic content
// of the output never depends on it. Whether ANSI codes actually appear also
// honors the process-wide go-pretty color switch.
func New(colorize bool) *Renderer {
	return &Renderer{colorize: colorize}
}

// Render returns the human-readable form of line. Valid records become a
// tagged header plus an indented context block; everything else comes back
// unchanged apart from dimming. Render always returns a string, whatever the
// input.
func (r *Renderer) Render(line string) string {
	v, err := r.parser.Parse(line)
	if err != nil || !isRecord(v) {
		return r.passThrough(line)
	}

	sev := level.Severity(v.GetStringBytes("level"))
	namespace := string(v.GetStringBytes("namespace"))
	message := string(v.GetStringBytes("message"))

	var b bytes.Buffer
	if tag := level.Tag(sev); tag != "" {
		b.WriteString(r.paint(levelColors[sev], tag))
	}
	b.WriteString(r.paint(namespaceColor, "["+namespace+"]"))
	b.WriteByte(' ')
	b.WriteString(message)
	b.WriteByte('\n')
	b.Write(indentContext(v.Get("context")))
	return b.String()
}

// isRecord checks the five required fields with their required primitive
// types. The timestamp field is optional and not validated.
func isRecord(v *fastjson.Value) bool {
	if v.Type() != fastjson.TypeObject {
		return false
	}
	if lvl := v.Get("level"); lvl == nil || lvl.Type() != fastjson.TypeString {
		return false
	}
	if n := v.Get("level_n"); n == nil || n.Type() != fastjson.TypeNumber {
		return false
	}
	if ns := v.Get("namespace"); ns == nil || ns.Type() != fastjson.TypeString {
		return false
	}
	if msg := v.Get("message"); msg == nil || msg.Type() != fastjson.TypeString {
		return false
	}
	if ctx := v.Get("context"); ctx == nil || ctx.Type() != fastjson.TypeObject {
		return false
	}
	return true
}

// indentContext pretty-prints the context object with two-space indentation,
// preserving the key order of the incoming line.
func indentContext(ctx *fastjson.Value) []byte {
	compact := ctx.MarshalTo(nil)
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return compact
	}
	return out.Bytes()
}

func (r *Renderer) passThrough(line string) string {
	return r.paint(passThroughColor, line)
}

func (r *Renderer) paint(colors text.Colors, s string) string {
	if !r.colorize {
		return s
	}
	return colors.Sprint(s)
}
