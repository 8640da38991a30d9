package main

import (
	"io"
	"os"
	"strings"
	"sync"

	"lumen/internal/config"
	"lumen/internal/emit"
)

// diagNamespace tags the CLI's own diagnostic records, which go through the
// same emitter as user output.
const diagNamespace = "lumen.cli"

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	diagOnce sync.Once
	diag     *emit.Emitter
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// diagnostics returns the CLI's own emitter. Without --verbose it writes to a
// discard sink, so call sites stay unconditional.
func (c *commandContext) diagnostics() *emit.Emitter {
	c.diagOnce.Do(func() {
		var sink emit.Sink = emit.NewWriterSink(io.Discard)
		if c.verboseFlag != nil && *c.verboseFlag {
			sink = emit.NewWriterSink(os.Stderr)
		}
		c.diag = emit.New(sink)
	})
	return c.diag
}
