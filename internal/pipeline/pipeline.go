package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/cyra/apachelogs/internal/config"
	"github.com/cyra/apachelogs/internal/logtail"
	"github.com/cyra/apachelogs/internal/parser"
)

// Logger defines the logging interface needed by the pipeline.
type Logger interface {
	Debugf(string, ...any)
	Infof(string, ...any)
	Warnf(string, ...any)
	Errorf(string, ...any)
}

// Emitter receives every parsed entry. An error stops the pipeline.
type Emitter func(*parser.Entry) error

// Stats counts what a run has seen.
type Stats struct {
	Lines   int
	Parsed  int
	Skipped int
}

// Pipeline parses lines with the log format held in a config.Store. When the
// stored parser settings change the format is recompiled between lines; a
// format that fails to compile is logged and the previous parser stays in
// use. A Pipeline is not safe for concurrent use.
type Pipeline struct {
	store  *config.Store
	logger Logger

	version  uint64
	settings config.ParserConfig
	parser   *parser.Parser
}

// New compiles the parser described by the store's current config.
func New(store *config.Store, logger Logger) (*Pipeline, error) {
	cfg := store.Current()
	p, err := cfg.Parser.Compile()
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		store:    store,
		logger:   logger,
		version:  store.Version(),
		settings: cfg.Parser,
		parser:   p,
	}, nil
}

// Parser returns the parser for the current configuration.
func (p *Pipeline) Parser() *parser.Parser {
	p.refresh()
	return p.parser
}

func (p *Pipeline) refresh() {
	v := p.store.Version()
	if v == p.version {
		return
	}
	p.version = v
	settings := p.store.Current().Parser
	if settings == p.settings {
		return
	}
	np, err := settings.Compile()
	if err != nil {
		p.logger.Errorf("keeping log format %q: %v", p.parser.Format(), err)
		return
	}
	p.settings = settings
	p.parser = np
	p.logger.Infof("log format changed to %q", np.Format())
}

// Run parses each line and hands the entry to emit. A line that does not
// match is skipped when parser.ignore_invalid is set; otherwise Run stops and
// returns an error wrapping the *parser.InvalidEntryError.
func (p *Pipeline) Run(ctx context.Context, lines iter.Seq[string], emit Emitter) (Stats, error) {
	var stats Stats
	for line := range lines {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Lines++
		p.refresh()
		e, err := p.parser.Parse(line)
		if err != nil {
			if p.settings.IgnoreInvalid {
				stats.Skipped++
				p.logger.Debugf("skipping line %d: %v", stats.Lines, err)
				continue
			}
			return stats, fmt.Errorf("line %d: %w", stats.Lines, err)
		}
		stats.Parsed++
		if err := emit(e); err != nil {
			return stats, err
		}
	}
	return stats, ctx.Err()
}

// Follow tails every path and runs the pipeline over the combined lines until
// ctx is done or emit fails. Files that cannot be tailed are logged and left
// out.
func (p *Pipeline) Follow(ctx context.Context, paths []string, poll bool, emit Emitter) (Stats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan logtail.Line, 100)
	var wg sync.WaitGroup
	for _, path := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Tail will exit when ctx is canceled.
			err := logtail.New(path, poll, p.logger).Tail(ctx, lines)
			if err != nil && !errors.Is(err, context.Canceled) {
				p.logger.Errorf("follow %s: %v", path, err)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(lines)
	}()

	seq := func(yield func(string) bool) {
		for {
			select {
			case <-ctx.Done():
				return
			case line, ok := <-lines:
				if !ok {
					return
				}
				if !yield(line.Text) {
					return
				}
			}
		}
	}
	return p.Run(ctx, seq, emit)
}
