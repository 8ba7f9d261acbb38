package logtail

import (
	"context"

	"github.com/hpcloud/tail"
)

// Logger defines the logging interface needed by the tailer.
type Logger interface {
	Infof(string, ...any)
	Errorf(string, ...any)
}

// Line is one line read from a log file.
type Line struct {
	Path string
	Text string
}

// Tailer streams lines from a log file as they are written.
type Tailer struct {
	path   string
	poll   bool
	logger Logger
}

// New creates a new Tailer for the given file path. With poll set the file
// is checked periodically instead of through inotify.
func New(path string, poll bool, logger Logger) *Tailer {
	return &Tailer{
		path:   path,
		poll:   poll,
		logger: logger,
	}
}

// Tail reads the file from the start, then follows it across rotations and
// sends each line to out until ctx is done.
func (t *Tailer) Tail(ctx context.Context, out chan<- Line) error {
	cfg := tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Poll:      t.poll,
		Logger:    tail.DiscardingLogger,
	}

	tf, err := tail.TailFile(t.path, cfg)
	if err != nil {
		return err
	}
	defer tf.Cleanup()

	t.logger.Infof("tailing log file %s", t.path)

	for {
		select {
		case <-ctx.Done():
			_ = tf.Stop()
			return ctx.Err()
		case line, ok := <-tf.Lines:
			if !ok {
				return tf.Err()
			}
			if line.Err != nil {
				t.logger.Errorf("tail error: %v", line.Err)
				continue
			}
			select {
			case out <- Line{Path: t.path, Text: line.Text}:
			case <-ctx.Done():
				_ = tf.Stop()
				return ctx.Err()
			}
		}
	}
}
