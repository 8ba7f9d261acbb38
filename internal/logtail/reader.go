package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Stdin is the path that names standard input.
const Stdin = "-"

// LineReader yields the lines of a reader with their terminators intact.
// Lines may be of any length.
type LineReader struct {
	r   *bufio.Reader
	err error
}

// NewLineReader returns a LineReader over r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReaderSize(r, 64*1024)}
}

// All returns the lines as a single-use sequence. A final line without a
// newline is included. Check Err once the sequence ends.
func (lr *LineReader) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			line, err := lr.r.ReadString('\n')
			if line != "" && !yield(line) {
				return
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					lr.err = err
				}
				return
			}
		}
	}
}

// Err returns the first read error other than io.EOF.
func (lr *LineReader) Err() error { return lr.err }

// Open opens path for reading. For Stdin it returns stdin, which is not
// closed by the returned ReadCloser.
func Open(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == Stdin {
		return io.NopCloser(stdin), nil
	}
	return os.Open(path)
}

// Expand resolves input patterns to files in the order given. Patterns may
// use ** to match any number of directories. Stdin and paths without glob
// metacharacters are passed through as is, so that a missing file is
// reported when it is opened. A glob that matches nothing is an error.
func Expand(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return []string{Stdin}, nil
	}
	var out []string
	for _, pattern := range patterns {
		if pattern == Stdin || !hasMeta(pattern) {
			out = appendUnique(out, pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("expand %q: no matching files", pattern)
		}
		slices.Sort(matches)
		for _, m := range matches {
			out = appendUnique(out, m)
		}
	}
	return out, nil
}

func hasMeta(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*', '?', '[', '{', '\\':
			return true
		}
	}
	return false
}

func appendUnique(s []string, v string) []string {
	if slices.Contains(s, v) {
		return s
	}
	return append(s, v)
}
