package nmea

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

// maxLineBytes caps one sentence. NMEA 0183 allows 82; puck firmware often exceeds it.
const maxLineBytes = 1024

// Stats counts sentences seen by a Reader.
type Stats struct {
	Lines    uint64
	Fixes    uint64
	Headings uint64
	Skipped  uint64
	Errors   uint64
}

// Reader turns a line-oriented NMEA stream into Events.
type Reader struct {
	src    io.Reader
	logger *zap.Logger

	lines, fixes, headings, skipped, errs atomic.Uint64
}

// NewReader wraps src. If src is an io.Closer it is closed when Run's
// context ends, which unblocks a pending serial read.
func NewReader(src io.Reader, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{src: src, logger: logger}
}

// Run decodes sentences until the stream ends or ctx is cancelled, calling fn
// for each fix or heading. Void, unsupported and corrupt sentences are skipped.
func (r *Reader) Run(ctx context.Context, fn func(Event)) error {
	if c, ok := r.src.(io.Closer); ok {
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				_ = c.Close()
			case <-done:
			}
		}()
	}

	sc := bufio.NewScanner(r.src)
	sc.Buffer(make([]byte, 0, 128), maxLineBytes)
	for sc.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		r.lines.Add(1)

		ev, err := Decode(line)
		switch {
		case err == nil:
		case errors.Is(err, ErrUnsupported), errors.Is(err, ErrVoid):
			r.skipped.Add(1)
			continue
		default:
			r.errs.Add(1)
			r.logger.Debug("Bad NMEA sentence", zap.Error(err))
			continue
		}

		switch ev.Kind {
		case KindFix:
			r.fixes.Add(1)
		case KindHeading:
			r.headings.Add(1)
		}
		fn(ev)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return sc.Err()
}

// Stats returns counters accumulated so far.
func (r *Reader) Stats() Stats {
	return Stats{
		Lines:    r.lines.Load(),
		Fixes:    r.fixes.Load(),
		Headings: r.headings.Load(),
		Skipped:  r.skipped.Load(),
		Errors:   r.errs.Load(),
	}
}
