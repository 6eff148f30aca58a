// Package stageutil factors the "drain until empty or wall-clock
// deadline" loop all four stages share (spec §5 "Cancellation and
// timeouts"), mechanically lifted out of the near-identical
// `while pool.size() > 0: ...; if elapsed > timeout: break` loops in
// spider.py / downloader.py / text_extractor.py / date_extractor.py.
package stageutil

import (
	"context"
	"time"
)

// Drain repeatedly calls step until either step reports no more work was
// available, or maxTimeout has elapsed since Drain started. maxTimeout
// of zero means run until step reports empty (infinite wall clock, per
// the CLI's "-timeout 0 = infinity" convention).
//
// step returns the number of entries it processed in that round; Drain
// stops once a round processes zero.
func Drain(ctx context.Context, maxTimeout time.Duration, step func(ctx context.Context) (processed int, err error)) error {
	start := time.Now()

	for {
		processed, err := step(ctx)
		if err != nil {
			return err
		}
		if processed == 0 {
			return nil
		}

		if maxTimeout > 0 && time.Since(start) > maxTimeout {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}
