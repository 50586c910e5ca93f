package fec

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// PolarBatchResult is the outcome for one codeword of a batch.
type PolarBatchResult struct {
	Bits []uint8
	OK   bool
}

// PolarDecodeBatch list-decodes independent codewords in parallel. Each worker
// owns its own decoder; workers <= 0 uses GOMAXPROCS. The first input error or
// a cancelled ctx stops the batch.
func PolarDecodeBatch(ctx context.Context, cfg PolarSCLConfig, llrs [][]float64, workers int) ([]PolarBatchResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(llrs) {
		workers = len(llrs)
	}
	// validate once before spawning
	if _, err := NewPolarSCLDecoder(cfg); err != nil {
		return nil, err
	}
	out := make([]PolarBatchResult, len(llrs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			dec, err := NewPolarSCLDecoder(cfg)
			if err != nil {
				return err
			}
			for i := w; i < len(llrs); i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				bits, ok, err := dec.Decode(llrs[i])
				if err != nil {
					return errors.Wrapf(err, "codeword %d", i)
				}
				out[i] = PolarBatchResult{Bits: bits, OK: ok}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
