package main

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/observe-l/nrpolar/fec"
	"github.com/observe-l/nrpolar/internal/channel"
	"github.com/observe-l/nrpolar/internal/results"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// simulate measures one (point, Eb/N0) pair. Each worker owns its codec and RNG.
func simulate(ctx context.Context, p Point, ebn0 float64, blocks, maxErrors, workers int, seed int64, log logrus.FieldLogger) (results.Point, error) {
	cfg := fec.PolarCodecConfig{
		A: p.A, E: p.E, NMax: p.NMax,
		CRCLen: p.CRC, PadCRC: p.PadCRC, RNTI: p.RNTI,
		Interleave: p.Interleave, ChannelInterleave: p.ChannelInterleave,
		L: p.L, Logger: log,
	}
	probe, err := fec.NewPolarCodec(cfg)
	if err != nil {
		return results.Point{}, err
	}
	code := probe.Code()
	out := results.Point{
		K: code.K, E: p.E, N: code.N, L: p.L, NMax: p.NMax, CRCLen: p.CRC,
		Mode: code.Mode.String(), EbN0dB: ebn0, Erase: p.Erase,
	}

	var sent, errs, undetected, decodeNanos atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		rng := rand.New(rand.NewSource(seed + int64(w)*7919))
		g.Go(func() error {
			pc, err := fec.NewPolarCodec(cfg)
			if err != nil {
				return err
			}
			ch, err := channel.NewAWGN(ebn0, float64(p.A)/float64(p.E), rng)
			if err != nil {
				return err
			}
			drop := channel.NewBernoulli(p.Erase, rng)
			a := make([]uint8, p.A)
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				if sent.Add(1) > int64(blocks) || (maxErrors > 0 && errs.Load() >= int64(maxErrors)) {
					sent.Add(-1)
					return nil
				}
				for i := range a {
					a[i] = uint8(rng.Intn(2))
				}
				e, err := pc.Transmit(a)
				if err != nil {
					return errors.Wrap(err, "transmit")
				}
				llr := ch.Transmit(e)
				drop.Erase(llr)
				t0 := time.Now()
				got, ok, err := pc.Receive(llr)
				decodeNanos.Add(int64(time.Since(t0)))
				if err != nil {
					return errors.Wrap(err, "receive")
				}
				if !ok {
					errs.Add(1)
					continue
				}
				for i := range a {
					if got[i] != a[i] {
						errs.Add(1)
						undetected.Add(1)
						break
					}
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return results.Point{}, err
	}
	out.Blocks = int(sent.Load())
	out.Errors = int(errs.Load())
	out.Undetected = int(undetected.Load())
	if out.Blocks > 0 {
		out.AvgMicros = float64(decodeNanos.Load()) / float64(out.Blocks) / 1e3
	}
	return out, nil
}
