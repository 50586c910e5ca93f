package fec

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	decoderSC  = "sc"
	decoderSCL = "scl"

	outcomeDecoded   = "decoded"
	outcomeCRCFail   = "crc_fail"
	outcomeEarlyStop = "early_stop"
)

var (
	polarDecodes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nrpolar",
		Name:      "decodes_total",
		Help:      "Polar decodes by decoder and outcome.",
	}, []string{"decoder", "outcome"})

	polarDecodeSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nrpolar",
		Name:      "decode_seconds",
		Help:      "Wall time of a single polar decode.",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
	}, []string{"decoder"})

	polarPathsPruned = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nrpolar",
		Name:      "paths_pruned_total",
		Help:      "List decoder paths dropped by metric, parity or CRC pruning.",
	})
)

// RegisterPolarMetrics registers the decoder collectors with reg.
// The collectors are updated whether or not they are registered.
func RegisterPolarMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{polarDecodes, polarDecodeSeconds, polarPathsPruned} {
		if err := reg.Register(c); err != nil {
			return errors.Wrap(err, "register polar metrics")
		}
	}
	return nil
}

func observeDecode(decoder, outcome string, elapsed time.Duration) {
	polarDecodes.WithLabelValues(decoder, outcome).Inc()
	polarDecodeSeconds.WithLabelValues(decoder).Observe(elapsed.Seconds())
}
