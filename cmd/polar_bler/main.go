package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/observe-l/nrpolar/fec"
	"github.com/observe-l/nrpolar/internal/results"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML scenario file; overrides the single-point flags")
		A          = flag.Int("A", 40, "payload bits before CRC")
		E          = flag.Int("E", 108, "rate-matched length")
		nMax       = flag.Int("nmax", 9, "log2 of the maximum mother code length (9 downlink, 10 uplink)")
		crcLen     = flag.Int("crc", 24, "CRC length: 0, 6, 11 or 24")
		L          = flag.Int("L", 8, "list size, 0 for SC")
		il         = flag.Bool("il", true, "input bit interleaver (downlink)")
		chil       = flag.Bool("chil", false, "channel interleaver (uplink)")
		erase      = flag.Float64("erase", 0, "probability of erasing each received LLR")
		snr        = flag.String("snr", "0:4:0.5", "Eb/N0 list in dB: a,b,c or start:stop:step")
		blocks     = flag.Int("blocks", 2000, "codewords per SNR point")
		maxErrors  = flag.Int("max-errors", 100, "stop a point after this many block errors (0 = never)")
		workers    = flag.Int("workers", runtime.GOMAXPROCS(0), "parallel decoders")
		seed       = flag.Int64("seed", 42, "random seed")
		out        = flag.String("out", "docs/reports/polar_bler.md", "output markdown path")
		jsonOut    = flag.String("json", "", "optional JSON report path")
		indexPath  = flag.String("index", "", "optional CSV sweep index to append to (e.g. tables/index.csv)")
		dbPath     = flag.String("db", "", "optional SQLite results database")
		metrics    = flag.String("metrics", "", "serve Prometheus metrics on this address while running")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	sc := &Scenario{Name: "cli", Seed: *seed, Blocks: *blocks, MaxErrors: *maxErrors, Workers: *workers}
	if *configPath != "" {
		var err error
		if sc, err = loadScenario(*configPath); err != nil {
			log.WithError(err).Fatal("load scenario")
		}
	} else {
		snrs, err := parseSNRList(*snr)
		if err != nil {
			log.WithError(err).Fatal("bad -snr")
		}
		sc.Points = []Point{{A: *A, E: *E, NMax: *nMax, CRC: *crcLen, Interleave: *il, ChannelInterleave: *chil, L: *L, SNR: snrs, Erase: *erase}}
		if err := sc.validate(); err != nil {
			log.WithError(err).Fatal("bad flags")
		}
	}
	if sc.Workers <= 0 {
		sc.Workers = runtime.GOMAXPROCS(0)
	}

	if *metrics != "" {
		reg := prometheus.NewRegistry()
		if err := fec.RegisterPolarMetrics(reg); err != nil {
			log.WithError(err).Fatal("register metrics")
		}
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(*metrics, mux); err != nil {
				log.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run := &runJSON{name: sc.Name, seed: sc.Seed, started: time.Now()}
	for pi, p := range sc.Points {
		for si, ebn0 := range p.SNR {
			entry := log.WithFields(logrus.Fields{"A": p.A, "E": p.E, "L": p.L, "crc": p.CRC, "ebn0": ebn0, "erase": p.Erase})
			pt, err := simulate(ctx, p, ebn0, sc.Blocks, sc.MaxErrors, sc.Workers, sc.Seed+int64(1000*pi+si), entry)
			if err != nil {
				entry.WithError(err).Error("simulation aborted")
				break
			}
			entry.WithFields(logrus.Fields{"bler": pt.BLER(), "blocks": pt.Blocks}).Info("point done")
			run.points = append(run.points, pt)
		}
		if ctx.Err() != nil {
			break
		}
	}

	if err := writeMarkdownReport(*out, run); err != nil {
		log.WithError(err).Error("write markdown report")
	}
	if *jsonOut != "" {
		if err := writeJSONReport(*jsonOut, run); err != nil {
			log.WithError(err).Error("write JSON report")
		}
	}
	if *indexPath != "" {
		if err := appendIndex(*indexPath, run.points); err != nil {
			log.WithError(err).Error("append sweep index")
		}
	}
	if *dbPath != "" {
		db, err := results.Open(results.Config{Path: *dbPath}, log)
		if err != nil {
			log.WithError(err).Fatal("open results database")
		}
		defer db.Close()
		rec := &results.Run{Name: sc.Name, Seed: sc.Seed, Points: run.points}
		if err := results.NewRepository(db).SaveRun(rec); err != nil {
			log.WithError(err).Error("save run")
		}
	}
	log.WithField("points", len(run.points)).Info("done")
}
