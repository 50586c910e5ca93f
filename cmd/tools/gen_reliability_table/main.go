package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/observe-l/nrpolar/fec"
)

func writeTable(out string) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	return fec.Write3GPPTable(out)
}

func checkTable(path string) error {
	order, err := fec.Load3GPPTable(path)
	if err != nil {
		return err
	}
	if !fec.MatchesBuiltinReliability(order) {
		return fmt.Errorf("%s: %d entries do not match the built-in sequence", path, len(order))
	}
	return nil
}

// dumpCode prints the derived structure of one (K, E, nMax) code.
func dumpCode(w io.Writer, K, E, nMax int) error {
	c, err := fec.ConstructPolar(K, E, nMax)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "K=%d E=%d nMax=%d\n", K, E, nMax)
	fmt.Fprintf(w, "N=%d n=%d mode=%s frozen=%d\n", c.N, c.LogN, c.Mode, c.NumFrozen())
	fmt.Fprintf(w, "pc=%v (wm=%d)\n", c.PC, c.NPCwm)
	fmt.Fprintf(w, "info=%v\n", c.Info)
	return nil
}

func main() {
	var out, check string
	var K, E, nMax int
	flag.StringVar(&out, "o", "", "output file path (default: tables/reliability_3gpp.txt)")
	flag.StringVar(&check, "check", "", "verify an existing table against the built-in sequence instead of writing one")
	flag.IntVar(&K, "K", 0, "if >0, print the code structure for K (with -E and -nmax)")
	flag.IntVar(&E, "E", 0, "rate-matched length for -K")
	flag.IntVar(&nMax, "nmax", 9, "maximum log2(N) for -K (9 downlink, 10 uplink)")
	flag.Parse()

	switch {
	case K > 0:
		if err := dumpCode(os.Stdout, K, E, nMax); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	case check != "":
		if err := checkTable(check); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		fmt.Printf("%s matches the built-in sequence\n", check)
	default:
		if out == "" {
			out = filepath.Join("tables", "reliability_3gpp.txt")
		}
		if err := writeTable(out); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", out)
	}
}
