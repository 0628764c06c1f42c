// Command coverexample drives a couple of the worked coverage/CRV
// scenarios from the command line. It is a demonstration harness, not a
// general test runner: each subcommand wires up one scenario and prints
// its resulting coverage/solve state.
package main

import (
	"fmt"
	"os"

	"github.com/gitrdm/cocotbgo/pkg/coverage"
	"github.com/gitrdm/cocotbgo/pkg/crv"
	"github.com/gitrdm/cocotbgo/pkg/solver"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func rangeInts(lo, hi int) []interface{} {
	out := make([]interface{}, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

func rangeRel(value, bin interface{}) bool {
	v := value.(int)
	r := bin.([2]int)
	return v >= r[0] && v <= r[1]
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "coverexample",
		Short: "Run a worked functional-coverage / CRV scenario",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newMemoryCmd(), newPointCmd())
	return root
}

func newMemoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "memory",
		Short: "Sample an address/parity/rw memory-bus coverage model",
		RunE: func(cmd *cobra.Command, args []string) error {
			coverage.ResetDB()
			db := coverage.DB()

			addr, err := coverage.NewCoverPoint("memory.address",
				[]interface{}{[2]int{0, 50}, [2]int{51, 150}, [2]int{151, 255}},
				"addr", coverage.WithRel(rangeRel))
			if err != nil {
				return err
			}
			if err := db.Add(addr); err != nil {
				return err
			}
			parity, err := coverage.NewCoverPoint("memory.parity", []interface{}{0, 1}, "par")
			if err != nil {
				return err
			}
			if err := db.Add(parity); err != nil {
				return err
			}
			rw, err := coverage.NewCoverPoint("memory.rw", []interface{}{0, 1}, "rw")
			if err != nil {
				return err
			}
			if err := db.Add(rw); err != nil {
				return err
			}

			section := coverage.NewSection(addr, parity, rw)
			for _, s := range []coverage.Args{
				{"addr": 25, "par": 0, "rw": 1},
				{"addr": 100, "par": 1, "rw": 0},
			} {
				if err := section.Sample(s); err != nil {
					return err
				}
			}

			mem, err := db.Get("memory")
			if err != nil {
				return err
			}
			cmd.Printf("memory: size=%d coverage=%d cover_percentage=%.2f\n", mem.Size(), mem.Coverage(), mem.CoverPercentage())
			return nil
		},
	}
}

func newPointCmd() *cobra.Command {
	var draws int
	var seed int64

	c := &cobra.Command{
		Use:   "point",
		Short: "Randomize a Point(X, Y) with X < Y",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &point{}
			p.Init(p)
			p.WithSeed(seed)
			p.AddRand("X", solver.MustDomain(rangeInts(-10, 9)...))
			p.AddRand("Y", solver.MustDomain(rangeInts(-10, 9)...))
			if err := p.AddConstraint([]string{"X", "Y"}, func(v crv.Values) bool {
				return v.Int("X") < v.Int("Y")
			}); err != nil {
				return err
			}

			for i := 0; i < draws; i++ {
				if err := p.Randomize(); err != nil {
					return err
				}
				cmd.Printf("draw %d: X=%d Y=%d\n", i, p.X, p.Y)
			}
			return nil
		},
	}
	c.Flags().IntVar(&draws, "draws", 10, "number of randomize() calls")
	c.Flags().Int64Var(&seed, "seed", 1, "deterministic random seed")
	return c
}

type point struct {
	crv.Randomized
	X, Y int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
