package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/justyntemme/polysynth/pkg/engine"
	"github.com/justyntemme/polysynth/pkg/framework/debug"
)

// runParams lists every engine parameter with its range and the value the
// given config sets it to.
func runParams(args []string) error {
	fs := flag.NewFlagSet("params", flag.ExitOnError)
	var ef engineFlags
	ef.register(fs)
	_ = fs.Parse(args)

	cfg, err := ef.load(fs)
	if err != nil {
		return err
	}
	log := debug.New(os.Stderr, "polysynth", debug.FlagLevel|debug.FlagPrefix)
	log.SetLevel(debug.LogLevelWarn)

	eng, err := engine.New(cfg, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tMIN\tMAX\tDEFAULT\tVALUE\tUNIT")
	for _, p := range eng.Params().All() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Key, p.Name,
			p.FormatValue(0), p.FormatValue(1),
			p.FormatValue(p.DefaultValue), p.String(),
			p.Unit)
	}
	return w.Flush()
}
