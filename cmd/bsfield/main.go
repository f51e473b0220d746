package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"magnetic-field-service/internal/adapters/fileio"
	"magnetic-field-service/internal/config"
	"magnetic-field-service/internal/platform/obs"
	"magnetic-field-service/internal/platform/stores"
	"magnetic-field-service/internal/services"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
)

const description = `Calculate and print the magnetic field at the target co-ordinates due to the given wire path using the Biot-Savart Law.
See: https://en.wikipedia.org/wiki/Biot%E2%80%93Savart_law

Both the wire path and target field files have the same syntax:
Line 1: The number of subsequent entries, e.g. 100
Lines 2 onward: The comma-separated x,y,z co-ordinates, e.g. -0.117668100970,0.484508134559,0.73639054917

The output is the comma-separated magnetic field vector at the provided target field positions, i.e. field-x,y,z.
Line 1 of the output is the current that was used to calculate the target field.
Line 2 is the number of subsequent lines.
Line 3 onwards are the comma-separated data, either just the calculated field or the co-ordinates and field:
If -c is specified, the target position is repeated in the output, i.e. target-x,y,z,field-x,y,z`

type CLI struct {
	Wire    string  `help:"File path for the wire path." short:"w" default:"wire_path_xyz.csv" type:"path"`
	Target  string  `help:"File path for the target field." short:"t" default:"target_field_xyz.csv" type:"path"`
	Current float64 `help:"Current flowing through the wire (in Amperes)." short:"A" default:"1.0"`
	Coords  bool    `help:"Include the target field co-ordinates in the output." short:"c"`
	Debug   bool    `help:"Prefix each output row with its index." short:"d"`

	Strict  bool    `help:"Fail instead of emitting inf/nan when a target coincides with a segment midpoint." env:"STRICT"`
	Epsilon float64 `help:"Strict-mode singularity radius in meters." default:"0" env:"SINGULAR_EPSILON"`
	Workers int     `help:"Goroutines sharing the targets (0 uses all CPUs)." default:"0" env:"WORKERS"`
	Verbose bool    `help:"Enable debug logging on stderr." short:"v"`
	Save    bool    `help:"Persist the run to the configured run store (DB_DRIVER/DB_PATH/DATABASE_URL)."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	loaded := config.Load()

	var cli CLI
	kong.Parse(&cli,
		kong.Name("bsfield"),
		kong.Description(description),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}))

	level := config.Get("LOG_LEVEL", "warn")
	if cli.Verbose {
		level = "debug"
	}
	obs.SetupLogging(os.Stderr, level)
	if !loaded {
		log.Debug().Msg("No .env file found (using environment variables)")
	}

	if err := run(context.Background(), cli, os.Stdout); err != nil {
		writeError(err)
	}
}

// run loads both input files, evaluates, and prints the results.
// All input is validated before the evaluator is invoked.
func run(ctx context.Context, cli CLI, out io.Writer) error {
	wire, err := fileio.ReadWirePath(cli.Wire)
	if err != nil {
		return err
	}

	target, err := fileio.ReadTargetField(cli.Target)
	if err != nil {
		return err
	}

	workers := cli.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	ev := &services.Evaluator{
		Workers: workers,
		Strict:  cli.Strict,
		Epsilon: cli.Epsilon,
	}

	log.Debug().
		Str("wire", cli.Wire).
		Int("segments", wire.Segments()).
		Str("target", cli.Target).
		Int("targets", target.Size()).
		Float64("current", cli.Current).
		Int("workers", workers).
		Msg("evaluating field")

	if cli.Save {
		st, err := stores.Open()
		if err != nil {
			return err
		}
		defer st.Close()

		req := services.ComputeFieldRequest{Wire: wire, Target: target, Current: cli.Current, Save: true}
		saved, err := services.ComputeField(ctx, req, ev, st.Cache, st.Repo)
		if err != nil {
			return err
		}
		log.Info().Int64("run_id", saved.ID).Bool("cached", saved.Cached).Msg("run saved")
	} else if err := ev.Evaluate(ctx, target, wire, cli.Current); err != nil {
		return err
	}

	return fileio.WriteResults(out, target, cli.Current, fileio.WriteOptions{
		Coords: cli.Coords,
		Index:  cli.Debug,
	})
}
