package main

import (
	"fmt"
	"io"
	"os"

	"magnetic-field-service/internal/adapters/fileio"
	"magnetic-field-service/internal/domain"
	"magnetic-field-service/internal/platform/obs"
	"magnetic-field-service/internal/services"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
)

type Output struct {
	Out string `help:"Write to this file instead of standard output." short:"o" type:"path"`
}

var CLI struct {
	LinearWire struct {
		Output
		Segments int     `help:"Number of straight segments." default:"100"`
		XMin     float64 `help:"Start of the wire on the x axis." default:"-0.5"`
		XMax     float64 `help:"End of the wire on the x axis." default:"0.5"`
	} `cmd:"" help:"Straight wire along the x axis."`

	SineWire struct {
		Output
		Points      int     `help:"Number of points on the path." default:"100"`
		Mag         float64 `help:"Amplitude of the sine in y." default:"0.1"`
		XMin        float64 `help:"Start of the wire on the x axis." default:"0"`
		XMax        float64 `help:"End of the wire on the x axis." default:"1"`
		Z           float64 `help:"Plane the wire lies in." default:"0"`
		Wavelengths float64 `help:"Number of wavelengths between x-min and x-max." default:"1"`
	} `cmd:"" help:"Sinusoidal wire in a plane of constant z."`

	LineField struct {
		Output
		Points int     `help:"Number of target points." default:"99"`
		YMin   float64 `help:"First y value." default:"-0.5"`
		YMax   float64 `help:"Upper y bound (exclusive)." default:"0.5"`
	} `cmd:"" help:"Target points on the y axis."`

	PlaneField struct {
		Output
		Rows int     `help:"Grid rows (y)." default:"3"`
		Cols int     `help:"Grid columns (x)." default:"4"`
		XMin float64 `help:"Minimum x." default:"-5"`
		XMax float64 `help:"Maximum x." default:"5"`
		YMin float64 `help:"Minimum y." default:"-5"`
		YMax float64 `help:"Maximum y." default:"5"`
		Z    float64 `help:"Plane of the grid." default:"0"`
	} `cmd:"" help:"Target grid on a plane of constant z."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	obs.SetupLogging(os.Stderr, "info")

	ctx := kong.Parse(&CLI,
		kong.Name("gendata"),
		kong.Description("Generate wire path and target field input files."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	points, out, err := generate(ctx.Command())
	if err != nil {
		writeError(err)
	}
	if err := emit(points, out); err != nil {
		writeError(err)
	}
}

// generate runs the generator selected by command and returns its points
// with the requested output path.
func generate(command string) ([]domain.Point, string, error) {
	switch command {
	case "linear-wire":
		c := CLI.LinearWire
		wire, err := services.LinearWire(c.Segments, c.XMin, c.XMax)
		if err != nil {
			return nil, "", err
		}
		return wire.Coordinates, c.Out, nil
	case "sine-wire":
		c := CLI.SineWire
		wire, err := services.SinusoidalWire(c.Points, c.Mag, c.XMin, c.XMax, c.Z, c.Wavelengths)
		if err != nil {
			return nil, "", err
		}
		return wire.Coordinates, c.Out, nil
	case "line-field":
		c := CLI.LineField
		field, err := services.LinearYField(c.Points, c.YMin, c.YMax)
		if err != nil {
			return nil, "", err
		}
		return field.Locations, c.Out, nil
	case "plane-field":
		c := CLI.PlaneField
		field, err := services.PlanarXYField(c.Rows, c.Cols, c.XMin, c.XMax, c.YMin, c.YMax, c.Z)
		if err != nil {
			return nil, "", err
		}
		return field.Locations, c.Out, nil
	}
	return nil, "", fmt.Errorf("unknown command %q", command)
}

func emit(points []domain.Point, path string) (err error) {
	if path == "" {
		return fileio.WritePoints(os.Stdout, points)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %q: %w", path, cerr)
		}
	}()

	if err := writePoints(f, points); err != nil {
		return err
	}
	log.Info().Str("path", path).Int("points", len(points)).Msg("wrote points")
	return nil
}

// writePoints is replaced in tests.
var writePoints = func(w io.Writer, points []domain.Point) error {
	return fileio.WritePoints(w, points)
}
