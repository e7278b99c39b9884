package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	stitchpaint "github.com/esimov/stitchpaint/core"
	"github.com/esimov/stitchpaint/preview"
	"github.com/esimov/stitchpaint/stitch"
	"github.com/esimov/stitchpaint/utils"
)

const banner = `
┌─┐┌┬┐┬┌┬┐┌─┐┬ ┬┌─┐┌─┐┬┌┐┌┌┬┐
└─┐ │ │ │ │  ├─┤├─┘├─┤││││ │
└─┘ ┴ ┴ ┴ └─┘┴ ┴┴  ┴ ┴┴┘└┘ ┴

Normal map painting and embroidery stitch planning.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

const (
	// message colors
	successColor = "\x1b[92m"
	errorColor   = "\x1b[31m"
	defaultColor = "\x1b[0m"
)

// Version indicates the current build version.
var Version string

var imageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/bmp"}

// strokeEntry is a stroke as stored in the strokes JSON file.
type strokeEntry struct {
	From     [2]float64 `json:"from"`
	To       [2]float64 `json:"to"`
	Polarity *bool      `json:"polarity,omitempty"`
	Blend    bool       `json:"blend,omitempty"`
	Density  uint8      `json:"density,omitempty"`
}

func (s strokeEntry) stroke() stitchpaint.Stroke {
	st := stitchpaint.Stroke{
		From:     stitchpaint.V(s.From[0], s.From[1]),
		To:       stitchpaint.V(s.To[0], s.To[1]),
		Polarity: s.Polarity == nil || *s.Polarity,
		Density:  s.Density,
	}
	if s.Blend {
		st.Mode = stitchpaint.StrokeBlend
	}
	return st
}

// report is written by the -json flag.
type report struct {
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	Sites    int              `json:"sites"`
	Stats    *stitch.Stats    `json:"stats,omitempty"`
	Segments []stitch.Segment `json:"segments,omitempty"`
}

type options struct {
	zones, strokes    string
	normal, density   string
	width, height     int
	mesh              float64
	legacy            bool
	normalOut         string
	densityOut        string
	csv, dst, preview string
	converter, format string
	scale             float64
	jsonf             string
	forbidden         string
	config            string
	verbose           bool
}

func main() {
	var o options
	flag.StringVar(&o.zones, "zones", "", "Zone map image, distinct colors are distinct zones")
	flag.StringVar(&o.strokes, "strokes", "", "JSON file of strokes to paint, - for stdin")
	flag.StringVar(&o.normal, "normal", "", "Existing normal map to plan (disables painting)")
	flag.StringVar(&o.density, "density", "", "Existing density map used with -normal")
	flag.IntVar(&o.width, "width", 256, "Canvas width without zone or normal map")
	flag.IntVar(&o.height, "height", 256, "Canvas height without zone or normal map")
	flag.Float64Var(&o.mesh, "mesh", 0, "Seed a neutral site mesh with this spacing")
	flag.BoolVar(&o.legacy, "legacy-weights", false, "Do not renormalize clamped barycentric weights")
	flag.StringVar(&o.normalOut, "out", "", "Destination of the painted normal map")
	flag.StringVar(&o.densityOut, "density-out", "", "Destination of the painted density map")
	flag.StringVar(&o.csv, "csv", "", "Write the stitch plan as CSV, - for stdout")
	flag.StringVar(&o.dst, "dst", "", "Write the stitch plan as machine embroidery file")
	flag.StringVar(&o.converter, "converter", "libembroidery-convert", "Embroidery file converter command")
	flag.StringVar(&o.format, "format", "", "Embroidery file format, defaults to the -dst extension")
	flag.StringVar(&o.preview, "preview", "", "Render the stitch plan into a PNG image")
	flag.Float64Var(&o.scale, "scale", 2, "Preview scale factor")
	flag.StringVar(&o.jsonf, "json", "", "Output the plan statistics into a json file, - for stdout")
	flag.StringVar(&o.config, "config", "", "Planner parameters file (yaml, json, toml)")
	flag.StringVar(&o.forbidden, "forbidden", "", "No-go segments file, one \"x1 y1 x2 y2\" per line")
	flag.BoolVar(&o.verbose, "v", false, "Verbose logging")

	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, banner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if o.normal == "" && o.strokes == "" && o.mesh <= 0 {
		log.Fatal("Usage: stitchpaint -strokes strokes.json -out normal.png -csv plan.csv\n" +
			"       stitchpaint -normal normal.png -density density.png -preview plan.png")
	}

	logger, err := newLogger(o.verbose)
	if err != nil {
		log.Fatalf("%sCould not create the logger: %v%s", errorColor, err, defaultColor)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	if err := run(ctx, o, logger); err != nil {
		log.Fatalf("%s%v%s", errorColor, err, defaultColor)
	}
	log.Printf("\nExecution time: %s%.2fs%s\n", successColor, time.Since(start).Seconds(), defaultColor)
}

func run(ctx context.Context, o options, logger *zap.Logger) error {
	params, err := loadParams(o.config)
	if err != nil {
		return err
	}
	var nogos []stitch.Edge
	if o.forbidden != "" {
		if nogos, err = readNogos(o.forbidden); err != nil {
			return err
		}
	}

	ind := utils.NewProgressIndicator("Painting...", time.Millisecond*100)
	ind.Start()
	sess, err := buildSession(o, logger)
	if err != nil {
		ind.Fail(fmt.Sprintf("Painting... failed ✗ %v", err))
		return err
	}
	ind.StopMsg = fmt.Sprintf("Painting... %sfinished ✔%s\n", successColor, defaultColor)
	ind.Stop()

	if err := writeImage(o.normalOut, sess.NormalMap().Image()); err != nil {
		return fmt.Errorf("writing the normal map: %w", err)
	}
	if err := writeImage(o.densityOut, sess.DensityMap().Image()); err != nil {
		return fmt.Errorf("writing the density map: %w", err)
	}

	rep := report{Width: sess.Width(), Height: sess.Height(), Sites: len(sess.Sites())}
	if o.csv != "" || o.dst != "" || o.preview != "" || o.jsonf != "" {
		res, err := plan(ctx, sess, params, nogos, logger)
		if err != nil {
			return err
		}
		rep.Stats = &res.Stats
		rep.Segments = res.Segments
		if err := exportPlan(ctx, o, sess, res); err != nil {
			return err
		}
		log.Printf("%s%d%s stitches planned, %d long stitches sewn as jumps", successColor, len(res.Segments), defaultColor, res.Stats.LongStitches)
	}

	if o.jsonf != "" {
		return withOutput(o.jsonf, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		})
	}
	return nil
}

func buildSession(o options, logger *zap.Logger) (*stitchpaint.Session, error) {
	opts := stitchpaint.Options{Logger: logger, LegacyWeights: o.legacy}

	if o.normal != "" {
		normal, err := loadImage(o.normal)
		if err != nil {
			return nil, err
		}
		var density image.Image
		if o.density != "" {
			if density, err = loadImage(o.density); err != nil {
				return nil, err
			}
		}
		b := normal.Bounds()
		return stitchpaint.NewStaticSession(normal, density, b.Dx(), b.Dy(), opts), nil
	}

	var zm *stitchpaint.ZoneMap
	width, height := o.width, o.height
	if o.zones != "" {
		img, err := loadImage(o.zones)
		if err != nil {
			return nil, err
		}
		zm = stitchpaint.ParseZoneMap(img)
		width, height = zm.Width, zm.Height
	}
	sess, err := stitchpaint.NewSession(width, height, zm, opts)
	if err != nil {
		return nil, err
	}
	if o.mesh > 0 {
		sess.SeedDefaultMesh(o.mesh)
	}
	if o.strokes != "" {
		strokes, err := readStrokes(o.strokes)
		if err != nil {
			return nil, err
		}
		for i, s := range strokes {
			if _, err := sess.PaintStroke(s.stroke()); err != nil {
				logger.Warn("stroke skipped", zap.Int("stroke", i), zap.Error(err))
			}
		}
	}
	return sess, nil
}

func plan(ctx context.Context, sess *stitchpaint.Session, params stitch.Params, nogos []stitch.Edge, logger *zap.Logger) (*stitch.Result, error) {
	ind := utils.NewProgressIndicator("Planning stitches...", time.Millisecond*100)
	ind.Start()

	pl := stitch.NewPlanner(params)
	pl.Logger = logger
	pl.Forbidden = nogos
	pl.OnStage = func(s stitch.Stage) {
		ind.Update(fmt.Sprintf("Planning stitches... %s", s))
	}
	res, err := pl.Plan(ctx, sess.NormalMap(), sess.DensityMap())
	if err != nil {
		ind.Fail(fmt.Sprintf("Planning stitches... failed ✗ %v", err))
		return nil, err
	}
	ind.StopMsg = fmt.Sprintf("Planning stitches... %sfinished ✔%s\n", successColor, defaultColor)
	ind.Stop()
	return res, nil
}

func exportPlan(ctx context.Context, o options, sess *stitchpaint.Session, res *stitch.Result) error {
	if o.csv != "" {
		err := withOutput(o.csv, func(w io.Writer) error {
			return stitch.WriteCSV(w, res.Segments, res.Height)
		})
		if err != nil {
			return fmt.Errorf("writing the csv plan: %w", err)
		}
	}
	if o.dst != "" {
		format := o.format
		if format == "" {
			format = strings.TrimPrefix(filepath.Ext(o.dst), ".")
		}
		var exp stitch.Exporter = stitch.Converter{Command: o.converter, Format: format, Height: res.Height}
		data, err := exp.ExportPath(ctx, res.Segments)
		switch {
		case err != nil:
			log.Printf("%sEmbroidery export failed: %v%s", errorColor, err, defaultColor)
		default:
			if err := os.WriteFile(o.dst, data, 0o644); err != nil {
				return err
			}
		}
	}
	if o.preview != "" {
		img := preview.Result(sess.NormalMap(), res, preview.Options{Scale: o.scale, Fade: 0.6})
		if err := preview.Save(o.preview, img); err != nil {
			return fmt.Errorf("writing the preview: %w", err)
		}
	}
	return nil
}

func readStrokes(path string) ([]strokeEntry, error) {
	var r io.Reader
	if path == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdin")
		}
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var strokes []strokeEntry
	if err := json.NewDecoder(r).Decode(&strokes); err != nil {
		return nil, fmt.Errorf("decoding strokes: %w", err)
	}
	return strokes, nil
}

func readNogos(path string) ([]stitch.Edge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	segs, err := stitch.ReadSegments(f)
	if err != nil {
		return nil, fmt.Errorf("reading no-go segments %s: %w", path, err)
	}
	return segs, nil
}

func loadImage(path string) (image.Image, error) {
	ct, err := utils.DetectFileContentType(path)
	if err != nil {
		return nil, err
	}
	if !inSlice(ct, imageTypes) {
		return nil, fmt.Errorf("%s is not a supported image (%s)", path, ct)
	}
	return stitchpaint.GetImage(path)
}

// withOutput runs fn on the named file, or on stdout for pipeName.
func withOutput(path string, fn func(io.Writer) error) error {
	if path == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("`-` should be used with a pipe for stdout")
		}
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeImage(path string, img image.Image) error {
	if path == "" {
		return nil
	}
	return withOutput(path, func(w io.Writer) error {
		return encodeImage(w, img)
	})
}

// encodeImage picks the encoder from the destination file extension.
func encodeImage(dst io.Writer, img image.Image) error {
	f, ok := dst.(*os.File)
	if !ok || f == os.Stdout {
		return png.Encode(dst, img)
	}
	switch filepath.Ext(f.Name()) {
	case "", ".png":
		return png.Encode(dst, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(dst, img, &jpeg.Options{Quality: 100})
	}
	return errors.New("unsupported image format")
}

// inSlice checks if the item exists in the slice.
func inSlice(item string, slice []string) bool {
	for _, it := range slice {
		if it == item {
			return true
		}
	}
	return false
}
