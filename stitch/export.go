package stitch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	stitchpaint "github.com/esimov/stitchpaint/core"
)

// Segment is one stitch of the final plan.
type Segment struct {
	From stitchpaint.Vec2 `json:"from"`
	To   stitchpaint.Vec2 `json:"to"`
	// Off marks stitches running against the field.
	Off bool `json:"off,omitempty"`
	// Jump marks a move without stitching, breaking the contiguity of the plan.
	Jump bool `json:"jump,omitempty"`
}

// ErrEmptyPlan is returned when exporting a plan without stitches.
var ErrEmptyPlan = errors.New("stitch plan is empty")

// WriteCSV writes the plan in the libembroidery CSV format, one row per
// needle position. Jump segments turn the row of their destination into a
// JUMP, stitches off the field set the flag of the row they start from. The
// y axis is flipped so that height becomes the origin.
func WriteCSV(w io.Writer, segments []Segment, height int) error {
	if len(segments) == 0 {
		return ErrEmptyPlan
	}
	bw := bufio.NewWriter(w)
	row := func(cmd string, p stitchpaint.Vec2, flag int) {
		fmt.Fprintf(bw, "\"*\", \"%s\", \"%s\", \"%s\", %d\n",
			cmd,
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(float64(height)-p.Y, 'g', -1, 64),
			flag,
		)
	}
	command := func(jump bool) string {
		if jump {
			return "JUMP"
		}
		return "STITCH"
	}
	for i, s := range segments {
		flag := 0
		if s.Off {
			flag = 1
		}
		row(command(i > 0 && segments[i-1].Jump), s.From, flag)
	}
	last := segments[len(segments)-1]
	row(command(last.Jump), last.To, 0)
	row("END", last.To, 0)
	return bw.Flush()
}

// Exporter converts a stitch plan into a machine embroidery file.
type Exporter interface {
	ExportPath(ctx context.Context, segments []Segment) ([]byte, error)
}

// Converter exports plans through an external command line converter
// invoked as `Command <input.csv> <output.ext>`.
type Converter struct {
	// Command is the converter executable, libembroidery-convert by default.
	Command string
	// Format is the output file extension without the dot, dst by default.
	Format string
	// Height is the canvas height used to flip the y axis.
	Height int
}

// ExportPath writes the plan into a temporary CSV file, runs the converter
// and returns the produced file.
func (c Converter) ExportPath(ctx context.Context, segments []Segment) ([]byte, error) {
	command, format := c.Command, c.Format
	if command == "" {
		command = "libembroidery-convert"
	}
	if format == "" {
		format = "dst"
	}

	dir, err := os.MkdirTemp("", "stitchpaint")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "stitches.csv")
	out := filepath.Join(dir, "plan."+format)

	f, err := os.Create(in)
	if err != nil {
		return nil, err
	}
	if err := WriteCSV(f, segments, c.Height); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, command, in, out)
	if msg, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", command, err, msg)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("converter produced no output: %w", err)
	}
	return data, nil
}
