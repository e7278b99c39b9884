package stitch

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	stitchpaint "github.com/esimov/stitchpaint/core"
)

// ReadSegments reads no-go segments, one per line as "x1 y1 x2 y2" in
// canvas coordinates. Blank lines and lines starting with # are skipped.
func ReadSegments(r io.Reader) ([]Edge, error) {
	var segs []Edge
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: expected 4 coordinates, got %d", line, len(fields))
		}
		var c [4]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			c[i] = v
		}
		segs = append(segs, Edge{U: stitchpaint.V(c[0], c[1]), V: stitchpaint.V(c[2], c[3])})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return segs, nil
}

// WriteSegments writes segments in the format read by ReadSegments.
func WriteSegments(w io.Writer, segs []Edge) error {
	bw := bufio.NewWriter(w)
	for _, e := range segs {
		fmt.Fprintf(bw, "%s %s %s %s\n",
			strconv.FormatFloat(e.U.X, 'g', -1, 64),
			strconv.FormatFloat(e.U.Y, 'g', -1, 64),
			strconv.FormatFloat(e.V.X, 'g', -1, 64),
			strconv.FormatFloat(e.V.Y, 'g', -1, 64),
		)
	}
	return bw.Flush()
}
