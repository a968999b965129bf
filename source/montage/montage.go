// Package montage reads electrode position files.
package montage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cast"

	"github.com/nixworks/nixworks/errs"
)

// Position is the location of one electrode, in the file's units.
type Position struct {
	Label string
	X     float64
	Y     float64
	Z     float64
}

// Loc returns the position as a coordinate triple.
func (p Position) Loc() [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}

// ReadSFP reads a BESA/EGI .sfp file: one "label x y z" line per electrode.
func ReadSFP(path string) ([]Position, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open montage %s: %w", path, err)
	}
	defer f.Close()

	positions, err := DecodeSFP(f)
	if err != nil {
		return nil, fmt.Errorf("montage %s: %w", path, err)
	}

	return positions, nil
}

// DecodeSFP parses .sfp content. Blank lines and lines starting with '#' are
// ignored.
//
// Returns:
//   - []Position: Electrodes in file order
//   - error: ErrInvalidSource for lines that are not "label x y z"
func DecodeSFP(r io.Reader) ([]Position, error) {
	var out []Position
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: line %d has %d fields", errs.ErrInvalidSource, line, len(fields))
		}

		var coords [3]float64
		for i, s := range fields[1:] {
			v, err := cast.ToFloat64E(s)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", errs.ErrInvalidSource, line, err)
			}
			coords[i] = v
		}
		out = append(out, Position{Label: fields[0], X: coords[0], Y: coords[1], Z: coords[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
