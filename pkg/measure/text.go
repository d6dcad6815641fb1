package measure

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/width"

	"github.com/xkilldash9x/boxflow/pkg/geom"
	"github.com/xkilldash9x/boxflow/pkg/layout"
)

// -- Wrapping --

func paragraphs(s string) [][]string {
	lines := strings.Split(s, "\n")
	out := make([][]string, len(lines))
	for i, l := range lines {
		out[i] = strings.Fields(l)
	}
	return out
}

// wrap breaks words greedily into lines no wider than limit and returns the
// line count and the widest line. A word wider than limit gets a line of its own.
func wrap(paras [][]string, limit, space float64, advance func(string) float64) (lines int, widest float64) {
	for _, words := range paras {
		lines++
		cur := 0.0
		for i, w := range words {
			ww := advance(w)
			if i == 0 {
				cur = ww
				continue
			}
			if cur+space+ww > limit {
				widest = math.Max(widest, cur)
				lines++
				cur = ww
				continue
			}
			cur += space + ww
		}
		widest = math.Max(widest, cur)
	}
	return lines, widest
}

func measureText(content string, known geom.Size[float64], available geom.Size[layout.AvailableSpace],
	lineHeight, space float64, advance func(string) float64) geom.Size[float64] {
	if content == "" {
		return geom.SizeOr(known, geom.ZeroSize())
	}
	if geom.IsSome(known.Width) && geom.IsSome(known.Height) {
		return known
	}
	limit := wrapLimit(known.Width, available.Width)
	lines, widest := wrap(paragraphs(content), limit, space, advance)
	size := geom.Size[float64]{Width: widest, Height: float64(lines) * lineHeight}
	return geom.SizeOr(known, size)
}

// -- Terminal Cells --

// TerminalText measures text in fixed-width terminal cells, one cell per line
// of height. East Asian wide and fullwidth runes take two cells.
type TerminalText struct {
	Content string
}

// Measure implements Measurer.
func (t TerminalText) Measure(known geom.Size[float64], available geom.Size[layout.AvailableSpace]) (geom.Size[float64], error) {
	return measureText(t.Content, known, available, 1, 1, CellWidth), nil
}

// CellWidth returns the number of terminal cells s occupies.
func CellWidth(s string) float64 {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			if r >= 0x20 {
				n++
			}
		}
	}
	return float64(n)
}

// -- Font Metrics --

// NewGoFace returns the Go Regular font at the given size in points, at 72 DPI
// so that one point is one layout unit. A face is not safe for concurrent use.
func NewGoFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("measure: parse go regular: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("measure: new face: %w", err)
	}
	return face, nil
}

// FontText measures text by glyph advances of a font face.
type FontText struct {
	Content string
	Face    font.Face
}

// Measure implements Measurer.
func (t FontText) Measure(known geom.Size[float64], available geom.Size[layout.AvailableSpace]) (geom.Size[float64], error) {
	if t.Face == nil {
		return geom.Size[float64]{}, fmt.Errorf("measure: font text %q has no face", t.Content)
	}
	advance := func(s string) float64 { return fromFixed(font.MeasureString(t.Face, s)) }
	lineHeight := fromFixed(t.Face.Metrics().Height)
	return measureText(t.Content, known, available, lineHeight, advance(" "), advance), nil
}

func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }
