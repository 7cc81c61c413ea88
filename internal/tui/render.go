// SPDX-License-Identifier: MIT
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"spectra/internal/colormap"
	"spectra/internal/spectrogram"
)

const halfBlock = "▀"

// cellCache memoises the styled half-block for each (upper, lower) colour
// pair. The colormap has 256 entries per theme, so it stays small.
type cellCache map[uint64]string

func hexColor(c uint32) lipgloss.Color {
	r, g, b, _ := colormap.Unpack(c)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}

func (cc cellCache) cell(upper, lower uint32) string {
	k := uint64(upper)<<32 | uint64(lower)
	if s, ok := cc[k]; ok {
		return s
	}
	s := lipgloss.NewStyle().
		Foreground(hexColor(upper)).
		Background(hexColor(lower)).
		Render(halfBlock)
	cc[k] = s
	return s
}

// renderImage draws the visible window with two pixel rows per text line,
// the highest frequency on the first line and the oldest column on the left.
// An odd top row is drawn against black.
func renderImage(img *spectrogram.Image, cc cellCache) string {
	w, h := img.Width(), img.Height()
	cols := make([][]uint32, w)
	for x := range cols {
		cols[x], _ = img.VisibleColumn(x)
	}

	lines := (h + 1) / 2
	var sb strings.Builder
	for line := range lines {
		upperRow := h - 1 - 2*line
		lowerRow := upperRow - 1
		for x := range w {
			upper := cols[x][upperRow]
			lower := uint32(0xFF000000)
			if lowerRow >= 0 {
				lower = cols[x][lowerRow]
			}
			sb.WriteString(cc.cell(upper, lower))
		}
		if line < lines-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
