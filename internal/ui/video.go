package ui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/smart-doorbell/internal/camera"
)

// upperHalfBlock paints the top pixel as foreground and the bottom one as background.
const upperHalfBlock = "▀"

// hexColor formats a pixel for lipgloss.
func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// renderFrame draws a frame into cols x rows terminal cells, two pixel rows per cell.
func renderFrame(frame *camera.Frame, cols, rows int) string {
	if frame == nil || frame.Image == nil || cols <= 0 || rows <= 0 {
		return ""
	}

	var (
		img    = frame.Image
		width  = frame.Width()
		height = frame.Height()
		lines  = make([]string, 0, rows)
	)

	for row := range rows {
		var line strings.Builder

		top := (2 * row) * height / (2 * rows)
		bottom := (2*row + 1) * height / (2 * rows)

		for col := range cols {
			x := col * width / cols

			line.WriteString(lipgloss.NewStyle().
				Foreground(hexColor(img.RGBAAt(x, top))).
				Background(hexColor(img.RGBAAt(x, bottom))).
				Render(upperHalfBlock))
		}

		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}
