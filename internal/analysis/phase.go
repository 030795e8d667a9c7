package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/sim"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D holds position against velocity along one axis of one mass.
type PhasePortrait2D struct {
	Mass, Axis int
	Points     []Point
}

// GeneratePhasePortrait resets model and records steps samples of the given
// mass along axis (0=x, 1=y, 2=z).
func GeneratePhasePortrait(model dynamo.Model, mass, axis int, dt float64, steps int) (*PhasePortrait2D, error) {
	v := model.View()
	if mass < 0 || mass >= v.MassCount() {
		return nil, fmt.Errorf("mass %d out of range [0, %d)", mass, v.MassCount())
	}
	if axis < 0 || axis > 2 {
		return nil, fmt.Errorf("axis %d out of range [0, 2]", axis)
	}

	portrait := &PhasePortrait2D{
		Mass:   mass,
		Axis:   axis,
		Points: make([]Point, 0, steps),
	}

	model.Reset()
	for i := 0; i < steps; i++ {
		if err := model.Step(dt); err != nil {
			return nil, err
		}
		portrait.Points = append(portrait.Points, Point{
			X: v.Position(mass)[axis],
			Y: v.Velocity(mass)[axis],
		})
	}
	return portrait, nil
}

// Series extracts one coordinate of one mass from every frame.
func Series(frames []sim.Frame, mass, axis int) []float64 {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		if mass < len(f.Positions) {
			out = append(out, f.Positions[mass][axis])
		}
	}
	return out
}

// Crossings returns the interpolated times at which series rises through
// level. Samples are dt apart.
func Crossings(series []float64, dt, level float64) []float64 {
	var times []float64
	for i := 1; i < len(series); i++ {
		prev, curr := series[i-1], series[i]
		if prev < level && curr >= level {
			frac := (level - prev) / (curr - prev)
			times = append(times, (float64(i-1)+frac)*dt)
		}
	}
	return times
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// axes, where visible
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
