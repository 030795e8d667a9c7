package gui

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/sim"
)

func (a *App) drawModel() {
	m := a.Session.Model()
	v := m.View()

	if g, ok := m.(dynamo.Grounded); ok && g.Ground() != nil {
		a.drawGround(float32(g.Ground().Height))
	}

	if s, ok := m.(dynamo.Surface); ok {
		rl.DisableBackfaceCulling()
		for _, f := range s.Faces() {
			rl.DrawTriangle3D(vec(v.Position(f[0])), vec(v.Position(f[1])), vec(v.Position(f[2])), ColSurface)
		}
		rl.EnableBackfaceCulling()
	}

	for j := 0; j < v.SpringCount(); j++ {
		p, q := v.SpringEndpoints(j)
		if dynamo.Finite(p) && dynamo.Finite(q) {
			rl.DrawLine3D(vec(p), vec(q), ColAccent)
		}
	}

	for i := 0; i < v.MassCount(); i++ {
		p := v.Position(i)
		if !dynamo.Finite(p) {
			continue
		}
		if v.IsFixed(i) {
			rl.DrawCube(vec(p), a.radius*3, a.radius*3, a.radius*3, rl.Gray)
			continue
		}
		rl.DrawSphere(vec(p), a.radius, ColSelect)
	}
}

func (a *App) drawGround(height float32) {
	const slices = 20
	span := float32(a.orbit.home)
	spacing := 2 * span / slices
	cx, cz := a.orbit.target.X, a.orbit.target.Z
	for i := 0; i <= slices; i++ {
		t := -span + float32(i)*spacing
		rl.DrawLine3D(rl.NewVector3(cx+t, height, cz-span), rl.NewVector3(cx+t, height, cz+span), ColGrid)
		rl.DrawLine3D(rl.NewVector3(cx-span, height, cz+t), rl.NewVector3(cx+span, height, cz+t), ColGrid)
	}
}

func (a *App) drawHUD() {
	s := a.Session
	a.drawText("springsim", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", strings.ToLower(s.Kind().Title())), 170, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	if !s.Playing() {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)
	if a.Status != "" {
		a.drawText(a.Status, 30, 70, 16, ColError)
	}

	a.drawTelemetry()
	a.drawText("[SPACE] PLAY  [S] STEP  [R] RESET  [1-4] MODEL  [UP/DN] ITER  [ [ ] ] DT  [P] PANEL  [V] VIEW  [ESC] QUIT",
		420, 690, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 30, 690, 14, ColTextDim)
}

func (a *App) drawPanel() {
	s := a.Session
	v := s.Model().View()
	ctl := s.Controls()

	x, y := 1010, 80
	rl.DrawRectangle(int32(x-15), int32(y-15), 260, 230, rl.NewColor(20, 20, 20, 220))

	rows := [][2]string{
		{"time", fmt.Sprintf("%.3f s", s.Time())},
		{"steps", fmt.Sprintf("%d", s.Steps())},
		{"dt", fmt.Sprintf("%g", ctl.Dt)},
		{"iterations", fmt.Sprintf("%d / %d", ctl.Iterations, sim.MaxIterations)},
		{"masses", fmt.Sprintf("%d", v.MassCount())},
		{"springs", fmt.Sprintf("%d", v.SpringCount())},
	}
	if len(a.Telemetry) > 0 {
		rows = append(rows, [2]string{"energy", fmt.Sprintf("%.3f J", a.Telemetry[len(a.Telemetry)-1])})
	}
	for _, r := range rows {
		a.drawText(r[0], x, y, 16, ColTextDim)
		a.drawText(r[1], x+110, y, 16, ColText)
		y += 26
	}
}

func (a *App) drawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 600
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal, maxVal = min(minVal, v), max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + float32(i)/float32(len(a.Telemetry))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("E: %.3e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
