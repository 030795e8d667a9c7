package gui

import (
	"errors"
	"math"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/viz"
)

// Monochrome palette.
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
	ColSurface = rl.NewColor(120, 160, 200, 90)
	ColError   = rl.NewColor(220, 80, 80, 255)
)

const (
	screenWidth  = 1280
	screenHeight = 720
	maxTelemetry = 200
)

// orbit is a spherical camera around a target point.
type orbit struct {
	yaw, pitch, distance float64
	target               rl.Vector3
	home                 float64
}

func (o *orbit) position() rl.Vector3 {
	cp := math.Cos(o.pitch)
	return rl.NewVector3(
		o.target.X+float32(o.distance*cp*math.Sin(o.yaw)),
		o.target.Y+float32(o.distance*math.Sin(o.pitch)),
		o.target.Z+float32(o.distance*cp*math.Cos(o.yaw)),
	)
}

func (o *orbit) reset() {
	o.yaw, o.pitch, o.distance = 0.6, 0.35, o.home
}

type App struct {
	Session   *sim.Session
	Camera    rl.Camera3D
	ShowPanel bool
	Telemetry []float64
	Status    string
	Font      rl.Font

	orbit  orbit
	radius float32
	logger *log.Logger
}

func initWindow() {
	rl.InitWindow(screenWidth, screenHeight, "springsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(rl.KeyEscape)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp wraps a session. The window must already be open.
func NewApp(s *sim.Session, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	a := &App{
		Session:   s,
		ShowPanel: true,
		Telemetry: make([]float64, 0, maxTelemetry),
		Font:      loadFont(),
		logger:    logger,
	}
	a.frame()
	return a
}

// Run opens the window and blocks until it is closed.
func Run(s *sim.Session, logger *log.Logger) {
	initWindow()
	defer rl.CloseWindow()

	a := NewApp(s, logger)
	a.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

// frame points the camera at the reachable extent of the active model.
func (a *App) frame() {
	lo, hi := viz.SceneBounds(a.Session.Model())
	c := lo.Add(hi).Mul(0.5)
	r := hi.Sub(lo).Len() / 2
	if r <= 0 {
		r = 1
	}

	a.orbit.target = vec(c)
	a.orbit.home = 2.2 * r
	a.orbit.reset()
	a.radius = float32(r * 0.015)

	a.Camera = rl.NewCamera3D(a.orbit.position(), a.orbit.target, rl.NewVector3(0, 1, 0), 45, rl.CameraPerspective)
	a.Telemetry = a.Telemetry[:0]
}

// keys are the bindings polled once per frame by Update.
var keys = []int32{
	rl.KeySpace, rl.KeyS, rl.KeyR, rl.KeyP, rl.KeyV,
	rl.KeyUp, rl.KeyDown, rl.KeyLeftBracket, rl.KeyRightBracket,
	rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour,
}

func (a *App) Update() {
	s := a.Session

	for _, key := range keys {
		if rl.IsKeyPressed(key) {
			a.press(key)
		}
	}

	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		d := rl.GetMouseDelta()
		a.orbit.yaw -= float64(d.X) * 0.01
		a.orbit.pitch = math.Max(-1.5, math.Min(1.5, a.orbit.pitch+float64(d.Y)*0.01))
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.orbit.distance = math.Max(a.orbit.home*0.1, a.orbit.distance*(1-0.1*float64(wheel)))
	}

	lerp := float32(math.Min(1, 10*float64(rl.GetFrameTime())))
	a.Camera.Position = rl.Vector3Lerp(a.Camera.Position, a.orbit.position(), lerp)
	a.Camera.Target = a.orbit.target

	if s.Playing() {
		a.report(s.Frame())
		a.record()
	}
}

// press applies one key binding to the session and view.
func (a *App) press(key int32) {
	s := a.Session

	switch key {
	case rl.KeySpace:
		s.Toggle()
		a.Status = ""
	case rl.KeyS:
		a.report(s.StepOnce())
		a.record()
	case rl.KeyR:
		s.Reset()
		a.Telemetry = a.Telemetry[:0]
		a.Status = ""
	case rl.KeyP:
		a.ShowPanel = !a.ShowPanel
	case rl.KeyV:
		a.orbit.reset()
	case rl.KeyUp:
		n := s.Controls().Iterations
		s.SetIterations(n + max(1, n/10))
	case rl.KeyDown:
		n := s.Controls().Iterations
		s.SetIterations(n - max(1, n/10))
	case rl.KeyLeftBracket:
		a.report(s.SetDt(s.Controls().Dt / 2))
	case rl.KeyRightBracket:
		a.report(s.SetDt(s.Controls().Dt * 2))
	case rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour:
		a.selectModel(physics.Kinds[key-rl.KeyOne])
	}
}

func (a *App) selectModel(k physics.Kind) {
	if err := a.Session.Select(k); err != nil {
		a.report(err)
		return
	}
	a.Status = ""
	a.frame()
}

func (a *App) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, dynamo.ErrUnstable):
		a.Status = "DIVERGED: LOWER DT OR RESET"
	default:
		a.Status = err.Error()
	}
}

func (a *App) record() {
	h, ok := a.Session.Model().(dynamo.Hamiltonian)
	if !ok {
		return
	}
	a.Telemetry = append(a.Telemetry, h.Energy())
	if len(a.Telemetry) > maxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.Camera)
	a.drawModel()
	rl.EndMode3D()

	a.drawHUD()
	if a.ShowPanel {
		a.drawPanel()
	}
	rl.EndDrawing()
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func vec(v dynamo.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}
