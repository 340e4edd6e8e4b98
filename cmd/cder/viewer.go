package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/cder-viz/cder/internal/calorimeter"
	"github.com/cder-viz/cder/internal/display"
	"github.com/cder-viz/cder/internal/event"
	"github.com/cder-viz/cder/internal/monitoring"
	"github.com/cder-viz/cder/internal/particle"
	"github.com/cder-viz/cder/internal/render"
	"github.com/cder-viz/cder/internal/render/term"
)

var logf = monitoring.Component("Viewer")

// keyRotateStep is the drag applied by one h/j/k/l press.
const keyRotateStep = 10.0

const helpLine = "←/→ event  ↑/↓ random  a/s views  d spin  +/- zoom  hjkl rotate  b/e/m/x select  ? help  q quit"

var (
	textColor   = calorimeter.RGB{R: 0.9, G: 0.9, B: 0.9}
	statusColor = calorimeter.RGB{R: 0.6, G: 0.8, B: 1}
)

// selections maps keys to event selections.
var selections = map[rune]struct {
	name string
	keep event.Predicate
}{
	'b': {"b-jet", event.HasObject(particle.BJetObject, 1, 0)},
	'e': {"2 electrons", event.HasObject(particle.ElectronObject, 2, 0)},
	'm': {"muon pt > 40 GeV", event.HasObject(particle.MuonObject, 1, 40000)},
}

// viewer owns the scene, event history and rasteriser. It is driven from
// the frame loop only.
type viewer struct {
	scene   *display.Scene
	history *event.History
	raster  *term.Rasteriser
	drawn   *render.Recorder

	showHelp bool
	message  string

	dragging     bool
	lastX, lastY int
}

func newViewer(scene *display.Scene, history *event.History, screen tcell.Screen) *viewer {
	return &viewer{
		scene:    scene,
		history:  history,
		raster:   term.New(screen),
		drawn:    &render.Recorder{},
		showHelp: true,
	}
}

func (v *viewer) load(ev *event.Event, ok bool) {
	if !ok {
		return
	}
	if err := v.scene.LoadEvent(ev); err != nil {
		v.message = err.Error()
		logf("load event %d: %v", ev.Number, err)
		return
	}
	v.message = ""
}

func (v *viewer) sel(r rune) {
	s := selections[r]
	if _, err := v.history.Select(s.name, s.keep); err != nil {
		v.message = err.Error()
		return
	}
	v.load(v.history.Next())
}

// handle applies one terminal event. It returns display.ErrStop on quit.
func (v *viewer) handle(ev tcell.Event) error {
	cam := v.scene.Camera
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return display.ErrStop
		case tcell.KeyLeft:
			v.load(v.history.Previous())
		case tcell.KeyRight:
			v.load(v.history.Next())
		case tcell.KeyUp, tcell.KeyDown:
			v.load(v.history.Random())
		case tcell.KeyRune:
			switch r := ev.Rune(); r {
			case 'q':
				return display.ErrStop
			case 'a':
				cam.TransverseView()
			case 's':
				cam.LongitudinalView()
			case 'd':
				cam.ToggleRotation()
			case '+', '=':
				cam.Scroll(-1)
			case '-', '_':
				cam.Scroll(1)
			case 'h':
				cam.Drag(-keyRotateStep, 0)
			case 'l':
				cam.Drag(keyRotateStep, 0)
			case 'k':
				cam.Drag(0, -keyRotateStep)
			case 'j':
				cam.Drag(0, keyRotateStep)
			case 'b', 'e', 'm':
				v.sel(r)
			case 'x':
				v.history.ClearSelection()
				v.message = ""
			case '?':
				v.showHelp = !v.showHelp
			}
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		btn := ev.Buttons()
		switch {
		case btn&tcell.WheelUp != 0:
			cam.Scroll(-1)
		case btn&tcell.WheelDown != 0:
			cam.Scroll(1)
		case btn&tcell.Button1 != 0:
			if v.dragging {
				// Cells are twice as tall as they are wide.
				cam.Drag(float64(x-v.lastX), 2*float64(y-v.lastY))
			}
			v.dragging = true
			v.lastX, v.lastY = x, y
		default:
			v.dragging = false
		}
	}
	return nil
}

// frame advances the scene by dt and draws it.
func (v *viewer) frame(dt time.Duration) {
	v.scene.Update(dt)

	cam := v.scene.Camera
	v.raster.Begin(cam)
	v.drawn.Reset()
	v.scene.Draw(render.Fanout{v.raster, v.drawn})
	v.raster.Flush()

	row := 0
	if ev := v.scene.Event(); ev != nil {
		for _, line := range strings.Split(strings.TrimRight(ev.Summary(), "\n"), "\n") {
			v.raster.Print(0, row, line, textColor)
			row++
		}
	}
	if v.message != "" {
		v.raster.Print(0, row, v.message, statusColor)
	}

	_, h := v.raster.Size()
	rows := h / 2
	status := fmt.Sprintf("%s  Drawn : %d cells, %d trails", v.history.Status(), len(v.drawn.Meshes), len(v.drawn.Trails))
	v.raster.Print(0, rows-1, status, statusColor)
	if v.showHelp {
		v.raster.Print(0, rows-2, helpLine, textColor)
	}
	v.raster.Show()
}
