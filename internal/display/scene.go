package display

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/cder-viz/cder/internal/calorimeter"
	"github.com/cder-viz/cder/internal/event"
	"github.com/cder-viz/cder/internal/monitoring"
)

var logf = monitoring.Component("Display")

// TrailCanvas is a Canvas that can also draw particle trajectories. Scene
// draws trails only on canvases that implement it.
type TrailCanvas interface {
	calorimeter.Canvas
	DrawTrail(from, to r3.Vec, color calorimeter.RGBA, wide bool)
}

// Trail alpha for ordinary and wide particles.
const (
	trailAlpha = 0.9
	beamAlpha  = 0.35
)

// Scene owns the calorimeters, the camera and the event on show.
type Scene struct {
	Camera *Camera
	// ParticleSpeed sets how fast trails grow after LoadEvent. Zero draws
	// them at full length.
	ParticleSpeed float64

	calos  []*calorimeter.Calorimeter
	event  *event.Event
	trails []*Trail
}

// NewScene returns a scene drawing calos in the given order.
func NewScene(camera *Camera, calos ...*calorimeter.Calorimeter) (*Scene, error) {
	if camera == nil {
		return nil, errors.New("scene needs a camera")
	}
	return &Scene{Camera: camera, ParticleSpeed: DefaultParticleSpeed, calos: calos}, nil
}

// Calorimeters returns the calorimeters in draw order.
func (s *Scene) Calorimeters() []*calorimeter.Calorimeter { return s.calos }

// Event returns the event on show, or nil.
func (s *Scene) Event() *event.Event { return s.event }

// Trails returns the particle trails of the event on show.
func (s *Scene) Trails() []*Trail { return s.trails }

// Travelling reports whether some trail is still growing.
func (s *Scene) Travelling() bool {
	for _, t := range s.trails {
		if t.Travelling() {
			return true
		}
	}
	return false
}

// LoadEvent clears the previous deposits and energizes every calorimeter
// with ev. A nil event just clears the calorimeters.
func (s *Scene) LoadEvent(ev *event.Event) error {
	for _, c := range s.calos {
		c.Reset()
	}
	s.event = ev
	s.trails = nil
	if ev == nil {
		return nil
	}

	ev.ClearHits()
	deposits := ev.Deposits()
	for _, c := range s.calos {
		if err := c.Energize(deposits); err != nil {
			return fmt.Errorf("event %d: %w", ev.Number, err)
		}
	}
	for _, p := range ev.Particles() {
		s.trails = append(s.trails, newTrail(p, s.ParticleSpeed))
	}
	logf("loaded event %d (%s): %d objects, %d particles",
		ev.Number, ev.ID, len(ev.Objects), len(deposits))
	return nil
}

// Update advances the camera, every calorimeter animation and the particle
// trails by dt.
func (s *Scene) Update(dt time.Duration) {
	s.Camera.Update(dt)
	for _, c := range s.calos {
		c.Update(dt)
	}
	for _, t := range s.trails {
		t.Update(dt)
	}
}

// Draw pushes the camera's viewer angles to the calorimeters and draws them,
// then the event's particle trails when canvas supports them.
func (s *Scene) Draw(canvas calorimeter.Canvas) {
	theta, r, phi := s.Camera.ViewerAngles()
	for _, c := range s.calos {
		c.SetViewer(theta, r, phi)
		c.Draw(canvas)
	}

	tc, ok := canvas.(TrailCanvas)
	if !ok {
		return
	}
	for _, t := range s.trails {
		p := t.Particle
		alpha := trailAlpha
		if p.IsWide() {
			alpha = beamAlpha
		}
		tc.DrawTrail(r3.Vec{}, t.Tip(), p.Color.WithAlpha(alpha), p.IsWide())
	}
}
