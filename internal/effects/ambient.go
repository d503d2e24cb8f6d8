package effects

import "math"

// Orb is a large blurred glow drifting in place. X and Y are fractions of
// the canvas; Phase offsets its breathing so orbs never pulse in sync.
type Orb struct {
	Color string
	Phase float64
	X, Y  float64
	Size  float64
}

// OrbState is the breathing of an orb at one frame.
type OrbState struct {
	Scale   float64
	Opacity float64
}

// State returns the orb's scale and opacity at frame.
func (o Orb) State(frame int) OrbState {
	f := float64(frame)
	return OrbState{
		Scale:   1 + math.Sin(f*0.025+o.Phase)*0.15,
		Opacity: 0.35 + math.Sin(f*0.018+o.Phase)*0.15,
	}
}

// Particle is one dust mote. X and Y are percentages of the canvas and may
// leave [0,100] while the particle wraps around.
type Particle struct {
	X, Y    float64
	Size    float64
	Opacity float64
}

// Particles returns n particles at frame. Particle i always follows the same
// path: its phase depends on i only.
func Particles(frame, n int) []Particle {
	f := float64(frame)
	out := make([]Particle, n)
	for i := range out {
		fi := float64(i)
		out[i] = Particle{
			X:       math.Sin(f*0.015+fi*0.7)*40 + 50,
			Y:       math.Mod(f*0.25+fi*60, 130) - 15,
			Size:    3 + math.Sin(fi*0.8)*2,
			Opacity: 0.25 + math.Sin(f*0.04+fi)*0.15,
		}
	}
	return out
}
