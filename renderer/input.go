package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/sim"
)

const (
	// Orbit sensitivity for mouse dragging, radians per pixel.
	dragSensitivity = 0.005

	// Orbit speed for arrow keys, radians per frame.
	orbitSpeed = 0.02
)

// handleInput processes keyboard input.
func (v *Viewer) handleInput() {
	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}

	// Strategy switching
	if rl.IsKeyPressed(rl.KeyOne) {
		v.strategy = sim.BruteForce
	}
	if rl.IsKeyPressed(rl.KeyTwo) {
		v.strategy = sim.ScatteredGrid
	}
	if rl.IsKeyPressed(rl.KeyThree) {
		v.strategy = sim.CoherentGrid
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && v.stepsPerUpdate > 1 {
		v.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && v.stepsPerUpdate < 10 {
		v.stepsPerUpdate++
	}

	v.handleCameraInput()
}

// handleCameraInput processes camera orbit/zoom controls.
func (v *Viewer) handleCameraInput() {
	// Mouse drag orbits around the flock
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		delta := rl.GetMouseDelta()
		v.cam.Rotate(delta.X*dragSensitivity, -delta.Y*dragSensitivity)
	}

	// Arrow key orbiting
	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Rotate(orbitSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Rotate(-orbitSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Rotate(0, orbitSpeed)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Rotate(0, -orbitSpeed)
	}

	// Zoom controls: mouse wheel or +/- keys
	wheelMove := rl.GetMouseWheelMove()
	if wheelMove != 0 {
		v.cam.ZoomBy(1.0 - wheelMove*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(1.25)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
	}
}
