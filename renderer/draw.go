package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Draw renders the flock and HUD.
func (v *Viewer) Draw() {
	v.sim.Perf().RecordFrame()

	pos, vel := v.sim.RenderState()
	v.records = PackDisplayRecords(pos, v.displayScale, v.records)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	camPos := v.cam.Position()
	cam3d := rl.Camera3D{
		Position:   rl.Vector3{X: camPos.X, Y: camPos.Y, Z: camPos.Z},
		Target:     rl.Vector3{X: v.cam.Target.X, Y: v.cam.Target.Y, Z: v.cam.Target.Z},
		Up:         rl.Vector3{Y: 1},
		Fovy:       60,
		Projection: rl.CameraPerspective,
	}

	rl.BeginMode3D(cam3d)

	// Domain boundary
	rl.DrawCubeWires(rl.Vector3{}, v.domainSide, v.domainSide, v.domainSide, rl.DarkGray)

	// Boids, colored by heading
	size := rl.Vector3{X: v.pointSize, Y: v.pointSize, Z: v.pointSize}
	for i := range pos {
		j := i * 4
		r, g, b := VelocityColor(vel[i], v.maxSpeed)
		rl.DrawCubeV(
			rl.Vector3{X: v.records[j], Y: v.records[j+1], Z: v.records[j+2]},
			size,
			rl.Color{R: r, G: g, B: b, A: 255},
		)
	}

	rl.EndMode3D()

	v.drawHUD(len(pos))

	rl.EndDrawing()
}

// drawHUD renders the stats overlay.
func (v *Viewer) drawHUD(n int) {
	stats := v.sim.Perf().Stats()

	rl.DrawText(fmt.Sprintf("Step: %d", v.sim.Steps()), 10, 10, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Boids: %d  Strategy: %s  [1/2/3]", n, v.strategy), 10, 35, 20, rl.White)
	rl.DrawText(fmt.Sprintf("Speed: %dx  [</>]  SPS: %.0f  FPS: %.0f", v.stepsPerUpdate, stats.StepsPerSecond, stats.FPS), 10, 60, 20, rl.White)
	if v.paused {
		rl.DrawText("PAUSED", 10, 85, 20, rl.Yellow)
	}
}
