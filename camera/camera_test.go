package camera

import (
	"math"
	"testing"

	"github.com/pthm-cable/flock/geom"
)

func TestNew(t *testing.T) {
	cam := New(10)

	if cam.Distance != 10 {
		t.Errorf("expected distance 10, got %f", cam.Distance)
	}
	if cam.MinDistance != 2 || cam.MaxDistance != 50 {
		t.Errorf("expected distance range [2, 50], got [%f, %f]", cam.MinDistance, cam.MaxDistance)
	}
	if cam.Target != (geom.Vec3{}) {
		t.Errorf("expected target at origin, got %+v", cam.Target)
	}
}

func TestPositionOnAxis(t *testing.T) {
	cam := New(10)
	cam.Azimuth = 0
	cam.Elevation = 0

	// At zero angles the camera sits on the +X axis
	pos := cam.Position()
	if math.Abs(float64(pos.X-10)) > 0.001 || math.Abs(float64(pos.Y)) > 0.001 || math.Abs(float64(pos.Z)) > 0.001 {
		t.Errorf("expected position (10, 0, 0), got %+v", pos)
	}

	// A quarter turn moves it to the +Z axis
	cam.Azimuth = math.Pi / 2
	pos = cam.Position()
	if math.Abs(float64(pos.X)) > 0.001 || math.Abs(float64(pos.Z-10)) > 0.001 {
		t.Errorf("expected position (0, 0, 10), got %+v", pos)
	}
}

func TestPositionElevated(t *testing.T) {
	cam := New(10)
	cam.Azimuth = 0
	cam.Elevation = math.Pi / 4

	// At 45 degrees elevation X and Y split the distance evenly
	pos := cam.Position()
	want := float32(10 * math.Sqrt2 / 2)
	if math.Abs(float64(pos.X-want)) > 0.001 || math.Abs(float64(pos.Y-want)) > 0.001 {
		t.Errorf("expected position (%f, %f, 0), got %+v", want, want, pos)
	}
}

func TestPositionFollowsTarget(t *testing.T) {
	cam := New(10)
	cam.Azimuth = 0
	cam.Elevation = 0
	cam.Target = geom.Vec3{X: 1, Y: 2, Z: 3}

	pos := cam.Position()
	if math.Abs(float64(pos.X-11)) > 0.001 || math.Abs(float64(pos.Y-2)) > 0.001 || math.Abs(float64(pos.Z-3)) > 0.001 {
		t.Errorf("expected position (11, 2, 3), got %+v", pos)
	}
}

func TestPositionKeepsDistance(t *testing.T) {
	cam := New(7)

	// Distance to target is preserved at any orbit angle
	angles := []struct{ az, el float32 }{
		{0, 0},
		{1.1, 0.4},
		{3.9, -0.9},
		{5.5, 1.2},
	}
	for _, a := range angles {
		cam.Azimuth = a.az
		cam.Elevation = a.el
		d := cam.Position().Sub(cam.Target).Length()
		if math.Abs(float64(d-7)) > 0.001 {
			t.Errorf("azimuth %f elevation %f: expected distance 7, got %f", a.az, a.el, d)
		}
	}
}

func TestRotateWrapsAzimuth(t *testing.T) {
	cam := New(10)
	cam.Azimuth = 0

	// Rotating past a full turn wraps back into [0, 2pi)
	cam.Rotate(2*math.Pi+0.5, 0)
	if math.Abs(float64(cam.Azimuth-0.5)) > 0.001 {
		t.Errorf("expected azimuth 0.5, got %f", cam.Azimuth)
	}

	// Rotating below zero wraps around from the top
	cam.Rotate(-1.0, 0)
	want := 2*math.Pi - 0.5
	if math.Abs(float64(cam.Azimuth)-want) > 0.001 {
		t.Errorf("expected azimuth %f, got %f", want, cam.Azimuth)
	}
}

func TestRotateClampsElevation(t *testing.T) {
	cam := New(10)

	cam.Rotate(0, 10)
	limit := float32(math.Pi/2 - 0.05)
	if math.Abs(float64(cam.Elevation-limit)) > 0.001 {
		t.Errorf("expected elevation clamped to %f, got %f", limit, cam.Elevation)
	}

	cam.Rotate(0, -20)
	if math.Abs(float64(cam.Elevation+limit)) > 0.001 {
		t.Errorf("expected elevation clamped to %f, got %f", -limit, cam.Elevation)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(10)

	cam.SetDistance(0.1) // Below min
	if cam.Distance != 2 {
		t.Errorf("expected distance clamped to 2, got %f", cam.Distance)
	}

	cam.SetDistance(100) // Above max
	if cam.Distance != 50 {
		t.Errorf("expected distance clamped to 50, got %f", cam.Distance)
	}

	cam.SetDistance(10)
	cam.ZoomBy(0.5)
	if cam.Distance != 5 {
		t.Errorf("expected distance 5, got %f", cam.Distance)
	}
}

func TestPanMovesTargetInViewPlane(t *testing.T) {
	cam := New(10)
	cam.Azimuth = 0
	cam.Elevation = 0

	// With the camera on +X, right is -Z and up is +Y
	cam.Pan(2, 3)
	if math.Abs(float64(cam.Target.X)) > 0.001 || math.Abs(float64(cam.Target.Y-3)) > 0.001 || math.Abs(float64(cam.Target.Z+2)) > 0.001 {
		t.Errorf("expected target (0, 3, -2), got %+v", cam.Target)
	}
}

func TestReset(t *testing.T) {
	cam := New(10)
	cam.Rotate(1.0, 0.5)
	cam.Pan(3, 4)
	cam.ZoomBy(2.0)

	cam.Reset()

	if cam.Target != (geom.Vec3{}) {
		t.Errorf("expected target at origin, got %+v", cam.Target)
	}
	if math.Abs(float64(cam.Azimuth)-math.Pi/4) > 0.001 {
		t.Errorf("expected azimuth %f, got %f", math.Pi/4, cam.Azimuth)
	}
	if math.Abs(float64(cam.Elevation)-math.Pi/8) > 0.001 {
		t.Errorf("expected elevation %f, got %f", math.Pi/8, cam.Elevation)
	}
	if cam.Distance != 10 {
		t.Errorf("expected distance 10, got %f", cam.Distance)
	}
}
