package main

import (
	"math"

	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	eyeHeight = 24
	fov       = 70
	aspect    = 16.0 / 9.0
	near      = 0.1
	far       = 1000
)

// viewpointAt places the eye on a circle around the origin, above the
// terrain under it.
func viewpointAt(gen world.TerrainGenerator, angle, radius float32) mgl32.Vec3 {
	x := radius * float32(math.Cos(float64(angle)))
	z := radius * float32(math.Sin(float64(angle)))
	ground := gen.HeightAt(int(math.Floor(float64(x))), int(math.Floor(float64(z))))
	return mgl32.Vec3{x, float32(ground + eyeHeight), z}
}

// viewProjection looks along the orbit's tangent, slightly downwards.
func viewProjection(eye mgl32.Vec3, angle float32) mgl32.Mat4 {
	forward := mgl32.Vec3{
		-float32(math.Sin(float64(angle))),
		-0.3,
		float32(math.Cos(float64(angle))),
	}.Normalize()
	view := mgl32.LookAtV(eye, eye.Add(forward), mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(fov), aspect, near, far)
	return proj.Mul4(view)
}

// profilingTop reports the busiest timers since the last call.
func profilingTop() string {
	top := profiling.TopN(5)
	profiling.Reset()
	return top
}
