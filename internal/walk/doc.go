// Package walk generates synthetic pedestrian walking paths on a bounded floor grid.
//
// The package defines the data model shared by the rest of pathsim:
//
//   - [FloorBounds]: the rectangle every generated coordinate is clamped into
//   - [PathPoint]: one timestamped sample along a walker's route
//   - [Path]: the ordered points of a single walk, ending exactly at its destination
//   - [PathSet]: a batch of paths generated and animated together
//   - [Generator]: the biased random-walk step function
//
// # Example
//
//	gen := walk.NewGenerator(walk.FloorBounds{Width: 50, Length: 75}, walk.WithSeed(42))
//	paths := gen.GenerateMultiplePaths(5)
//
// # Thread Safety
//
// Generator instances are NOT thread-safe: each owns a seeded random source.
// Use one generator per goroutine.
package walk
