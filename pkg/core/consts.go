package core

import "math"

// Epsilon is the small positive constant used throughout the intersection
// pipeline so that reflected or refracted rays never immediately
// self-intersect their originating surface (§6). Every routine that tests
// or advances a ray parameter must honor t >= Epsilon.
const Epsilon = 1e-4

// Infinity is used to initialize the closest-hit budget of a fresh
// Intersection query.
const Infinity = math.MaxFloat64
