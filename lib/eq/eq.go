/*package eq is a simple package for telling whether two arrays are equal to
one another. It is mostly used by tests.*/
package eq

import (
	"math"

	"github.com/jetscape/softhadron/lib/hadron"
)

// Slices returns true if two arrays have the same values and false otherwise.
func Slices[T comparable](x, y []T) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Float64sEps returns true if the two []float64 arrays are within eps of one
// another and false otherwise.
func Float64sEps(x, y []float64, eps float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if math.Abs(x[i]-y[i]) > eps {
			return false
		}
	}
	return true
}

// Hadrons returns true if two []hadron.Hadron arrays are identical, field by
// field, and false otherwise.
func Hadrons(x, y []hadron.Hadron) bool { return Slices(x, y) }

// HadronsEps returns true if two []hadron.Hadron arrays have the same
// identities and have four-vectors within eps of one another.
func HadronsEps(x, y []hadron.Hadron, eps float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i].PID != y[i].PID || x[i].Status != y[i].Status {
			return false
		}
		if !Float64sEps(x[i].P[:], y[i].P[:], eps) ||
			!Float64sEps(x[i].X[:], y[i].X[:], eps) {
			return false
		}
	}
	return true
}
