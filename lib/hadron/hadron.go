/*package hadron contains the particle record written by the soft hadron
writers, the per-event list that owns those records, and the weak handles
that everything else uses to look at them.
*/
package hadron

import (
	"math"
)

// Hadron is one particle produced by a particlization engine. P is the
// four-momentum (E, px, py, pz) in GeV and X is the production point
// (t, x, y, z) in fm.
type Hadron struct {
	PID    int
	Status int
	P      [4]float64
	X      [4]float64
}

// New creates a hadron with the given PDG code and four-momentum, produced
// at the origin with status 0.
func New(pid int, e, px, py, pz float64) Hadron {
	return Hadron{PID: pid, P: [4]float64{e, px, py, pz}}
}

// E returns the energy of the hadron.
func (h *Hadron) E() float64 { return h.P[0] }

// Mass returns the invariant mass. Slightly space-like momenta, which show
// up from rounding, give 0.
func (h *Hadron) Mass() float64 {
	m2 := h.P[0]*h.P[0] - h.P[1]*h.P[1] - h.P[2]*h.P[2] - h.P[3]*h.P[3]
	if m2 <= 0 {
		return 0
	}
	return math.Sqrt(m2)
}

// Pt returns the transverse momentum.
func (h *Hadron) Pt() float64 { return math.Hypot(h.P[1], h.P[2]) }

// Rapidity returns the longitudinal rapidity, or 0 when E <= |pz|.
func (h *Hadron) Rapidity() float64 {
	e, pz := h.P[0], h.P[3]
	if e <= math.Abs(pz) {
		return 0
	}
	return 0.5 * math.Log((e+pz)/(e-pz))
}

// Eta returns the pseudorapidity, or 0 for a hadron moving along the beam
// axis or at rest.
func (h *Hadron) Eta() float64 {
	p := math.Sqrt(h.P[1]*h.P[1] + h.P[2]*h.P[2] + h.P[3]*h.P[3])
	pz := h.P[3]
	if p <= math.Abs(pz) {
		return 0
	}
	return 0.5 * math.Log((p+pz)/(p-pz))
}

// Phi returns the azimuthal angle in (-pi, pi].
func (h *Hadron) Phi() float64 { return math.Atan2(h.P[2], h.P[1]) }
