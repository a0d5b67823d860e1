/*package stats computes simple per-event summaries of hadron kinematics. They
are used by the event catalog and the "stats" command to sanity-check runs.
*/
package stats

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/jetscape/softhadron/lib/event"
)

// Summary describes one event.
type Summary struct {
	Event        int         `json:"event" yaml:"event"`
	Weight       float64     `json:"weight" yaml:"weight"`
	CrossSection float64     `json:"sigma" yaml:"sigma"`
	Hadrons      int         `json:"hadrons" yaml:"hadrons"`
	SumE         float64     `json:"sum_e" yaml:"sum_e"`
	MeanPt       float64     `json:"mean_pt" yaml:"mean_pt"`
	StdPt        float64     `json:"std_pt" yaml:"std_pt"`
	MeanRapidity float64     `json:"mean_y" yaml:"mean_y"`
	MeanEta      float64     `json:"mean_eta" yaml:"mean_eta"`
	Species      []Abundance `json:"species" yaml:"species"`
}

// Abundance is the number of hadrons of one species in an event.
type Abundance struct {
	PID   int `json:"pid" yaml:"pid"`
	Count int `json:"count" yaml:"count"`
}

// Summarize computes the summary of ev. Means of an empty event are 0, as is
// the spread of an event with fewer than two hadrons.
func Summarize(ev *event.Event) Summary {
	n := ev.Hadrons.Len()
	s := Summary{
		Event: ev.Number, Weight: ev.Weight, CrossSection: ev.CrossSection,
		Hadrons: n,
	}
	if n == 0 {
		s.Species = []Abundance{}
		return s
	}

	e, pt := make([]float64, n), make([]float64, n)
	y, eta := make([]float64, n), make([]float64, n)
	counts := map[int]int{}
	for i := 0; i < n; i++ {
		h := ev.Hadrons.At(i)
		e[i], pt[i], y[i], eta[i] = h.E(), h.Pt(), h.Rapidity(), h.Eta()
		counts[h.PID]++
	}

	s.SumE = floats.Sum(e)
	s.MeanPt = stat.Mean(pt, nil)
	if n > 1 {
		s.StdPt = stat.StdDev(pt, nil)
	}
	s.MeanRapidity = stat.Mean(y, nil)
	s.MeanEta = stat.Mean(eta, nil)
	s.Species = abundances(counts)
	return s
}

// abundances sorts species by decreasing count, then by PID.
func abundances(counts map[int]int) []Abundance {
	out := make([]Abundance, 0, len(counts))
	for pid, c := range counts {
		out = append(out, Abundance{pid, c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].PID < out[j].PID
	})
	return out
}

// Run describes a set of events.
type Run struct {
	Events       int     `json:"events" yaml:"events"`
	Hadrons      int     `json:"hadrons" yaml:"hadrons"`
	MeanHadrons  float64 `json:"mean_hadrons" yaml:"mean_hadrons"`
	WeightedMean float64 `json:"weighted_mean_hadrons" yaml:"weighted_mean_hadrons"`
}

// Combine summarizes a list of event summaries. The weighted mean uses the
// event weights.
func Combine(sums []Summary) Run {
	r := Run{Events: len(sums)}
	if len(sums) == 0 {
		return r
	}

	mult, w := make([]float64, len(sums)), make([]float64, len(sums))
	for i, s := range sums {
		mult[i], w[i] = float64(s.Hadrons), s.Weight
		r.Hadrons += s.Hadrons
	}
	r.MeanHadrons = stat.Mean(mult, nil)
	if floats.Sum(w) > 0 {
		r.WeightedMean = stat.Mean(mult, w)
	}
	return r
}
