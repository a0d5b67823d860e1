package particlization

import (
	"fmt"

	"github.com/jetscape/softhadron/lib/config"
	"github.com/jetscape/softhadron/lib/hadron"
)

func init() {
	Register("static", func() Engine { return &Static{} })
}

// Static emits the same hadrons every event. They are listed in the XML as
//
//	<hadron pid="211" status="0" E="1" px="0" py="0" pz="1" t="0" x="0" y="0" z="0"/>
//
// with missing attributes defaulting to 0. An optional <repeat> key emits
// the list that many times per event.
type Static struct {
	list    []hadron.Hadron
	repeat  int
	hadrons []hadron.Hadron
}

func (s *Static) Init(cfg *config.Element) error {
	var err error
	if s.repeat, err = cfg.Int("repeat", 1); err != nil {
		return err
	}
	if s.repeat < 0 {
		return fmt.Errorf("<repeat> is %d, but can't be negative", s.repeat)
	}

	s.list = s.list[:0]
	for i, el := range cfg.ChildrenNamed("hadron") {
		h, err := parseHadron(el)
		if err != nil {
			return fmt.Errorf("hadron %d: %w", i, err)
		}
		s.list = append(s.list, h)
	}
	return nil
}

func (s *Static) Run(event int) error {
	s.hadrons = s.hadrons[:0]
	for i := 0; i < s.repeat; i++ {
		s.hadrons = append(s.hadrons, s.list...)
	}
	return nil
}

func (s *Static) Hadrons() []hadron.Hadron { return s.hadrons }
func (s *Static) Clear()                   { s.hadrons = s.hadrons[:0] }

// parseHadron reads a <hadron .../> element.
func parseHadron(el *config.Element) (hadron.Hadron, error) {
	h := hadron.Hadron{}
	if _, ok := el.Attrs["pid"]; !ok {
		return h, fmt.Errorf("<hadron> has no pid")
	}

	var err error
	if h.PID, err = el.IntAttr("pid", 0); err != nil {
		return h, err
	}
	if h.Status, err = el.IntAttr("status", 0); err != nil {
		return h, err
	}

	pNames := []string{"E", "px", "py", "pz"}
	xNames := []string{"t", "x", "y", "z"}
	for i := 0; i < 4; i++ {
		if h.P[i], err = el.FloatAttr(pNames[i], 0); err != nil {
			return h, err
		}
		if h.X[i], err = el.FloatAttr(xNames[i], 0); err != nil {
			return h, err
		}
	}
	return h, nil
}
