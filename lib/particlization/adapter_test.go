package particlization

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jetscape/softhadron/lib/config"
	"github.com/jetscape/softhadron/lib/eq"
	"github.com/jetscape/softhadron/lib/event"
	"github.com/jetscape/softhadron/lib/hadron"
	"github.com/jetscape/softhadron/lib/writer"
)

var errBoom = errors.New("boom")

// fakeEngine produces n pions per event and fails on event failOn.
type fakeEngine struct {
	n, failOn int
	runs      int
	cleared   int
	hadrons   []hadron.Hadron
}

func (f *fakeEngine) Init(cfg *config.Element) error {
	var err error
	if f.n, err = cfg.Int("n", 0); err != nil {
		return err
	}
	f.failOn, err = cfg.Int("failOn", -1)
	return err
}

func (f *fakeEngine) Run(event int) error {
	f.runs++
	if event == f.failOn {
		f.hadrons = append(f.hadrons, hadron.New(0, 0, 0, 0, 0))
		return errBoom
	}
	f.hadrons = f.hadrons[:0]
	for i := 0; i < f.n; i++ {
		f.hadrons = append(f.hadrons, hadron.New(211, float64(event+i), 0, 0, 0))
	}
	return nil
}

func (f *fakeEngine) Hadrons() []hadron.Hadron { return f.hadrons }
func (f *fakeEngine) Clear()                   { f.cleared++; f.hadrons = f.hadrons[:0] }

var lastFake *fakeEngine

func init() {
	Register("fake", func() Engine {
		lastFake = &fakeEngine{}
		return lastFake
	})
}

func quietAdapter(t *testing.T, xml string) *Adapter {
	t.Helper()
	el, err := config.Parse([]byte(xml))
	require.NoError(t, err)
	a := NewAdapter(el)
	a.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return a
}

// recorder is an EventWriter that remembers what it was given.
type recorder struct {
	events []int
	counts []int
}

func (r *recorder) WriteEvent(ev *event.Event) {
	r.events = append(r.events, ev.Number)
	r.counts = append(r.counts, ev.Hadrons.Len())
}
func (r *recorder) GetStatus() bool { return true }

func TestLifecycle(t *testing.T) {
	a := quietAdapter(t, `<iS3D><engine>fake</engine><n>3</n></iS3D>`)
	assert.Equal(t, Uninitialized, a.State())

	ev := event.New(0)
	assert.ErrorIs(t, a.Exec(ev), ErrNotConfigured)

	require.NoError(t, a.InitTask())
	assert.Equal(t, Configured, a.State())

	rec := &recorder{}
	for n := 0; n < 3; n++ {
		ev.Reset(n)
		a.WriteTask(rec)
		require.NoError(t, a.Exec(ev))
		assert.Equal(t, Computed, a.State())
		assert.Error(t, a.Exec(ev), "second Exec without Clear")

		a.WriteTask(rec)
		a.WriteTask(nil)
		a.Clear()
		assert.Equal(t, Cleared, a.State())
		a.WriteTask(rec)
	}

	assert.Equal(t, []int{0, 1, 2}, rec.events)
	assert.Equal(t, []int{3, 3, 3}, rec.counts)
	assert.Equal(t, 3, lastFake.cleared)
}

func TestHadronsAreCopied(t *testing.T) {
	a := quietAdapter(t, `<iS3D><engine>fake</engine><n>2</n></iS3D>`)
	require.NoError(t, a.InitTask())

	ev := event.New(5)
	ev.Hadrons.Append(hadron.New(22, 9, 0, 0, 0))
	require.NoError(t, a.Exec(ev))
	require.Equal(t, 3, ev.Hadrons.Len())

	exp := []hadron.Hadron{
		hadron.New(22, 9, 0, 0, 0),
		hadron.New(211, 5, 0, 0, 0),
		hadron.New(211, 6, 0, 0, 0),
	}
	a.Clear()
	got := []hadron.Hadron{ev.Hadrons.At(0), ev.Hadrons.At(1), ev.Hadrons.At(2)}
	if !eq.Hadrons(exp, got) {
		t.Errorf("Expected %v after Clear, got %v.", exp, got)
	}
}

func TestPassHadronListOnce(t *testing.T) {
	a := quietAdapter(t, `<iS3D><engine>fake</engine><n>1</n></iS3D>`)
	require.NoError(t, a.InitTask())

	ev := event.New(0)
	assert.ErrorIs(t, a.PassHadronList(ev), ErrNotComputed)
	require.NoError(t, a.Exec(ev))
	assert.ErrorIs(t, a.PassHadronList(ev), ErrAlreadyPassed)
	assert.Equal(t, 1, ev.Hadrons.Len())
}

func TestEmptyEvent(t *testing.T) {
	a := quietAdapter(t, `<iS3D><engine>fake</engine><n>0</n></iS3D>`)
	require.NoError(t, a.InitTask())

	ev := event.New(0)
	require.NoError(t, a.Exec(ev))
	assert.Equal(t, 0, ev.Hadrons.Len())
	rec := &recorder{}
	a.WriteTask(rec)
	assert.Equal(t, []int{0}, rec.counts)
}

func TestEngineFailure(t *testing.T) {
	a := quietAdapter(t, `<iS3D><engine>fake</engine><n>4</n><failOn>1</failOn></iS3D>`)
	require.NoError(t, a.InitTask())

	ev := event.New(0)
	require.NoError(t, a.Exec(ev))
	a.Clear()

	ev.Reset(1)
	err := a.Exec(ev)
	require.Error(t, err)
	assert.True(t, IsEngineError(err))
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, ev.Hadrons.Len(), "no partial output")

	rec := &recorder{}
	a.WriteTask(rec)
	assert.Empty(t, rec.events)
}

func TestInitTaskErrors(t *testing.T) {
	tests := []struct {
		name, xml string
		target    error
	}{
		{"no engine key", `<iS3D><n>1</n></iS3D>`, nil},
		{"unknown", `<iS3D><engine>iSS</engine></iS3D>`, ErrUnknownEngine},
		{"bad key", `<iS3D><engine>fake</engine><n>many</n></iS3D>`, nil},
		{"static bad pid", `<iS3D><engine>static</engine><hadron pid="pi"/></iS3D>`, nil},
		{"static no pid", `<iS3D><engine>static</engine><hadron E="1"/></iS3D>`, nil},
		{"replay no input", `<iS3D><engine>replay</engine></iS3D>`, nil},
		{"replay missing", `<iS3D><engine>replay</engine><input>/no/such/file</input></iS3D>`, nil},
	}

	for _, tt := range tests {
		a := quietAdapter(t, tt.xml)
		err := a.InitTask()
		if assert.Error(t, err, tt.name) && tt.target != nil {
			assert.ErrorIs(t, err, tt.target, tt.name)
		}
		assert.Equal(t, Uninitialized, a.State(), tt.name)
	}

	assert.Error(t, NewAdapter(nil).InitTask())
}

func TestStaticEngine(t *testing.T) {
	a := quietAdapter(t, `<iS3D>
  <engine>static</engine>
  <repeat>2</repeat>
  <hadron pid="211" E="1" pz="1"/>
  <hadron pid="-211" status="1" E="0.5" pz="0.5" t="0.1" x="1"/>
</iS3D>`)
	require.NoError(t, a.InitTask())

	ev := event.New(0)
	require.NoError(t, a.Exec(ev))
	require.Equal(t, 4, ev.Hadrons.Len())
	assert.Equal(t, hadron.New(211, 1, 0, 0, 1), ev.Hadrons.At(0))
	assert.Equal(t, hadron.Hadron{PID: -211, Status: 1,
		P: [4]float64{0.5, 0, 0, 0.5}, X: [4]float64{0.1, 1, 0, 0}},
		ev.Hadrons.At(3))
}

func TestReplayEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.dat.gz")
	w, err := writer.NewAsciiGZ(path)
	require.NoError(t, err)
	w.Init()
	ev := event.New(0)
	ev.Hadrons.Append(hadron.New(211, 1, 0, 0, 1))
	w.WriteEvent(ev)
	ev.Reset(1)
	ev.Hadrons.Append(hadron.New(321, 2, 0, 0, 1), hadron.New(-321, 2, 0, 0, -1))
	w.WriteEvent(ev)
	require.NoError(t, w.Close())

	a := quietAdapter(t, `<iS3D><engine>replay</engine><input>`+path+`</input></iS3D>`)
	require.NoError(t, a.InitTask())
	defer a.Close()

	counts := []int{}
	for n := 0; n < 2; n++ {
		ev.Reset(n)
		require.NoError(t, a.Exec(ev))
		counts = append(counts, ev.Hadrons.Len())
		a.Clear()
	}
	assert.Equal(t, []int{1, 2}, counts)

	ev.Reset(2)
	err = a.Exec(ev)
	assert.True(t, IsEngineError(err))

	looping := quietAdapter(t, `<iS3D><engine>replay</engine><loop>on</loop><input>`+path+`</input></iS3D>`)
	require.NoError(t, looping.InitTask())
	defer looping.Close()
	counts = counts[:0]
	for n := 0; n < 5; n++ {
		ev.Reset(n)
		require.NoError(t, looping.Exec(ev))
		counts = append(counts, ev.Hadrons.Len())
		looping.Clear()
	}
	assert.Equal(t, []int{1, 2, 1, 2, 1}, counts)
}

func TestReplayReopenLogsCloseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.dat")
	w, err := writer.NewAscii(path)
	require.NoError(t, err)
	w.Init()
	ev := event.New(0)
	ev.Hadrons.Append(hadron.New(211, 1, 0, 0, 1))
	w.WriteEvent(ev)
	require.NoError(t, w.Close())

	var buf bytes.Buffer
	a := quietAdapter(t, `<iS3D><engine>replay</engine><loop>on</loop><input>`+path+`</input></iS3D>`)
	a.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, a.InitTask())
	defer a.Close()

	// Closing the input twice makes the reopen's Close fail.
	rp := a.engine.(*Replay)
	require.NoError(t, rp.rd.Close())
	require.NoError(t, rp.open())

	logs := buf.String()
	assert.Contains(t, logs, "error closing replay input")
	assert.Contains(t, logs, "engine=replay")
	assert.Contains(t, logs, os.ErrClosed.Error())

	ev.Reset(0)
	require.NoError(t, a.Exec(ev))
	assert.Equal(t, 1, ev.Hadrons.Len())
}

func TestRegistry(t *testing.T) {
	names := Engines()
	assert.Contains(t, names, "static")
	assert.Contains(t, names, "replay")
	assert.Panics(t, func() { Register("static", func() Engine { return &Static{} }) })
}
