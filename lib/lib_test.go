package lib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jetscape/softhadron/lib/config"
)

const testConfig = `<jetscape>
  <nEvents>10</nEvents>
  <firstEvent>5</firstEvent>
  <outputFilename>hadrons.dat.gz</outputFilename>
  <SoftParticlization>
    <iS3D>
      <engine>static</engine>
    </iS3D>
  </SoftParticlization>
</jetscape>`

func TestParseConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.xml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0644))

	raw, err := ParseConfigFile(path)
	require.NoError(t, err)
	require.NotNil(t, raw.NEvents)
	assert.Equal(t, 10, *raw.NEvents)
	assert.Equal(t, 5, *raw.FirstEvent)
	assert.Equal(t, "hadrons.dat.gz", *raw.OutputFile)
	assert.Nil(t, raw.Catalog)
	assert.Nil(t, raw.RunID)
	require.NotNil(t, raw.Engine)
	assert.Equal(t, "static", raw.Engine.String("engine", ""))

	_, err = ParseConfigFile(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)
}

func TestParseConfigBadInt(t *testing.T) {
	root, err := config.Parse([]byte(`<jetscape><nEvents>ten</nEvents></jetscape>`))
	require.NoError(t, err)
	_, err = ParseConfig(root)
	assert.Error(t, err)
}

func TestOverwriteProcess(t *testing.T) {
	root, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)
	raw, err := ParseConfig(root)
	require.NoError(t, err)

	n, out := 3, "other.dat"
	raw.Overwrite(&RawArgs{NEvents: &n, OutputFile: &out})
	raw.Overwrite(nil)

	args := raw.Process()
	assert.Equal(t, 3, args.NEvents)
	assert.Equal(t, 5, args.FirstEvent)
	assert.Equal(t, "other.dat", args.OutputFile)
	assert.Equal(t, "", args.Catalog)
	assert.Contains(t, args.String(), "events=3")

	assert.Equal(t, 1, (&RawArgs{}).Process().NEvents)
}

func TestCheck(t *testing.T) {
	root, err := config.Parse([]byte(testConfig))
	require.NoError(t, err)
	raw, err := ParseConfig(root)
	require.NoError(t, err)
	good := raw.Process()

	ok, err := Check(CrashOnError, good)
	assert.True(t, ok)
	assert.NoError(t, err)

	noEngine, err := config.Parse([]byte(`<SoftParticlization><iS3D/></SoftParticlization>`))
	require.NoError(t, err)

	tests := []struct {
		name    string
		mod     func(a *Args)
		problem string
	}{
		{"no events", func(a *Args) { a.NEvents = 0 }, "nEvents"},
		{"negative first", func(a *Args) { a.FirstEvent = -1 }, "firstEvent"},
		{"no output", func(a *Args) { a.OutputFile = "" }, "outputFilename"},
		{"no block", func(a *Args) { a.Engine = nil }, "no <SoftParticlization><iS3D> block"},
		{"no engine", func(a *Args) { a.Engine = noEngine.Path("iS3D") }, "<engine>"},
		{"spaced run id", func(a *Args) { a.RunID = "my run" }, "runID"},
		{"multi-line run id", func(a *Args) { a.RunID = "a\nb" }, "runID"},
		{"tabbed run id", func(a *Args) { a.RunID = "a\tb" }, "runID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := *good
			tt.mod(&args)

			ok, err := Check(CrashOnError, &args)
			assert.False(t, ok)
			assert.ErrorContains(t, err, tt.problem)

			ok, err = Check(WarnOnError, &args)
			assert.False(t, ok)
			assert.NoError(t, err)
		})
	}
}

func TestRunID(t *testing.T) {
	tests := []struct {
		id, clean string
		valid     bool
	}{
		{"", "", true},
		{"run-1", "run-1", true},
		{"0190f5c2-7a3b-7c1d-9e4f-5a6b7c8d9e0f", "0190f5c2-7a3b-7c1d-9e4f-5a6b7c8d9e0f", true},
		{"my run", "my_run", false},
		{"a\nb", "a_b", false},
		{"a\r\nb", "a__b", false},
		{"x\x00", "x_", false},
		{"\u00a0nbsp", "_nbsp", false},
	}

	for i := range tests {
		err := CheckRunID(tests[i].id)
		if tests[i].valid && err != nil {
			t.Errorf("%d) Expected run ID %q to be valid, got error '%s'.",
				i, tests[i].id, err.Error())
		} else if !tests[i].valid && err == nil {
			t.Errorf("%d) Expected run ID %q to be invalid, got no error.",
				i, tests[i].id)
		}
		if clean := CleanRunID(tests[i].id); clean != tests[i].clean {
			t.Errorf("%d) Expected %q to clean to %q, got %q.",
				i, tests[i].id, tests[i].clean, clean)
		}
		assert.NoError(t, CheckRunID(CleanRunID(tests[i].id)))
	}
}
