package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testXML = `<?xml version="1.0"?>
<jetscape>
  <nEvents>3</nEvents>
  <outputFilename>hadrons.dat.gz</outputFilename>
  <!-- engine block -->
  <SoftParticlization>
    <iS3D>
      <engine>static</engine>
      <weight>0.5</weight>
      <active>on</active>
      <hadron pid="211" E="1" pz="1"/>
      <hadron pid="-211" E="0.5" pz="0.5"/>
      <opaque><deep>kept</deep></opaque>
    </iS3D>
  </SoftParticlization>
</jetscape>`

func TestParse(t *testing.T) {
	root, err := Parse([]byte(testXML))
	require.NoError(t, err)
	assert.Equal(t, "jetscape", root.Name)

	n, err := root.Int("nEvents", 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "hadrons.dat.gz", root.String("outputFilename", ""))
	assert.Equal(t, "fallback", root.String("missing", "fallback"))

	is3d := root.Path("SoftParticlization", "iS3D")
	require.NotNil(t, is3d)
	engine, err := is3d.RequireString("engine")
	require.NoError(t, err)
	assert.Equal(t, "static", engine)

	w, err := is3d.Float("weight", 1)
	require.NoError(t, err)
	assert.Equal(t, 0.5, w)

	active, err := is3d.Bool("active", false)
	require.NoError(t, err)
	assert.True(t, active)

	hadrons := is3d.ChildrenNamed("hadron")
	require.Len(t, hadrons, 2)
	pid, err := hadrons[1].IntAttr("pid", 0)
	require.NoError(t, err)
	assert.Equal(t, -211, pid)
	e, err := hadrons[1].FloatAttr("E", 0)
	require.NoError(t, err)
	assert.Equal(t, 0.5, e)
	px, err := hadrons[1].FloatAttr("px", 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, px)

	assert.Equal(t, "kept", is3d.Path("opaque", "deep").Text)
}

func TestMissingAndBadKeys(t *testing.T) {
	root, err := Parse([]byte(`<iS3D><n>abc</n><x>1e</x><b>maybe</b><engine></engine></iS3D>`))
	require.NoError(t, err)

	_, err = root.Int("n", 0)
	assert.Error(t, err)
	_, err = root.Float("x", 0)
	assert.Error(t, err)
	_, err = root.Bool("b", false)
	assert.Error(t, err)
	_, err = root.RequireString("engine")
	assert.Error(t, err)
	_, err = root.RequireString("absent")
	assert.Error(t, err)

	var nilEl *Element
	assert.Nil(t, nilEl.Path("a", "b"))
	assert.Equal(t, "d", nilEl.String("k", "d"))
	assert.False(t, nilEl.Has("k"))
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"<a><b></a>",
		"just text",
	}
	for i := range tests {
		if _, err := Parse([]byte(tests[i])); err == nil {
			t.Errorf("%d) Expected '%s' to fail to parse.", i, tests[i])
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jetscape.xml")
	require.NoError(t, os.WriteFile(path, []byte(testXML), 0o644))

	root, err := Load(path)
	require.NoError(t, err)
	assert.True(t, root.Has("SoftParticlization"))

	_, err = Load(filepath.Join(t.TempDir(), "nope.xml"))
	assert.Error(t, err)
}
