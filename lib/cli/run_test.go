package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jetscape/softhadron/lib/catalog"
	"github.com/jetscape/softhadron/lib/eventio"
)

func staticConfig(output string) string {
	return fmt.Sprintf(`<jetscape>
  <nEvents>2</nEvents>
  <outputFilename>%s</outputFilename>
  <SoftParticlization>
    <iS3D>
      <engine>static</engine>
      <hadron pid="211" E="1" pz="1"/>
      <hadron pid="-211" E="0.5" pz="0.5"/>
    </iS3D>
  </SoftParticlization>
</jetscape>`, output)
}

func TestRunStatic(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "hadrons.dat")
	cfg := writeConfig(t, dir, staticConfig(out))

	stdout, err := execute(t, "run", cfg, "--run-id", "test-run", "--first", "3")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Run test-run wrote 2 event(s) from engine 'static'")

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "run_static", b)
}

func TestRunCompressedWithCatalog(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "hadrons.dat.zst")
	db := filepath.Join(dir, "run.db")
	cfg := writeConfig(t, dir, staticConfig(out))

	stdout, err := execute(t, "--format", "json", "run", cfg,
		"--events", "3", "--catalog", db)
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Data.Events)
	assert.Equal(t, db, resp.Data.Catalog)
	require.NotEmpty(t, resp.Data.RunID)

	hd, evs, err := eventio.ReadAll(out)
	require.NoError(t, err)
	assert.Equal(t, resp.Data.RunID, hd.RunID)
	require.Len(t, evs, 3)
	for i, ev := range evs {
		assert.Equal(t, i, ev.Number)
		assert.Equal(t, 2, ev.Hadrons.Len())
	}

	c, err := catalog.Open(db)
	require.NoError(t, err)
	defer c.Close()
	rows, err := c.Events(context.Background(), resp.Data.RunID)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 2, rows[2].Hadrons)
	assert.Equal(t, 1.5, rows[2].SumE)
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "run", filepath.Join(dir, "missing.xml"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	cfg := writeConfig(t, dir, staticConfig(filepath.Join(dir, "out.dat")))
	_, err = execute(t, "run", cfg, "--events", "0")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "nEvents")

	_, err = execute(t, "run", cfg, "--output", filepath.Join(dir, "no", "such", "dir.dat"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	bad := strings.Replace(staticConfig(filepath.Join(dir, "out.dat")),
		"static", "no-such-engine", 1)
	cfg = writeConfig(t, dir, bad)
	_, err = execute(t, "run", cfg)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "run failed")
}
