package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/michaelf2104/InternetProviderVisualization/apperr"
	"github.com/michaelf2104/InternetProviderVisualization/heatmap"
	"github.com/michaelf2104/InternetProviderVisualization/logging"
)

const header = "Latitude,Longitude,MNC,Region,RSRP,Timestamp\n"

const oldRows = `48.1371,11.5754,1,München,-95,2024-05-01T10:00:00
48.1500,11.5900,6,München,-88,2024-05-01T10:02:00
48.1600,11.6000,1,München,-110,2024-05-01T10:04:00
`

const addedRows = `48.1700,11.6100,1,München,-99,2024-05-02T09:00:00
48.1800,11.6200,6,München,-92,2024-05-02T09:05:00
52.5200,13.4050,1,Berlin,-90,2024-05-02T09:10:00
`

type fixture struct {
	dir   string
	shell *Shell
	logs  *observer.ObservedLogs
	paths Paths
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	core, logs := observer.New(zap.DebugLevel)
	paths := Paths{
		Heatmap:       filepath.Join(dir, "heatmaps", "new_heatmap.html"),
		CircleHeatmap: filepath.Join(dir, "heatmaps", "new_circle_heatmap.html"),
	}
	s := New(paths, nil, logging.NewLoggerFromCore(core))
	n := 0
	s.newRunID = func() string {
		n++
		return "run-" + string(rune('0'+n))
	}
	return &fixture{dir: dir, shell: s, logs: logs, paths: paths}
}

func (f *fixture) write(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func (f *fixture) exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestDropOld_RecordsPathOnly(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, NoPriorDataset, f.shell.State())

	f.shell.DropOld(filepath.Join(f.dir, "not-read-yet.csv"))
	assert.Equal(t, HasPriorDataset, f.shell.State())
	assert.Equal(t, filepath.Join(f.dir, "not-read-yet.csv"), f.shell.PreviousPath())

	f.shell.DropOld("  ")
	assert.Equal(t, filepath.Join(f.dir, "not-read-yet.csv"), f.shell.PreviousPath())

	f.shell.DropOld("second.csv")
	assert.Equal(t, "second.csv", f.shell.PreviousPath())
	assert.Equal(t, HasPriorDataset, f.shell.State())
}

func TestDropNew_RendersOnlyAddedRows(t *testing.T) {
	f := newFixture(t)
	oldPath := f.write(t, "old.csv", header+oldRows)
	newPath := f.write(t, "new.csv", header+oldRows+addedRows)

	f.shell.DropOld(oldPath)
	out := f.shell.DropNew(newPath, "Telekom", "München")

	require.NoError(t, out.Err)
	assert.Equal(t, OutcomeRendered, out.Kind)
	assert.Equal(t, 2, out.Rows)
	require.NotNil(t, out.Table)
	assert.Equal(t, 48.17, out.Table.Rows[0].Latitude)
	assert.Equal(t, 48.18, out.Table.Rows[1].Latitude)

	require.Len(t, out.Artifacts, 2)
	assert.Equal(t, heatmap.KindHeatmap, out.Artifacts[0].Kind)
	assert.Equal(t, heatmap.KindCircleHeatmap, out.Artifacts[1].Kind)
	assert.True(t, f.exists(f.paths.Heatmap))
	assert.True(t, f.exists(f.paths.CircleHeatmap))
	assert.Equal(t, "run-1", out.RunID)
	assert.Equal(t, 1, f.logs.FilterMessage("heatmaps generated successfully").Len())
}

func TestDropNew_NoNewData(t *testing.T) {
	f := newFixture(t)
	oldPath := f.write(t, "old.csv", header+oldRows)
	// extra rows outside the filter do not count as new data
	newPath := f.write(t, "new.csv", header+oldRows+"52.5200,13.4050,1,Berlin,-90,2024-05-02T09:10:00\n")

	f.shell.DropOld(oldPath)
	out := f.shell.DropNew(newPath, "Telekom", "München")

	assert.Equal(t, OutcomeNoNewData, out.Kind)
	assert.NoError(t, out.Err)
	assert.Empty(t, out.Artifacts)
	assert.Nil(t, out.Table)
	assert.False(t, f.exists(f.paths.Heatmap))
	assert.False(t, f.exists(f.paths.CircleHeatmap))

	infos := f.logs.FilterMessage("no new data found, skipping heatmap generation")
	require.Equal(t, 1, infos.Len())
	assert.Equal(t, zapcore.InfoLevel, infos.All()[0].Level)
}

func TestDropNew_NoNewDataLeavesExistingMapsUntouched(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(f.paths.Heatmap), 0o755))
	require.NoError(t, os.WriteFile(f.paths.Heatmap, []byte("earlier run"), 0o644))

	p := f.write(t, "same.csv", header+oldRows)
	f.shell.DropOld(p)
	out := f.shell.DropNew(p, "Telekom", "München")

	assert.Equal(t, OutcomeNoNewData, out.Kind)
	b, err := os.ReadFile(f.paths.Heatmap)
	require.NoError(t, err)
	assert.Equal(t, "earlier run", string(b))
}

func TestDropNew_WithoutPriorRendersFullTableAndWarns(t *testing.T) {
	f := newFixture(t)
	newPath := f.write(t, "new.csv", header+oldRows+addedRows)

	out := f.shell.DropNew(newPath, "Telekom", "München")

	require.NoError(t, out.Err)
	assert.Equal(t, OutcomeRenderedWithoutPrior, out.Kind)
	assert.Equal(t, 5, out.Rows)
	assert.True(t, f.exists(f.paths.Heatmap))
	assert.True(t, f.exists(f.paths.CircleHeatmap))

	warns := f.logs.FilterLevelExact(zapcore.WarnLevel)
	require.Equal(t, 1, warns.Len())
	assert.Equal(t, "no previous dataset found, generating heatmaps for new dataset", warns.All()[0].Message)
	assert.Equal(t, "run-1", warns.All()[0].ContextMap()["run_id"])
}

func TestDropNew_WithoutPriorRendersEvenWhenEmpty(t *testing.T) {
	f := newFixture(t)
	newPath := f.write(t, "new.csv", header+addedRows)

	out := f.shell.DropNew(newPath, "Vodafone", "Hamburg")

	require.NoError(t, out.Err)
	assert.Equal(t, OutcomeRenderedWithoutPrior, out.Kind)
	assert.Equal(t, 0, out.Rows)
	assert.True(t, f.exists(f.paths.Heatmap))
}

func TestDropNew_MissingFileWritesNothing(t *testing.T) {
	f := newFixture(t)
	out := f.shell.DropNew(filepath.Join(f.dir, "missing.csv"), "Telekom", "München")

	assert.Equal(t, OutcomeFailed, out.Kind)
	assert.True(t, apperr.IsCode(out.Err, apperr.CodeUnreadableFile))
	assert.False(t, f.exists(f.paths.Heatmap))
	assert.False(t, f.exists(f.paths.CircleHeatmap))
	assert.Equal(t, 1, f.logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Equal(t, NoPriorDataset, f.shell.State())
}

func TestDropNew_UnreadablePreviousAborts(t *testing.T) {
	f := newFixture(t)
	newPath := f.write(t, "new.csv", header+oldRows)
	f.shell.DropOld(filepath.Join(f.dir, "gone.csv"))

	out := f.shell.DropNew(newPath, "Telekom", "München")

	assert.Equal(t, OutcomeFailed, out.Kind)
	assert.True(t, apperr.IsCode(out.Err, apperr.CodeUnreadableFile))
	assert.False(t, f.exists(f.paths.Heatmap))
	assert.Equal(t, HasPriorDataset, f.shell.State())
}

func TestDropNew_UnknownSelection(t *testing.T) {
	f := newFixture(t)
	newPath := f.write(t, "new.csv", header+oldRows)

	out := f.shell.DropNew(newPath, "O2", "München")
	assert.True(t, apperr.IsCode(out.Err, apperr.CodeUnknownProvider))

	out = f.shell.DropNew(newPath, "Telekom", "Köln")
	assert.True(t, apperr.IsCode(out.Err, apperr.CodeUnknownRegion))
	assert.False(t, f.exists(f.paths.Heatmap))
}

func TestDropNew_RenderFailureKeepsFirstMap(t *testing.T) {
	f := newFixture(t)
	blocker := f.write(t, "blocker", "x")
	f.shell.paths.CircleHeatmap = filepath.Join(blocker, "circle.html")
	newPath := f.write(t, "new.csv", header+oldRows)

	out := f.shell.DropNew(newPath, "Telekom", "München")

	assert.Equal(t, OutcomeFailed, out.Kind)
	assert.True(t, apperr.IsCode(out.Err, apperr.CodeRenderFailed))
	require.Len(t, out.Artifacts, 1)
	assert.True(t, f.exists(f.paths.Heatmap))
}

func TestDropNew_WritesWorkbookWhenConfigured(t *testing.T) {
	f := newFixture(t)
	f.shell.paths.Workbook = filepath.Join(f.dir, "report", "delta.xlsx")
	newPath := f.write(t, "new.csv", header+oldRows)

	out := f.shell.DropNew(newPath, "Telekom", "München")

	require.NoError(t, out.Err)
	assert.NoError(t, out.ExportErr)
	assert.True(t, f.exists(f.shell.paths.Workbook))
}

func TestDropNew_WorkbookFailureKeepsMaps(t *testing.T) {
	f := newFixture(t)
	blocker := f.write(t, "blocker", "x")
	f.shell.paths.Workbook = filepath.Join(blocker, "delta.xlsx")
	newPath := f.write(t, "new.csv", header+oldRows)

	out := f.shell.DropNew(newPath, "Telekom", "München")

	assert.Equal(t, OutcomeRenderedWithoutPrior, out.Kind)
	assert.True(t, apperr.IsCode(out.ExportErr, apperr.CodeExportFailed))
	assert.True(t, f.exists(f.paths.Heatmap))
	assert.True(t, f.exists(f.paths.CircleHeatmap))
}

func TestRunIDsDifferPerDrop(t *testing.T) {
	s := New(Paths{}, nil, nil)
	a := s.newRunID()
	b := s.newRunID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

func TestStringers(t *testing.T) {
	assert.Equal(t, "no_prior_dataset", NoPriorDataset.String())
	assert.Equal(t, "has_prior_dataset", HasPriorDataset.String())
	assert.Equal(t, "no_new_data", OutcomeNoNewData.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
}
