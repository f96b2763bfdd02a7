package gui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelf2104/InternetProviderVisualization/config"
	"github.com/michaelf2104/InternetProviderVisualization/shell"
)

const csv = `Latitude,Longitude,MNC,Region,RSRP
48.1371,11.5754,1,München,-95
48.1500,11.5900,6,München,-88
48.1600,11.6000,1,München,-110
`

func newTestWindow(t *testing.T) (*Window, string) {
	t.Helper()
	dir := t.TempDir()
	sh := shell.New(shell.Paths{
		Heatmap:       filepath.Join(dir, "out", "heat.html"),
		CircleHeatmap: filepath.Join(dir, "out", "circle.html"),
	}, nil, nil)
	a := test.NewApp()
	t.Cleanup(a.Quit)
	return New(a, config.Default().Window, sh, nil), dir
}

func TestNew_Defaults(t *testing.T) {
	w, _ := newTestWindow(t)
	assert.Equal(t, "netzwerkanalyse", w.win.Title())
	assert.Equal(t, "Telekom", w.provider.Selected)
	assert.Equal(t, "München", w.region.Selected)
	assert.Equal(t, []string{"Telekom", "Vodafone", "Telefonica"}, w.provider.Options)
	assert.False(t, w.preview.Visible())
}

func TestTargetAt(t *testing.T) {
	oldPos := fyne.NewPos(300, 50)
	oldSize := fyne.NewSize(240, 90)

	assert.Equal(t, targetOld, targetAt(fyne.NewPos(310, 60), oldPos, oldSize))
	assert.Equal(t, targetOld, targetAt(fyne.NewPos(540, 140), oldPos, oldSize))
	assert.Equal(t, targetNew, targetAt(fyne.NewPos(100, 60), oldPos, oldSize))
	assert.Equal(t, targetNew, targetAt(fyne.NewPos(310, 200), oldPos, oldSize))
}

func TestDropNew_UpdatesStatusAndPreview(t *testing.T) {
	w, dir := newTestWindow(t)
	p := filepath.Join(dir, "new.csv")
	require.NoError(t, os.WriteFile(p, []byte(csv), 0o644))

	w.dropNew(p)

	assert.Equal(t, "Kein vorheriger Datensatz, Heatmaps aus 3 Messpunkten erstellt", w.status.Text)
	assert.True(t, w.preview.Visible())
	_, err := os.Stat(filepath.Join(dir, "out", "heat.html"))
	assert.NoError(t, err)
}

func TestDropNew_FailureHidesEarlierPreview(t *testing.T) {
	w, dir := newTestWindow(t)
	p := filepath.Join(dir, "new.csv")
	require.NoError(t, os.WriteFile(p, []byte(csv), 0o644))

	w.dropNew(p)
	require.True(t, w.preview.Visible())

	w.dropNew(filepath.Join(dir, "missing.csv"))
	assert.Contains(t, w.status.Text, "Fehler:")
	assert.False(t, w.preview.Visible())
}

func TestDropOldThenSameNew_NoNewData(t *testing.T) {
	w, dir := newTestWindow(t)
	p := filepath.Join(dir, "same.csv")
	require.NoError(t, os.WriteFile(p, []byte(csv), 0o644))

	w.dropOld(p)
	assert.Equal(t, "Vorheriger Datensatz: same.csv", w.status.Text)
	assert.Equal(t, shell.HasPriorDataset, w.shell.State())

	w.dropNew(p)
	assert.Equal(t, "Keine neuen Daten, Heatmaps nicht aktualisiert", w.status.Text)
	assert.False(t, w.preview.Visible())
}

func TestHandleDrop_DefaultsToNewDataset(t *testing.T) {
	w, dir := newTestWindow(t)
	p := filepath.Join(dir, "missing.csv")

	w.handleDrop(fyne.NewPos(-10, -10), []fyne.URI{storage.NewFileURI(p)})

	assert.Contains(t, w.status.Text, "Fehler:")
	assert.Equal(t, shell.NoPriorDataset, w.shell.State())
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Heatmaps erstellt: 2 neue Messpunkte",
		statusText(shell.Outcome{Kind: shell.OutcomeRendered, Rows: 2}))
	assert.Equal(t, "Fehler: boom",
		statusText(shell.Outcome{Kind: shell.OutcomeFailed, Err: errors.New("boom")}))
}
