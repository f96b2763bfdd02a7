// Package gui is the Fyne window: two drop zones, the provider and region
// dropdowns, a status line and a preview of the last rendered map.
package gui

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/michaelf2104/InternetProviderVisualization/catalog"
	"github.com/michaelf2104/InternetProviderVisualization/config"
	"github.com/michaelf2104/InternetProviderVisualization/heatmap"
	"github.com/michaelf2104/InternetProviderVisualization/logging"
	"github.com/michaelf2104/InternetProviderVisualization/shell"
)

const (
	previewWidth  = 560
	previewHeight = 180
)

type Window struct {
	app   fyne.App
	win   fyne.Window
	shell *shell.Shell
	log   logging.Logger

	newZone  fyne.CanvasObject
	oldZone  fyne.CanvasObject
	provider *widget.Select
	region   *widget.Select
	status   *widget.Label
	preview  *canvas.Image
}

// New builds the window on a; call ShowAndRun to enter the event loop.
func New(a fyne.App, cfg config.WindowConfig, sh *shell.Shell, log logging.Logger) *Window {
	if log == nil {
		log = logging.NewNopLogger()
	}
	w := &Window{app: a, shell: sh, log: log.Named("gui")}
	w.win = a.NewWindow(cfg.Title)
	w.win.Resize(fyne.NewSize(float32(cfg.Width), float32(cfg.Height)))

	header := widget.NewLabelWithStyle("CSV-Datensatz bereitstellen", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	w.newZone = dropZone("Datensatz")
	w.oldZone = dropZone("Vorheriger Datensatz")

	w.provider = widget.NewSelect(catalog.Providers(), nil)
	w.provider.SetSelected(cfg.DefaultProvider)
	w.region = widget.NewSelect(catalog.Regions(), nil)
	w.region.SetSelected(cfg.DefaultRegion)

	w.status = widget.NewLabel("")
	w.status.Wrapping = fyne.TextWrapWord
	w.preview = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	w.preview.FillMode = canvas.ImageFillContain
	w.preview.SetMinSize(fyne.NewSize(previewWidth, previewHeight))
	w.preview.Hide()

	selects := container.NewGridWithColumns(2,
		container.NewVBox(widget.NewLabel("Mobilfunkanbieter:"), w.provider),
		container.NewVBox(widget.NewLabel("Stadt:"), w.region),
	)
	w.win.SetContent(container.NewVBox(
		header,
		container.NewGridWithColumns(2, w.newZone, w.oldZone),
		selects,
		w.status,
		w.preview,
	))
	w.win.SetOnDropped(w.handleDrop)
	return w
}

func (w *Window) ShowAndRun() { w.win.ShowAndRun() }

func dropZone(text string) fyne.CanvasObject {
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 0x80}
	border.StrokeWidth = 1
	border.SetMinSize(fyne.NewSize(240, 90))
	return container.NewStack(border, container.NewCenter(widget.NewLabel(text)))
}

type dropTarget int

const (
	targetNew dropTarget = iota
	targetOld
)

// targetAt picks the zone under pos. Anything outside the previous-dataset
// zone counts as a new dataset.
func targetAt(pos, oldPos fyne.Position, oldSize fyne.Size) dropTarget {
	if pos.X >= oldPos.X && pos.X <= oldPos.X+oldSize.Width &&
		pos.Y >= oldPos.Y && pos.Y <= oldPos.Y+oldSize.Height {
		return targetOld
	}
	return targetNew
}

func (w *Window) handleDrop(pos fyne.Position, uris []fyne.URI) {
	if len(uris) == 0 {
		return
	}
	if len(uris) > 1 {
		w.log.Warn("several files dropped, using the first", logging.Int("count", len(uris)))
	}
	u := uris[0]
	if u.Scheme() != "file" {
		w.setStatus(fmt.Sprintf("Nur lokale Dateien werden unterstützt: %s", u.String()))
		return
	}
	oldPos := w.app.Driver().AbsolutePositionForObject(w.oldZone)
	switch targetAt(pos, oldPos, w.oldZone.Size()) {
	case targetOld:
		w.dropOld(u.Path())
	default:
		w.dropNew(u.Path())
	}
}

func (w *Window) dropOld(path string) {
	w.shell.DropOld(path)
	w.setStatus("Vorheriger Datensatz: " + filepath.Base(path))
}

func (w *Window) dropNew(path string) {
	out := w.shell.DropNew(path, w.provider.Selected, w.region.Selected)
	text := statusText(out)
	if out.ExportErr != nil {
		text += " (Excel-Export fehlgeschlagen)"
	}
	w.setStatus(text)
	w.showPreview(out)
}

func (w *Window) setStatus(text string) { w.status.SetText(text) }

func (w *Window) showPreview(out shell.Outcome) {
	if out.Kind == shell.OutcomeFailed || out.Kind == shell.OutcomeNoNewData {
		w.preview.Hide()
		return
	}
	b, err := heatmap.Preview(out.Table, previewWidth, previewHeight)
	if err != nil {
		if !errors.Is(err, heatmap.ErrNoPreview) {
			w.log.Warn("preview failed", logging.Err(err))
		}
		w.preview.Hide()
		return
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		w.log.Warn("preview decode failed", logging.Err(err))
		w.preview.Hide()
		return
	}
	w.preview.Image = img
	w.preview.Show()
	w.preview.Refresh()
}

func statusText(out shell.Outcome) string {
	switch out.Kind {
	case shell.OutcomeRendered:
		return fmt.Sprintf("Heatmaps erstellt: %d neue Messpunkte", out.Rows)
	case shell.OutcomeRenderedWithoutPrior:
		return fmt.Sprintf("Kein vorheriger Datensatz, Heatmaps aus %d Messpunkten erstellt", out.Rows)
	case shell.OutcomeNoNewData:
		return "Keine neuen Daten, Heatmaps nicht aktualisiert"
	default:
		return fmt.Sprintf("Fehler: %v", out.Err)
	}
}
