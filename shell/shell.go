// Package shell is the two-state drop handler behind the window: a dropped
// "previous" file is only remembered, a dropped "new" file is loaded, diffed
// against the remembered one and rendered.
package shell

import (
	"strings"

	"github.com/google/uuid"

	"github.com/michaelf2104/InternetProviderVisualization/catalog"
	"github.com/michaelf2104/InternetProviderVisualization/dataset"
	"github.com/michaelf2104/InternetProviderVisualization/heatmap"
	"github.com/michaelf2104/InternetProviderVisualization/logging"
)

type State int

const (
	NoPriorDataset State = iota
	HasPriorDataset
)

func (s State) String() string {
	if s == HasPriorDataset {
		return "has_prior_dataset"
	}
	return "no_prior_dataset"
}

type OutcomeKind int

const (
	OutcomeRendered OutcomeKind = iota
	OutcomeRenderedWithoutPrior
	OutcomeNoNewData
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRendered:
		return "rendered"
	case OutcomeRenderedWithoutPrior:
		return "rendered_without_prior"
	case OutcomeNoNewData:
		return "no_new_data"
	default:
		return "failed"
	}
}

// Outcome is the result of one new-file drop.
type Outcome struct {
	Kind      OutcomeKind
	RunID     string
	Rows      int
	Artifacts []heatmap.Artifact
	// Table is the table that was rendered, nil unless something was rendered.
	Table *dataset.Table
	Err   error
	// ExportErr is set when the optional workbook could not be written; the
	// maps are kept regardless.
	ExportErr error
}

// Paths are the output locations of one run.
type Paths struct {
	Heatmap       string
	CircleHeatmap string
	// Workbook is optional; empty disables the xlsx export.
	Workbook string
}

type Shell struct {
	log      logging.Logger
	loader   *dataset.Loader
	renderer *heatmap.Renderer
	paths    Paths

	state    State
	previous string
	newRunID func() string
}

func New(paths Paths, loader *dataset.Loader, log logging.Logger) *Shell {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if loader == nil {
		loader = dataset.NewLoader(log)
	}
	return &Shell{
		log:      log.Named("shell"),
		loader:   loader,
		renderer: heatmap.NewRenderer(log),
		paths:    paths,
		newRunID: func() string { return uuid.NewString() },
	}
}

func (s *Shell) State() State { return s.state }

// PreviousPath is the remembered previous dataset, empty in NoPriorDataset.
func (s *Shell) PreviousPath() string { return s.previous }

// DropOld remembers path as the previous dataset. The file is not read until
// the next new-file drop; a later DropOld replaces it.
func (s *Shell) DropOld(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		s.log.Warn("ignoring empty previous dataset path")
		return
	}
	s.previous = path
	s.state = HasPriorDataset
	s.log.Info("old dataset received", logging.String("path", path))
}

// DropNew runs one full pass for the dataset at path with the dropdown
// selection provider and region.
func (s *Shell) DropNew(path, provider, region string) Outcome {
	out := Outcome{RunID: s.newRunID()}
	log := s.log.With(logging.String("run_id", out.RunID))
	log.Info("new dataset received",
		logging.String("path", path),
		logging.String("provider", provider),
		logging.String("region", region),
		logging.String("state", s.state.String()),
	)

	criteria, err := catalog.Criteria(provider, region)
	if err != nil {
		return s.fail(log, out, err)
	}
	newTable, err := s.loader.LoadAndClean(path, criteria)
	if err != nil {
		return s.fail(log, out, err)
	}

	table := newTable
	if s.state == HasPriorDataset {
		oldTable, err := s.loader.LoadAndClean(s.previous, criteria)
		if err != nil {
			return s.fail(log, out, err)
		}
		table = dataset.NewData(newTable, oldTable)
		log.Info("datasets compared",
			logging.String("previous", s.previous),
			logging.Int("new_rows", newTable.Len()),
			logging.Int("old_rows", oldTable.Len()),
			logging.Int("added_rows", table.Len()),
		)
		if table.Empty() {
			out.Kind = OutcomeNoNewData
			log.Info("no new data found, skipping heatmap generation")
			return out
		}
		out.Kind = OutcomeRendered
	} else {
		out.Kind = OutcomeRenderedWithoutPrior
		log.Warn("no previous dataset found, generating heatmaps for new dataset")
	}

	out.Rows = table.Len()
	out.Table = table
	r := s.renderer.WithRegion(criteria.Region)
	a, err := r.GenerateHeatmap(table, s.paths.Heatmap)
	if err != nil {
		return s.fail(log, out, err)
	}
	out.Artifacts = append(out.Artifacts, a)
	a, err = r.GenerateCircleHeatmap(table, s.paths.CircleHeatmap)
	if err != nil {
		return s.fail(log, out, err)
	}
	out.Artifacts = append(out.Artifacts, a)

	if s.paths.Workbook != "" {
		if err := dataset.WriteWorkbook(table, s.paths.Workbook); err != nil {
			out.ExportErr = err
			log.Error("workbook export failed", logging.Err(err))
		} else {
			log.Info("workbook written", logging.String("path", s.paths.Workbook))
		}
	}
	log.Info("heatmaps generated successfully", logging.Int("rows", out.Rows))
	return out
}

func (s *Shell) fail(log logging.Logger, out Outcome, err error) Outcome {
	out.Kind = OutcomeFailed
	out.Err = err
	log.Error("drop failed", logging.Err(err))
	return out
}
