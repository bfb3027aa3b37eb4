package dto

import (
	"time"

	"importmover/internal/domain/valueobject"

	"github.com/google/uuid"
)

// RefactorRequest holds the inputs of one refactor run.
type RefactorRequest struct {
	MapFile         string `yaml:"map_file"`
	Pattern         string `yaml:"pattern"`
	OriginalBase    string `yaml:"original_base"`
	DestinationBase string `yaml:"destination_base"`
	DryRun          bool   `yaml:"dry_run"`
}

// ImportDecision is the report form of one resolved import.
type ImportDecision struct {
	Specifier string                     `yaml:"specifier"`
	Decision  valueobject.ResolutionKind `yaml:"decision"`
	Target    string                     `yaml:"target,omitempty"`
	Candidate string                     `yaml:"candidate,omitempty"`
	Relative  bool                       `yaml:"relative,omitempty"`
	Line      int                        `yaml:"line"`
}

// FileResult is the outcome of processing one file.
type FileResult struct {
	Path             string           `yaml:"path"`
	OriginalLocation string           `yaml:"original_location"`
	Imports          []ImportDecision `yaml:"imports,omitempty"`
	Changed          bool             `yaml:"changed"`
	Written          bool             `yaml:"written"`
}

// RunSummary accumulates the results of a run. It is returned even when the
// run aborts, describing the files handled before the failure.
type RunSummary struct {
	RunID            uuid.UUID       `yaml:"run_id"`
	Request          RefactorRequest `yaml:"request"`
	StartedAt        time.Time       `yaml:"started_at"`
	FinishedAt       time.Time       `yaml:"finished_at"`
	MapEntries       int             `yaml:"map_entries"`
	FilesMatched     int             `yaml:"files_matched"`
	FilesVisited     int             `yaml:"files_visited"`
	FilesChanged     int             `yaml:"files_changed"`
	ImportsMoved     int             `yaml:"imports_moved"`
	ImportsDeleted   int             `yaml:"imports_deleted"`
	ImportsUntouched int             `yaml:"imports_untouched"`
	Files            []FileResult    `yaml:"files"`
	Error            string          `yaml:"error,omitempty"`
}

// Record adds a file result and updates the totals.
func (s *RunSummary) Record(result FileResult) {
	s.FilesVisited++
	if result.Changed {
		s.FilesChanged++
	}
	for _, imp := range result.Imports {
		switch imp.Decision {
		case valueobject.Moved:
			s.ImportsMoved++
		case valueobject.Deleted:
			s.ImportsDeleted++
		case valueobject.Untouched:
			s.ImportsUntouched++
		}
	}
	s.Files = append(s.Files, result)
}

// Duration returns how long the run took.
func (s *RunSummary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
