package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"importmover/internal/application/common/logging"
	"importmover/internal/application/common/slogger"
	"importmover/internal/application/dto"
	"importmover/internal/domain/errors/domain"
	domainservice "importmover/internal/domain/service"
	"importmover/internal/domain/valueobject"
	"importmover/internal/port/inbound"
	"importmover/internal/port/outbound"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var _ inbound.ImportRefactorer = (*RefactorService)(nil)

// RefactorDependencies are the collaborators of a RefactorService. Logger
// and MeterProvider are optional.
type RefactorDependencies struct {
	Loader        outbound.MoveMapLoader
	Enumerator    outbound.FileEnumerator
	Locator       outbound.ImportLocator
	Store         outbound.SourceStore
	Reporter      outbound.DecisionReporter
	Logger        logging.ApplicationLogger
	MeterProvider metric.MeterProvider
}

// RefactorService rewrites import specifiers across the files of a source
// tree according to a move-map. Files are processed one at a time and the
// first error stops the run; files already written stay written.
type RefactorService struct {
	deps    RefactorDependencies
	request dto.RefactorRequest
	editor  *domainservice.SourceEditor
	logger  logging.ApplicationLogger
}

// NewRefactorService validates deps and creates a service for request.
func NewRefactorService(deps RefactorDependencies, request dto.RefactorRequest) (*RefactorService, error) {
	switch {
	case deps.Loader == nil:
		return nil, errors.New("move-map loader cannot be nil")
	case deps.Enumerator == nil:
		return nil, errors.New("file enumerator cannot be nil")
	case deps.Locator == nil:
		return nil, errors.New("import locator cannot be nil")
	case deps.Store == nil:
		return nil, errors.New("source store cannot be nil")
	case deps.Reporter == nil:
		return nil, errors.New("decision reporter cannot be nil")
	}
	if request.MapFile == "" {
		return nil, errors.New("move-map file cannot be empty")
	}
	if request.Pattern == "" {
		return nil, errors.New("file pattern cannot be empty")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slogger.WithComponent("refactor-service")
	}
	if deps.MeterProvider == nil {
		deps.MeterProvider = otel.GetMeterProvider()
	}

	return &RefactorService{
		deps:    deps,
		request: request,
		editor:  domainservice.NewSourceEditor(),
		logger:  logger,
	}, nil
}

// Run performs the refactor. The returned summary is never nil; when the run
// fails it describes the files completed before the failure.
func (s *RefactorService) Run(ctx context.Context) (*dto.RunSummary, error) {
	runID := uuid.New()
	ctx = logging.WithCorrelationID(ctx, runID.String())

	summary := &dto.RunSummary{
		RunID:     runID,
		Request:   s.request,
		StartedAt: time.Now(),
	}

	metrics, err := NewRefactorMetricsWithProvider(runID.String(), s.deps.MeterProvider)
	if err != nil {
		return s.finish(ctx, summary, nil, fmt.Errorf("create metrics: %w", err))
	}

	s.logger.Info(ctx, "Starting refactor run", logging.Fields{
		"map_file":         s.request.MapFile,
		"pattern":          s.request.Pattern,
		"original_base":    s.request.OriginalBase,
		"destination_base": s.request.DestinationBase,
		"dry_run":          s.request.DryRun,
	})

	moveMap, err := s.loadMoveMap(ctx)
	if err != nil {
		return s.finish(ctx, summary, metrics, err)
	}
	summary.MapEntries = moveMap.Len()

	files, err := s.deps.Enumerator.Enumerate(ctx, s.request.Pattern)
	if err != nil {
		return s.finish(ctx, summary, metrics, err)
	}
	summary.FilesMatched = len(files)

	resolver := domainservice.NewPathResolver(moveMap)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return s.finish(ctx, summary, metrics, err)
		}

		result, err := s.processFile(ctx, moveMap, resolver, metrics, path)
		if err != nil {
			return s.finish(ctx, summary, metrics, err)
		}
		summary.Record(result)
	}

	return s.finish(ctx, summary, metrics, nil)
}

func (s *RefactorService) loadMoveMap(ctx context.Context) (*valueobject.MoveMap, error) {
	raw, err := s.deps.Loader.Load(ctx, s.request.MapFile)
	if err != nil {
		return nil, err
	}

	moveMap, err := valueobject.NewMoveMap(raw, s.request.DestinationBase)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidMoveMap, err)
	}

	for _, collision := range moveMap.Collisions() {
		s.logger.Warn(ctx, "Two move-map entries land on the same file; the later key wins", logging.Fields{
			"location": collision.Location,
			"kept":     collision.Kept,
			"dropped":  collision.Dropped,
		})
	}

	return moveMap, nil
}

// processFile runs read, locate, resolve, edit and persist for one file.
func (s *RefactorService) processFile(
	ctx context.Context,
	moveMap *valueobject.MoveMap,
	resolver *domainservice.PathResolver,
	metrics *RefactorMetrics,
	path string,
) (dto.FileResult, error) {
	start := time.Now()
	result := dto.FileResult{
		Path:             path,
		OriginalLocation: moveMap.OriginalLocation(path),
	}

	if err := s.deps.Reporter.FileVisited(ctx, path); err != nil {
		return result, fmt.Errorf("report %s: %w", path, err)
	}

	text, err := s.deps.Store.Read(ctx, path)
	if err != nil {
		return result, fmt.Errorf("read %s: %w", path, err)
	}

	file, err := s.deps.Locator.LocateImports(ctx, path, text)
	if err != nil {
		return result, err
	}

	originalDir := resolver.OriginalDir(path)
	imports := file.Imports()
	resolutions := make([]valueobject.Resolution, len(imports))
	for i, record := range imports {
		res := resolver.Resolve(record.Specifier, originalDir)
		resolutions[i] = res

		if err := s.deps.Reporter.ImportResolved(ctx, record, res); err != nil {
			return result, fmt.Errorf("report %s: %w", path, err)
		}
		metrics.RecordImport(ctx, res.Kind)

		result.Imports = append(result.Imports, dto.ImportDecision{
			Specifier: res.Specifier,
			Decision:  res.Kind,
			Target:    res.Target,
			Candidate: res.Candidate,
			Relative:  res.Relative,
			Line:      record.Line,
		})
	}

	rewritten, err := s.editor.Rewrite(file, resolutions)
	if err != nil {
		return result, err
	}

	result.Changed = rewritten != text
	if result.Changed {
		if !s.request.DryRun {
			if err := s.deps.Store.Write(ctx, path, rewritten); err != nil {
				return result, fmt.Errorf("write %s: %w", path, err)
			}
			result.Written = true
		}
		if err := s.deps.Reporter.FileRewritten(ctx, path, text, rewritten); err != nil {
			return result, fmt.Errorf("report %s: %w", path, err)
		}
	}

	metrics.RecordFile(ctx, result.Changed, s.request.DryRun, time.Since(start))
	s.logger.Debug(ctx, "Processed file", logging.Fields{
		"path":              path,
		"original_location": result.OriginalLocation,
		"imports":           len(imports),
		"changed":           result.Changed,
		"written":           result.Written,
	})

	return result, nil
}

func (s *RefactorService) finish(
	ctx context.Context,
	summary *dto.RunSummary,
	metrics *RefactorMetrics,
	err error,
) (*dto.RunSummary, error) {
	summary.FinishedAt = time.Now()
	metrics.RecordRun(ctx, err)

	fields := logging.Fields{
		"files_matched":     summary.FilesMatched,
		"files_visited":     summary.FilesVisited,
		"files_changed":     summary.FilesChanged,
		"imports_moved":     summary.ImportsMoved,
		"imports_deleted":   summary.ImportsDeleted,
		"imports_untouched": summary.ImportsUntouched,
		"dry_run":           s.request.DryRun,
	}

	if err != nil {
		summary.Error = err.Error()
		s.logger.ErrorWithError(ctx, err, "Refactor run failed", fields)
		return summary, err
	}

	s.logger.LogPerformance(ctx, "refactor_run", summary.Duration(), fields)
	return summary, nil
}
