// Package restraints provides the application-level service that turns a
// structure file and its secondary-structure annotation into hydrogen-bond
// restraints.  It is shared by the CLI and the HTTP handlers.
package restraints

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/hbond-restraints/internal/config"
	"github.com/turtacn/hbond-restraints/internal/domain/hbond"
	"github.com/turtacn/hbond-restraints/internal/domain/secstr"
	"github.com/turtacn/hbond-restraints/internal/domain/structure"
	"github.com/turtacn/hbond-restraints/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-restraints/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/hbond-restraints/internal/infrastructure/pdb"
	"github.com/turtacn/hbond-restraints/pkg/errors"
)

// Service defines the restraint application operations.
type Service interface {
	// Load reads the structure of req and assembles the elements to
	// restrain without synthesizing anything.
	Load(ctx context.Context, req *Request) (*Input, error)
	Run(ctx context.Context, req *Request) (*Result, error)
	// Batch runs every request, at most Concurrency at a time.  Results are
	// positional; a failed request leaves a nil entry and contributes to the
	// combined error.
	Batch(ctx context.Context, reqs []*Request) ([]*Result, error)
	Content(ctx context.Context, req *Request) (*ContentResult, error)
	// Reload swaps in new settings.  Runs already started keep the old ones.
	Reload(cfg *config.Config)
	Params() hbond.Params
}

// Request names one structure and optional per-request overrides.
type Request struct {
	// Name labels the request in logs and errors.  Defaults to Path.
	Name string
	// Path is a PDB file, optionally gzip compressed.  PDB is used when
	// Path is empty.
	Path string
	PDB  string

	// Annotation elements are restrained after those taken from HELIX and
	// SHEET records and from the configuration.
	Annotation secstr.Annotation
	// UseRecords overrides secondary_structure.from_records.
	UseRecords *bool
	// Params replaces the configured synthesis options.
	Params *hbond.Params
}

func (r *Request) label() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Path != "":
		return r.Path
	}
	return "<inline>"
}

// Input is a loaded structure with the elements to restrain.
type Input struct {
	Name       string
	IDCode     string
	Model      *structure.Model
	Annotation secstr.Annotation
	Skipped    []secstr.Skipped
}

// Result is the outcome of one Run.
type Result struct {
	RunID    string
	Name     string
	IDCode   string
	Duration time.Duration

	Model      *structure.Model
	Annotation secstr.Annotation
	Skipped    []secstr.Skipped
	Synthesis  *hbond.Result
}

// ContentResult is the secondary-structure content of one structure.
type ContentResult struct {
	Name    string
	IDCode  string
	Content hbond.Content
}

// settings is the hot-swappable part of the configuration.
type settings struct {
	params      hbond.Params
	secondary   config.SecondaryStructureConfig
	input       pdb.Options
	concurrency int
}

func settingsFrom(cfg *config.Config) settings {
	return settings{
		params:      cfg.Restraints.ToParams(),
		secondary:   cfg.SecondaryStructure,
		input:       pdb.Options{FirstModelOnly: cfg.Input.FirstModelOnly},
		concurrency: cfg.Batch.Concurrency,
	}
}

type serviceImpl struct {
	mu      sync.RWMutex
	current settings
	metrics *prometheus.AppMetrics
	logger  logging.Logger
}

// NewService creates the restraint service.  A nil metrics records nothing;
// a nil logger discards output.
func NewService(cfg *config.Config, metrics *prometheus.AppMetrics, logger logging.Logger) Service {
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &serviceImpl{
		current: settingsFrom(cfg),
		metrics: metrics,
		logger:  logger,
	}
}

func (s *serviceImpl) snapshot() settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *serviceImpl) Reload(cfg *config.Config) {
	next := settingsFrom(cfg)
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	s.logger.Info("restraint settings reloaded", logging.String("params", next.params.String()))
}

func (s *serviceImpl) Params() hbond.Params { return s.snapshot().params }

func (s *serviceImpl) Load(ctx context.Context, req *Request) (*Input, error) {
	return s.load(ctx, req, s.snapshot(), s.logger.With(logging.String("structure", req.label())))
}

func (s *serviceImpl) load(ctx context.Context, req *Request, st settings, logger logging.Logger) (*Input, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		entry *pdb.Entry
		err   error
	)
	switch {
	case req.Path != "":
		entry, err = pdb.ReadFile(req.Path, st.input)
	case req.PDB != "":
		entry, err = pdb.ParseString(req.PDB, st.input)
	default:
		return nil, errors.InvalidParam("request names no structure")
	}
	if err != nil {
		return nil, err
	}
	model, err := entry.Model()
	if err != nil {
		return nil, err
	}

	in := &Input{Name: req.label(), IDCode: entry.IDCode, Model: model}

	useRecords := st.secondary.FromRecords
	if req.UseRecords != nil {
		useRecords = *req.UseRecords
	}
	if useRecords {
		ann, skipped, err := entry.Records.Annotation(st.secondary.ConvertOptions())
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidAnnotation, "converting secondary-structure records")
		}
		for _, sk := range skipped {
			logger.Warn("skipping secondary-structure record",
				logging.String("record", sk.Record), logging.String("reason", sk.Reason))
		}
		in.Annotation = ann
		in.Skipped = skipped
	}
	in.Annotation = in.Annotation.Merge(st.secondary.Annotation()).Merge(req.Annotation)
	if err := in.Annotation.Validate(); err != nil {
		return nil, err
	}
	if in.Annotation.Empty() {
		logger.Warn("no secondary structure to restrain")
	}
	return in, nil
}

func (s *serviceImpl) Run(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := s.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String("structure", req.label()))

	res, err := s.run(ctx, req, logger)
	elapsed := time.Since(start)

	var synth *hbond.Result
	if res != nil {
		synth = res.Synthesis
	}
	prometheus.RecordRun(s.metrics, synth, err, elapsed)
	if err != nil {
		logger.Error("restraint synthesis failed",
			logging.String("code", errors.GetCode(err).String()), logging.Err(err))
		return nil, err
	}

	res.RunID = runID
	res.Duration = elapsed
	sum := synth.Summary()
	logging.LogOperationDuration(logger, "synthesize", start,
		logging.Int("bonds", sum.Total),
		logging.Int("kept", sum.Kept),
		logging.Int("diagnostics", len(synth.Diagnostics)))
	return res, nil
}

func (s *serviceImpl) run(ctx context.Context, req *Request, logger logging.Logger) (*Result, error) {
	st := s.snapshot()
	params := st.params
	if req.Params != nil {
		params = *req.Params
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	in, err := s.load(ctx, req, st, logger)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	synth, err := hbond.NewSynthesizer(params, logger.Named("synth")).Synthesize(in.Model, in.Annotation)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name:       in.Name,
		IDCode:     in.IDCode,
		Model:      in.Model,
		Annotation: in.Annotation,
		Skipped:    in.Skipped,
		Synthesis:  synth,
	}, nil
}

func (s *serviceImpl) Batch(ctx context.Context, reqs []*Request) ([]*Result, error) {
	results := make([]*Result, len(reqs))
	errs := make([]error, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.snapshot().concurrency))
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			res, err := s.Run(gctx, req)
			if err != nil {
				errs[i] = errors.Wrap(err, errors.CodeUnknown, req.label())
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	err := multierr.Combine(errs...)
	if err != nil {
		s.logger.Warn("batch finished with failures",
			logging.Int("requests", len(reqs)),
			logging.Int("failed", len(multierr.Errors(err))))
	}
	return results, err
}

func (s *serviceImpl) Content(ctx context.Context, req *Request) (*ContentResult, error) {
	in, err := s.Load(ctx, req)
	if err != nil {
		return nil, err
	}
	c, err := hbond.StructureContent(in.Model, in.Annotation)
	if err != nil {
		return nil, err
	}
	return &ContentResult{Name: in.Name, IDCode: in.IDCode, Content: c}, nil
}
