// Package pipeline wires the reconciliation stages together:
// Normalize → Index → Compare → Suppress. Each stage is a pure transform
// over in-memory values; the two sides normalize independently, which is
// the natural parallelism boundary of the engine.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/crosscheckhq/crosscheck/pkg/diff"
	"github.com/crosscheckhq/crosscheck/pkg/exceptions"
	"github.com/crosscheckhq/crosscheck/pkg/facts"
	"github.com/crosscheckhq/crosscheck/pkg/logging"
	"github.com/crosscheckhq/crosscheck/pkg/tables"
)

// Pipeline runs a full reconciliation between two tables. Construct one
// with a normalizer per side; the same pipeline may be reused across
// runs, and independent runs may execute in parallel.
type Pipeline struct {
	normA  *facts.Normalizer
	normB  *facts.Normalizer
	differ diff.Differ
	rules  map[string]exceptions.Rule
	logger *zerolog.Logger
	runID  string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDiffer overrides the default comparator.
func WithDiffer(d diff.Differ) Option {
	return func(p *Pipeline) {
		p.differ = d
	}
}

// WithExceptions sets the exception overlay applied after comparison.
func WithExceptions(rules map[string]exceptions.Rule) Option {
	return func(p *Pipeline) {
		p.rules = rules
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithRunID sets the run identifier carried through the run's logs.
// Callers that report the run elsewhere pass their own; by default each
// Run generates a fresh one.
func WithRunID(id string) Option {
	return func(p *Pipeline) {
		p.runID = id
	}
}

// New creates a pipeline with one normalizer per side.
func New(normA, normB *facts.Normalizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		normA:  normA,
		normB:  normB,
		differ: diff.New(),
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run reconciles side A against side B and returns the final diff set.
// Only configuration errors fail the run; data-quality anomalies are
// logged per side and absorbed, so imperfect inputs still produce a
// usable partial diff. An empty result is a successful run with zero
// differences, never an error.
func (p *Pipeline) Run(ctx context.Context, sideA, sideB *tables.Table) (*diff.Set, error) {
	runID := p.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = logging.WithRun(logging.WithLogger(ctx, p.logger), runID)
	logger := logging.FromContext(ctx)

	var setA, setB *facts.FactSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		setA, err = p.normA.Normalize(sideA)
		return err
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		setB, err = p.normB.Normalize(sideB)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logStats(logging.WithSide(ctx, string(diff.SideA)), sideA, setA)
	logStats(logging.WithSide(ctx, string(diff.SideB)), sideB, setB)

	result := p.differ.Compare(facts.Index(setA), facts.Index(setB))
	result = exceptions.Suppress(result, p.rules)
	result.Sort()

	logger.Info().
		Int("missing_in_a", result.Summary.MissingInA).
		Int("missing_in_b", result.Summary.MissingInB).
		Int("total", result.Summary.Total).
		Msg("reconciliation complete")

	return result, nil
}

// logStats reports the data-quality anomalies a side absorbed. The
// engine never raises these; surfacing them is the caller's job. The
// context logger already carries the run id and side.
func logStats(ctx context.Context, t *tables.Table, set *facts.FactSet) {
	if t != nil {
		ctx = logging.WithTable(ctx, t.Origin)
	}
	stats := set.Stats()
	event := logging.FromContext(ctx).Info().
		Int("facts", set.Len()).
		Int("rows", stats.Rows)
	if stats.RowsDropped > 0 {
		event = event.Int("rows_dropped", stats.RowsDropped)
	}
	if stats.AttributesDropped > 0 {
		event = event.Int("attributes_dropped", stats.AttributesDropped)
	}
	if stats.TransformFallbacks > 0 {
		event = event.Int("transform_fallbacks", stats.TransformFallbacks)
	}
	if stats.DuplicateFacts > 0 {
		event = event.Int("duplicate_facts", stats.DuplicateFacts)
	}
	event.Msg("normalized table")
}
