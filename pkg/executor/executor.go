package executor

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/layercake-project/layercake/pkg/cache"
	"github.com/layercake-project/layercake/pkg/dataset"
	"github.com/layercake-project/layercake/pkg/render"
	"github.com/layercake-project/layercake/pkg/repository"
)

// Executor runs Plan DAGs against a shared set of external
// collaborators. An Executor is safe to reuse across many concurrent
// [Executor.ExecutePlan] calls: per-run state (the graph and dataset
// caches spec §5 requires stay exclusively owned by one execution)
// lives on the run, never on the Executor itself.
type Executor struct {
	Repo          repository.GraphRepository
	DatasetSource dataset.Source
	Cache         cache.Cache
	Keyer         cache.Keyer
	Engine        render.TemplateEngine
	Logger        *log.Logger

	// NodeTimeout bounds each node's wall-clock execution (spec §5). A
	// zero value means no per-node timeout.
	NodeTimeout time.Duration
}

// New returns an Executor with the given collaborators. Unless an
// [Option] overrides them, Cache defaults to [cache.NewNullCache], Keyer
// to [cache.NewDefaultKeyer], Engine to [render.StdTemplateEngine], and
// Logger to [log.Default], mirroring the teacher's `pipeline.NewRunner`
// defaulting. Options store the values they are given as-is, except
// that [WithCache] keeps the current Keyer when passed a nil one.
func New(repo repository.GraphRepository, src dataset.Source, opts ...Option) *Executor {
	e := &Executor{
		Repo:          repo,
		DatasetSource: src,
		Cache:         cache.NewNullCache(),
		Keyer:         cache.NewDefaultKeyer(),
		Engine:        render.StdTemplateEngine{},
		Logger:        log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Option configures an Executor built by [New].
type Option func(*Executor)

// WithCache overrides the materialization cache.
func WithCache(c cache.Cache, keyer cache.Keyer) Option {
	return func(e *Executor) {
		e.Cache = c
		if keyer != nil {
			e.Keyer = keyer
		}
	}
}

// WithEngine overrides the template engine used by Custom exports.
func WithEngine(engine render.TemplateEngine) Option {
	return func(e *Executor) { e.Engine = engine }
}

// WithLogger overrides the logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Executor) { e.Logger = logger }
}

// WithNodeTimeout bounds each node's execution wall-clock time.
func WithNodeTimeout(d time.Duration) Option {
	return func(e *Executor) { e.NodeTimeout = d }
}

func newHandleID() string { return uuid.NewString() }
