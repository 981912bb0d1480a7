// Package reachability computes delete-relaxed reachability over a
// Domain Transition Graph: which lifted facts, DTG nodes, and object
// equivalence classes a planning problem can reach, ignoring deletes.
package reachability

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/mypop/reachability/internal/domain"
	"github.com/mypop/reachability/internal/dtg"
	"github.com/mypop/reachability/internal/metrics"
	"github.com/mypop/reachability/internal/reach"
	"github.com/mypop/reachability/internal/unify"
)

// defaultMaxIterations bounds the fixed-point loop when the caller does
// not set one explicitly (spec.md §7, Testable Property 7 termination
// bound).
const defaultMaxIterations = 10000

// Options configures an Engine (functional-options pattern, mirroring
// OLM's queueinformer.Config).
type Options struct {
	maxIterations int
	logger        *logrus.Logger
	registry      prometheus.Registerer
	facade        unify.Facade
}

// Option mutates an Options during New.
type Option func(*Options)

// WithMaxIterations overrides the default iteration budget.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.maxIterations = n }
}

// WithLogger supplies a logrus logger for structured iteration diagnostics.
// A nil logger (the default) disables logging.
func WithLogger(log *logrus.Logger) Option {
	return func(o *Options) { o.logger = log }
}

// WithMetricsRegistry enables Prometheus metrics, registered against reg.
func WithMetricsRegistry(reg prometheus.Registerer) Option {
	return func(o *Options) { o.registry = reg }
}

// WithUnifyFacade supplies the Unifier facade consulted for externally
// dependent transitions (spec.md §4.6). With a nil facade (the default),
// external parameters are resolved from the fact store alone, with no
// fallback candidate source.
func WithUnifyFacade(f unify.Facade) Option {
	return func(o *Options) { o.facade = f }
}

// Engine is a constructed reachability problem instance: a DTG and its
// term universe, ready to Analyze an initial state.
type Engine struct {
	graph *dtg.Graph
	terms *domain.TermManager
	opts  Options
}

// New builds an Engine over graph and terms. It returns
// ErrInconsistentInput if graph or terms is nil; it does not inspect their
// contents (spec.md §7).
func New(graph *dtg.Graph, terms *domain.TermManager, opts ...Option) (*Engine, error) {
	if graph == nil {
		return nil, reach.ErrInconsistentInput
	}
	if terms == nil {
		return nil, reach.ErrInconsistentInput
	}
	o := Options{maxIterations: defaultMaxIterations}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		o.logger.WithFields(logrus.Fields{
			"nodes":   len(graph.Nodes()),
			"objects": len(terms.Objects()),
		}).Info("reachability: engine constructed")
	}
	return &Engine{graph: graph, terms: terms, opts: o}, nil
}

// Analyze runs the engine to a fixed point from the given initial facts
// and returns a Report over the result (spec.md §6, the `analyze`
// operation).
func (e *Engine) Analyze(initial []domain.BoundedFact) (rep *Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.WithMessage(reach.ErrInvariantViolation, invariantMessage(r))
		}
	}()

	mgr := reach.NewManager(e.graph, e.terms)
	store := reach.NewStore(mgr.ZeroArity(), mgr.Root)
	mgr.Bind(store)
	mgr.Initialise(initial)

	solver := reach.NewSolver(store, mgr)
	external := reach.NewExternalResolver(store, mgr, e.opts.facade)

	var mc *metrics.Collector
	if e.opts.registry != nil {
		mc = metrics.NewCollector(e.opts.registry)
	}

	driver := reach.NewDriver(e.graph, store, mgr, solver, external, e.opts.logger, mc, e.opts.maxIterations)
	iterations, err := driver.Run()
	if err != nil {
		return nil, err
	}
	if e.opts.logger != nil {
		e.opts.logger.WithFields(logrus.Fields{
			"iterations": iterations,
			"classes":    mgr.NumEquivalenceClasses(),
			"facts":      len(store.AllLive()),
		}).Info("reachability: analysis complete")
	}

	return &Report{graph: e.graph, store: store, mgr: mgr, driver: driver, iterations: iterations}, nil
}

func invariantMessage(r interface{}) string {
	if err, ok := r.(error); ok {
		return err.Error()
	}
	return "unknown panic"
}
