package extract

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lifelens/backend/internal/models"
)

// ErrUnavailableSource means the requested module has no registered
// adapters: the module is not installed or not enabled.
var ErrUnavailableSource = errors.New("module source unavailable")

// ErrUnsupportedMetric means the module is registered but does not
// expose the requested metric.
var ErrUnsupportedMetric = errors.New("unsupported metric")

// Registry is the capability registry of metric adapters. Modules that
// are unavailable at startup are simply never registered, so their
// absence is an explicit, testable condition rather than a runtime
// import failure.
type Registry struct {
	adapters map[string]map[string]*Adapter // module -> metric -> adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]map[string]*Adapter)}
}

// Register adds an adapter; the last registration for a pair wins.
func (r *Registry) Register(a *Adapter) {
	metrics, ok := r.adapters[a.Module]
	if !ok {
		metrics = make(map[string]*Adapter)
		r.adapters[a.Module] = metrics
	}
	metrics[a.Metric] = a
}

// Lookup resolves an adapter, distinguishing a missing module from a
// missing metric within a present module.
func (r *Registry) Lookup(module, metric string) (*Adapter, error) {
	metrics, ok := r.adapters[module]
	if !ok {
		return nil, fmt.Errorf("module %q: %w", module, ErrUnavailableSource)
	}
	adapter, ok := metrics[metric]
	if !ok {
		return nil, fmt.Errorf("metric %q on module %q: %w", metric, module, ErrUnsupportedMetric)
	}
	return adapter, nil
}

// Extract resolves and runs the adapter for one pair.
func (r *Registry) Extract(ctx context.Context, userID, module, metric string, start, end time.Time) (models.MetricSeries, error) {
	adapter, err := r.Lookup(module, metric)
	if err != nil {
		return models.MetricSeries{}, err
	}
	return adapter.Extract(ctx, userID, start, end), nil
}

// HasModule reports whether any adapter is registered for the module.
func (r *Registry) HasModule(module string) bool {
	_, ok := r.adapters[module]
	return ok
}

// Modules lists registered module names, sorted.
func (r *Registry) Modules() []string {
	modules := make([]string, 0, len(r.adapters))
	for m := range r.adapters {
		modules = append(modules, m)
	}
	sort.Strings(modules)
	return modules
}

// Metrics lists all registered (module, metric) pairs, sorted for
// deterministic scan ordering.
func (r *Registry) Metrics() []models.MetricRef {
	refs := make([]models.MetricRef, 0)
	for module, metrics := range r.adapters {
		for metric := range metrics {
			refs = append(refs, models.MetricRef{Module: module, Metric: metric})
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Module != refs[j].Module {
			return refs[i].Module < refs[j].Module
		}
		return refs[i].Metric < refs[j].Metric
	})
	return refs
}

// MetricsForModule lists registered metrics of one module, sorted.
func (r *Registry) MetricsForModule(module string) []models.MetricRef {
	refs := make([]models.MetricRef, 0)
	for metric := range r.adapters[module] {
		refs = append(refs, models.MetricRef{Module: module, Metric: metric})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Metric < refs[j].Metric })
	return refs
}
