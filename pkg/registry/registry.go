// Package registry caches compiled templates per job configuration.
//
// Compiling a job's template table is cheap but not free, and callers
// ask for templates constantly. The registry builds once on first use
// and hands out the cached result until Invalidate is called, at which
// point the next access rebuilds from the job. There is no global
// state; each job context owns its own registry.
package registry

import (
	"sync"

	"github.com/pathforge/pathforge/pkg/config"
	"github.com/pathforge/pathforge/pkg/logging"
	"github.com/pathforge/pathforge/pkg/template"
)

// Registry is a per-job cache of compiled templates, safe for
// concurrent use. Invalidate and rebuild never race: builds happen
// under the same lock that guards reads.
type Registry struct {
	mu         sync.Mutex
	job        *config.Job
	byCategory map[string][]*template.Template
}

// New creates a registry for the given job. Nothing is compiled until
// the first access.
func New(job *config.Job) *Registry {
	return &Registry{job: job}
}

// Job returns the job configuration this registry compiles from
func (r *Registry) Job() *config.Job {
	return r.job
}

// Templates returns the compiled templates of one category, best
// match first. The slice is a copy; the cache is never exposed.
func (r *Registry) Templates(category string) ([]*template.Template, error) {
	built, err := r.cached()
	if err != nil {
		return nil, err
	}
	return append([]*template.Template(nil), built[category]...), nil
}

// Primary returns the template new paths of a category should be
// formatted with, or nil if the category has none.
func (r *Registry) Primary(category string) (*template.Template, error) {
	templates, err := r.Templates(category)
	if err != nil {
		return nil, err
	}
	return template.Primary(templates), nil
}

// All returns every compiled template grouped by category. The map and
// slices are copies.
func (r *Registry) All() (map[string][]*template.Template, error) {
	built, err := r.cached()
	if err != nil {
		return nil, err
	}
	result := make(map[string][]*template.Template, len(built))
	for category, templates := range built {
		result[category] = append([]*template.Template(nil), templates...)
	}
	return result, nil
}

// Invalidate drops the cache; the next access rebuilds from the job.
// Call after the job's template table or token rules change.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byCategory = nil
	logger := logging.GetLogger("registry")
	logger.Debug().
		Str("job", r.job.Name).
		Msg("Template cache invalidated")
}

func (r *Registry) cached() (map[string][]*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byCategory != nil {
		return r.byCategory, nil
	}
	built, err := template.BuildTemplates(r.job)
	if err != nil {
		return nil, err
	}
	r.byCategory = built
	return built, nil
}
