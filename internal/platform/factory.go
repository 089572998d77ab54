package platform

import (
	"github.com/aretw0/libris/pkg/adapters/fs"
	"github.com/aretw0/libris/pkg/core"
)

// New wires a Service to its store. The path is the data file (or a directory
// that will hold library_data.json). The state is not loaded; call Load.
func New(path string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	policy := core.DefaultPolicy()
	if o.policy != nil {
		policy = *o.policy
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	repo := o.repository
	if repo == nil {
		repo = fs.NewStore(fs.Config{
			Path:           path,
			Logger:         o.logger,
			IgnorePatterns: o.ignorePatterns,
		})
	}

	svcOpts := []core.ServiceOption{
		core.WithPolicy(policy),
		core.WithLogger(o.logger),
	}
	if o.clock != nil {
		svcOpts = append(svcOpts, core.WithClock(o.clock))
	}

	return core.NewService(repo, svcOpts...), nil
}
