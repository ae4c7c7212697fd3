package storefront

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry owns one App per visitor.
type Registry struct {
	mu   sync.Mutex
	apps map[string]*App
	deps Deps
	now  func() time.Time
}

func NewRegistry(deps Deps) *Registry {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Registry{apps: make(map[string]*App), deps: deps, now: time.Now}
}

// Get returns the visitor's app, creating it at initialPath on first use.
// State already in storage is restored on creation, outside the registry
// lock; when two requests race, the first app stored wins.
func (r *Registry) Get(ctx context.Context, visitorID, initialPath string) *App {
	if app := r.lookup(visitorID); app != nil {
		return app
	}

	created := NewApp(ctx, visitorID, initialPath, r.deps)

	r.mu.Lock()
	if app, ok := r.apps[visitorID]; ok {
		app.touch(r.now())
		r.mu.Unlock()
		created.Close()
		return app
	}
	created.touch(r.now())
	r.apps[visitorID] = created
	r.mu.Unlock()

	r.deps.Logger.Debug("storefront: app created", zap.String("visitor_id", visitorID), zap.String("path", initialPath))
	return created
}

func (r *Registry) lookup(visitorID string) *App {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[visitorID]
	if !ok {
		return nil
	}
	app.touch(r.now())
	return app
}

// Len is the number of live apps.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}

// Sweep closes apps idle for longer than maxIdle. Their durable state stays
// in storage and is restored by the next Get.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	var idle []*App
	for id, app := range r.apps {
		if app.idleSince().Before(cutoff) {
			idle = append(idle, app)
			delete(r.apps, id)
		}
	}
	r.mu.Unlock()

	for _, app := range idle {
		app.Close()
	}
	if len(idle) > 0 {
		r.deps.Logger.Info("storefront: swept idle apps", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(maxIdle)
		}
	}
}
