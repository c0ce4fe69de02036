// Package views keeps the live page views. Each view owns one customizer and
// is bound to the browser client that created it.
package views

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/katariyakhushi/umbrella-customiser/internal/customizer"
	"github.com/katariyakhushi/umbrella-customiser/internal/domain"
)

// View is one page load.
type View struct {
	ID       string
	ClientID string

	Customizer *customizer.Customizer

	mu          sync.Mutex
	theme       string
	lastSeen    time.Time
	connections int
}

// ApplyTheme records the page-wide theme class. View is the customizer's Themer.
func (v *View) ApplyTheme(class string) {
	v.mu.Lock()
	v.theme = class
	v.mu.Unlock()
}

// Theme returns the current theme class.
func (v *View) Theme() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.theme
}

// Touch marks the view as used at now.
func (v *View) Touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

// Attach records a live websocket connection. Views with live connections
// are never evicted.
func (v *View) Attach() {
	v.mu.Lock()
	v.connections++
	v.mu.Unlock()
}

// Detach releases a connection recorded by Attach and refreshes lastSeen.
func (v *View) Detach(now time.Time) {
	v.mu.Lock()
	if v.connections > 0 {
		v.connections--
	}
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *View) idle(now time.Time, ttl time.Duration) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.connections == 0 && now.Sub(v.lastSeen) > ttl
}

// OptionsFunc supplies the customizer options for a new view. The registry
// sets the Themer itself.
type OptionsFunc func(viewID string) customizer.Options

// Registry holds the live views.
type Registry struct {
	mu      sync.RWMutex
	views   map[string]*View
	ttl     time.Duration
	options OptionsFunc
	now     func() time.Time
}

// NewRegistry creates a registry evicting views idle for longer than ttl.
func NewRegistry(ttl time.Duration, options OptionsFunc) *Registry {
	if options == nil {
		options = func(string) customizer.Options { return customizer.Options{} }
	}
	return &Registry{
		views:   make(map[string]*View),
		ttl:     ttl,
		options: options,
		now:     time.Now,
	}
}

// Create starts a new view for clientID.
func (r *Registry) Create(clientID string) *View {
	v := &View{
		ID:       uuid.NewString(),
		ClientID: clientID,
		lastSeen: r.now(),
	}
	opts := r.options(v.ID)
	opts.Themer = v
	v.Customizer = customizer.New(opts)

	r.mu.Lock()
	r.views[v.ID] = v
	r.mu.Unlock()

	slog.Debug("View created", "viewID", v.ID, "clientID", clientID)
	return v
}

// Get returns the view id owned by clientID and marks it as used. Views of
// other clients are reported as not found.
func (r *Registry) Get(id, clientID string) (*View, error) {
	v, ok := r.Lookup(id)
	if !ok || v.ClientID != clientID {
		return nil, domain.ErrViewNotFound
	}
	v.Touch(r.now())
	return v, nil
}

// Lookup returns a view regardless of owner.
func (r *Registry) Lookup(id string) (*View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[id]
	return v, ok
}

// Len returns the number of live views.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// Evict removes a view and closes its customizer.
func (r *Registry) Evict(id string) {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()

	if ok {
		v.Customizer.Close()
		slog.Debug("View evicted", "viewID", id)
	}
}

// Sweep evicts every idle view and returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.RLock()
	var stale []string
	for id, v := range r.views {
		if v.idle(now, r.ttl) {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	for _, id := range stale {
		r.Evict(id)
	}
	return len(stale)
}

// Run sweeps idle views every interval until ctx is cancelled, then closes
// every remaining view.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				slog.Info("Evicted idle views", "count", n, "remaining", r.Len())
			}
		}
	}
}

// Close evicts every view.
func (r *Registry) Close() {
	r.mu.Lock()
	all := r.views
	r.views = make(map[string]*View)
	r.mu.Unlock()

	for _, v := range all {
		v.Customizer.Close()
	}
}
