package dashboard

import (
	"sync"
	"time"

	"inbox-dashboard/internal/logger"
)

// Registry keeps one controller per browser session.
type Registry struct {
	mu          sync.Mutex
	controllers map[string]*Controller
	factory     func(sessionID string) *Controller
	logger      *logger.Logger
}

func NewRegistry(factory func(sessionID string) *Controller, logger *logger.Logger) *Registry {
	return &Registry{
		controllers: make(map[string]*Controller),
		factory:     factory,
		logger:      logger,
	}
}

// Get returns the session's controller, creating it on first use.
func (r *Registry) Get(sessionID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ctrl, ok := r.controllers[sessionID]; ok {
		return ctrl
	}
	ctrl := r.factory(sessionID)
	r.controllers[sessionID] = ctrl
	r.logger.Debugf("Created dashboard for session %s", sessionID)
	return ctrl
}

// Lookup returns the session's controller without creating one.
func (r *Registry) Lookup(sessionID string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctrl, ok := r.controllers[sessionID]
	return ctrl, ok
}

// Remove closes and forgets a session's controller.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	ctrl, ok := r.controllers[sessionID]
	delete(r.controllers, sessionID)
	r.mu.Unlock()

	if ok {
		ctrl.Close()
	}
}

// ReapIdle closes controllers unused for longer than maxIdle. Sessions for
// which keep returns true survive.
func (r *Registry) ReapIdle(now time.Time, maxIdle time.Duration, keep func(sessionID string) bool) int {
	r.mu.Lock()
	var idle []*Controller
	for id, ctrl := range r.controllers {
		if keep != nil && keep(id) {
			continue
		}
		if now.Sub(ctrl.LastSeen()) > maxIdle {
			idle = append(idle, ctrl)
			delete(r.controllers, id)
		}
	}
	r.mu.Unlock()

	for _, ctrl := range idle {
		ctrl.Close()
	}
	return len(idle)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

// CloseAll releases every session, e.g. on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	controllers := r.controllers
	r.controllers = make(map[string]*Controller)
	r.mu.Unlock()

	for _, ctrl := range controllers {
		ctrl.Close()
	}
}
