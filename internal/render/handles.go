package render

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Registry hands out chart handles and counts the ones not yet destroyed.
type Registry struct {
	live     atomic.Int64
	acquired atomic.Int64
}

func NewRegistry() *Registry {
	return &Registry{}
}

// ChartHandle is a drawing resource bound to one chart descriptor. Destroy
// is idempotent.
type ChartHandle struct {
	ID         string
	Descriptor ChartDescriptor

	registry *Registry
	once     sync.Once
}

func (r *Registry) Acquire(desc ChartDescriptor) *ChartHandle {
	r.live.Add(1)
	r.acquired.Add(1)
	return &ChartHandle{ID: uuid.New().String(), Descriptor: desc, registry: r}
}

func (h *ChartHandle) Destroy() {
	if h == nil {
		return
	}
	h.once.Do(func() {
		h.registry.live.Add(-1)
	})
}

// Live reports handles acquired but not destroyed.
func (r *Registry) Live() int {
	return int(r.live.Load())
}

// Acquired reports every handle ever handed out.
func (r *Registry) Acquired() int {
	return int(r.acquired.Load())
}

// ChartSet is the group of charts belonging to one render cycle.
type ChartSet struct {
	handles []*ChartHandle
}

// NewChartSet acquires a handle for every descriptor.
func NewChartSet(r *Registry, descs ...ChartDescriptor) *ChartSet {
	set := &ChartSet{handles: make([]*ChartHandle, 0, len(descs))}
	for _, d := range descs {
		set.handles = append(set.handles, r.Acquire(d))
	}
	return set
}

func (s *ChartSet) Descriptors() []ChartDescriptor {
	if s == nil {
		return nil
	}
	out := make([]ChartDescriptor, 0, len(s.handles))
	for _, h := range s.handles {
		out = append(out, h.Descriptor)
	}
	return out
}

func (s *ChartSet) DestroyAll() {
	if s == nil {
		return
	}
	for _, h := range s.handles {
		h.Destroy()
	}
	s.handles = nil
}
