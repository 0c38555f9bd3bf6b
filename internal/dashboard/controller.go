package dashboard

import (
	"context"
	"sync"
	"time"

	"inbox-dashboard/internal/apperrors"
	"inbox-dashboard/internal/gateway"
	"inbox-dashboard/internal/ingest"
	"inbox-dashboard/internal/logger"
	"inbox-dashboard/internal/metrics"
	"inbox-dashboard/internal/model"
	"inbox-dashboard/internal/render"
	"inbox-dashboard/internal/repository"
	"inbox-dashboard/internal/repository/memory"
)

const (
	StatusLive         = "🟢 Live Actions verfügbar"
	StatusAnalysisOnly = "🔴 Nur Analyse-Modus"

	recentActionLimit = 10
)

// Event types pushed to the session stream.
const (
	EventReportLoaded = "report_loaded"
	EventReset        = "reset"
	EventAction       = "action"
	EventDismissal    = "dismissal"
)

// Generation identifies one load; only the newest may commit.
type Generation uint64

// Publisher pushes events to the browser tabs of a session.
type Publisher interface {
	BroadcastToSession(sessionID string, eventType string, data interface{})
}

type Options struct {
	SessionID string
	LoadDelay time.Duration
	Gateway   gateway.ActionGateway
	Charts    *render.Registry
	Actions   repository.ActionRepository
	Events    Publisher
	Clock     Clock
	Logger    *logger.Logger
}

// Controller owns the dashboard state of one browser session: the loaded
// report, its charts and the live actions run against it.
type Controller struct {
	sessionID string
	loadDelay time.Duration
	gateway   gateway.ActionGateway
	charts    *render.Registry
	actions   repository.ActionRepository
	events    Publisher
	clock     Clock
	logger    *logger.Logger

	mu         sync.Mutex
	generation Generation
	renderSeq  uint64
	report     *model.EmailReport
	metrics    model.DerivedMetrics
	chartSet   *render.ChartSet
	busy       map[string]bool
	dismissals map[string]*dismissal
	lastSeen   time.Time
}

func NewController(opts Options) *Controller {
	if opts.Gateway == nil {
		opts.Gateway = gateway.Disabled{}
	}
	if opts.Charts == nil {
		opts.Charts = render.NewRegistry()
	}
	if opts.Actions == nil {
		opts.Actions = memory.NewInMemoryActionRepository()
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.New()
	}

	return &Controller{
		sessionID:  opts.SessionID,
		loadDelay:  opts.LoadDelay,
		gateway:    opts.Gateway,
		charts:     opts.Charts,
		actions:    opts.Actions,
		events:     opts.Events,
		clock:      opts.Clock,
		logger:     opts.Logger,
		busy:       make(map[string]bool),
		dismissals: make(map[string]*dismissal),
		lastSeen:   opts.Clock.Now(),
	}
}

func (c *Controller) SessionID() string {
	return c.sessionID
}

// BeginLoad starts a new load and supersedes every earlier one.
func (c *Controller) BeginLoad() Generation {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.lastSeen = c.clock.Now()
	return c.generation
}

// Commit waits the pacing delay and then renders report, unless a newer
// load started in the meantime.
func (c *Controller) Commit(ctx context.Context, gen Generation, report *model.EmailReport) error {
	return c.commit(ctx, gen, report, c.loadDelay)
}

// Load runs a full load cycle for an already parsed report.
func (c *Controller) Load(ctx context.Context, report *model.EmailReport) error {
	return c.Commit(ctx, c.BeginLoad(), report)
}

// LoadDemo shows the built-in sample inbox right away.
func (c *Controller) LoadDemo(ctx context.Context) error {
	return c.commit(ctx, c.BeginLoad(), ingest.DemoReport(c.clock.Now()), 0)
}

func (c *Controller) commit(ctx context.Context, gen Generation, report *model.EmailReport, delay time.Duration) error {
	if report == nil {
		report = model.NewEmailReport()
	}

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Infof("Discarding load %d of session %s, superseded by load %d", gen, c.sessionID, c.generation)
		return apperrors.ErrSuperseded
	}
	c.renderLocked(report)
	c.mu.Unlock()

	c.logger.Infof("Rendered load %d for session %s: %d newsletters", gen, c.sessionID, len(report.Newsletters))
	c.publish(EventReportLoaded, map[string]interface{}{"generation": gen})
	return nil
}

// renderLocked replaces the current charts. The previous set is destroyed
// before the new one is acquired.
func (c *Controller) renderLocked(report *model.EmailReport) {
	c.chartSet.DestroyAll()
	c.clearDismissalsLocked()

	c.renderSeq++
	c.report = report
	c.metrics = metrics.Derive(report)

	descs := []render.ChartDescriptor{
		render.BuildDistributionChart(report),
		render.BuildStorageChart(report),
	}
	if len(report.Newsletters) > 0 {
		descs = append(descs,
			render.BuildSenderChart(report.Newsletters),
			render.BuildTimelineChart(report.Newsletters, c.clock.Now()),
		)
	}
	c.chartSet = render.NewChartSet(c.charts, descs...)
}

// Destroy releases the charts and forgets the report. In-flight loads are
// superseded.
func (c *Controller) Destroy() {
	c.mu.Lock()
	c.generation++
	c.renderSeq++
	c.chartSet.DestroyAll()
	c.chartSet = nil
	c.report = nil
	c.metrics = model.DerivedMetrics{}
	c.clearDismissalsLocked()
	c.mu.Unlock()

	c.publish(EventReset, nil)
}

// Close destroys the controller and drops its action history.
func (c *Controller) Close() {
	c.Destroy()
	if err := c.actions.DeleteBySession(context.Background(), c.sessionID); err != nil {
		c.logger.Warnf("Failed to drop actions of session %s: %v", c.sessionID, err)
	}
}

// Report returns the loaded report or ErrNoReport.
func (c *Controller) Report() (*model.EmailReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastSeen = c.clock.Now()
	if c.report == nil {
		return nil, apperrors.ErrNoReport
	}
	return c.report, nil
}

func (c *Controller) LastSeen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// Snapshot is everything the page needs to draw the dashboard.
type Snapshot struct {
	Loaded         bool                     `json:"loaded"`
	Generation     Generation               `json:"generation"`
	AnalysisDate   string                   `json:"analysis_date,omitempty"`
	Stats          render.Stats             `json:"stats"`
	Metrics        model.DerivedMetrics     `json:"metrics"`
	Charts         []render.ChartDescriptor `json:"charts"`
	Newsletters    render.NewsletterList    `json:"newsletters"`
	Unsubscribable int                      `json:"unsubscribable"`
	LiveActions    bool                     `json:"live_actions"`
	Status         string                   `json:"status"`
	Busy           []string                 `json:"busy"`
	Actions        []*model.ActionRecord    `json:"actions"`
}

func (c *Controller) Snapshot(ctx context.Context) Snapshot {
	c.mu.Lock()
	c.lastSeen = c.clock.Now()
	snap := Snapshot{
		Loaded:      c.report != nil,
		Generation:  c.generation,
		LiveActions: c.gateway.Enabled(),
		Status:      StatusAnalysisOnly,
		Charts:      c.chartSet.Descriptors(),
		Busy:        make([]string, 0, len(c.busy)),
	}
	if snap.LiveActions {
		snap.Status = StatusLive
	}
	for key := range c.busy {
		snap.Busy = append(snap.Busy, key)
	}
	if c.report != nil {
		snap.AnalysisDate = c.report.AnalysisDate
		snap.Metrics = c.metrics
		snap.Stats = render.BuildStats(c.metrics)
		snap.Newsletters = c.visibleListLocked()
		for _, n := range c.report.Newsletters {
			if n.HasID() && n.HasUnsubscribeLink() {
				snap.Unsubscribable++
			}
		}
	}
	c.mu.Unlock()

	actions, err := c.actions.FindBySession(ctx, c.sessionID, recentActionLimit)
	if err != nil {
		c.logger.Warnf("Failed to load actions of session %s: %v", c.sessionID, err)
	}
	snap.Actions = actions
	return snap
}

func (c *Controller) publish(eventType string, data interface{}) {
	if c.events == nil {
		return
	}
	c.events.BroadcastToSession(c.sessionID, eventType, data)
}
