package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// AssetEvent describes one step of the pipeline for one asset or template.
type AssetEvent struct {
	EventType  EventType              `json:"event_type"`
	Timestamp  time.Time              `json:"timestamp"`
	RunID      string                 `json:"run_id,omitempty"`
	Stage      string                 `json:"stage,omitempty"`
	Asset      string                 `json:"asset"`
	Industry   string                 `json:"industry,omitempty"`
	Category   string                 `json:"category,omitempty"`
	Status     string                 `json:"status,omitempty"`
	BytesSaved int64                  `json:"bytes_saved,omitempty"`
	Count      int                    `json:"count,omitempty"`
	Duration   time.Duration          `json:"duration,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of pipeline event
type EventType string

const (
	RunStarted        EventType = "run_started"
	RunCompleted      EventType = "run_completed"
	AssetClassified   EventType = "asset_classified"
	AssetProcessed    EventType = "asset_processed"
	AssetSkipped      EventType = "asset_skipped"
	AssetFailed       EventType = "asset_failed"
	AssetWarning      EventType = "asset_warning"
	AssetPublished    EventType = "asset_published"
	TemplateRewritten EventType = "template_rewritten"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event AssetEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event AssetEvent)
}

// LoggingObserver logs pipeline events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles pipeline events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event AssetEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
	}
	if event.RunID != "" {
		fields["run_id"] = event.RunID
	}
	if event.Stage != "" {
		fields["stage"] = event.Stage
	}
	if event.Asset != "" {
		fields["asset"] = event.Asset
	}
	if event.Industry != "" {
		fields["industry"] = event.Industry
	}
	if event.Category != "" {
		fields["category"] = event.Category
	}
	if event.Status != "" {
		fields["status"] = event.Status
	}
	if event.EventType == AssetProcessed {
		fields["bytes_saved"] = event.BytesSaved
	}
	if event.Count > 0 {
		fields["count"] = event.Count
	}
	if event.Duration > 0 {
		fields["duration"] = event.Duration
	}
	if event.Error != "" {
		fields["error"] = event.Error
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case RunStarted:
		entry.Info("Pipeline stage started")
	case RunCompleted:
		entry.Info("Pipeline stage completed")
	case AssetClassified:
		entry.Debug("Asset classified")
	case AssetProcessed:
		entry.Info("Asset processed")
	case AssetSkipped:
		entry.Warn("Asset skipped")
	case AssetWarning:
		entry.Warn("Source image quality warning")
	case AssetFailed:
		entry.Error("Asset failed")
	case AssetPublished:
		entry.Info("Asset published")
	case TemplateRewritten:
		entry.Info("Template rewritten")
	default:
		entry.Info("Pipeline event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver accumulates counters across runs.
type MetricsObserver struct {
	mu           sync.RWMutex
	runs         int64
	classified   int64
	processed    int64
	skipped      int64
	failed       int64
	published    int64
	replacements int64
	bytesSaved   int64
	categories   map[string]int64
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{categories: make(map[string]int64)}
}

// OnEvent handles pipeline events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event AssetEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case RunStarted:
		o.runs++
	case AssetClassified:
		o.classified++
		if event.Category != "" {
			o.categories[event.Category]++
		}
	case AssetProcessed:
		o.processed++
		o.bytesSaved += event.BytesSaved
	case AssetSkipped:
		o.skipped++
	case AssetFailed:
		o.failed++
	case AssetPublished:
		o.published++
	case TemplateRewritten:
		o.replacements += int64(event.Count)
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	categories := make(map[string]int64, len(o.categories))
	for k, v := range o.categories {
		categories[k] = v
	}

	return map[string]interface{}{
		"runs":         o.runs,
		"classified":   o.classified,
		"processed":    o.processed,
		"skipped":      o.skipped,
		"failed":       o.failed,
		"published":    o.published,
		"replacements": o.replacements,
		"bytes_saved":  o.bytesSaved,
		"categories":   categories,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers event to every observer in subscription order
// before returning, so log lines keep the order of the assets.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event AssetEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, obs := range observers {
		notify(ctx, obs, event)
	}
}

func notify(ctx context.Context, obs Observer, event AssetEvent) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
