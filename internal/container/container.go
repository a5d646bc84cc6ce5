package container

import (
	"net/http"

	"github.com/kyletbuzbee/Website-Templates-sub002/internal/analyzer"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/classifier"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/config"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/factory"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/inventory"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/logger"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/observer"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/pipeline"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/repository"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/service"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/storage"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/transport"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config     *config.Config
	calculator analyzer.MetricsCalculator
	service    service.ClassificationService
	metrics    *observer.MetricsObserver
	pipeline   *pipeline.Pipeline
	scanner    *inventory.Scanner
	handler    http.Handler
}

// NewContainer builds the dependency graph for cfg. Close releases the
// metrics worker pool.
func NewContainer(cfg *config.Config) (*Container, error) {
	loader := storage.NewFileLoader(cfg.MaxRequestBodySize)
	fetcher := storage.NewHTTPImageFetcher(cfg.ImageFetchTimeout, cfg.MaxRequestBodySize).
		WithRateLimit(cfg.FetchRateLimit, cfg.FetchBurst)
	repo := repository.NewImageRepository(loader, fetcher, validation.NewURLValidator())

	calculator := analyzer.NewMetricsCalculator()
	cls := classifier.New(classifier.WithWeights(cfg.ContentWeights))
	svc := service.NewClassificationService(repo, calculator, cls, cfg.Specs())

	publishers := factory.NewPublisherFactory(cfg.Azure)
	publisher, err := publishers.CreatePublisher(factory.PublisherTypeFor(cfg.Azure))
	if err != nil {
		calculator.Close()
		return nil, err
	}

	metrics := observer.NewMetricsObserver()
	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	pl := pipeline.New(pipeline.Settings{
		RootDir:    cfg.RootDir,
		DropZone:   cfg.DropZonePath(),
		Variants:   cfg.TemplateVariants,
		BlobPrefix: cfg.Azure.Prefix,
	}, svc, pipeline.WithPublisher(publisher), pipeline.WithEvents(events))

	return &Container{
		config:     cfg,
		calculator: calculator,
		service:    svc,
		metrics:    metrics,
		pipeline:   pl,
		scanner:    inventory.NewScanner(cfg.RootDir, cfg.TemplateVariants),
		handler:    transport.NewHandler(svc, metrics, cfg),
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

func (c *Container) Service() service.ClassificationService {
	return c.service
}

func (c *Container) Pipeline() *pipeline.Pipeline {
	return c.pipeline
}

func (c *Container) Scanner() *inventory.Scanner {
	return c.scanner
}

func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metrics
}

// PublishEnabled reports whether a real publisher is configured.
func (c *Container) PublishEnabled() bool {
	return c.config.Azure.Enabled()
}

// Close releases background workers.
func (c *Container) Close() {
	c.calculator.Close()
}
