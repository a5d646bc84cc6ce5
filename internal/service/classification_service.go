package service

import (
	"context"
	"net/url"
	"path"
	"time"

	"github.com/kyletbuzbee/Website-Templates-sub002/internal/analyzer"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/classifier"
	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/filename"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/repository"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/storage"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/transform"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/validation"
)

// ClassificationService turns an image into an AssetReport.
type ClassificationService interface {
	// ClassifyFile loads a local file. Decode failures are reported in the
	// result, not returned.
	ClassifyFile(ctx context.Context, path, industry string) (*models.AssetReport, error)

	// ClassifyURL downloads req.URL and classifies it.
	ClassifyURL(ctx context.Context, req models.ClassifyRequest) (*models.AssetReport, error)

	// ClassifyUpload classifies an image received in a request body.
	ClassifyUpload(ctx context.Context, name, industry string, data []byte) (*models.AssetReport, error)

	// Inspect classifies an already decoded image.
	Inspect(path, industry string, img storage.DecodedImage, decodeErr error) models.AssetReport

	// Specs returns the active transform table.
	Specs() transform.Specs
}

type classificationService struct {
	repo       repository.ImageRepository
	calculator analyzer.MetricsCalculator
	classifier *classifier.Classifier
	specs      transform.Specs
	quality    *validation.QualityValidator
}

// NewClassificationService creates a new classification service
func NewClassificationService(
	repo repository.ImageRepository,
	calculator analyzer.MetricsCalculator,
	cls *classifier.Classifier,
	specs transform.Specs,
) ClassificationService {
	return &classificationService{
		repo:       repo,
		calculator: calculator,
		classifier: cls,
		specs:      specs,
		quality:    validation.NewQualityValidator(),
	}
}

func (s *classificationService) Specs() transform.Specs {
	return s.specs
}

func (s *classificationService) ClassifyFile(ctx context.Context, p, industry string) (*models.AssetReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("classification cancelled", err)
	}

	img, err := s.repo.LoadFile(p)
	if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeDecode) {
		return nil, err
	}

	report := s.Inspect(p, industryFor(p, industry), img, err)
	return &report, nil
}

func (s *classificationService) ClassifyURL(ctx context.Context, req models.ClassifyRequest) (*models.AssetReport, error) {
	img, err := s.repo.FetchImage(ctx, req.URL)
	if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeDecode) {
		return nil, err
	}

	name := req.Filename
	if name == "" {
		name = nameFromURL(req.URL)
	}

	report := s.Inspect(name, industryFor(name, req.Industry), img, err)
	report.Path = req.URL
	return &report, nil
}

func (s *classificationService) ClassifyUpload(ctx context.Context, name, industry string, data []byte) (*models.AssetReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("classification cancelled", err)
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("empty upload", nil)
	}

	img, err := s.repo.DecodeUpload(data)
	report := s.Inspect(name, industryFor(name, industry), img, err)
	return &report, nil
}

func (s *classificationService) Inspect(p, industry string, img storage.DecodedImage, decodeErr error) models.AssetReport {
	report := models.AssetReport{Path: p}

	if decodeErr != nil {
		report.Classification = s.classifier.ClassifyUndecodable(decodeErr)
		return report
	}

	var metrics models.ImageMetrics
	if img.IsVector() {
		metrics = models.ImageMetrics{Format: "svg"}
	} else {
		metrics = s.calculator.Calculate(img.Image, img.Format)
	}
	report.Metrics = &metrics
	report.Classification = s.classifier.Classify(p, industry, metrics)

	if spec, ok := s.specs.Lookup(report.Classification.Category); ok {
		report.Spec = &spec
		if !img.IsVector() {
			issues := s.quality.ValidateSource(metrics, spec)
			report.Warnings = s.quality.ConvertIssuesToMessages(issues)
		}
	}
	return report
}

// industryFor prefers an explicit industry and otherwise parses the
// filename prefix.
func industryFor(p, industry string) string {
	if industry != "" {
		return industry
	}
	if asset, err := filename.Parse(p); err == nil {
		return asset.Industry
	}
	return ""
}

func nameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
	}
	return "remote-" + time.Now().UTC().Format("20060102T150405")
}
