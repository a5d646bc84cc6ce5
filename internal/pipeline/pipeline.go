// Package pipeline runs the distribute, optimize and rewrite stages over a
// template repository. Assets are handled one at a time; a failing asset
// is recorded and the batch moves on.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperrors "github.com/kyletbuzbee/Website-Templates-sub002/internal/errors"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/filename"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/logger"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/observer"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/rewriter"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/service"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/storage"
	"github.com/kyletbuzbee/Website-Templates-sub002/internal/transform"
	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

// ImagesDir is the per-industry asset directory, relative to the industry
// root. Reference mappings are keyed on it.
const ImagesDir = "assets/images"

// ReasonVariant is logged for images whose name carries a category suffix.
const ReasonVariant = "already a variant"

// ReasonUncategorized is the skip reason for images no category matched.
const ReasonUncategorized = "undetected image category"

// Settings locate the repository on disk.
type Settings struct {
	RootDir    string
	DropZone   string
	Variants   []string
	BlobPrefix string
}

// RunOptions select per-invocation behavior.
type RunOptions struct {
	// DryRun classifies and counts without writing anything.
	DryRun bool
	// Publish mirrors every processed asset through the Publisher.
	Publish bool
}

// Pipeline wires the stages together.
type Pipeline struct {
	settings    Settings
	service     service.ClassificationService
	transformer *transform.Transformer
	publisher   storage.Publisher
	events      observer.Subject
	newID       func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPublisher sets where --publish uploads go.
func WithPublisher(p storage.Publisher) Option {
	return func(pl *Pipeline) { pl.publisher = p }
}

// WithEvents routes pipeline events to s.
func WithEvents(s observer.Subject) Option {
	return func(pl *Pipeline) { pl.events = s }
}

// New creates a Pipeline. svc supplies classification and the transform
// table.
func New(settings Settings, svc service.ClassificationService, opts ...Option) *Pipeline {
	p := &Pipeline{
		settings:    settings,
		service:     svc,
		transformer: transform.NewTransformer(),
		publisher:   storage.NewNoopPublisher(),
		events:      observer.NewEventPublisher(),
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Distribute moves correctly named drop-zone images into
// <root>/<industry>/assets/images/<industry>-<description>.webp. A missing
// drop zone is created and reported through the summary; it is not an
// error.
func (p *Pipeline) Distribute(ctx context.Context, opts RunOptions) (Summary, error) {
	return p.distribute(ctx, p.newID(), opts)
}

func (p *Pipeline) distribute(ctx context.Context, runID string, opts RunOptions) (Summary, error) {
	s := p.begin(ctx, runID, StageDistribute, opts)

	info, err := os.Stat(p.settings.DropZone)
	switch {
	case os.IsNotExist(err):
		s.DropZoneMissing = true
		if !opts.DryRun {
			if err := os.MkdirAll(p.settings.DropZone, 0o755); err != nil {
				return s, apperrors.NewIOError("cannot create drop zone", err).WithDetails(p.settings.DropZone)
			}
			s.DropZoneCreated = true
		}
		return p.finish(ctx, s), nil
	case err != nil:
		return s, apperrors.NewIOError("cannot open drop zone", err).WithDetails(p.settings.DropZone)
	case !info.IsDir():
		return s, apperrors.NewValidationError("drop zone is not a directory", nil).WithDetails(p.settings.DropZone)
	}

	entries, err := os.ReadDir(p.settings.DropZone)
	if err != nil {
		return s, apperrors.NewIOError("cannot list drop zone", err).WithDetails(p.settings.DropZone)
	}

	spec := transform.DistributionSpec()
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return p.finish(ctx, s), err
		}
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		src := filepath.Join(p.settings.DropZone, entry.Name())
		asset, err := filename.Parse(src)
		if err != nil {
			p.skip(ctx, &s, src, "", err)
			continue
		}

		dst := transform.DistributedPath(p.settings.RootDir, asset, spec)
		if _, err := p.process(ctx, &s, asset.Industry, "", src, dst, spec, opts); err != nil {
			return p.finish(ctx, s), err
		}
	}

	return p.finish(ctx, s), nil
}

// Optimize writes a <basename><suffix>.<format> variant next to every
// categorized image under each known industry directory, and returns the
// reference mappings for the rewrite stage in the summary.
func (p *Pipeline) Optimize(ctx context.Context, opts RunOptions) (Summary, error) {
	return p.optimize(ctx, p.newID(), opts)
}

func (p *Pipeline) optimize(ctx context.Context, runID string, opts RunOptions) (Summary, error) {
	s := p.begin(ctx, runID, StageOptimize, opts)

	industries, err := p.industryDirs()
	if err != nil {
		return s, err
	}

	specs := p.service.Specs()
	for _, industry := range industries {
		dir := filepath.Join(p.settings.RootDir, industry, filepath.FromSlash(ImagesDir))
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			p.fail(ctx, &s, dir, industry, "", apperrors.NewIOError("cannot list images", err))
			continue
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return p.finish(ctx, s), err
			}
			name := entry.Name()
			if entry.IsDir() || !isRaster(name) {
				continue
			}

			src := filepath.Join(dir, name)
			if isVariant(specs, src, industry) {
				continue
			}
			dst, ok, err := p.optimizeOne(ctx, &s, industry, src, opts)
			if err != nil {
				return p.finish(ctx, s), err
			}
			if ok {
				s.Mappings.AddFor(industry, ImagesDir+"/"+name, ImagesDir+"/"+filepath.Base(dst))
			}
		}
	}

	return p.finish(ctx, s), nil
}

func (p *Pipeline) optimizeOne(ctx context.Context, s *Summary, industry, src string, opts RunOptions) (string, bool, error) {
	report, err := p.service.ClassifyFile(ctx, src, industry)
	if err != nil {
		if isCancellation(err) {
			return "", false, err
		}
		p.fail(ctx, s, src, industry, "", err)
		return "", false, nil
	}

	category := string(report.Classification.Category)
	p.emit(ctx, s, observer.AssetEvent{
		EventType: observer.AssetClassified,
		Asset:     src,
		Industry:  industry,
		Category:  category,
		Metadata: map[string]interface{}{
			"content_type": report.Classification.ContentType,
			"confidence":   report.Classification.CategoryConfidence,
		},
	})

	if report.Classification.DecodeError != "" {
		p.fail(ctx, s, src, industry, category,
			apperrors.NewDecodeError("cannot decode image", errors.New(report.Classification.DecodeError)))
		return "", false, nil
	}
	if report.Spec == nil {
		p.skip(ctx, s, src, industry, apperrors.NewSkipError(ReasonUncategorized, nil))
		return "", false, nil
	}
	for _, w := range report.Warnings {
		p.emit(ctx, s, observer.AssetEvent{
			EventType: observer.AssetWarning,
			Asset:     src,
			Industry:  industry,
			Category:  category,
			Error:     w,
		})
	}

	dst := transform.VariantPath(src, *report.Spec)
	ok, err := p.process(ctx, s, industry, category, src, dst, *report.Spec, opts)
	return dst, ok, err
}

// Rewrite applies mappings to every discovered template.
func (p *Pipeline) Rewrite(ctx context.Context, mappings models.ReferenceMapping, opts RunOptions) (Summary, error) {
	return p.rewrite(ctx, p.newID(), mappings, opts)
}

func (p *Pipeline) rewrite(ctx context.Context, runID string, mappings models.ReferenceMapping, opts RunOptions) (Summary, error) {
	s := p.begin(ctx, runID, StageRewrite, opts)

	templates, err := rewriter.DiscoverTemplates(p.settings.RootDir, p.settings.Variants)
	if err != nil {
		return s, err
	}
	s.TemplatesScanned = len(templates)
	if len(mappings) == 0 {
		return p.finish(ctx, s), nil
	}

	for _, tpl := range templates {
		if err := ctx.Err(); err != nil {
			return p.finish(ctx, s), err
		}

		scoped := mappings.ForIndustry(p.templateIndustry(tpl))
		if len(scoped) == 0 {
			continue
		}

		var n int
		if opts.DryRun {
			n, err = rewriter.CountFile(tpl, scoped)
		} else {
			n, err = rewriter.RewriteFile(tpl, scoped)
		}
		if err != nil {
			p.fail(ctx, &s, tpl, "", "", err)
			continue
		}
		if n == 0 {
			continue
		}

		s.TemplatesRewritten++
		s.Replacements += n
		p.emit(ctx, &s, observer.AssetEvent{
			EventType: observer.TemplateRewritten,
			Asset:     tpl,
			Count:     n,
		})
	}

	return p.finish(ctx, s), nil
}

// ExistingMappings pairs every source image with a variant already on disk,
// so templates can be rewritten without re-running optimize. Categories
// are tried in name order and the first existing variant wins. Each pair
// is scoped to the industry whose images directory holds the variant.
func (p *Pipeline) ExistingMappings() (models.ReferenceMapping, error) {
	industries, err := p.industryDirs()
	if err != nil {
		return nil, err
	}

	specs := p.service.Specs()
	categories := make([]string, 0, len(specs))
	for c := range specs {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)

	var mappings models.ReferenceMapping
	for _, industry := range industries {
		dir := filepath.Join(p.settings.RootDir, industry, filepath.FromSlash(ImagesDir))
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !isRaster(name) {
				continue
			}
			src := filepath.Join(dir, name)
			if isVariant(specs, src, industry) {
				continue
			}
			for _, c := range categories {
				dst := transform.VariantPath(src, specs[models.Category(c)])
				if _, err := os.Stat(dst); err == nil {
					mappings.AddFor(industry, ImagesDir+"/"+name, ImagesDir+"/"+filepath.Base(dst))
					break
				}
			}
		}
	}
	return mappings, nil
}

// Run is the full publish pass: optimize, then rewrite templates with the
// resulting mappings.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (Summary, error) {
	runID := p.newID()
	s := Summary{RunID: runID, Stage: StageRun, DryRun: opts.DryRun, StartedAt: time.Now()}

	opt, err := p.optimize(ctx, runID, opts)
	s.Merge(opt)
	if err != nil {
		return s, err
	}

	rw, err := p.rewrite(ctx, runID, opt.Mappings, opts)
	s.Merge(rw)
	return s, err
}

// process transforms (or plans) one asset and records the outcome. ok is
// true when the output exists or would exist after a real run.
func (p *Pipeline) process(ctx context.Context, s *Summary, industry, category, src, dst string, spec models.TransformSpec, opts RunOptions) (bool, error) {
	var result models.ProcessedAsset

	if opts.DryRun {
		status, err := p.transformer.Plan(src, dst, spec)
		if err != nil {
			p.fail(ctx, s, src, industry, category, err)
			return false, nil
		}
		result = models.ProcessedAsset{SourcePath: src, OutputPath: dst, Status: status}
	} else {
		var err error
		result, err = p.transformer.Process(ctx, src, dst, spec)
		if err != nil {
			if isCancellation(err) {
				return false, err
			}
			p.fail(ctx, s, src, industry, category, err)
			return false, nil
		}
	}

	s.Processed++
	switch result.Status {
	case models.StatusOptimized:
		s.Optimized++
		s.BytesSaved += result.BytesSaved()
	case models.StatusAlreadyOptimized:
		s.AlreadyOptimized++
	}
	p.emit(ctx, s, observer.AssetEvent{
		EventType:  observer.AssetProcessed,
		Asset:      dst,
		Industry:   industry,
		Category:   category,
		Status:     string(result.Status),
		BytesSaved: result.BytesSaved(),
	})

	if opts.Publish && !opts.DryRun {
		p.publish(ctx, s, industry, category, dst)
	}
	return true, nil
}

func (p *Pipeline) publish(ctx context.Context, s *Summary, industry, category, localPath string) {
	name, err := storage.BlobName(p.settings.RootDir, localPath, p.settings.BlobPrefix)
	var url string
	if err == nil {
		url, err = p.publisher.Publish(ctx, localPath, name)
	}
	if err != nil {
		s.PublishFailed++
		s.Failures = append(s.Failures, AssetIssue{Path: localPath, Reason: "publish: " + err.Error()})
		p.emit(ctx, s, observer.AssetEvent{
			EventType: observer.AssetFailed,
			Asset:     localPath,
			Industry:  industry,
			Category:  category,
			Status:    "publish_failed",
			Error:     err.Error(),
		})
		return
	}

	s.Published++
	p.emit(ctx, s, observer.AssetEvent{
		EventType: observer.AssetPublished,
		Asset:     localPath,
		Industry:  industry,
		Category:  category,
		Metadata:  map[string]interface{}{"url": url},
	})
}

// templateIndustry is the industry directory a discovered template lives
// under: the first path element below the root.
func (p *Pipeline) templateIndustry(tpl string) string {
	rel, err := filepath.Rel(p.settings.RootDir, tpl)
	if err != nil {
		return ""
	}
	return strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
}

// industryDirs lists known industry directories directly under the root.
func (p *Pipeline) industryDirs() ([]string, error) {
	entries, err := os.ReadDir(p.settings.RootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError("asset root does not exist", err).WithDetails(p.settings.RootDir)
		}
		return nil, apperrors.NewIOError("cannot list asset root", err).WithDetails(p.settings.RootDir)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() && filename.IsKnown(e.Name()) {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func (p *Pipeline) skip(ctx context.Context, s *Summary, path, industry string, err error) {
	reason := describe(err)
	s.Skipped++
	s.Skips = append(s.Skips, AssetIssue{Path: path, Reason: reason})
	p.emit(ctx, s, observer.AssetEvent{
		EventType: observer.AssetSkipped,
		Asset:     path,
		Industry:  industry,
		Status:    "skipped",
		Error:     reason,
	})
}

func (p *Pipeline) fail(ctx context.Context, s *Summary, path, industry, category string, err error) {
	reason := describe(err)
	s.Failed++
	s.Failures = append(s.Failures, AssetIssue{Path: path, Reason: reason})
	p.emit(ctx, s, observer.AssetEvent{
		EventType: observer.AssetFailed,
		Asset:     path,
		Industry:  industry,
		Category:  category,
		Status:    "failed",
		Error:     reason,
	})
}

func (p *Pipeline) begin(ctx context.Context, runID, stage string, opts RunOptions) Summary {
	s := Summary{RunID: runID, Stage: stage, DryRun: opts.DryRun, StartedAt: time.Now()}
	p.emit(ctx, &s, observer.AssetEvent{
		EventType: observer.RunStarted,
		Metadata:  map[string]interface{}{"dry_run": opts.DryRun},
	})
	return s
}

func (p *Pipeline) finish(ctx context.Context, s Summary) Summary {
	s.FinishedAt = time.Now()
	p.emit(ctx, &s, observer.AssetEvent{
		EventType: observer.RunCompleted,
		Duration:  s.Duration(),
		Metadata: map[string]interface{}{
			"processed":   s.Processed,
			"optimized":   s.Optimized,
			"skipped":     s.Skipped,
			"failed":      s.Failed,
			"bytes_saved": s.BytesSaved,
		},
	})
	return s
}

func (p *Pipeline) emit(ctx context.Context, s *Summary, event observer.AssetEvent) {
	event.RunID = s.RunID
	event.Stage = s.Stage
	p.events.NotifyObservers(ctx, event)
}

// describe renders an error for summaries, including AppError details.
func describe(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		msg := appErr.Message
		if appErr.Details != "" {
			msg = fmt.Sprintf("%s (%s)", msg, appErr.Details)
		}
		if appErr.Cause != nil {
			msg = fmt.Sprintf("%s: %v", msg, appErr.Cause)
		}
		return msg
	}
	return err.Error()
}

// isVariant reports whether src is output of an earlier optimize pass.
// Such files are never treated as sources.
func isVariant(specs transform.Specs, src, industry string) bool {
	if !specs.IsVariant(filepath.Base(src)) {
		return false
	}
	logger.WithFields(logrus.Fields{
		"asset":    src,
		"industry": industry,
		"reason":   ReasonVariant,
	}).Debug("Skipping image")
	return true
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func isRaster(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	return filename.IsSupportedExtension(ext)
}
