// Package pipeline runs campaign generation jobs: it assigns the job id,
// sequences slicing, composition and packaging, and turns artifact names into
// download locators.
package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"campaignbuilder/internal/composer"
	"campaignbuilder/internal/domain"
	"campaignbuilder/internal/infra"
	"campaignbuilder/internal/naming"
	"campaignbuilder/internal/packager"
	"campaignbuilder/internal/slicer"
)

// Store is the blob store contract consumed by the pipeline. Keys are slash
// separated and relative to the store root.
type Store interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Read(ctx context.Context, key string) ([]byte, error)
	EnsureDir(ctx context.Context, key string) error
}

// URLBuilder maps an artifact to the URL the download endpoint serves it at.
type URLBuilder func(jobID, fileName string) string

// DownloadURL is the default URLBuilder: /baixar/{jobID}/{fileName}.
func DownloadURL(jobID, fileName string) string {
	return "/baixar/" + url.PathEscape(jobID) + "/" + url.PathEscape(fileName)
}

type Orchestrator struct {
	store      Store
	slicer     *slicer.Slicer
	packager   *packager.Packager
	catalog    *composer.Catalog
	urls       URLBuilder
	logger     infra.Logger
	now        func() time.Time
	newID      func() string
	defaultCTA string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithCatalog(c *composer.Catalog) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.catalog = c
		}
	}
}

func WithSlicer(s *slicer.Slicer) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.slicer = s
		}
	}
}

func WithURLBuilder(b URLBuilder) Option {
	return func(o *Orchestrator) {
		if b != nil {
			o.urls = b
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(o *Orchestrator) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// WithDefaultCTA sets the call to action target used when a submission has none.
func WithDefaultCTA(u string) Option {
	return func(o *Orchestrator) {
		o.defaultCTA = strings.TrimSpace(u)
	}
}

// New creates an Orchestrator whose jobs all live under store.
func New(store Store, logger infra.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:      store,
		slicer:     slicer.New(store),
		packager:   packager.New(store),
		catalog:    composer.NewCatalog(),
		urls:       DownloadURL,
		logger:     logger,
		now:        time.Now,
		newID:      naming.JobID,
		defaultCTA: composer.DefaultCTAURL,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// plan holds everything derived from a submission before any I/O happens.
type plan struct {
	event string
	names packager.Names
	cta   string
}

// Submit runs one job to completion. On failure no locators are returned and
// the error carries one of the domain kinds.
func (o *Orchestrator) Submit(ctx context.Context, sub domain.Submission) (domain.Result, error) {
	job := domain.Job{ID: o.newID(), CreatedAt: o.now()}
	log := o.logger.With().Str("job_id", job.ID).Logger()
	state := domain.JobStateReceived
	advance := func(next domain.JobState) {
		state = next
		log.Debug().Str("state", string(state)).Msg("job advanced")
	}
	fail := func(err error) (domain.Result, error) {
		log.Error().Err(err).Str("state", string(domain.JobStateFailed)).Str("failed_in", string(state)).Msg("job failed")
		return domain.Result{}, err
	}
	log.Info().Str("template", sub.Template).Str("state", string(state)).Msg("job received")

	p, err := o.plan(job, sub)
	if err != nil {
		return fail(err)
	}

	img := sub.Image
	if img.Extension == "" {
		img.Extension = naming.Extension(img.Filename)
	}
	if err := o.store.EnsureDir(ctx, naming.ImageDir(job.ID)); err != nil {
		return fail(domain.AsStorage("pipeline: create job directory", err))
	}
	if _, err := o.store.Write(ctx, naming.SourceKey(job.ID, img.Extension), img.Data); err != nil {
		return fail(domain.AsStorage("pipeline: persist upload", err))
	}
	advance(domain.JobStateImagePersisted)

	blocks, err := o.slicer.Slice(ctx, job, img, p.event)
	if err != nil {
		return fail(err)
	}
	advance(domain.JobStateBlocksGenerated)

	document := composer.Compose(o.catalog.Lookup(sub.Template), composer.Document{
		Subject: sub.Subject,
		Snippet: sub.Snippet,
		CTAURL:  p.cta,
		Blocks:  blocks,
	})
	advance(domain.JobStateDocumentComposed)

	out, err := o.packager.Package(ctx, job, p.names, document, blocks)
	if err != nil {
		return fail(err)
	}
	advance(domain.JobStateArtifactsPackaged)

	res := domain.Result{
		JobID: job.ID,
		HTML:  o.locator(job.ID, out.HTML.FileName),
		Zip:   o.locator(job.ID, out.Zip.FileName),
	}
	advance(domain.JobStateCompleted)
	log.Info().Str("html", res.HTML.Path()).Str("zip", res.Zip.Path()).Int("blocks", len(blocks)).Msg("job completed")
	return res, nil
}

func (o *Orchestrator) plan(job domain.Job, sub domain.Submission) (plan, error) {
	if strings.TrimSpace(sub.Subject) == "" {
		return plan{}, fmt.Errorf("pipeline: subject is required: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(sub.Snippet) == "" {
		return plan{}, fmt.Errorf("pipeline: snippet is required: %w", domain.ErrInvalidInput)
	}
	if len(sub.Image.Data) == 0 {
		return plan{}, fmt.Errorf("pipeline: image is required: %w", domain.ErrInvalidInput)
	}
	htmlName, err := naming.HTMLFileName(sub.Template, job.ID)
	if err != nil {
		return plan{}, err
	}
	zipName, err := naming.ZipFileName(sub.Template, job.ID)
	if err != nil {
		return plan{}, err
	}
	eventLabel := sub.EventLabel
	if strings.TrimSpace(eventLabel) == "" {
		eventLabel = sub.Template
	}
	event, err := naming.Slug(eventLabel)
	if err != nil {
		return plan{}, err
	}
	cta := strings.TrimSpace(sub.CTAURL)
	if cta == "" {
		cta = o.defaultCTA
	}
	return plan{event: event, names: packager.Names{HTML: htmlName, Zip: zipName}, cta: cta}, nil
}

func (o *Orchestrator) locator(jobID, fileName string) domain.Locator {
	return domain.Locator{JobID: jobID, FileName: fileName, URL: o.urls(jobID, fileName)}
}

// Fetch returns the bytes of a job artifact. Unknown jobs, unknown files and
// names that try to leave the job directory all yield domain.ErrNotFound.
func (o *Orchestrator) Fetch(ctx context.Context, jobID, fileName string) ([]byte, error) {
	if !validSegment(jobID) || !validSegment(fileName) {
		return nil, fmt.Errorf("pipeline: artifact %q/%q: %w", jobID, fileName, domain.ErrNotFound)
	}
	data, err := o.store.Read(ctx, naming.JobKey(jobID, fileName))
	if err != nil {
		return nil, fmt.Errorf("pipeline: fetch %s/%s: %w", jobID, fileName, err)
	}
	return data, nil
}

func validSegment(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
