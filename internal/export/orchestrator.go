// Package export orchestrates the single-page export pipeline: entitlement,
// rendering, measurement, rasterization, assembly, crediting and record
// persistence, as one strictly sequential state machine per invocation.
package export

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/resumeforge/resumeforge/internal/config"
	"github.com/resumeforge/resumeforge/internal/export/dom"
	"github.com/resumeforge/resumeforge/internal/export/imageout"
	"github.com/resumeforge/resumeforge/internal/export/layout"
	"github.com/resumeforge/resumeforge/internal/export/measure"
	"github.com/resumeforge/resumeforge/internal/export/pdfout"
	"github.com/resumeforge/resumeforge/internal/export/raster"
	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/internal/render"
	"github.com/resumeforge/resumeforge/pkg/errors"
	"github.com/resumeforge/resumeforge/pkg/idgen"
	"github.com/resumeforge/resumeforge/pkg/logger"
	"github.com/resumeforge/resumeforge/pkg/telemetry"
)

// creditLedger is the entitlement collaborator. ConsumeCredit returning
// false means no credit was available; the caller decides whether that
// blocks or is merely logged.
type creditLedger interface {
	HasCredit(ownerID string) (bool, error)
	ConsumeCredit(ownerID string) (bool, error)
}

// exportRecorder is the persistence collaborator for delivered exports.
type exportRecorder interface {
	Create(record *model.ExportRecord) error
}

// Request describes one export invocation.
type Request struct {
	Resume *model.Resume
	// Free keeps the watermark and leaves the credit ledger untouched.
	// Non-free requests consult and consume entitlement.
	Free bool
}

// Outcome summarizes how an export ended.
type Outcome struct {
	State       State
	Overflow    bool
	Watermarked bool
	Retried     bool
	Duration    time.Duration
	RecordID    string
}

// Artifact is the deliverable of a successful export.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	Outcome     Outcome
}

// Orchestrator runs export invocations. Safe for concurrent use; overlapping
// exports of the same resume are rejected rather than queued.
type Orchestrator struct {
	renderer render.Renderer
	sessions SessionFactory
	credits  creditLedger
	records  exportRecorder
	cfg      config.ExportConfig

	inflight sync.Map // resume id -> *sync.Mutex
}

// New creates an orchestrator.
func New(renderer render.Renderer, sessions SessionFactory, credits creditLedger, records exportRecorder, cfg config.ExportConfig) *Orchestrator {
	return &Orchestrator{
		renderer: renderer,
		sessions: sessions,
		credits:  credits,
		records:  records,
		cfg:      cfg,
	}
}

// ExportPDF runs the pipeline to a single-page PDF.
func (o *Orchestrator) ExportPDF(ctx context.Context, req Request) (*Artifact, error) {
	return o.run(ctx, req, "pdf", func(result *raster.Result) (artifactData, error) {
		data, err := pdfout.New(o.cfg.JPEGQuality).Assemble(result.Data, pageDecision(result))
		if err != nil {
			return artifactData{}, err
		}
		return artifactData{data: data, contentType: "application/pdf", extension: "pdf"}, nil
	})
}

// ExportImage runs the pipeline to a standalone PNG or JPEG.
func (o *Orchestrator) ExportImage(ctx context.Context, req Request, format imageout.Format) (*Artifact, error) {
	return o.run(ctx, req, string(format), func(result *raster.Result) (artifactData, error) {
		data, err := imageout.New(o.cfg.JPEGQuality).Encode(result.Data, format)
		if err != nil {
			return artifactData{}, err
		}
		return artifactData{data: data, contentType: format.ContentType(), extension: format.Extension()}, nil
	})
}

// MeasureOverflow measures a resume against the page budget without
// exporting. Used by the advisory endpoint.
func (o *Orchestrator) MeasureOverflow(ctx context.Context, resume *model.Resume) (measure.Report, error) {
	doc, err := o.renderer.Render(resume)
	if err != nil {
		return measure.Report{}, err
	}
	session, err := o.sessions.NewSession(ctx, doc.HTML)
	if err != nil {
		return measure.Report{}, err
	}
	defer session.Close()

	engine := measure.NewEngine(session, o.cfg.PageBudgetPx, o.cfg.PageWidthPx, o.settleDelay())
	report, err := engine.MeasureOverflow(ctx, render.RootSelector)
	if err != nil {
		return measure.Report{}, err
	}
	telemetry.GetMetrics().RecordOverflow(ctx, report.Overflow)
	return report, nil
}

// artifactData is the assembled output of one format assembler.
type artifactData struct {
	data        []byte
	contentType string
	extension   string
}

// pageDecision converts the capture to CSS pixels before the placement
// decision. The bitmap is the device scale factor times larger than the
// content it represents; deciding on raw pixels would shrink content
// that actually fits the page.
func pageDecision(result *raster.Result) layout.PageLayoutDecision {
	return layout.Decide(result.CSSWidth(), result.CSSHeight())
}

func (o *Orchestrator) run(ctx context.Context, req Request, format string, assemble func(*raster.Result) (artifactData, error)) (*Artifact, error) {
	resume := req.Resume
	if resume == nil {
		return nil, errors.New(errors.ErrCodeValidation, "no resume to export")
	}

	// Single-flight per target: a second export against the same resume
	// is rejected immediately, never queued behind the first.
	mu := o.lockFor(resume.ID)
	if !mu.TryLock() {
		return nil, errors.New(errors.ErrCodeExportBusy,
			"an export for this resume is already in progress")
	}
	defer mu.Unlock()

	start := time.Now()
	metrics := telemetry.GetMetrics()
	metrics.RecordExportStart(ctx, format)

	opCtx, cancel := context.WithTimeout(ctx, o.operationTimeout())
	defer cancel()

	finish := func(state State) {
		metrics.RecordExportEnd(ctx, format, state.String(), time.Since(start).Seconds())
	}

	// checking-entitlement
	watermarked := true
	if !req.Free {
		has, err := o.credits.HasCredit(resume.OwnerID)
		if err != nil {
			finish(StateFailed)
			return nil, errors.Wrap(errors.ErrCodeCreditConsume, "entitlement check failed", err)
		}
		if !has {
			finish(StateBlocked)
			return nil, errors.ErrNoCredit()
		}
		if o.cfg.CreditPolicy == config.CreditPolicyChargeFirst {
			ok, err := o.credits.ConsumeCredit(resume.OwnerID)
			if err != nil {
				finish(StateFailed)
				return nil, errors.Wrap(errors.ErrCodeCreditConsume, "credit consumption failed", err)
			}
			if !ok {
				finish(StateBlocked)
				return nil, errors.ErrNoCredit()
			}
		}
		watermarked = false
	}

	doc, err := o.renderer.Render(resume)
	if err != nil {
		finish(StateFailed)
		return nil, o.normalize(opCtx, err)
	}

	session, err := o.sessions.NewSession(opCtx, doc.HTML)
	if err != nil {
		finish(StateFailed)
		return nil, o.normalize(opCtx, err)
	}
	defer session.Close()

	manager := dom.NewManager(session, o.settleDelay())

	// Advisory measurement: an overflow never blocks the export and a
	// failed measurement only loses the advisory.
	overflow := false
	engine := measure.NewEngine(session, o.cfg.PageBudgetPx, o.cfg.PageWidthPx, o.settleDelay())
	if report, merr := engine.MeasureOverflow(opCtx, render.RootSelector); merr != nil {
		logger.Warn("Overflow measurement failed, continuing without advisory",
			zap.String("resume_id", resume.ID),
			zap.Error(merr),
		)
	} else {
		overflow = report.Overflow
		metrics.RecordOverflow(ctx, overflow)
	}

	// rasterizing
	rasterizer := raster.New(session, manager, o.cfg.PageWidthPx)
	var result *raster.Result
	err = manager.WithWatermarkState(opCtx, render.WatermarkSelector, watermarked, func() error {
		var rerr error
		result, rerr = rasterizer.Rasterize(opCtx, render.RootSelector, raster.Options{
			Scale:        o.cfg.Scale,
			Timeout:      time.Duration(o.cfg.RasterTimeoutSec) * time.Second,
			RetryScale:   o.cfg.RetryScale,
			RetryTimeout: time.Duration(o.cfg.RetryTimeoutSec) * time.Second,
		})
		return rerr
	})
	if err != nil {
		finish(StateFailed)
		return nil, o.normalize(opCtx, err)
	}

	// assembling
	out, err := assemble(result)
	if err != nil {
		finish(StateFailed)
		return nil, o.normalize(opCtx, err)
	}

	outcome := Outcome{
		State:       StateDone,
		Overflow:    overflow,
		Watermarked: watermarked,
		Retried:     result.Retried,
	}

	// The artifact exists from here on. Crediting and persistence
	// failures are reconciliation gaps: logged, never surfaced, because
	// the caller already has the file.
	if !req.Free && o.cfg.CreditPolicy == config.CreditPolicyDeliverFirst {
		if ok, cerr := o.credits.ConsumeCredit(resume.OwnerID); cerr != nil || !ok {
			logger.Error("Credit consumption failed after delivery",
				zap.String("resume_id", resume.ID),
				zap.String("owner_id", resume.OwnerID),
				zap.Bool("consumed", ok),
				zap.Error(cerr),
			)
		}
	}

	record := &model.ExportRecord{
		ID:          idgen.NewExportID(),
		OwnerID:     resume.OwnerID,
		ResumeID:    resume.ID,
		Title:       resume.Title,
		TemplateID:  doc.TemplateID,
		Format:      format,
		Filename:    SanitizeFilename(resume.Title) + "." + out.extension,
		Watermarked: watermarked,
		Overflow:    overflow,
		SizeBytes:   int64(len(out.data)),
		Duration:    time.Since(start).Milliseconds(),
	}
	if perr := o.records.Create(record); perr != nil {
		logger.Error("Failed to persist export record",
			zap.String("resume_id", resume.ID),
			zap.Error(perr),
		)
	} else {
		outcome.RecordID = record.ID
	}

	outcome.Duration = time.Since(start)
	finish(StateDone)

	logger.Info("Export completed",
		zap.String("resume_id", resume.ID),
		zap.String("format", format),
		zap.String("filename", record.Filename),
		zap.Bool("watermarked", watermarked),
		zap.Bool("overflow", overflow),
		zap.Bool("retried", result.Retried),
		zap.Int("size_bytes", len(out.data)),
		zap.Duration("duration", outcome.Duration),
	)

	return &Artifact{
		Filename:    record.Filename,
		ContentType: out.contentType,
		Data:        out.data,
		Outcome:     outcome,
	}, nil
}

// normalize maps pipeline failures onto the coded taxonomy. The whole
// operation ceiling surfaces as a timeout regardless of where the deadline
// interrupted the pipeline.
func (o *Orchestrator) normalize(opCtx context.Context, err error) error {
	if opCtx.Err() == context.DeadlineExceeded {
		return errors.New(errors.ErrCodeExportTimeout, "export timed out")
	}
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}
	return errors.Wrap(errors.ErrCodeInternal, "export failed", err)
}

func (o *Orchestrator) lockFor(id string) *sync.Mutex {
	v, _ := o.inflight.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (o *Orchestrator) operationTimeout() time.Duration {
	if o.cfg.OperationTimeoutSec <= 0 {
		return 120 * time.Second
	}
	return time.Duration(o.cfg.OperationTimeoutSec) * time.Second
}

func (o *Orchestrator) settleDelay() time.Duration {
	return time.Duration(o.cfg.SettleDelayMs) * time.Millisecond
}
