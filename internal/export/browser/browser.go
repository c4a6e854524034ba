// Package browser manages headless Chrome sessions for the export pipeline.
// It wraps chromedp behind small interfaces so the rest of the pipeline can
// be exercised with fakes.
package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/resumeforge/resumeforge/pkg/errors"
	"github.com/resumeforge/resumeforge/pkg/logger"
)

// Evaluator runs JavaScript expressions in a loaded page.
type Evaluator interface {
	Evaluate(ctx context.Context, expr string, out interface{}) error
}

// Capturer rasterizes a region of a loaded page.
type Capturer interface {
	// CaptureElement screenshots the element matched by selector at the
	// given device scale factor and returns PNG bytes.
	CaptureElement(ctx context.Context, selector string, scale float64) ([]byte, error)
}

// Config holds browser launch configuration.
type Config struct {
	// ChromePath overrides binary discovery. Empty means LocateChrome.
	ChromePath string
	// Debug routes chromedp internal logging to the debug log.
	Debug bool
}

// Browser owns a Chrome exec allocator. Pages are created per export so a
// crashed renderer never poisons later exports.
type Browser struct {
	cfg      Config
	allocCtx context.Context
	cancel   context.CancelFunc
}

// New launches the allocator context. Chrome itself starts lazily with the
// first page.
func New(ctx context.Context, cfg Config) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-software-rasterizer", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("headless", true),
		chromedp.Flag("hide-scrollbars", true),
	)

	chromePath := cfg.ChromePath
	if chromePath == "" {
		chromePath = os.Getenv("CHROME_PATH")
	}
	if chromePath == "" {
		chromePath = LocateChrome()
	}
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
		logger.Debug("Using Chrome binary", zap.String("chrome_path", chromePath))
	}

	// Default WebSocket URL timeout is 20s which may not be enough on slow systems
	opts = append(opts, chromedp.WSURLReadTimeout(60*time.Second))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	return &Browser{cfg: cfg, allocCtx: allocCtx, cancel: cancel}, nil
}

// NewPage opens a fresh browser tab and loads the given HTML document via a
// temporary file, avoiding data URL size limits.
func (b *Browser) NewPage(ctx context.Context, html string) (*Page, error) {
	tmpFile, err := os.CreateTemp("", "resumeforge-export-*.html")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBrowserLaunch, "failed to create temp page file", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.WriteString(html); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return nil, errors.Wrap(errors.ErrCodeBrowserLaunch, "failed to write temp page file", err)
	}
	tmpFile.Close()

	var ctxOpts []chromedp.ContextOption
	if b.cfg.Debug {
		ctxOpts = append(ctxOpts, chromedp.WithLogf(func(format string, args ...interface{}) {
			logger.Debug(fmt.Sprintf("chromedp: "+format, args...))
		}))
	}

	pageCtx, pageCancel := chromedp.NewContext(b.allocCtx, ctxOpts...)

	fileURL := "file://" + tmpPath
	if err := chromedp.Run(pageCtx,
		chromedp.Navigate(fileURL),
		chromedp.WaitReady("body"),
	); err != nil {
		pageCancel()
		os.Remove(tmpPath)
		return nil, errors.Wrap(errors.ErrCodeBrowserLaunch, "failed to load export page", err)
	}

	logger.Debug("Export page loaded",
		zap.String("file_url", fileURL),
		zap.Int("html_size", len(html)),
	)

	return &Page{ctx: pageCtx, cancel: pageCancel, tmpPath: tmpPath}, nil
}

// Close shuts the allocator down and with it any remaining Chrome process.
func (b *Browser) Close() {
	b.cancel()
}

// chromeCandidates are the well-known binary locations checked in order.
var chromeCandidates = []string{
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// chromeNames are looked up on PATH after the fixed candidates.
var chromeNames = []string{
	"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome",
}

// LocateChrome returns the path of an installed Chrome/Chromium binary, or
// empty when none is found.
func LocateChrome() string {
	for _, path := range chromeCandidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	for _, name := range chromeNames {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
