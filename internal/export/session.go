package export

import (
	"context"

	"github.com/resumeforge/resumeforge/internal/export/browser"
)

// Session is one loaded export document. It is created per export
// invocation and torn down when the invocation ends.
type Session interface {
	browser.Evaluator
	browser.Capturer
	Close()
}

// SessionFactory opens export pages. The browser-backed implementation
// drives headless Chrome; tests substitute fakes.
type SessionFactory interface {
	NewSession(ctx context.Context, html string) (Session, error)
}

// browserSessionFactory adapts browser.Browser to the factory interface.
type browserSessionFactory struct {
	browser *browser.Browser
}

// NewBrowserSessionFactory wraps a running browser as a session factory.
func NewBrowserSessionFactory(b *browser.Browser) SessionFactory {
	return &browserSessionFactory{browser: b}
}

func (f *browserSessionFactory) NewSession(ctx context.Context, html string) (Session, error) {
	return f.browser.NewPage(ctx, html)
}
