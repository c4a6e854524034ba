// Package render turns stored resume content into the HTML document the
// export pipeline loads, measures and rasterizes. The pipeline only cares
// that the output contains the export target subtree and the structural
// watermark overlay nodes; everything else is template-local.
package render

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/pkg/errors"
)

const (
	// RootSelector identifies the export target subtree
	RootSelector = "#resume-root"
	// WatermarkSelector identifies the watermark overlay nodes
	WatermarkSelector = ".wm-overlay"
)

// Document is a rendered resume page ready for the export pipeline.
type Document struct {
	HTML       string
	TemplateID string
}

// Renderer renders a resume into an HTML document.
type Renderer interface {
	// Render produces the HTML document for the resume. An unknown
	// template id is a coded error, not a silent fallback.
	Render(resume *model.Resume) (*Document, error)

	// Templates lists the available template ids.
	Templates() []string
}

// htmlRenderer renders resumes from the embedded template set, optionally
// extended by templates loaded from a directory.
type htmlRenderer struct {
	tmpl            *template.Template
	ids             map[string]bool
	defaultTemplate string
}

// NewRenderer creates a renderer over the embedded templates.
func NewRenderer(defaultTemplate string) (Renderer, error) {
	if defaultTemplate == "" {
		defaultTemplate = "classic"
	}

	funcMap := template.FuncMap{
		"join": strings.Join,
	}

	root := template.New("resume").Funcs(funcMap)
	template.Must(root.New("layout").Parse(layoutTemplate))
	template.Must(root.New("watermark").Parse(watermarkTemplate))
	template.Must(root.New("classic").Parse(classicTemplate))
	template.Must(root.New("modern").Parse(modernTemplate))

	r := &htmlRenderer{
		tmpl:            root,
		ids:             map[string]bool{"classic": true, "modern": true},
		defaultTemplate: defaultTemplate,
	}
	if !r.ids[defaultTemplate] {
		return nil, errors.New(errors.ErrCodeTemplateNotFound,
			"default template "+defaultTemplate+" not found")
	}
	return r, nil
}

// NewRendererWithDir creates a renderer that also loads *.html templates
// from dir. File templates are named by base filename and shadow embedded
// templates with the same id.
func NewRendererWithDir(defaultTemplate, dir string) (Renderer, error) {
	base, err := NewRenderer(defaultTemplate)
	if err != nil {
		return nil, err
	}
	r := base.(*htmlRenderer)

	matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, "failed to scan template dir", err)
	}
	for _, path := range matches {
		id := strings.TrimSuffix(filepath.Base(path), ".html")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed,
				"failed to read template "+id, err)
		}
		if _, err := r.tmpl.New(id).Parse(string(data)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed,
				"failed to parse template "+id, err)
		}
		r.ids[id] = true
	}
	return r, nil
}

// pageData is the data each body template executes against.
type pageData struct {
	Title   string
	Content *model.Content
}

func (r *htmlRenderer) Render(resume *model.Resume) (*Document, error) {
	templateID := resume.TemplateID
	if templateID == "" {
		templateID = r.defaultTemplate
	}
	if !r.ids[templateID] {
		return nil, errors.New(errors.ErrCodeTemplateNotFound,
			"template "+templateID+" not found")
	}

	content, err := resume.ParseContent()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, "invalid resume content", err)
	}

	var body bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&body, templateID, pageData{
		Title:   resume.Title,
		Content: content,
	}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, "template execution failed", err)
	}

	var doc bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&doc, "layout", map[string]interface{}{
		"Title": resume.Title,
		"Body":  template.HTML(body.String()),
	}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, "layout execution failed", err)
	}

	return &Document{HTML: doc.String(), TemplateID: templateID}, nil
}

func (r *htmlRenderer) Templates() []string {
	ids := make([]string, 0, len(r.ids))
	for id := range r.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
