// Package views renders the embedded HTML templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
)

// Template names, relative to the templates directory.
const (
	TemplateIndex      = "posts/index.html"
	TemplateGroupList  = "posts/group_list.html"
	TemplateProfile    = "posts/profile.html"
	TemplatePostDetail = "posts/post_detail.html"
	TemplatePostForm   = "posts/create_post.html"
	TemplateNotFound   = "core/404.html"
)

var pages = []string{
	TemplateIndex,
	TemplateGroupList,
	TemplateProfile,
	TemplatePostDetail,
	TemplatePostForm,
	TemplateNotFound,
}

//go:embed templates
var templateFS embed.FS

// Renderer writes the named template with data as an HTTP response.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

// HTMLRenderer renders pages built from base.html, the shared includes and
// one page template.
type HTMLRenderer struct {
	pages map[string]*template.Template
}

// NewHTMLRenderer parses every page with funcs available to templates.
func NewHTMLRenderer(funcs template.FuncMap) (*HTMLRenderer, error) {
	r := &HTMLRenderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS,
			"templates/base.html",
			"templates/includes/*.html",
			"templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the page into a buffer first so a failing template never
// leaves a half written response.
func (r *HTMLRenderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Rendered is one recorded Render call.
type Rendered struct {
	Name   string
	Status int
	Data   any
}

// Recorder remembers which templates were rendered and with what context.
// A nil next renderer only records and writes the status code.
type Recorder struct {
	next Renderer

	mu      sync.Mutex
	renders []Rendered
}

func NewRecorder(next Renderer) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) Render(w http.ResponseWriter, status int, name string, data any) error {
	r.mu.Lock()
	r.renders = append(r.renders, Rendered{Name: name, Status: status, Data: data})
	r.mu.Unlock()

	if r.next == nil {
		w.WriteHeader(status)
		return nil
	}
	return r.next.Render(w, status, name, data)
}

// Last returns the most recent render.
func (r *Recorder) Last() (Rendered, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.renders) == 0 {
		return Rendered{}, false
	}
	return r.renders[len(r.renders)-1], true
}

// Templates lists rendered template names in order.
func (r *Recorder) Templates() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.renders))
	for i, rr := range r.renders {
		names[i] = rr.Name
	}
	return names
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.renders = nil
	r.mu.Unlock()
}
