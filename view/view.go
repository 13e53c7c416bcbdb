// Package view renders the embedded html/template pages and emails.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path"
	"sync"
	"time"

	"github.com/diewo77/invoicer/i18n"
	"github.com/diewo77/invoicer/internal/money"
	"github.com/diewo77/invoicer/validation"
)

//go:embed templates
var embedded embed.FS

const layoutFile = "layout.html"

var partials = []string{
	"partials/flashes.html",
	"partials/errors-alert.html",
	"partials/field-text.html",
}

// Options configures a Renderer.
type Options struct {
	// Dir, when set, reads templates from disk and skips the cache so edits
	// show up without a rebuild.
	Dir string
	// Lang resolves the request language for the t helper.
	Lang func(*http.Request) string
	// Defaults contributes per-request data (flashes, CSRF field) to every
	// page rendered with a layout. Keys already in data win.
	Defaults func(http.ResponseWriter, *http.Request) map[string]any
}

// Renderer parses each page together with the layout and partials once and
// caches the result.
type Renderer struct {
	fsys     fs.FS
	cache    bool
	lang     func(*http.Request) string
	defaults func(http.ResponseWriter, *http.Request) map[string]any

	mu  sync.RWMutex
	tpl map[string]*template.Template
}

func New(opts Options) *Renderer {
	fsys, _ := fs.Sub(embedded, "templates")
	cache := true
	if opts.Dir != "" {
		fsys = os.DirFS(opts.Dir)
		cache = false
	}
	lang := opts.Lang
	if lang == nil {
		lang = func(r *http.Request) string { return i18n.DetectLanguage(r.Header.Get("Accept-Language")) }
	}
	return &Renderer{
		fsys:     fsys,
		cache:    cache,
		lang:     lang,
		defaults: opts.Defaults,
		tpl:      map[string]*template.Template{},
	}
}

// Funcs returns the func map shared by every template. Request-specific
// helpers are rebound at execution time.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"t":          func(code string) string { return code },
		"lang":       func() string { return i18n.Default },
		"money":      money.Money,
		"date":       formatDate,
		"postalHint": validation.PostalHint,
		"year":       func() int { return time.Now().Year() },
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

func requestFuncs(lang string) template.FuncMap {
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
	}
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	}
	return ""
}

// Render writes page name with status 200.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return v.RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus executes the page into a buffer first so a template error
// never leaves a half-written response.
func (v *Renderer) RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	if v.defaults != nil {
		for k, val := range v.defaults(w, r) {
			if _, exists := data[k]; !exists {
				data[k] = val
			}
		}
	}
	var buf bytes.Buffer
	if err := v.execute(&buf, r, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// RenderString executes a template into a string, e.g. an email body.
func (v *Renderer) RenderString(r *http.Request, name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := v.execute(&buf, r, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (v *Renderer) execute(buf *bytes.Buffer, r *http.Request, name string, data map[string]any) error {
	t, err := v.lookup(name)
	if err != nil {
		return err
	}
	t, err = t.Clone()
	if err != nil {
		return err
	}
	t.Funcs(requestFuncs(i18n.Normalize(v.lang(r))))
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	return t.Execute(buf, data)
}

func (v *Renderer) lookup(name string) (*template.Template, error) {
	if v.cache {
		v.mu.RLock()
		t, ok := v.tpl[name]
		v.mu.RUnlock()
		if ok {
			return t, nil
		}
	}
	t, err := v.parse(name)
	if err != nil {
		return nil, err
	}
	if v.cache {
		v.mu.Lock()
		v.tpl[name] = t
		v.mu.Unlock()
	}
	return t, nil
}

func (v *Renderer) parse(name string) (*template.Template, error) {
	content, err := fs.ReadFile(v.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("view: %s: %w", name, err)
	}
	// A full document (emails) is rendered on its own, without the layout.
	if bytes.Contains(bytes.ToLower(content), []byte("<!doctype")) {
		return template.New(path.Base(name)).Funcs(Funcs()).Parse(string(content))
	}
	layout, err := fs.ReadFile(v.fsys, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("view: %s: %w", layoutFile, err)
	}
	t, err := template.New(layoutFile).Funcs(Funcs()).Parse(string(layout))
	if err != nil {
		return nil, fmt.Errorf("view: parse %s: %w", layoutFile, err)
	}
	if _, err := t.New(name).Parse(string(content)); err != nil {
		return nil, fmt.Errorf("view: parse %s: %w", name, err)
	}
	for _, p := range partials {
		b, err := fs.ReadFile(v.fsys, p)
		if err != nil {
			return nil, fmt.Errorf("view: %s: %w", p, err)
		}
		if _, err := t.New(p).Parse(string(b)); err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", p, err)
		}
	}
	return t, nil
}
