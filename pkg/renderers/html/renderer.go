// Package html renders the login and form pages of the web front end with
// pongo2 templates.
package html

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/goliatone/go-formfill/pkg/fields"
	rendertemplate "github.com/goliatone/go-formfill/pkg/render/template"
	"github.com/goliatone/go-formfill/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formfill/pkg/screens"
)

const (
	loginTemplate = "login.tmpl"
	formTemplate  = "form.tmpl"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *fields.Registry
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithRegistry overrides the field kind registry.
func WithRegistry(reg *fields.Registry) Option {
	return func(cfg *config) {
		if reg != nil {
			cfg.registry = reg
		}
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	registry  *fields.Registry
}

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), registry: fields.Default()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithGlobals(map[string]any{
				"routes": map[string]string{
					"login": screens.RouteLogin.String(),
					"form":  screens.RouteForm.String(),
				},
			}),
			gotemplate.WithFilter("notice_role", noticeRole),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, registry: cfg.registry}, nil
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Login renders the login page.
func (r *Renderer) Login(page LoginPage) ([]byte, error) {
	return r.render(loginTemplate, loginView{
		Notices:    page.Notices,
		RollNumber: page.RollNumber,
		Name:       page.Name,
	})
}

// Form renders the form page for the section under the flow cursor.
func (r *Renderer) Form(page FormPage) ([]byte, error) {
	view := formView{
		UserName:   page.Identity.Name,
		RollNumber: page.Identity.RollNumber,
		Notices:    page.Notices,
		Confirm:    screens.MsgLogoutConfirm,
	}

	if flow := page.Flow; flow != nil {
		def := flow.Definition()
		section := flow.Section()

		view.Loaded = true
		view.Submitted = flow.Submitted()
		view.FormTitle = def.FormTitle
		view.Version = def.Version
		cursor := flow.Cursor()
		view.Cursor = strconv.Itoa(cursor)
		view.Step = fmt.Sprintf("%d/%d", cursor+1, flow.SectionCount())
		view.Actions = flow.Actions()
		view.Section = sectionView{
			Title:       section.Title,
			Description: sanitizeDescription(section.Description),
		}
		for _, field := range section.Fields {
			fv, ok := buildFieldView(r.registry, field, flow.Value(field.FieldID))
			if !ok {
				continue
			}
			view.Section.Fields = append(view.Section.Fields, fv)
		}
	}

	return r.render(formTemplate, view)
}

func (r *Renderer) render(name string, data any) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	result, err := r.templates.RenderTemplate(name, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render %s: %w", name, err)
	}
	return []byte(result), nil
}
