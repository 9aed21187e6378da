package template

// TemplateRenderer renders a named page template with view data. The default
// implementation lives in the gotemplate subpackage.
type TemplateRenderer interface {
	RenderTemplate(name string, data any) (string, error)
}
