package html

import (
	"github.com/goliatone/go-formfill/pkg/fields"
	"github.com/goliatone/go-formfill/pkg/formflow"
	"github.com/goliatone/go-formfill/pkg/model"
	"github.com/goliatone/go-formfill/pkg/notice"
)

// LoginPage is the input for the login screen.
type LoginPage struct {
	Notices    []notice.Notice
	RollNumber string
	Name       string
}

// FormPage is the input for the form screen. Flow is nil while no definition
// is loaded, which renders the header with a retry button.
type FormPage struct {
	Identity model.UserIdentity
	Notices  []notice.Notice
	Flow     *formflow.Flow
}

type optionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type fieldView struct {
	ID          string       `json:"id"`
	Label       string       `json:"label"`
	Shape       string       `json:"shape"`
	InputType   string       `json:"input_type"`
	Required    bool         `json:"required"`
	Placeholder string       `json:"placeholder"`
	Value       string       `json:"value"`
	TestID      string       `json:"test_id"`
	Options     []optionView `json:"options"`
}

type sectionView struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Fields      []fieldView `json:"fields"`
}

type formView struct {
	UserName   string           `json:"user_name"`
	RollNumber string           `json:"roll_number"`
	Notices    []notice.Notice  `json:"notices"`
	Loaded     bool             `json:"loaded"`
	Submitted  bool             `json:"submitted"`
	FormTitle  string           `json:"form_title"`
	Version    string           `json:"version"`
	Cursor     string           `json:"cursor"`
	Step       string           `json:"step"`
	Section    sectionView      `json:"section"`
	Actions    formflow.Actions `json:"actions"`
	Confirm    string           `json:"confirm"`
}

type loginView struct {
	Notices    []notice.Notice `json:"notices"`
	RollNumber string          `json:"roll_number"`
	Name       string          `json:"name"`
}

// noticeRole maps a notice level to its ARIA live region role. Errors
// interrupt, everything else is announced politely.
func noticeRole(level string) string {
	if level == string(notice.LevelError) {
		return "alert"
	}
	return "status"
}

func buildFieldView(reg *fields.Registry, field model.FormField, raw string) (fieldView, bool) {
	kind, err := reg.For(field)
	if err != nil {
		return fieldView{}, false
	}
	view := fieldView{
		ID:          field.FieldID,
		Label:       field.Label,
		Shape:       string(kind.Shape()),
		Required:    field.Required,
		Placeholder: field.Placeholder,
		Value:       raw,
		TestID:      field.DataTestID,
	}
	if text, ok := kind.(fields.Text); ok {
		view.InputType = text.Name()
	}

	selected := make(map[string]bool)
	for _, value := range kind.Decode(raw) {
		selected[value] = true
	}
	for _, opt := range field.Options {
		view.Options = append(view.Options, optionView{
			Value:    opt.Value,
			Label:    opt.Label,
			Selected: selected[opt.Value],
		})
	}
	return view, true
}
