package model

// FieldType enumerates the closed set of input kinds a form definition may
// declare.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTel      FieldType = "tel"
	FieldTypeDate     FieldType = "date"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeDropdown FieldType = "dropdown"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeCheckbox FieldType = "checkbox"
)

// FieldTypes lists every known field type in declaration order.
var FieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeEmail,
	FieldTypeTel,
	FieldTypeDate,
	FieldTypeTextarea,
	FieldTypeDropdown,
	FieldTypeRadio,
	FieldTypeCheckbox,
}

// Known reports whether t is one of the supported field types.
func (t FieldType) Known() bool {
	for _, candidate := range FieldTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// HasOptions reports whether fields of this type pick from a list of options.
func (t FieldType) HasOptions() bool {
	switch t {
	case FieldTypeDropdown, FieldTypeRadio, FieldTypeCheckbox:
		return true
	default:
		return false
	}
}

// FieldOption is a single selectable entry for dropdown, radio and checkbox
// fields.
type FieldOption struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// FormField is the static metadata describing one input. MinLength and
// MaxLength are pointers so an absent constraint can be told apart from an
// explicit value.
type FormField struct {
	FieldID     string        `json:"fieldId" yaml:"fieldId"`
	Label       string        `json:"label" yaml:"label"`
	Type        FieldType     `json:"type" yaml:"type"`
	Required    bool          `json:"required" yaml:"required"`
	MinLength   *int          `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   *int          `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Placeholder string        `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []FieldOption `json:"options,omitempty" yaml:"options,omitempty"`
	DataTestID  string        `json:"dataTestId,omitempty" yaml:"dataTestId,omitempty"`
}

// FormSection groups fields shown together as one pagination step. Field
// order is render order.
type FormSection struct {
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Fields      []FormField `json:"fields" yaml:"fields"`
}

// FormDefinition is the document fetched for a roll number. It is treated as
// immutable once loaded; a refetch replaces it wholesale.
type FormDefinition struct {
	FormTitle string        `json:"formTitle" yaml:"formTitle"`
	Version   string        `json:"version" yaml:"version"`
	Sections  []FormSection `json:"sections" yaml:"sections"`
}

// SectionCount returns the number of pagination steps.
func (d FormDefinition) SectionCount() int {
	return len(d.Sections)
}

// Field looks up a field by id across all sections.
func (d FormDefinition) Field(id string) (FormField, bool) {
	for _, section := range d.Sections {
		for _, field := range section.Fields {
			if field.FieldID == id {
				return field, true
			}
		}
	}
	return FormField{}, false
}

// IntPtr is a small helper for building definitions in code and tests.
func IntPtr(v int) *int {
	return &v
}
