package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formfill/pkg/fields"
	"github.com/goliatone/go-formfill/pkg/model"
)

// Rule identifies which constraint a value failed.
type Rule string

const (
	RuleRequired  Rule = "required"
	RuleMinLength Rule = "minLength"
	RuleMaxLength Rule = "maxLength"
)

// Violation is a single failed rule for a single field.
type Violation struct {
	FieldID string `json:"fieldId"`
	Label   string `json:"label"`
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

// Error carries every violation found for a section.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "validation: no violations"
	}
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Message)
	}
	return "validation: " + strings.Join(messages, "; ")
}

// Option configures a Validator.
type Option func(*Validator)

// WithRegistry overrides the field kind registry used to decide which rules
// apply to a field.
func WithRegistry(reg *fields.Registry) Option {
	return func(v *Validator) {
		if reg != nil {
			v.registry = reg
		}
	}
}

// Validator checks field values against the constraints declared in a form
// definition.
type Validator struct {
	registry *fields.Registry
}

// New constructs a validator using the default field registry.
func New(options ...Option) *Validator {
	v := &Validator{registry: fields.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Section validates every field of section against data, in field order. All
// rules are checked independently so one field can yield several violations.
// An absent value counts as the empty string.
func (v *Validator) Section(section model.FormSection, data model.FilledData) []Violation {
	var out []Violation
	for _, field := range section.Fields {
		out = append(out, v.Field(field, data.Get(field.FieldID))...)
	}
	return out
}

// Field validates a single value.
func (v *Validator) Field(field model.FormField, value string) []Violation {
	checks := fields.Checks{Required: true, MinLength: true, MaxLength: true}
	if kind, err := v.registry.For(field); err == nil {
		checks = kind.Checks()
	}

	var out []Violation
	length := utf8.RuneCountInString(value)

	if checks.Required && field.Required && strings.TrimSpace(value) == "" {
		out = append(out, violation(field, RuleRequired, fmt.Sprintf(`"%s" is required.`, field.Label)))
	}
	// A zero bound is treated as unset.
	if checks.MinLength && field.MinLength != nil && *field.MinLength > 0 && length < *field.MinLength {
		out = append(out, violation(field, RuleMinLength, fmt.Sprintf(`"%s" must be at least %d characters.`, field.Label, *field.MinLength)))
	}
	if checks.MaxLength && field.MaxLength != nil && *field.MaxLength > 0 && length > *field.MaxLength {
		out = append(out, violation(field, RuleMaxLength, fmt.Sprintf(`"%s" must be at most %d characters.`, field.Label, *field.MaxLength)))
	}
	return out
}

// ValidateSection is a convenience wrapper using the default validator. It
// returns nil when the section is valid and an *Error otherwise.
func ValidateSection(section model.FormSection, data model.FilledData) error {
	violations := New().Section(section, data)
	if len(violations) == 0 {
		return nil
	}
	return &Error{Violations: violations}
}

func violation(field model.FormField, rule Rule, message string) Violation {
	return Violation{
		FieldID: field.FieldID,
		Label:   field.Label,
		Rule:    rule,
		Message: message,
	}
}
