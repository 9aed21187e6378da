package fields

import (
	"strings"

	"github.com/goliatone/go-formfill/pkg/model"
)

// InputShape describes how a kind is presented to the user.
type InputShape string

const (
	ShapeSingleLine      InputShape = "single-line"
	ShapeMultiLine       InputShape = "multi-line"
	ShapeSingleSelect    InputShape = "single-select"
	ShapeExclusiveSelect InputShape = "exclusive-select"
	ShapeMultiSelect     InputShape = "multi-select"
)

// Checks lists the validation rules that apply to a kind.
type Checks struct {
	Required  bool
	MinLength bool
	MaxLength bool
}

// Kind owns the presentation shape, value encoding and rule applicability for
// one family of field types.
type Kind interface {
	Name() string
	Shape() InputShape
	// Decode returns the option values selected by raw. Free text kinds
	// return the raw value as a single element (or nothing when empty).
	Decode(raw string) []string
	// Encode turns a selection back into the stored string.
	Encode(selected []string) string
	Checks() Checks
}

var allChecks = Checks{Required: true, MinLength: true, MaxLength: true}

// Text covers the single-line family (text, email, tel, date). InputType is
// the HTML input type to emit.
type Text struct {
	InputType string
}

func (k Text) Name() string {
	if k.InputType == "" {
		return string(model.FieldTypeText)
	}
	return k.InputType
}

func (Text) Shape() InputShape { return ShapeSingleLine }
func (Text) Decode(raw string) []string { return single(raw) }
func (Text) Encode(selected []string) string { return first(selected) }
func (Text) Checks() Checks { return allChecks }

// Textarea is a multi-line free text input.
type Textarea struct{}

func (Textarea) Name() string { return string(model.FieldTypeTextarea) }
func (Textarea) Shape() InputShape { return ShapeMultiLine }
func (Textarea) Decode(raw string) []string { return single(raw) }
func (Textarea) Encode(selected []string) string { return first(selected) }
func (Textarea) Checks() Checks { return allChecks }

// Dropdown stores the value of the single selected option.
type Dropdown struct{}

func (Dropdown) Name() string { return string(model.FieldTypeDropdown) }
func (Dropdown) Shape() InputShape { return ShapeSingleSelect }
func (Dropdown) Decode(raw string) []string { return single(raw) }
func (Dropdown) Encode(selected []string) string { return first(selected) }
func (Dropdown) Checks() Checks { return allChecks }

// Radio is a mutually exclusive single select.
type Radio struct{}

func (Radio) Name() string { return string(model.FieldTypeRadio) }
func (Radio) Shape() InputShape { return ShapeExclusiveSelect }
func (Radio) Decode(raw string) []string { return single(raw) }
func (Radio) Encode(selected []string) string { return first(selected) }
func (Radio) Checks() Checks { return allChecks }

// Checkbox is an independent multi select. Selections are stored comma-joined
// in the order they were made. Length rules apply to the encoded string.
type Checkbox struct{}

func (Checkbox) Name() string { return string(model.FieldTypeCheckbox) }
func (Checkbox) Shape() InputShape { return ShapeMultiSelect }
func (Checkbox) Checks() Checks { return allChecks }

func (Checkbox) Decode(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func (Checkbox) Encode(selected []string) string {
	out := make([]string, 0, len(selected))
	for _, value := range selected {
		if value == "" {
			continue
		}
		out = append(out, value)
	}
	return strings.Join(out, ",")
}

// Toggle flips option in the encoded selection: a selected option is removed,
// an unselected one is appended.
func (c Checkbox) Toggle(encoded, option string) string {
	selected := c.Decode(encoded)
	out := make([]string, 0, len(selected)+1)
	found := false
	for _, value := range selected {
		if value == option {
			found = true
			continue
		}
		out = append(out, value)
	}
	if !found {
		out = append(out, option)
	}
	return c.Encode(out)
}

// Contains reports whether option is part of the encoded selection.
func (c Checkbox) Contains(encoded, option string) bool {
	for _, value := range c.Decode(encoded) {
		if value == option {
			return true
		}
	}
	return false
}

func single(raw string) []string {
	if raw == "" {
		return nil
	}
	return []string{raw}
}

func first(selected []string) string {
	if len(selected) == 0 {
		return ""
	}
	return selected[0]
}

// OrderedSelection returns chosen with the values of previous first, in their
// original order, followed by new picks. Front ends that submit a whole
// selection at once use it to keep selection order stable.
func OrderedSelection(previous, chosen []string) []string {
	out := make([]string, 0, len(chosen))
	for _, value := range previous {
		if containsValue(chosen, value) && !containsValue(out, value) {
			out = append(out, value)
		}
	}
	for _, value := range chosen {
		if !containsValue(out, value) {
			out = append(out, value)
		}
	}
	return out
}

func containsValue(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
