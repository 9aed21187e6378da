package model

import (
	"errors"
	"fmt"
	"strings"
)

// Validate performs structural checks on a freshly loaded definition. All
// problems are reported together so authors can fix a document in one pass.
func (d FormDefinition) Validate() error {
	var errs []error
	seen := make(map[string]string)

	for sIdx, section := range d.Sections {
		for fIdx, field := range section.Fields {
			where := fmt.Sprintf("sections[%d].fields[%d]", sIdx, fIdx)

			id := field.FieldID
			if strings.TrimSpace(id) == "" {
				errs = append(errs, fmt.Errorf("%s: fieldId is required", where))
			} else if strings.TrimSpace(id) != id {
				errs = append(errs, fmt.Errorf("%s: fieldId %q has surrounding whitespace", where, id))
			} else if prev, dup := seen[id]; dup {
				errs = append(errs, fmt.Errorf("%s: duplicate fieldId %q (first declared at %s)", where, id, prev))
			} else {
				seen[id] = where
			}

			if !field.Type.Known() {
				errs = append(errs, fmt.Errorf("%s: unsupported type %q", where, field.Type))
			}
			if field.Type.HasOptions() && len(field.Options) == 0 {
				errs = append(errs, fmt.Errorf("%s: type %q requires options", where, field.Type))
			}
			if field.MinLength != nil && field.MaxLength != nil && *field.MinLength > *field.MaxLength {
				errs = append(errs, fmt.Errorf("%s: minLength %d exceeds maxLength %d", where, *field.MinLength, *field.MaxLength))
			}
		}
	}

	return errors.Join(errs...)
}
