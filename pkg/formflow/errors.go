package formflow

import "errors"

var (
	ErrEmptyDefinition = errors.New("formflow: definition has no sections")
	ErrNotLastSection  = errors.New("formflow: submit is only available on the last section")
	ErrSubmitted       = errors.New("formflow: form already submitted")
	ErrUnknownField    = errors.New("formflow: unknown field")
	ErrNotMultiSelect  = errors.New("formflow: field is not a multi-select")
)
