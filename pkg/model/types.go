package model

import internalmodel "github.com/goliatone/go-formfill/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeText     = internalmodel.FieldTypeText
	FieldTypeEmail    = internalmodel.FieldTypeEmail
	FieldTypeTel      = internalmodel.FieldTypeTel
	FieldTypeDate     = internalmodel.FieldTypeDate
	FieldTypeTextarea = internalmodel.FieldTypeTextarea
	FieldTypeDropdown = internalmodel.FieldTypeDropdown
	FieldTypeRadio    = internalmodel.FieldTypeRadio
	FieldTypeCheckbox = internalmodel.FieldTypeCheckbox
)

// FieldTypes lists every supported field type.
var FieldTypes = internalmodel.FieldTypes

type FieldOption = internalmodel.FieldOption
type FormField = internalmodel.FormField
type FormSection = internalmodel.FormSection
type FormDefinition = internalmodel.FormDefinition
type UserIdentity = internalmodel.UserIdentity
type FilledData = internalmodel.FilledData

// IntPtr returns a pointer to v, handy for MinLength/MaxLength literals.
func IntPtr(v int) *int {
	return internalmodel.IntPtr(v)
}
