// Package model defines the form definition types fetched from the remote
// form endpoint (FormDefinition → FormSection → FormField), the user identity
// persisted by the session store, and FilledData, the values a user has
// entered keyed by field id. Types live in internal/model and are re-exported
// here so the JSON/YAML wire shape stays in one place. Checkbox values in
// FilledData are comma-joined option values in selection order; every other
// field stores its raw string value.
package model
