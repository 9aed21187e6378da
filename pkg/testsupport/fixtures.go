package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formfill/pkg/gateway"
	"github.com/goliatone/go-formfill/pkg/model"
)

// SampleDefinition returns a two-section form covering every field type. The
// first section holds the single-line and multi-line kinds, the second the
// option kinds.
func SampleDefinition() model.FormDefinition {
	return model.FormDefinition{
		FormTitle: "Student Survey",
		Version:   "1.0",
		Sections: []model.FormSection{
			{
				Title:       "About you",
				Description: "Tell us <em>who</em> you are.",
				Fields: []model.FormField{
					{FieldID: "name", Label: "Full name", Type: model.FieldTypeText, Required: true, MinLength: model.IntPtr(2), MaxLength: model.IntPtr(40), Placeholder: "Ada Lovelace", DataTestID: "name-input"},
					{FieldID: "email", Label: "Email", Type: model.FieldTypeEmail, Required: true, DataTestID: "email-input"},
					{FieldID: "phone", Label: "Phone", Type: model.FieldTypeTel},
					{FieldID: "dob", Label: "Date of birth", Type: model.FieldTypeDate},
					{FieldID: "bio", Label: "Bio", Type: model.FieldTypeTextarea, MaxLength: model.IntPtr(200)},
				},
			},
			{
				Title:       "Preferences",
				Description: "Pick what applies.",
				Fields: []model.FormField{
					{FieldID: "dept", Label: "Department", Type: model.FieldTypeDropdown, Required: true, Options: []model.FieldOption{
						{Value: "cse", Label: "Computer Science"}, {Value: "ece", Label: "Electronics"},
					}},
					{FieldID: "year", Label: "Year", Type: model.FieldTypeRadio, Options: []model.FieldOption{
						{Value: "1", Label: "First"}, {Value: "2", Label: "Second"},
					}},
					{FieldID: "langs", Label: "Languages", Type: model.FieldTypeCheckbox, Required: true, Options: []model.FieldOption{
						{Value: "go", Label: "Go"}, {Value: "ts", Label: "TypeScript"}, {Value: "py", Label: "Python"},
					}},
				},
			},
		},
	}
}

// LoadDefinition reads a JSON or YAML fixture (envelope or bare definition).
func LoadDefinition(t *testing.T, path string) model.FormDefinition {
	t.Helper()

	def, err := LoadDefinitionFromPath(path)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LoadDefinitionFromPath is LoadDefinition without a *testing.T.
func LoadDefinitionFromPath(path string) (model.FormDefinition, error) {
	if path == "" {
		return model.FormDefinition{}, errors.New("testsupport: definition path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormDefinition{}, fmt.Errorf("testsupport: read definition: %w", err)
	}
	resp, err := gateway.ParseFormResponse(data, path)
	if err != nil {
		return model.FormDefinition{}, fmt.Errorf("testsupport: parse definition: %w", err)
	}
	return resp.Form, nil
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
