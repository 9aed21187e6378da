package model

import (
	"strings"
	"testing"
)

func TestFormDefinitionValidate(t *testing.T) {
	valid := FormDefinition{
		FormTitle: "Student Survey",
		Version:   "1.0",
		Sections: []FormSection{
			{
				Title: "About you",
				Fields: []FormField{
					{FieldID: "name", Label: "Name", Type: FieldTypeText, MinLength: IntPtr(2), MaxLength: IntPtr(10)},
					{FieldID: "dept", Label: "Dept", Type: FieldTypeDropdown, Options: []FieldOption{{Value: "cse", Label: "CSE"}}},
				},
			},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid definition, got %v", err)
	}

	invalid := FormDefinition{
		Sections: []FormSection{
			{Fields: []FormField{
				{FieldID: "a", Type: FieldTypeText},
				{FieldID: "a", Type: FieldTypeText},
				{FieldID: "", Type: "slider"},
				{FieldID: "b", Type: FieldTypeRadio},
				{FieldID: "c", Type: FieldTypeText, MinLength: IntPtr(5), MaxLength: IntPtr(1)},
				{FieldID: "q1 ", Type: FieldTypeText, Required: true},
			}},
		},
	}
	err := invalid.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, fragment := range []string{
		`duplicate fieldId "a"`,
		"fieldId is required",
		`unsupported type "slider"`,
		`type "radio" requires options`,
		"minLength 5 exceeds maxLength 1",
		`fieldId "q1 " has surrounding whitespace`,
	} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("error %q missing %q", err.Error(), fragment)
		}
	}
}

func TestFormDefinitionField(t *testing.T) {
	def := FormDefinition{Sections: []FormSection{
		{Fields: []FormField{{FieldID: "q1", Label: "Q1"}}},
		{Fields: []FormField{{FieldID: "q2", Label: "Q2"}}},
	}}
	field, ok := def.Field("q2")
	if !ok || field.Label != "Q2" {
		t.Fatalf("lookup q2: got %+v ok=%v", field, ok)
	}
	if _, ok := def.Field(" q2"); ok {
		t.Fatalf("lookup must match the declared id exactly")
	}
	if _, ok := def.Field("missing"); ok {
		t.Fatalf("expected missing field lookup to fail")
	}
	if def.SectionCount() != 2 {
		t.Fatalf("section count: got %d", def.SectionCount())
	}
}

func TestUserIdentityAndFilledData(t *testing.T) {
	if !(UserIdentity{}).IsZero() {
		t.Fatalf("empty identity should be zero")
	}
	if (UserIdentity{RollNumber: "r1"}).Complete() {
		t.Fatalf("partial identity should not be complete")
	}

	var data FilledData
	if data.Get("x") != "" {
		t.Fatalf("nil data should read empty")
	}
	data = FilledData{"x": "1"}
	clone := data.Clone()
	clone["x"] = "2"
	if data.Get("x") != "1" {
		t.Fatalf("clone mutated original")
	}
}
