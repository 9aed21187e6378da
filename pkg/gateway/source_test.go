package gateway_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formfill/pkg/gateway"
	"github.com/goliatone/go-formfill/pkg/model"
)

func TestFileSourceYAMLEnvelope(t *testing.T) {
	resp, err := gateway.NewFileSource("testdata/survey.yaml").FetchForm(context.Background(), "r1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if resp.Message != "Form fetched" || resp.Form.SectionCount() != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	field, ok := resp.Form.Field("q1")
	if !ok || field.MinLength == nil || *field.MinLength != 2 {
		t.Fatalf("q1: %+v", field)
	}
	langs, _ := resp.Form.Field("langs")
	if langs.Type != model.FieldTypeCheckbox || len(langs.Options) != 2 {
		t.Fatalf("langs: %+v", langs)
	}
}

func TestFileSourceBareJSON(t *testing.T) {
	resp, err := gateway.NewFileSource("testdata/bare.json").FetchForm(context.Background(), "r1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if resp.Form.FormTitle != "Bare" || resp.Message != "Form loaded from bare.json" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestFSSourceErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"empty.yaml": {Data: []byte("   ")},
		"bad.yaml":   {Data: []byte("sections:\n  - fields:\n      - fieldId: a\n        type: slider\n")},
	}
	ctx := context.Background()

	if _, err := gateway.NewFSSource(fsys, "missing.yaml").FetchForm(ctx, "r1"); err == nil {
		t.Fatalf("expected missing file error")
	}
	if _, err := gateway.NewFSSource(fsys, "empty.yaml").FetchForm(ctx, "r1"); err == nil {
		t.Fatalf("expected empty file error")
	}
	if _, err := gateway.NewFSSource(fsys, "bad.yaml").FetchForm(ctx, "r1"); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := gateway.NewFSSource(fsys, "bad.yaml").FetchForm(ctx, ""); !errors.Is(err, gateway.ErrEmptyRollNumber) {
		t.Fatalf("expected ErrEmptyRollNumber, got %v", err)
	}
}
