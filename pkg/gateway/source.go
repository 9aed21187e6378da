package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formfill/pkg/model"
)

// FileSource serves a definition from a local JSON or YAML file. The file may
// hold the get-form envelope ({message, form}) or a bare definition. The
// roll number is only checked for presence.
type FileSource struct {
	fsys fs.FS
	path string
}

var _ FormSource = (*FileSource)(nil)

// NewFileSource reads path from the operating system.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// NewFSSource reads path from fsys.
func NewFSSource(fsys fs.FS, path string) *FileSource {
	return &FileSource{fsys: fsys, path: path}
}

func (s *FileSource) FetchForm(ctx context.Context, rollNumber string) (FormResponse, error) {
	if rollNumber == "" {
		return FormResponse{}, ErrEmptyRollNumber
	}
	if err := ctx.Err(); err != nil {
		return FormResponse{}, err
	}

	data, err := s.read()
	if err != nil {
		return FormResponse{}, fmt.Errorf("gateway: read form %s: %w", s.path, err)
	}
	resp, err := ParseFormResponse(data, s.path)
	if err != nil {
		return FormResponse{}, err
	}
	if resp.Message == "" {
		resp.Message = fmt.Sprintf("Form loaded from %s", filepath.Base(s.path))
	}
	return resp, nil
}

func (s *FileSource) read() ([]byte, error) {
	if s.path == "" {
		return nil, fmt.Errorf("file path is required")
	}
	if s.fsys != nil {
		return fs.ReadFile(s.fsys, s.path)
	}
	return os.ReadFile(s.path)
}

type envelopeProbe struct {
	Message string                `json:"message" yaml:"message"`
	Form    *model.FormDefinition `json:"form" yaml:"form"`
}

// ParseFormResponse decodes JSON or YAML, accepting either the envelope or a
// bare definition, and validates the definition.
func ParseFormResponse(data []byte, source string) (FormResponse, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return FormResponse{}, fmt.Errorf("gateway: form %s is empty", source)
	}

	unmarshal := yaml.Unmarshal
	if json.Valid(data) {
		unmarshal = json.Unmarshal
	}

	var probe envelopeProbe
	if err := unmarshal(data, &probe); err != nil {
		return FormResponse{}, fmt.Errorf("gateway: parse form %s: %w", source, err)
	}

	resp := FormResponse{Message: probe.Message}
	if probe.Form != nil {
		resp.Form = *probe.Form
	} else if err := unmarshal(data, &resp.Form); err != nil {
		return FormResponse{}, fmt.Errorf("gateway: parse form %s: %w", source, err)
	}

	if err := resp.Form.Validate(); err != nil {
		return FormResponse{}, fmt.Errorf("gateway: form %s: %w", source, err)
	}
	return resp, nil
}
