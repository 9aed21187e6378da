package fields

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-formfill/pkg/model"
)

// Registry maps field types to their Kind. The set is closed in practice;
// the registry exists so front ends resolve kinds through one lookup instead
// of switching on the type string themselves.
type Registry struct {
	mu    sync.RWMutex
	kinds map[model.FieldType]Kind
}

// NewRegistry creates a registry with the built-in kinds registered.
func NewRegistry() *Registry {
	reg := &Registry{kinds: make(map[model.FieldType]Kind)}
	reg.registerBuiltins()
	return reg
}

func (r *Registry) registerBuiltins() {
	r.MustRegister(model.FieldTypeText, Text{InputType: "text"})
	r.MustRegister(model.FieldTypeEmail, Text{InputType: "email"})
	r.MustRegister(model.FieldTypeTel, Text{InputType: "tel"})
	r.MustRegister(model.FieldTypeDate, Text{InputType: "date"})
	r.MustRegister(model.FieldTypeTextarea, Textarea{})
	r.MustRegister(model.FieldTypeDropdown, Dropdown{})
	r.MustRegister(model.FieldTypeRadio, Radio{})
	r.MustRegister(model.FieldTypeCheckbox, Checkbox{})
}

// Register adds a kind for the field type. Duplicate types return an error.
func (r *Registry) Register(fieldType model.FieldType, kind Kind) error {
	if kind == nil {
		return fmt.Errorf("fields: kind is required")
	}
	if fieldType == "" {
		return fmt.Errorf("fields: field type is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[fieldType]; exists {
		return fmt.Errorf("fields: kind for %q already registered", fieldType)
	}
	r.kinds[fieldType] = kind
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(fieldType model.FieldType, kind Kind) {
	if err := r.Register(fieldType, kind); err != nil {
		panic(err)
	}
}

// Get returns the kind registered for fieldType.
func (r *Registry) Get(fieldType model.FieldType) (Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kind, ok := r.kinds[fieldType]
	return kind, ok
}

// For resolves the kind for a field. Unknown types return an error so callers
// can skip rendering the control, as the browser client did.
func (r *Registry) For(field model.FormField) (Kind, error) {
	kind, ok := r.Get(field.Type)
	if !ok {
		return nil, fmt.Errorf("fields: no kind registered for type %q (field %q)", field.Type, field.FieldID)
	}
	return kind, nil
}

// List returns the registered field types sorted by name.
func (r *Registry) List() []model.FieldType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.FieldType, 0, len(r.kinds))
	for t := range r.kinds {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var defaultRegistry = NewRegistry()

// Default returns the shared registry with the built-in kinds.
func Default() *Registry {
	return defaultRegistry
}
