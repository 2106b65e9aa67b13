package form

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

// ErrUnknownField is returned by Set for a name the schema does not declare.
var ErrUnknownField = errors.New("unknown field")

// Form is the controlled state of one form: a string value per schema field.
type Form struct {
	mu     sync.RWMutex
	schema Schema
	values map[string]string
}

// New returns a form holding the schema's defaults.
func New(schema Schema) *Form {
	f := &Form{schema: schema}
	f.Reset()
	return f
}

func (f *Form) Schema() Schema { return f.schema }

func (f *Form) Set(name, value string) error {
	if _, ok := f.schema.Field(name); !ok {
		return errors.Wrap(ErrUnknownField, name)
	}
	f.mu.Lock()
	f.values[name] = value
	f.mu.Unlock()
	return nil
}

// SetAll sets several values, stopping at the first unknown field.
func (f *Form) SetAll(values map[string]string) error {
	for name, v := range values {
		if err := f.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

func (f *Form) Get(name string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.values[name]
}

// Values returns a copy of the current state.
func (f *Form) Values() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	vals := make(map[string]string, len(f.values))
	for k, v := range f.values {
		vals[k] = v
	}
	return vals
}

// Load fills the form from an existing record (edit mode).
func (f *Form) Load(rec core.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, fld := range f.schema {
		if v, ok := rec[fld.Name]; ok {
			f.values[fld.Name] = core.FormatValue(v)
		}
	}
}

// Reset restores the declared defaults. Computed defaults are evaluated now.
func (f *Form) Reset() {
	vals := make(map[string]string, len(f.schema))
	for _, fld := range f.schema {
		vals[fld.Name] = fld.defaultValue()
	}
	f.mu.Lock()
	f.values = vals
	f.mu.Unlock()
}

// Bind validates the current state.
func (f *Form) Bind() Result {
	return Bind(f.schema, f.Values())
}
