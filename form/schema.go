// Package form binds string-valued form state to typed request payloads.
package form

import (
	"time"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

var nowFunc = time.Now // mockable

// Kind is the input type of a field.
type Kind int

const (
	Text Kind = iota
	Number
	Integer
	Date
	Email
	Bool
	Select
)

var kindNames = map[Kind]string{
	Text:    "text",
	Number:  "number",
	Integer: "integer",
	Date:    "date",
	Email:   "email",
	Bool:    "bool",
	Select:  "select",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	s = core.CleanString(s, true)
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return Text, false
}

func (k Kind) numeric() bool { return k == Number || k == Integer }

// Field describes one input of a form.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	Options  []string // Select only
	Default  func() string

	// ServerAssigned fields (createdAt, computed totals...) are displayed but never sent.
	ServerAssigned bool
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func (f Field) defaultValue() string {
	if f.Default == nil {
		return ""
	}
	return f.Default()
}

// Schema is the ordered list of fields of a form.
type Schema []Field

func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Names returns the field names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for _, f := range s {
		names = append(names, f.Name)
	}
	return names
}

// Editable returns the fields a user may fill in.
func (s Schema) Editable() Schema {
	fields := make(Schema, 0, len(s))
	for _, f := range s {
		if !f.ServerAssigned {
			fields = append(fields, f)
		}
	}
	return fields
}

// Value is a constant default.
func Value(v string) func() string {
	return func() string { return v }
}

// Today is a computed default: the current date.
func Today() string {
	return nowFunc().Format(core.DateLayout)
}
