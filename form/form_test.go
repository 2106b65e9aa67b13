package form

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

var feeSchema = Schema{
	{Name: "name", Label: "Discount Name", Required: true},
	{Name: "amount", Label: "Amount", Kind: Number, Required: true},
	{Name: "installments", Kind: Integer},
	{Name: "type", Kind: Select, Options: []string{"fixed", "percentage"}, Default: Value("fixed")},
	{Name: "validFrom", Kind: Date, Default: Today},
	{Name: "contact", Kind: Email},
	{Name: "active", Kind: Bool},
	{Name: "createdAt", Kind: Date, ServerAssigned: true},
}

func TestBind(t *testing.T) {
	tests := []struct {
		name        string
		values      map[string]string
		wantPayload core.Record
		wantErrors  map[string]string
		wantCodes   map[string]string
	}{
		{
			name:       "empty",
			values:     map[string]string{},
			wantErrors: map[string]string{"name": "this field is required", "amount": "this field is required"},
			wantCodes:  map[string]string{"name": CodeRequired, "amount": CodeRequired},
		},
		{
			name:        "numeric coercion",
			values:      map[string]string{"name": "Sibling", "amount": "500", "installments": "3"},
			wantPayload: core.Record{"name": "Sibling", "amount": float64(500), "installments": int64(3)},
		},
		{
			name:       "not a number",
			values:     map[string]string{"name": "Sibling", "amount": "abc"},
			wantErrors: map[string]string{"amount": "must be a valid number"},
			wantCodes:  map[string]string{"amount": CodeInvalidNumber},
		},
		{
			name:       "nan",
			values:     map[string]string{"name": "Sibling", "amount": "NaN", "installments": "nan"},
			wantErrors: map[string]string{"amount": "must be a valid number", "installments": "must be a valid number"},
			wantCodes:  map[string]string{"amount": CodeInvalidNumber, "installments": CodeInvalidNumber},
		},
		{
			name:       "infinity",
			values:     map[string]string{"name": "Sibling", "amount": "Inf", "installments": "-infinity"},
			wantErrors: map[string]string{"amount": "must be a valid number", "installments": "must be a valid number"},
			wantCodes:  map[string]string{"amount": CodeInvalidNumber, "installments": CodeInvalidNumber},
		},
		{
			name:       "overflow",
			values:     map[string]string{"name": "Sibling", "amount": "1e999"},
			wantErrors: map[string]string{"amount": "must be a valid number"},
			wantCodes:  map[string]string{"amount": CodeInvalidNumber},
		},
		{
			name:       "hex and separators",
			values:     map[string]string{"name": "Sibling", "amount": "0x1p4", "installments": "1_000"},
			wantErrors: map[string]string{"amount": "must be a valid number", "installments": "must be a valid number"},
			wantCodes:  map[string]string{"amount": CodeInvalidNumber, "installments": CodeInvalidNumber},
		},
		{
			name:        "exponent",
			values:      map[string]string{"name": "Sibling", "amount": "1.5e3", "installments": "-2"},
			wantPayload: core.Record{"name": "Sibling", "amount": float64(1500), "installments": int64(-2)},
		},
		{
			name:       "fractional integer",
			values:     map[string]string{"name": "x", "amount": "1", "installments": "2.5"},
			wantErrors: map[string]string{"installments": "must be a valid number"},
			wantCodes:  map[string]string{"installments": CodeInvalidNumber},
		},
		{
			name:        "whole float integer",
			values:      map[string]string{"name": "x", "amount": "1.5", "installments": "2.0"},
			wantPayload: core.Record{"name": "x", "amount": 1.5, "installments": int64(2)},
		},
		{
			name:       "blank required is whitespace",
			values:     map[string]string{"name": "   ", "amount": "10"},
			wantErrors: map[string]string{"name": "this field is required"},
			wantCodes:  map[string]string{"name": CodeRequired},
		},
		{
			name: "typed fields",
			values: map[string]string{
				"name": "x", "amount": "1", "type": "percentage", "validFrom": "2024-01-31",
				"contact": "bursar@school.test", "active": "yes",
			},
			wantPayload: core.Record{
				"name": "x", "amount": float64(1), "type": "percentage", "validFrom": "2024-01-31",
				"contact": "bursar@school.test", "active": true,
			},
		},
		{
			name:   "invalid typed fields",
			values: map[string]string{"name": "x", "amount": "1", "type": "lol", "validFrom": "31/01/2024", "contact": "nope", "active": "maybe"},
			wantErrors: map[string]string{
				"type":      "must be one of [fixed percentage]",
				"validFrom": "must be a date formatted as 2006-01-02",
				"contact":   "must be a valid email address",
				"active":    "must be yes or no",
			},
		},
		{
			name:        "server assigned fields are dropped",
			values:      map[string]string{"name": "x", "amount": "1", "createdAt": "2024-01-01"},
			wantPayload: core.Record{"name": "x", "amount": float64(1)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Bind(feeSchema, tt.values)
			if tt.wantErrors == nil {
				if !res.Valid {
					t.Fatalf("Bind() errors = %v", res.Errors)
				}
				assert.NoError(t, res.Err())
				assert.Equal(t, tt.wantPayload, res.Payload)
				return
			}

			assert.False(t, res.Valid)
			assert.Equal(t, tt.wantErrors, res.Errors)

			verr, ok := core.AsValidationError(res.Err())
			require.True(t, ok, "Err() should be a ValidationError")
			for field, code := range tt.wantCodes {
				fe, found := verr.Field(field)
				if assert.True(t, found, field) {
					assert.Equal(t, code, fe.Code)
				}
			}
		})
	}
}

func TestSelectWithSpacedOptions(t *testing.T) {
	schema := Schema{{Name: "class", Kind: Select, Options: []string{"Grade 9", "Grade 10"}}}

	assert.True(t, Bind(schema, map[string]string{"class": "Grade 10"}).Valid)

	res := Bind(schema, map[string]string{"class": "Grade 11"})
	assert.Equal(t, "must be one of [Grade 9, Grade 10]", res.Errors["class"])
}

func TestForm(t *testing.T) {
	nowFunc = func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = time.Now }()

	f := New(feeSchema)
	assert.Equal(t, "fixed", f.Get("type"))
	assert.Equal(t, "2024-05-01", f.Get("validFrom"))
	assert.Equal(t, "", f.Get("name"))

	require.NoError(t, f.Set("name", "Sibling"))
	require.NoError(t, f.Set("amount", "500"))
	if err := f.Set("lol", "x"); errors.Cause(err) != ErrUnknownField {
		t.Errorf("Set() error = %v, want %v", err, ErrUnknownField)
	}

	res := f.Bind()
	require.True(t, res.Valid, res.Errors)
	assert.Equal(t, float64(500), res.Payload["amount"])

	// computed defaults are evaluated at reset time
	nowFunc = func() time.Time { return time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC) }
	f.Reset()
	assert.Equal(t, "2024-05-02", f.Get("validFrom"))
	assert.Equal(t, "", f.Get("name"))

	f.Load(core.Record{"_id": "1", "name": "Merit", "amount": float64(250), "createdAt": "2024-01-01"})
	assert.Equal(t, "Merit", f.Get("name"))
	assert.Equal(t, "250", f.Get("amount"))
	assert.Equal(t, "2024-01-01", f.Get("createdAt"))
	_, hasID := f.Values()["_id"]
	assert.False(t, hasID)
}

func TestParseKind(t *testing.T) {
	for k := range kindNames {
		got, ok := ParseKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("lol")
	assert.False(t, ok)
}
