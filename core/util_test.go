package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "500", want: 500},
		{in: "-12.5", want: -12.5},
		{in: "+3", want: 3},
		{in: "1e3", want: 1000},
		{in: ".5", want: 0.5},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "NaN", wantErr: true},
		{in: "nan", wantErr: true},
		{in: "Inf", wantErr: true},
		{in: "-infinity", wantErr: true},
		{in: "1e999", wantErr: true},
		{in: "0x1p4", wantErr: true},
		{in: "1_000", wantErr: true},
		{in: "1 000", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNumber(tt.in)
			if tt.wantErr {
				assert.Error(t, err, "got %v", got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecord_Float(t *testing.T) {
	rec := Record{"a": float64(2), "b": " 7 ", "c": "NaN", "d": "Inf", "e": 3, "f": true}

	tests := []struct {
		key    string
		want   float64
		wantOk bool
	}{
		{key: "a", want: 2, wantOk: true},
		{key: "b", want: 7, wantOk: true},
		{key: "c"},
		{key: "d"},
		{key: "e", want: 3, wantOk: true},
		{key: "f"},
		{key: "missing"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := rec.Float(tt.key)
			assert.Equal(t, tt.wantOk, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"students":  "Students",
		"état":      "État",
		"ümit":      "Ümit",
		"1st class": "1st class",
	}
	for in, want := range tests {
		assert.Equal(t, want, Capitalize(in), in)
	}
}
