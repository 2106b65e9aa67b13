package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildQuery(t *testing.T) {
	date := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		filters FilterState
		want    map[string]string
	}{
		{name: "nil state", want: map[string]string{}},
		{
			name:    "all unconstrained",
			filters: FilterState{"class": "all", "section": "", "status": nil, "house": " ALL "},
			want:    map[string]string{},
		},
		{
			name:    "mixed",
			filters: FilterState{"class": "10", "section": "all", "search": "  ann "},
			want:    map[string]string{"class": "10", "search": "ann"},
		},
		{
			name:    "typed values",
			filters: FilterState{"active": true, "minAmount": float64(500), "page": 2, "date": date, "ids": []string{"a", "b"}},
			want:    map[string]string{"active": "true", "minAmount": "500", "page": "2", "date": "2024-03-09", "ids": "a,b"},
		},
		{name: "blank key", filters: FilterState{" ": "x"}, want: map[string]string{}},
		{name: "all is not a substring match", filters: FilterState{"name": "allan"}, want: map[string]string{"name": "allan"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildQuery(tt.filters))
		})
	}
}

func TestEncodeQuery(t *testing.T) {
	if got := EncodeQuery(nil); got != "" {
		t.Errorf("EncodeQuery(nil) = %q, want empty", got)
	}
	got := EncodeQuery(map[string]string{"section": "B", "class": "10", "q": "a b"})
	if want := "class=10&q=a+b&section=B"; got != want {
		t.Errorf("EncodeQuery() = %q, want %q", got, want)
	}
}

func TestFilterState_Clone(t *testing.T) {
	fs := FilterState{"class": "10"}
	c := fs.Clone()
	c["class"] = "11"
	assert.Equal(t, "10", fs["class"])
	assert.Nil(t, FilterState(nil).Clone())
}
