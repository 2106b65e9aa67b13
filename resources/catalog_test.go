package resources

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dahire100/FrontierLMS-sub005/client"
	"github.com/Dahire100/FrontierLMS-sub005/form"
)

// A filter value of "all" means no constraint, so no option a record can hold may be spelled that way.
func TestDefinitions_filterOptionsAreQueryable(t *testing.T) {
	for _, def := range Default().All() {
		for _, name := range def.Filters {
			f, ok := def.Schema.Field(name)
			if !ok || f.Kind != form.Select {
				continue
			}
			for _, opt := range f.Options {
				assert.NotEqual(t, client.AllValue, opt, "%s.%s", def.Name, name)
			}
			if f.Default != nil {
				assert.NotEqual(t, client.AllValue, f.Default(), "%s.%s default", def.Name, name)
			}
		}
	}
}

func TestAnnouncements_audienceFilter(t *testing.T) {
	def, err := Default().Lookup("announcements")
	require.NoError(t, err)

	f := form.New(def.Schema)
	assert.Equal(t, "everyone", f.Get("audience"))

	query := client.BuildQuery(client.FilterState{"audience": f.Get("audience")})
	assert.Equal(t, map[string]string{"audience": "everyone"}, query)
}

func TestCatalog_Lookup(t *testing.T) {
	c := Default()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr string
	}{
		{name: "by name", in: "students", want: "students"},
		{name: "case and spaces", in: "  Fee-Receipts ", want: "fee-receipts"},
		{name: "by endpoint", in: "/api/students", want: "students"},
		{name: "suggestion", in: "studnets", wantErr: `"studnets" (did you mean "students"?): unknown resource`},
		{name: "no suggestion", in: "zzz", wantErr: `"zzz": unknown resource`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := c.Lookup(tt.in)
			if tt.wantErr != "" {
				assert.Equal(t, ErrUnknownResource, errors.Cause(err))
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, def.Name)
		})
	}
}

func TestDefinition_View(t *testing.T) {
	def, err := Default().Lookup("library-books")
	require.NoError(t, err)
	assert.Equal(t, "Library books", def.View(def.Store(nil).Snapshot()).Title)
}
