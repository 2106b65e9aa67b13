// Package resources declares every admin page of the console: the endpoint it talks to,
// the form it submits and the columns it shows.
package resources

import (
	"fmt"
	"io/ioutil"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	"github.com/Dahire100/FrontierLMS-sub005/client"
	"github.com/Dahire100/FrontierLMS-sub005/core"
	"github.com/Dahire100/FrontierLMS-sub005/core/collection"
	"github.com/Dahire100/FrontierLMS-sub005/form"
	"github.com/Dahire100/FrontierLMS-sub005/store"
	"github.com/Dahire100/FrontierLMS-sub005/table"
)

// ErrUnknownResource is returned by Lookup, wrapped with a suggestion when one is close enough.
var ErrUnknownResource = errors.New("unknown resource")

const suggestionRatio = 0.6

type Definition struct {
	Name     string
	Title    string
	Endpoint string
	IDField  string          // core.IDField unless the backend uses core.LegacyIDField
	Envelope client.Envelope // list envelope the backend answers with
	Schema   form.Schema
	Columns  []table.Column
	Filters  []string // query parameters the list endpoint understands

	Reconcile store.ReconcileMode
	Compute   collection.ComputeFunc // server-side derived fields
}

func (d Definition) idField() string {
	if d.IDField == "" {
		return core.IDField
	}
	return d.IDField
}

func (d Definition) Resource() store.Resource {
	return store.Resource{
		Name:      d.Name,
		Title:     d.Title,
		Endpoint:  d.Endpoint,
		Schema:    d.Schema,
		Reconcile: d.Reconcile,
	}
}

func (d Definition) Store(api store.API, opts ...store.Option) *store.Store {
	return store.New(d.Resource(), api, opts...)
}

// Collection describes the resource to the reference backend.
func (d Definition) Collection() collection.Collection {
	var required, numeric []string
	for _, f := range d.Schema {
		if f.ServerAssigned {
			continue
		}
		if f.Required {
			required = append(required, f.Name)
		}
		if f.Kind == form.Number || f.Kind == form.Integer {
			numeric = append(numeric, f.Name)
		}
	}
	return collection.Collection{
		Name:     d.Name,
		Endpoint: d.Endpoint,
		IDField:  d.idField(),
		Required: required,
		Numeric:  numeric,
		Filters:  d.Filters,
		Compute:  d.Compute,
	}
}

// View builds a table view of the store's current state.
func (d Definition) View(st store.CollectionState) *table.View {
	return &table.View{
		Title:   core.Capitalize(d.Title),
		Columns: d.Columns,
		Data:    st.Items,
		Loading: st.Loading,
	}
}

// Catalog is the set of known resources.
type Catalog struct {
	defs  map[string]Definition
	order []string
}

func NewCatalog(defs ...Definition) *Catalog {
	c := &Catalog{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if _, dup := c.defs[d.Name]; !dup {
			c.order = append(c.order, d.Name)
		}
		c.defs[d.Name] = d
	}
	return c
}

// Default returns the catalog of every admin page.
func Default() *Catalog {
	return NewCatalog(definitions()...)
}

// All returns the definitions in declaration order.
func (c *Catalog) All() []Definition {
	defs := make([]Definition, 0, len(c.order))
	for _, name := range c.order {
		defs = append(defs, c.defs[name])
	}
	return defs
}

// Collections describes every resource to the reference backend.
func (c *Catalog) Collections() []collection.Collection {
	cols := make([]collection.Collection, 0, len(c.order))
	for _, d := range c.All() {
		cols = append(cols, d.Collection())
	}
	return cols
}

func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Lookup finds a definition by name, or by endpoint.
func (c *Catalog) Lookup(name string) (Definition, error) {
	name = core.CleanString(name, true)
	if d, ok := c.defs[name]; ok {
		return d, nil
	}
	for _, d := range c.defs {
		if d.Endpoint == name {
			return d, nil
		}
	}
	if s := c.suggest(name); s != "" {
		return Definition{}, errors.Wrapf(ErrUnknownResource, "%q (did you mean %q?)", name, s)
	}
	return Definition{}, errors.Wrapf(ErrUnknownResource, "%q", name)
}

func (c *Catalog) suggest(name string) string {
	var (
		best      string
		bestRatio float64
	)
	names := c.Names()
	sort.Strings(names)
	for _, candidate := range names {
		m := difflib.NewMatcher(splitChars(name), splitChars(candidate))
		if r := m.Ratio(); r > bestRatio {
			best, bestRatio = candidate, r
		}
	}
	if bestRatio < suggestionRatio {
		return ""
	}
	return best
}

func splitChars(s string) []string {
	return strings.Split(s, "")
}

// Override replaces deployment-specific parts of a definition.
type Override struct {
	Title     string   `yaml:"title"`
	Endpoint  string   `yaml:"endpoint"`
	IDField   string   `yaml:"idField"`
	Envelope  string   `yaml:"envelope"`
	Reconcile string   `yaml:"reconcile"`
	Filters   []string `yaml:"filters"`
}

// LoadOverrides applies a YAML file of the form:
//
//	fee-discounts:
//	  endpoint: /api/v2/fees/discounts
//	  envelope: success
func (c *Catalog) LoadOverrides(path string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading catalog overrides")
	}
	overrides := make(map[string]Override)
	if err = yaml.Unmarshal(data, &overrides); err != nil {
		return errors.Wrap(err, "parsing catalog overrides")
	}
	return c.Apply(overrides)
}

// Apply overrides definitions by name. Every name must exist.
func (c *Catalog) Apply(overrides map[string]Override) error {
	for name, o := range overrides {
		d, ok := c.defs[name]
		if !ok {
			return errors.Wrapf(ErrUnknownResource, "%q", name)
		}
		if o.Title != "" {
			d.Title = o.Title
		}
		if o.Endpoint != "" {
			d.Endpoint = o.Endpoint
		}
		if o.IDField != "" {
			d.IDField = o.IDField
		}
		if o.Envelope != "" {
			env, err := ParseEnvelope(o.Envelope)
			if err != nil {
				return errors.Wrap(err, name)
			}
			d.Envelope = env
		}
		switch strings.ToLower(o.Reconcile) {
		case "":
		case "merge":
			d.Reconcile = store.ReconcileMerge
		case "reload":
			d.Reconcile = store.ReconcileReload
		default:
			return fmt.Errorf("%s: unknown reconcile mode %q", name, o.Reconcile)
		}
		if len(o.Filters) > 0 {
			d.Filters = o.Filters
		}
		c.defs[name] = d
	}
	return nil
}

// ParseEnvelope is the inverse of client.Envelope.String, for list envelopes.
func ParseEnvelope(s string) (client.Envelope, error) {
	for _, env := range []client.Envelope{client.EnvelopeArray, client.EnvelopeData, client.EnvelopeSuccess} {
		if strings.EqualFold(s, env.String()) {
			return env, nil
		}
	}
	return client.EnvelopeUnknown, fmt.Errorf("unknown envelope %q", s)
}
