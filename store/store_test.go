package store_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dahire100/FrontierLMS-sub005/client"
	"github.com/Dahire100/FrontierLMS-sub005/core"
	"github.com/Dahire100/FrontierLMS-sub005/form"
	"github.com/Dahire100/FrontierLMS-sub005/store"
)

var (
	yes = store.ConfirmFunc(func(string) bool { return true })
	no  = store.ConfirmFunc(func(string) bool { return false })

	discounts = store.Resource{
		Name:     "fee-discounts",
		Title:    "fee discounts",
		Endpoint: "/api/fees/discounts",
		Schema: form.Schema{
			{Name: "name", Required: true},
			{Name: "amount", Kind: form.Number, Required: true},
			{Name: "type", Kind: form.Select, Options: []string{"fixed", "percentage"}, Default: form.Value("fixed")},
		},
	}
)

// fakeAPI is an in-memory backend recording every call.
type fakeAPI struct {
	mu      sync.Mutex
	items   []core.Record
	calls   []string
	queries []map[string]string
	err     error // returned by every call when set
	block   chan struct{}
}

func (f *fakeAPI) record(call string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	err := f.err
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (f *fakeAPI) List(_ context.Context, _ string, query map[string]string) ([]core.Record, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	out := make([]core.Record, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it.Clone())
	}
	return out, nil
}

func (f *fakeAPI) Create(_ context.Context, _ string, body core.Record) (core.Record, error) {
	if err := f.record("create"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := body.Merge(core.Record{"id": "new", "createdAt": "2024-01-01"})
	f.items = append(f.items, rec)
	return rec.Clone(), nil
}

func (f *fakeAPI) Update(_ context.Context, _ string, id string, body core.Record) (core.Record, error) {
	if err := f.record("update"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.ID() == id {
			f.items[i] = it.Merge(body).Merge(core.Record{"updatedAt": "2024-02-02"})
			return f.items[i].Clone(), nil
		}
	}
	return nil, &core.HTTPError{Status: http.StatusNotFound}
}

func (f *fakeAPI) Remove(_ context.Context, _ string, id string) error {
	if err := f.record("remove"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	for _, it := range f.items {
		if it.ID() != id {
			kept = append(kept, it)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeAPI) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

type toasts struct {
	mu            sync.Mutex
	successes     []string
	errorMessages []string
}

func (t *toasts) Success(msg string) { t.mu.Lock(); t.successes = append(t.successes, msg); t.mu.Unlock() }
func (t *toasts) Error(msg string)   { t.mu.Lock(); t.errorMessages = append(t.errorMessages, msg); t.mu.Unlock() }

func seeded() *fakeAPI {
	return &fakeAPI{items: []core.Record{
		{"_id": "1", "name": "Sibling", "amount": float64(5000)},
		{"_id": "2", "name": "Merit", "amount": float64(2500)},
	}}
}

func TestStore_Load(t *testing.T) {
	ctx := context.Background()
	api := seeded()
	s := store.New(discounts, api)

	assert.Equal(t, store.StatusIdle, s.Snapshot().Status)

	require.NoError(t, s.Load(ctx, client.FilterState{"type": "all", "name": ""}))
	first := s.Items()
	require.NoError(t, s.Load(ctx, client.FilterState{"type": "all", "name": ""}))

	assert.Equal(t, first, s.Items(), "identical loads yield identical items")
	assert.Equal(t, []map[string]string{{}, {}}, api.queries)

	st := s.Snapshot()
	assert.Equal(t, store.StatusLoaded, st.Status)
	assert.False(t, st.Loading)
	assert.False(t, st.Fetching)
	assert.Empty(t, st.Error)

	// snapshots are copies
	st.Items[0] = core.Record{"_id": "lol"}
	assert.Equal(t, "1", s.Items()[0].ID())
}

func TestStore_LoadFlags(t *testing.T) {
	ctx := context.Background()
	api := seeded()
	s := store.New(discounts, api)

	api.block = make(chan struct{})
	done := make(chan error)
	go func() { done <- s.Load(ctx, nil) }()

	assert.Eventually(t, func() bool { return s.Snapshot().Loading }, waitFor, tick)
	assert.False(t, s.Snapshot().Fetching)
	close(api.block)
	require.NoError(t, <-done)

	api.block = make(chan struct{})
	go func() { done <- s.Load(ctx, nil) }()

	assert.Eventually(t, func() bool { return s.Snapshot().Fetching }, waitFor, tick)
	assert.False(t, s.Snapshot().Loading, "Loading is for the first load only")
	close(api.block)
	require.NoError(t, <-done)
}

func TestStore_LoadError(t *testing.T) {
	ctx := context.Background()
	api := seeded()
	notes := new(toasts)
	s := store.New(discounts, api, store.WithNotifier(notes))

	require.NoError(t, s.Load(ctx, nil))

	api.err = &core.HTTPError{Status: http.StatusInternalServerError}
	err := s.Load(ctx, nil)
	if !core.IsHTTPError(err, http.StatusInternalServerError) {
		t.Fatalf("Load() error = %v, want HTTPError 500", err)
	}

	st := s.Snapshot()
	assert.Len(t, st.Items, 2, "last known items are kept")
	assert.Equal(t, "Failed to load fee discounts", st.Error)
	assert.Equal(t, store.StatusLoadError, st.Status)
	assert.Equal(t, []string{"Failed to load fee discounts"}, notes.errorMessages)

	// a successful load clears the error
	api.err = nil
	require.NoError(t, s.Load(ctx, nil))
	assert.Empty(t, s.Snapshot().Error)
}

func TestStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("missing required field", func(t *testing.T) {
		api := seeded()
		s := store.New(discounts, api)
		f := form.New(discounts.Schema)
		_ = f.Set("amount", "100")

		_, err := s.Create(ctx, f)
		verr, ok := core.AsValidationError(err)
		require.True(t, ok, "want a ValidationError, got %v", err)
		assert.Equal(t, []string{"name"}, verr.FieldNames())
		assert.Zero(t, api.count("create"), "no request is made")
	})

	t.Run("invalid number", func(t *testing.T) {
		api := seeded()
		s := store.New(discounts, api)
		f := form.New(discounts.Schema)
		_ = f.Set("name", "x")
		_ = f.Set("amount", "abc")

		_, err := s.Create(ctx, f)
		verr, ok := core.AsValidationError(err)
		require.True(t, ok)
		fe, _ := verr.Field("amount")
		assert.Equal(t, form.CodeInvalidNumber, fe.Code)
		assert.Zero(t, api.count("create"))
	})

	t.Run("merge", func(t *testing.T) {
		api := seeded()
		notes := new(toasts)
		s := store.New(discounts, api, store.WithNotifier(notes))
		require.NoError(t, s.Load(ctx, nil))

		f := form.New(discounts.Schema)
		_ = f.Set("name", "Staff child")
		_ = f.Set("amount", "500")
		_ = f.Set("type", "percentage")

		rec, err := s.Create(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, float64(500), rec["amount"])
		assert.Equal(t, "2024-01-01", rec["createdAt"], "server response is canonical")

		items := s.Items()
		require.Len(t, items, 3)
		assert.Equal(t, "new", items[2].ID())
		assert.Equal(t, 1, api.count("list"), "merge does not reload")

		assert.Equal(t, "", f.Get("name"), "form is reset")
		assert.Equal(t, "fixed", f.Get("type"), "form is reset to its defaults")
		assert.Equal(t, []string{"Saved fee discounts"}, notes.successes)
		assert.Equal(t, store.StatusLoaded, s.Snapshot().Status)
	})

	t.Run("reload", func(t *testing.T) {
		api := seeded()
		res := discounts
		res.Reconcile = store.ReconcileReload
		s := store.New(res, api)
		require.NoError(t, s.Load(ctx, client.FilterState{"type": "fixed"}))

		f := form.New(res.Schema)
		_ = f.Set("name", "Staff child")
		_ = f.Set("amount", "500")
		_, err := s.Create(ctx, f)
		require.NoError(t, err)

		assert.Equal(t, 2, api.count("list"))
		assert.Equal(t, map[string]string{"type": "fixed"}, api.queries[1], "reload reuses the last filters")
		assert.Len(t, s.Items(), 3)
	})

	t.Run("server error", func(t *testing.T) {
		api := seeded()
		notes := new(toasts)
		s := store.New(discounts, api, store.WithNotifier(notes))
		require.NoError(t, s.Load(ctx, nil))

		api.err = &core.HTTPError{Status: http.StatusBadRequest, Message: "duplicate"}
		f := form.New(discounts.Schema)
		_ = f.Set("name", "Sibling")
		_ = f.Set("amount", "5")

		_, err := s.Create(ctx, f)
		assert.True(t, core.IsHTTPError(err, http.StatusBadRequest))
		assert.Equal(t, "Sibling", f.Get("name"), "form is kept for correction")

		st := s.Snapshot()
		assert.Len(t, st.Items, 2)
		assert.False(t, st.Submitting)
		assert.Equal(t, store.StatusSubmitError, st.Status)
		assert.Equal(t, "Failed to save fee discounts", st.Error)
		assert.Equal(t, []string{"Failed to save fee discounts"}, notes.errorMessages)
	})
}

func TestStore_Get(t *testing.T) {
	s := store.New(discounts, seeded())

	_, err := s.Get("2")
	assert.Equal(t, store.ErrNotFound, errors.Cause(err), "nothing loaded yet")

	require.NoError(t, s.Load(context.Background(), nil))
	rec, err := s.Get("2")
	require.NoError(t, err)
	assert.Equal(t, "Merit", rec["name"])

	_, err = s.Get("404")
	assert.Equal(t, store.ErrNotFound, errors.Cause(err))
	assert.EqualError(t, err, `fee-discounts "404": record not found`)
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	api := seeded()
	s := store.New(discounts, api)
	require.NoError(t, s.Load(ctx, nil))

	rec, _ := s.Find("2")
	f := form.New(discounts.Schema)
	f.Load(rec)
	_ = f.Set("amount", "3000")

	updated, err := s.Update(ctx, "2", f)
	require.NoError(t, err)
	assert.Equal(t, float64(3000), updated["amount"])

	got, ok := s.Find("2")
	require.True(t, ok)
	assert.Equal(t, float64(3000), got["amount"])
	assert.Equal(t, "2024-02-02", got["updatedAt"])
	assert.Equal(t, "Merit", got["name"])

	assert.Equal(t, "", f.Get("name"), "form is reset")

	f.Load(got)
	_, err = s.Update(ctx, "404", f)
	assert.Error(t, err)
	assert.Equal(t, "Failed to save fee discounts", s.Snapshot().Error)
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		confirm   store.Confirmer
		apiErr    error
		wantErr   error
		wantIDs   []string
		wantCalls int
		wantError string
	}{
		{name: "no confirmer", wantErr: store.ErrNotConfirmed, wantIDs: []string{"1", "2"}},
		{name: "declined", confirm: no, wantErr: store.ErrNotConfirmed, wantIDs: []string{"1", "2"}},
		{name: "confirmed", confirm: yes, wantIDs: []string{"2"}, wantCalls: 1},
		{
			name: "server error", confirm: yes, apiErr: &core.HTTPError{Status: http.StatusInternalServerError},
			wantIDs: []string{"1", "2"}, wantCalls: 1, wantError: "Failed to delete fee discounts",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := seeded()
			s := store.New(discounts, api)
			require.NoError(t, s.Load(ctx, nil))

			api.err = tt.apiErr
			err := s.Remove(ctx, "1", tt.confirm)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.apiErr != nil:
				assert.True(t, core.IsHTTPError(err), "got %v", err)
			default:
				assert.NoError(t, err)
			}

			ids := make([]string, 0)
			for _, it := range s.Items() {
				ids = append(ids, it.ID())
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantCalls, api.count("remove"))
			assert.Equal(t, tt.wantError, s.Snapshot().Error)
		})
	}
}

func TestStore_Busy(t *testing.T) {
	ctx := context.Background()
	api := seeded()
	s := store.New(discounts, api)
	require.NoError(t, s.Load(ctx, nil))

	api.block = make(chan struct{})
	done := make(chan error)
	go func() { done <- s.Remove(ctx, "1", yes) }()
	assert.Eventually(t, func() bool { return s.Snapshot().Submitting }, waitFor, tick)

	err := s.Remove(ctx, "2", yes)
	assert.Equal(t, store.ErrBusy, errors.Cause(err))

	close(api.block)
	require.NoError(t, <-done)
	assert.False(t, s.Snapshot().Submitting)
	assert.Equal(t, 1, api.count("remove"))
}

// the end-to-end fee discount scenario over HTTP, in each list envelope
func TestStore_feeDiscountsOverHTTP(t *testing.T) {
	envelopes := map[string]string{
		"array":   `[{"_id":"1","name":"Sibling","amount":5000}]`,
		"data":    `{"data":[{"_id":"1","name":"Sibling","amount":5000}]}`,
		"success": `{"success":true,"data":[{"_id":"1","name":"Sibling","amount":5000}]}`,
	}
	for name, listBody := range envelopes {
		t.Run(name, func(t *testing.T) {
			var deleted bool
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch {
				case r.Method == http.MethodGet && r.URL.Path == "/api/fees/discounts":
					if deleted {
						_, _ = w.Write([]byte(`[]`))
						return
					}
					_, _ = w.Write([]byte(listBody))
				case r.Method == http.MethodDelete && r.URL.Path == "/api/fees/discounts/1":
					deleted = true
					w.WriteHeader(http.StatusNoContent)
				default:
					w.WriteHeader(http.StatusNotFound)
				}
			}))
			defer srv.Close()

			s := store.New(discounts, client.New(srv.URL, client.WithTokenSource(client.StaticToken("t"))))
			ctx := context.Background()

			require.NoError(t, s.Load(ctx, nil))
			items := s.Items()
			require.Len(t, items, 1)
			assert.Equal(t, float64(5000), items[0]["amount"])

			require.NoError(t, s.Remove(ctx, "1", yes))
			assert.Empty(t, s.Items())

			require.NoError(t, s.Load(ctx, nil))
			assert.Empty(t, s.Items())
		})
	}
}

func TestStore_unsuccessfulEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.RawQuery, "fail=500") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"success":false,"error":"db down"}`))
	}))
	defer srv.Close()

	s := store.New(discounts, client.New(srv.URL))
	ctx := context.Background()

	err := s.Load(ctx, nil)
	assert.True(t, core.IsParseError(err), "got %v", err)
	assert.Empty(t, s.Items())
	assert.Equal(t, "Failed to load fee discounts", s.Snapshot().Error)

	err = s.Load(ctx, client.FilterState{"fail": "500"})
	assert.True(t, core.IsHTTPError(err, http.StatusInternalServerError), "got %v", err)
	assert.Empty(t, s.Items())
}
