// Package store holds the client-side state of one collection: the loaded records, the
// loading/fetching/submitting flags and the last error. Mutations are reconciled with the
// server's response, which is the source of truth.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/Dahire100/FrontierLMS-sub005/client"
	"github.com/Dahire100/FrontierLMS-sub005/core"
	"github.com/Dahire100/FrontierLMS-sub005/form"
)

var (
	// ErrBusy is returned when a mutation is started while another one is in flight.
	ErrBusy = errors.New("a submission is already in progress")
	// ErrNotConfirmed is returned by Remove when the deletion was not confirmed.
	ErrNotConfirmed = errors.New("deletion not confirmed")
	// ErrNotFound is returned by Get for an id that is not loaded.
	ErrNotFound = errors.New("record not found")
)

type (
	// API is the subset of *client.Client a store needs.
	API interface {
		List(ctx context.Context, endpoint string, query map[string]string) ([]core.Record, error)
		Create(ctx context.Context, endpoint string, body core.Record) (core.Record, error)
		Update(ctx context.Context, endpoint, id string, body core.Record) (core.Record, error)
		Remove(ctx context.Context, endpoint, id string) error
	}

	// ReconcileMode is how local state catches up with a successful mutation.
	ReconcileMode int

	Resource struct {
		Name      string
		Title     string // human name used in messages, e.g. "fee discounts"
		Endpoint  string
		Schema    form.Schema
		Reconcile ReconcileMode
	}

	Status int

	CollectionState struct {
		Items      []core.Record
		Loading    bool // first load only
		Fetching   bool // later reloads
		Submitting bool
		Error      string
		Status     Status
	}

	// Notifier receives the user-facing outcome of every operation.
	Notifier interface {
		Success(msg string)
		Error(msg string)
	}

	// Confirmer asks the user to confirm a destructive action.
	Confirmer interface {
		Confirm(prompt string) bool
	}

	// ConfirmFunc adapts a function to Confirmer.
	ConfirmFunc func(prompt string) bool

	Option func(*Store)
)

const (
	ReconcileMerge ReconcileMode = iota
	ReconcileReload
)

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusLoadError
	StatusSubmitting
	StatusSubmitError
)

var statusNames = [...]string{"idle", "loading", "loaded", "load error", "submitting", "submit error"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

func (m ReconcileMode) String() string {
	if m == ReconcileReload {
		return "reload"
	}
	return "merge"
}

func (fn ConfirmFunc) Confirm(prompt string) bool { return fn(prompt) }

func WithLogger(logger core.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// Store is the state machine of one collection page. It is safe for concurrent use;
// the lock is never held across a request.
type Store struct {
	res      Resource
	api      API
	logger   core.Logger
	notifier Notifier

	mu      sync.Mutex
	state   CollectionState
	loaded  bool
	filters client.FilterState
}

func New(res Resource, api API, opts ...Option) *Store {
	if res.Title == "" {
		res.Title = strings.ReplaceAll(res.Name, "-", " ")
	}
	s := &Store{res: res, api: api, logger: core.NopLogger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Resource() Resource { return s.res }

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() CollectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Items = copyItems(s.state.Items)
	return st
}

func (s *Store) Items() []core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.state.Items)
}

// Find returns the loaded record with the given id.
func (s *Store) Find(id string) (core.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.state.Items[i].Clone(), true
	}
	return nil, false
}

// Get is Find with an error naming the missing record.
func (s *Store) Get(id string) (core.Record, error) {
	rec, ok := s.Find(id)
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%s %q", s.res.Name, id)
	}
	return rec, nil
}

// Filters returns the filters of the last load.
func (s *Store) Filters() client.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Clone()
}

// Load replaces the items with the server's list for the given filters.
// Concurrent loads are not ordered: the last response to arrive wins.
func (s *Store) Load(ctx context.Context, filters client.FilterState) error {
	s.mu.Lock()
	s.filters = filters.Clone()
	if s.loaded {
		s.state.Fetching = true
	} else {
		s.state.Loading = true
	}
	if !s.state.Submitting {
		s.state.Status = StatusLoading
	}
	s.mu.Unlock()

	items, err := s.api.List(ctx, s.res.Endpoint, client.BuildQuery(filters))

	s.mu.Lock()
	s.state.Loading = false
	s.state.Fetching = false
	if err != nil {
		msg := s.message("Failed to load")
		s.state.Error = msg
		if !s.state.Submitting {
			s.state.Status = StatusLoadError
		}
		s.mu.Unlock()
		s.failed(msg, err)
		return errors.Wrapf(err, "loading %s", s.res.Name)
	}
	if items == nil {
		items = []core.Record{}
	}
	s.state.Items = items
	s.state.Error = ""
	s.loaded = true
	if !s.state.Submitting {
		s.state.Status = StatusLoaded
	}
	s.mu.Unlock()
	return nil
}

// Reload repeats the last load.
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx, s.Filters())
}

// Create validates the form, posts it and reconciles. The form is reset on success only.
func (s *Store) Create(ctx context.Context, f *form.Form) (core.Record, error) {
	res := f.Bind()
	if err := res.Err(); err != nil {
		return nil, err
	}
	if err := s.begin(); err != nil {
		return nil, err
	}

	rec, err := s.api.Create(ctx, s.res.Endpoint, res.Payload)
	if err != nil {
		return nil, s.fail("Failed to save", err)
	}

	if s.res.Reconcile == ReconcileReload {
		s.finish()
		s.reload(ctx)
	} else {
		s.mu.Lock()
		s.state.Items = append(s.state.Items, rec)
		s.mu.Unlock()
		s.finish()
	}
	f.Reset()
	s.succeeded(s.message("Saved"))
	return rec, nil
}

// Update validates the form, puts it to the record with the given id and reconciles.
func (s *Store) Update(ctx context.Context, id string, f *form.Form) (core.Record, error) {
	res := f.Bind()
	if err := res.Err(); err != nil {
		return nil, err
	}
	if err := s.begin(); err != nil {
		return nil, err
	}

	rec, err := s.api.Update(ctx, s.res.Endpoint, id, res.Payload)
	if err != nil {
		return nil, s.fail("Failed to save", err)
	}

	if s.res.Reconcile == ReconcileReload {
		s.finish()
		s.reload(ctx)
	} else {
		s.mu.Lock()
		if i := s.indexOf(id); i >= 0 {
			s.state.Items[i] = s.state.Items[i].Merge(rec)
		}
		s.mu.Unlock()
		s.finish()
	}
	f.Reset()
	s.succeeded(s.message("Updated"))
	return rec, nil
}

// Remove deletes the record with the given id once confirm agrees. A nil confirmer never agrees.
func (s *Store) Remove(ctx context.Context, id string, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm(fmt.Sprintf("Delete this %s record?", s.singular())) {
		return ErrNotConfirmed
	}
	if err := s.begin(); err != nil {
		return err
	}

	if err := s.api.Remove(ctx, s.res.Endpoint, id); err != nil {
		return s.fail("Failed to delete", err)
	}

	s.mu.Lock()
	kept := s.state.Items[:0:0]
	for _, item := range s.state.Items {
		if item.ID() != id {
			kept = append(kept, item)
		}
	}
	s.state.Items = kept
	s.mu.Unlock()
	s.finish()
	s.succeeded(s.message("Deleted"))
	return nil
}

func (s *Store) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Submitting {
		return ErrBusy
	}
	s.state.Submitting = true
	s.state.Status = StatusSubmitting
	return nil
}

func (s *Store) finish() {
	s.mu.Lock()
	s.state.Submitting = false
	s.state.Error = ""
	s.state.Status = StatusLoaded
	s.mu.Unlock()
}

func (s *Store) fail(prefix string, err error) error {
	msg := s.message(prefix)
	s.mu.Lock()
	s.state.Submitting = false
	s.state.Error = msg
	s.state.Status = StatusSubmitError
	s.mu.Unlock()
	s.failed(msg, err)
	return errors.Wrapf(err, "%s %s", strings.ToLower(prefix), s.res.Name)
}

// reload follows a successful mutation; its failure is reported but does not undo the mutation.
func (s *Store) reload(ctx context.Context) {
	_ = s.Reload(ctx)
}

func (s *Store) failed(msg string, err error) {
	if core.IsRequestError(err) {
		s.logger.Warn(msg, err)
	} else {
		s.logger.Error(msg, err)
	}
	if s.notifier != nil {
		s.notifier.Error(msg)
	}
}

func (s *Store) succeeded(msg string) {
	if s.notifier != nil {
		s.notifier.Success(msg)
	}
}

func (s *Store) message(prefix string) string {
	return prefix + " " + s.res.Title
}

func (s *Store) singular() string {
	return strings.TrimSuffix(s.res.Title, "s")
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id string) int {
	for i, item := range s.state.Items {
		if item.ID() == id {
			return i
		}
	}
	return -1
}

func copyItems(items []core.Record) []core.Record {
	if items == nil {
		return nil
	}
	c := make([]core.Record, len(items))
	copy(c, items)
	return c
}
