package collection

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

const (
	SearchParam  = "search"
	CreatedField = "createdAt"
	UpdatedField = "updatedAt"

	// TimeLayout is fixed-width so that timestamps sort as strings.
	TimeLayout = "2006-01-02T15:04:05.000000Z07:00"
)

var (
	nowFunc   = time.Now // mockable
	newIDFunc = defaultID

	errRequired      = "this field is required"
	errInvalidNumber = "must be a valid number"
)

// ErrUnknownCollection is returned for a name the service was not configured with.
var ErrUnknownCollection = errors.New("unknown collection")

type Service struct {
	repo        Repository
	collections map[string]Collection
}

func NewService(repo Repository, cols ...Collection) *Service {
	svc := &Service{repo: repo, collections: make(map[string]Collection, len(cols))}
	for _, c := range cols {
		svc.collections[c.Name] = c
	}
	return svc
}

func (svc *Service) Collection(name string) (Collection, error) {
	c, ok := svc.collections[name]
	if !ok {
		return Collection{}, errors.Wrap(ErrUnknownCollection, name)
	}
	return c, nil
}

// List returns the records matching query, sorted by orderings then oldest first.
func (svc *Service) List(ctx context.Context, name string, query map[string]string, orderings ...Ordering) ([]core.Record, error) {
	c, err := svc.Collection(name)
	if err != nil {
		return nil, err
	}
	recs, err := svc.repo.All(ctx, name)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", name)
	}

	out := make([]core.Record, 0, len(recs))
	for _, rec := range recs {
		if c.match(rec, query) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j], orderings)
	})
	return out, nil
}

func (svc *Service) Get(ctx context.Context, name, id string) (core.Record, error) {
	if _, err := svc.Collection(name); err != nil {
		return nil, err
	}
	return svc.repo.Get(ctx, name, id)
}

// Create assigns an id and timestamps, validates and stores data.
func (svc *Service) Create(ctx context.Context, name string, data core.Record) (core.Record, error) {
	c, err := svc.Collection(name)
	if err != nil {
		return nil, err
	}

	rec := data.Clone()
	if rec == nil {
		rec = make(core.Record)
	}
	delete(rec, core.IDField)
	delete(rec, core.LegacyIDField)
	if err = c.clean(rec); err != nil {
		return nil, err
	}

	id := newIDFunc()
	now := timestamp()
	rec[c.idField()] = id
	rec[CreatedField] = now
	rec[UpdatedField] = now
	if c.Compute != nil {
		c.Compute(rec)
	}

	if err = svc.repo.Insert(ctx, name, id, rec); err != nil {
		return nil, errors.Wrapf(err, "inserting into %s", name)
	}
	return rec, nil
}

// Update applies data on top of the stored record. Ids and the creation time are kept.
func (svc *Service) Update(ctx context.Context, name, id string, data core.Record) (core.Record, error) {
	c, err := svc.Collection(name)
	if err != nil {
		return nil, err
	}
	orig, err := svc.repo.Get(ctx, name, id)
	if err != nil {
		return nil, err
	}

	patch := data.Clone()
	for _, key := range []string{core.IDField, core.LegacyIDField, CreatedField, UpdatedField} {
		delete(patch, key)
	}
	rec := orig.Merge(patch)
	if err = c.clean(rec); err != nil {
		return nil, err
	}
	rec[UpdatedField] = timestamp()
	if c.Compute != nil {
		c.Compute(rec)
	}

	if err = svc.repo.Replace(ctx, name, id, rec); err != nil {
		return nil, errors.Wrapf(err, "updating %s", name)
	}
	return rec, nil
}

func (svc *Service) Delete(ctx context.Context, name, id string) error {
	if _, err := svc.Collection(name); err != nil {
		return err
	}
	if _, err := svc.repo.Get(ctx, name, id); err != nil {
		return err
	}
	return svc.repo.Delete(ctx, name, id)
}

// Promote moves students to another class for an academic year. Every id must exist;
// nothing is changed otherwise.
func (svc *Service) Promote(ctx context.Context, name string, ids []string, toClass, academicYear string) (int, error) {
	if _, err := svc.Collection(name); err != nil {
		return 0, err
	}
	fields := make([]core.FieldError, 0, 2)
	if core.CleanString(toClass) == "" {
		fields = append(fields, core.FieldError{Field: "toClass", Code: "required", Error: errRequired})
	}
	if len(ids) == 0 {
		fields = append(fields, core.FieldError{Field: "studentIds", Code: "required", Error: errRequired})
	}
	if len(fields) > 0 {
		return 0, core.NewValidationError(nil, fields...)
	}

	recs := make([]core.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := svc.repo.Get(ctx, name, id)
		if err != nil {
			return 0, errors.Wrap(err, id)
		}
		recs = append(recs, rec)
	}

	now := timestamp()
	for i, rec := range recs {
		rec["class"] = toClass
		if academicYear != "" {
			rec["academicYear"] = academicYear
		}
		rec["promotedAt"] = now
		rec[UpdatedField] = now
		if err := svc.repo.Replace(ctx, name, ids[i], rec); err != nil {
			return i, errors.Wrapf(err, "promoting %s", ids[i])
		}
	}
	return len(recs), nil
}

// clean checks required fields and coerces numeric ones in place.
func (c Collection) clean(rec core.Record) error {
	var fields []core.FieldError
	for _, name := range c.Required {
		if core.CleanString(rec.String(name)) == "" {
			fields = append(fields, core.FieldError{Field: name, Code: "required", Error: errRequired})
		}
	}
	for _, name := range c.Numeric {
		v, ok := rec[name]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && core.CleanString(s) == "" {
			delete(rec, name)
			continue
		}
		n, ok := rec.Float(name)
		if !ok {
			fields = append(fields, core.FieldError{Field: name, Code: "invalid_number", Error: errInvalidNumber})
			continue
		}
		rec[name] = n
	}
	if len(fields) > 0 {
		return core.NewValidationError(nil, fields...)
	}
	return nil
}

func (c Collection) match(rec core.Record, query map[string]string) bool {
	for key, want := range query {
		want = core.CleanString(want)
		if want == "" {
			continue
		}
		if key == OrderingParam {
			continue
		}
		if key == SearchParam {
			if !contains(rec, want) {
				return false
			}
			continue
		}
		if !c.filters(key) {
			continue
		}
		if !strings.EqualFold(rec.String(key), want) {
			return false
		}
	}
	return true
}

func (c Collection) filters(key string) bool {
	if len(c.Filters) == 0 {
		return true
	}
	for _, f := range c.Filters {
		if f == key {
			return true
		}
	}
	return false
}

func contains(rec core.Record, term string) bool {
	term = strings.ToLower(term)
	for _, v := range rec {
		if strings.Contains(strings.ToLower(core.FormatValue(v)), term) {
			return true
		}
	}
	return false
}

func defaultID() string { return uuid.New().String() }

func timestamp() string {
	return nowFunc().UTC().Format(TimeLayout)
}
