// Package promotion moves a class's students up a grade at the end of an academic year.
// A plan decides each student from their score and any manual override; executing it
// is a single bulk request.
package promotion

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/Dahire100/FrontierLMS-sub005/core"
	"github.com/Dahire100/FrontierLMS-sub005/spreadsheet"
	"github.com/Dahire100/FrontierLMS-sub005/table"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Columns lay out a plan, one student per row.
var Columns = []table.Column{
	{Key: "admissionNo", Label: "Admission No"},
	{Key: "name", Label: "Name", Render: table.Join(" ", "firstName", "lastName")},
	{Key: "score", Label: "Score"},
	{Key: "decision", Label: "Decision", Render: table.Status},
}

const DefaultScoreField = "percentage"

var ErrNothingToPromote = errors.New("no student to promote")

type Override int

const (
	NoOverride Override = iota
	Promote
	Retain
)

type Decision int

const (
	Skipped Decision = iota // no usable score and no override
	Promoted
	Retained
)

func (d Decision) String() string {
	switch d {
	case Promoted:
		return "promoted"
	case Retained:
		return "retained"
	default:
		return "skipped"
	}
}

type Criteria struct {
	ScoreField   string
	PassMark     float64
	ToClass      string
	AcademicYear string
}

func (c Criteria) scoreField() string {
	if c.ScoreField == "" {
		return DefaultScoreField
	}
	return c.ScoreField
}

// Validate reports the missing criteria as a *core.ValidationError.
func (c Criteria) Validate() error {
	var fields []core.FieldError
	if core.CleanString(c.ToClass) == "" {
		fields = append(fields, core.FieldError{Field: "toClass", Code: "required", Error: "this field is required"})
	}
	if c.PassMark < 0 {
		fields = append(fields, core.FieldError{Field: "passMark", Code: "invalid_number", Error: "must not be negative"})
	}
	if len(fields) > 0 {
		return core.NewValidationError(nil, fields...)
	}
	return nil
}

type Entry struct {
	Student  core.Record
	Score    float64
	HasScore bool
	Decision Decision
	Override Override
}

type Plan struct {
	Criteria Criteria
	Entries  []Entry
}

// NewPlan decides every student in one pass: score >= pass mark promotes, anything lower
// retains, an override wins over the score, and a student with no numeric score is skipped
// unless overridden.
func NewPlan(students []core.Record, c Criteria, overrides map[string]Override) Plan {
	p := Plan{Criteria: c, Entries: make([]Entry, 0, len(students))}
	for _, st := range students {
		e := Entry{Student: st, Override: overrides[st.ID()]}
		e.Score, e.HasScore = st.Float(c.scoreField())

		switch {
		case e.Override == Promote:
			e.Decision = Promoted
		case e.Override == Retain:
			e.Decision = Retained
		case !e.HasScore:
			e.Decision = Skipped
		case e.Score >= c.PassMark:
			e.Decision = Promoted
		default:
			e.Decision = Retained
		}
		p.Entries = append(p.Entries, e)
	}
	return p
}

// IDs returns the ids of the students with the given decision, in plan order.
func (p Plan) IDs(d Decision) []string {
	ids := make([]string, 0)
	for _, e := range p.Entries {
		if e.Decision == d {
			ids = append(ids, e.Student.ID())
		}
	}
	return ids
}

// View shows the whole plan on one page.
func (p Plan) View() *table.View {
	rows := make([]core.Record, 0, len(p.Entries))
	for _, e := range p.Entries {
		row := e.Student.Clone()
		row["decision"] = e.Decision.String()
		if e.HasScore {
			row["score"] = e.Score
		}
		rows = append(rows, row)
	}
	return &table.View{
		Title:    "Promotion to class " + p.Criteria.ToClass,
		Columns:  Columns,
		Data:     rows,
		PageSize: len(rows),
	}
}

func (p Plan) Report() Report {
	return Report{
		Plan:     p,
		Criteria: p.Criteria,
		Promoted: len(p.IDs(Promoted)),
		Retained: len(p.IDs(Retained)),
		Skipped:  len(p.IDs(Skipped)),
	}
}

// API is the action call of *client.Client.
type API interface {
	Post(ctx context.Context, endpoint string, body interface{}) (core.Record, error)
}

type request struct {
	StudentIDs   []string `json:"studentIds"`
	ToClass      string   `json:"toClass"`
	AcademicYear string   `json:"academicYear,omitempty"`
}

// Execute sends the promoted students in one request. Retained and skipped students stay
// where they are.
func Execute(ctx context.Context, api API, endpoint string, p Plan) (Report, error) {
	if err := p.Criteria.Validate(); err != nil {
		return Report{}, err
	}
	ids := p.IDs(Promoted)
	if len(ids) == 0 {
		return p.Report(), ErrNothingToPromote
	}

	body := request{StudentIDs: ids, ToClass: p.Criteria.ToClass, AcademicYear: p.Criteria.AcademicYear}
	if _, err := api.Post(ctx, endpoint, body); err != nil {
		return Report{}, errors.Wrap(err, "promoting students")
	}
	return p.Report(), nil
}

type Report struct {
	Plan     Plan
	Criteria Criteria
	Promoted int
	Retained int
	Skipped  int
}

func (r Report) String() string {
	return fmt.Sprintf("Promoted: %d, Retained: %d, Skipped: %d", r.Promoted, r.Retained, r.Skipped)
}

// Email builds the summary message for the given recipients, with the plan attached as a
// workbook.
func (r Report) Email(to []mail.Address) (*core.EmailMessage, error) {
	var body strings.Builder
	_, _ = fmt.Fprintf(&body, "Promotion to class %s", r.Criteria.ToClass)
	if r.Criteria.AcademicYear != "" {
		_, _ = fmt.Fprintf(&body, " for %s", r.Criteria.AcademicYear)
	}
	_, _ = fmt.Fprintf(&body, "\nPass mark: %g (%s)\n\n", r.Criteria.PassMark, r.Criteria.scoreField())
	_, _ = fmt.Fprintf(&body, "Promoted: %d\nRetained: %d\nSkipped:  %d\n", r.Promoted, r.Retained, r.Skipped)

	msg := &core.EmailMessage{
		To:      to,
		Subject: "Student promotion to " + r.Criteria.ToClass,
		BodyStr: body.String(),
	}
	if len(r.Plan.Entries) == 0 {
		return msg, nil
	}

	var sheet bytes.Buffer
	if err := spreadsheet.Export(&sheet, r.Plan.View()); err != nil {
		return nil, errors.Wrap(err, "exporting promotion plan")
	}
	if err := msg.Attach(&sheet, r.filename(), xlsxContentType); err != nil {
		return nil, errors.Wrap(err, "attaching promotion plan")
	}
	return msg, nil
}

func (r Report) filename() string {
	name := "promotion-" + spreadsheet.SheetName(r.Criteria.ToClass)
	if r.Criteria.AcademicYear != "" {
		name += "-" + spreadsheet.SheetName(r.Criteria.AcademicYear)
	}
	return strings.ReplaceAll(name, " ", "-") + ".xlsx"
}

// ParseOverrides builds the override map from id lists. An id in both lists is an error.
func ParseOverrides(promote, retain []string) (map[string]Override, error) {
	out := make(map[string]Override, len(promote)+len(retain))
	for _, id := range promote {
		out[id] = Promote
	}
	var conflicts []string
	for _, id := range retain {
		if out[id] == Promote {
			conflicts = append(conflicts, id)
			continue
		}
		out[id] = Retain
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		return nil, errors.Errorf("both promoted and retained: %s", strings.Join(conflicts, ", "))
	}
	return out, nil
}
