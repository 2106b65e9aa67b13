package form

import (
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Dahire100/FrontierLMS-sub005/core"
)

// error codes of core.FieldError
const (
	CodeRequired      = "required"
	CodeInvalidNumber = "invalid_number"
	CodeInvalid       = "invalid"
)

var (
	ErrRequired      = errors.New("this field is required")
	ErrInvalidNumber = errors.New("must be a valid number")
	ErrInvalidBool   = errors.New("must be yes or no")

	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate, translator = core.NewValidator()
}

// Result is the outcome of binding form values against a schema.
type Result struct {
	Valid   bool
	Errors  map[string]string // field name -> message
	Payload core.Record

	fields []core.FieldError
}

// Err returns a *core.ValidationError naming every failing field, or nil.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return core.NewValidationError(nil, r.fields...)
}

// Bind validates values and builds the request payload.
// Optional blank fields are left out of the payload and server-assigned fields are never sent.
func Bind(schema Schema, values map[string]string) Result {
	res := Result{Errors: make(map[string]string), Payload: make(core.Record)}

	for _, f := range schema {
		if f.ServerAssigned {
			continue
		}
		raw := core.CleanString(values[f.Name])
		if raw == "" {
			if f.Required {
				res.fail(f, CodeRequired, ErrRequired.Error())
			}
			continue
		}

		val, code, err := coerce(f, raw)
		if err != nil {
			res.fail(f, code, err.Error())
			continue
		}
		res.Payload[f.Name] = val
	}

	res.Valid = len(res.fields) == 0
	return res
}

func (r *Result) fail(f Field, code, msg string) {
	r.Errors[f.Name] = msg
	r.fields = append(r.fields, core.FieldError{Field: f.Name, Code: code, Error: msg})
}

func coerce(f Field, raw string) (interface{}, string, error) {
	switch f.Kind {
	case Number:
		n, err := core.ParseNumber(raw)
		if err != nil {
			return nil, CodeInvalidNumber, ErrInvalidNumber
		}
		return n, "", nil
	case Integer:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			// "12.0" is still an integer
			fl, ferr := core.ParseNumber(raw)
			if ferr != nil || fl != float64(int64(fl)) {
				return nil, CodeInvalidNumber, ErrInvalidNumber
			}
			n = int64(fl)
		}
		return n, "", nil
	case Bool:
		switch strings.ToLower(raw) {
		case "true", "yes", "y", "1", "on":
			return true, "", nil
		case "false", "no", "n", "0", "off":
			return false, "", nil
		}
		return nil, CodeInvalid, ErrInvalidBool
	case Email:
		return raw, CodeInvalid, check(raw, "email")
	case Date:
		return raw, CodeInvalid, check(raw, "datetime="+core.DateLayout)
	case Select:
		return raw, CodeInvalid, checkOption(raw, f.Options)
	default:
		return raw, "", nil
	}
}

func check(raw, tag string) error {
	if err := validate.Var(raw, tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New(verrs[0].Translate(translator))
		}
		return err
	}
	return nil
}

func checkOption(raw string, options []string) error {
	if len(options) == 0 {
		return nil
	}
	for _, opt := range options {
		if strings.ContainsAny(opt, " \t") {
			// oneof splits its param on spaces
			for _, o := range options {
				if o == raw {
					return nil
				}
			}
			return errors.Errorf("must be one of [%s]", strings.Join(options, ", "))
		}
	}
	return check(raw, "oneof="+strings.Join(options, " "))
}
