package echoapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Dahire100/FrontierLMS-sub005/core"
	"github.com/Dahire100/FrontierLMS-sub005/core/collection"
)

// ListQuery is what a list endpoint understands: exact-match filters, "search" and "ordering".
type ListQuery struct {
	Filters   map[string]string
	Orderings []collection.Ordering
}

func (q *ListQuery) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	q.Filters = make(map[string]string, len(data))
	for key, vals := range data {
		if len(vals) == 0 || core.CleanString(vals[0]) == "" {
			continue
		}
		if key == collection.OrderingParam {
			q.Orderings = collection.ParseOrdering(vals[0])
			continue
		}
		q.Filters[key] = vals[0]
	}
}

// bindRecord decodes a JSON object body. Path and query params are not merged in.
func bindRecord(ctx echo.Context) (core.Record, error) {
	data := make(core.Record)
	if err := json.NewDecoder(ctx.Request().Body).Decode(&data); err != nil && err != io.EOF {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body").SetInternal(err)
	}
	return data, nil
}

type (
	PromoteRequest struct {
		StudentIDs   []string `json:"studentIds"`
		ToClass      string   `json:"toClass"`
		AcademicYear string   `json:"academicYear"`
	}

	PromoteResponse struct {
		Promoted int `json:"promoted"`
	}
)
