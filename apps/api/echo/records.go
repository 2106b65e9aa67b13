package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Dahire100/FrontierLMS-sub005/client"
	"github.com/Dahire100/FrontierLMS-sub005/core/collection"
	"github.com/Dahire100/FrontierLMS-sub005/resources"
)

// recordApi serves one resource the way its real backend does, envelope included.
type recordApi struct {
	name     string
	envelope client.Envelope
	svc      *collection.Service
}

func registerRecordAPI(g *echo.Group, def resources.Definition, svc *collection.Service) {
	api := recordApi{name: def.Name, envelope: def.Envelope, svc: svc}

	g.GET("", api.query)
	g.POST("", api.create)
	g.GET("/:id", api.retrieve)
	g.PUT("/:id", api.update)
	g.DELETE("/:id", api.destroy)
}

func (api *recordApi) query(ctx echo.Context) error {
	q := new(ListQuery)
	q.Bind(ctx)

	recs, err := api.svc.List(ctx.Request().Context(), api.name, q.Filters, q.Orderings...)
	if err != nil {
		return errors.Wrapf(err, "querying %s", api.name)
	}
	return api.respond(ctx, http.StatusOK, recs)
}

func (api *recordApi) create(ctx echo.Context) error {
	data, err := bindRecord(ctx)
	if err != nil {
		return err
	}

	rec, err := api.svc.Create(ctx.Request().Context(), api.name, data)
	if err != nil {
		return errors.Wrapf(err, "creating %s", api.name)
	}
	return api.respond(ctx, http.StatusCreated, rec)
}

func (api *recordApi) retrieve(ctx echo.Context) error {
	rec, err := api.svc.Get(ctx.Request().Context(), api.name, ctx.Param("id"))
	if err != nil {
		return errors.Wrapf(err, "retrieving %s", api.name)
	}
	return api.respond(ctx, http.StatusOK, rec)
}

func (api *recordApi) update(ctx echo.Context) error {
	data, err := bindRecord(ctx)
	if err != nil {
		return err
	}

	rec, err := api.svc.Update(ctx.Request().Context(), api.name, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrapf(err, "updating %s", api.name)
	}
	return api.respond(ctx, http.StatusOK, rec)
}

func (api *recordApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), api.name, ctx.Param("id")); err != nil {
		return errors.Wrapf(err, "deleting %s", api.name)
	}
	if api.envelope == client.EnvelopeSuccess {
		return ctx.JSON(http.StatusOK, echo.Map{"success": true})
	}
	return ctx.NoContent(http.StatusNoContent)
}

// respond wraps data in the resource's envelope. Single records of an array backend are sent bare.
func (api *recordApi) respond(ctx echo.Context, code int, data interface{}) error {
	switch api.envelope {
	case client.EnvelopeData:
		return ctx.JSON(code, echo.Map{"data": data})
	case client.EnvelopeSuccess:
		return ctx.JSON(code, echo.Map{"success": true, "data": data})
	default:
		return ctx.JSON(code, data)
	}
}

func registerPromoteAPI(app *echo.Echo, jwt echo.MiddlewareFunc, svc *collection.Service) {
	app.POST(resources.PromoteEndpoint, func(ctx echo.Context) error {
		var data PromoteRequest
		if err := ctx.Bind(&data); err != nil {
			return errors.Wrap(err, "binding to PromoteRequest")
		}

		n, err := svc.Promote(ctx.Request().Context(), resources.Students, data.StudentIDs, data.ToClass, data.AcademicYear)
		if err != nil {
			return errors.Wrap(err, "promoting students")
		}
		return ctx.JSON(http.StatusOK, echo.Map{"success": true, "data": PromoteResponse{Promoted: n}})
	}, jwt, adminMiddleware())
}
