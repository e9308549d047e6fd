package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core/report"
)

type reportApi struct {
	svc      *report.Service
	validate *validator.Validate
}

func registerReportAPI(g *echo.Group, svc *report.Service, validate *validator.Validate) {
	api := reportApi{
		svc:      svc,
		validate: validate,
	}

	rg := g.Group("/reports")
	rg.GET("", api.generate)
	rg.GET("/options", api.options)
	rg.POST("/export-to-sheets", api.exportRoster)
	rg.POST("/import", api.importTab)
}

// Handlers

func (api *reportApi) options(ctx echo.Context) error {
	opts, err := api.svc.Options(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, opts)
}

func (api *reportApi) generate(ctx echo.Context) error {
	var data report.GenerateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GenerateRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	data.Ordering = bindOrdering(ctx)

	if data.Format == report.FormatSheets {
		res, err := api.svc.Export(ctx.Request().Context(), data)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, res)
	}

	rep, err := api.svc.Generate(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rep)
}

func (api *reportApi) exportRoster(ctx echo.Context) error {
	var data report.RosterRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RosterRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.ExportRoster(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *reportApi) importTab(ctx echo.Context) error {
	var data report.ImportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ImportRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	res, err := api.svc.Import(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	if !res.Success {
		return ctx.JSON(http.StatusUnprocessableEntity, res)
	}
	return ctx.JSON(http.StatusOK, res)
}
