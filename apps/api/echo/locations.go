package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/registrar/core/location"
)

type locationApi struct {
	svc *location.Service
}

func registerLocationAPI(g *echo.Group, svc *location.Service) {
	api := locationApi{svc: svc}

	lg := g.Group("/locations")
	lg.GET("/regions", api.regions)
	lg.GET("/regions/:code/provinces", api.provinces)
	lg.GET("/provinces/:code/cities-municipalities", api.municipalities)
	lg.DELETE("/cache", api.clearCache)
}

// Handlers

func (api *locationApi) regions(ctx echo.Context) error {
	data, err := api.svc.Regions(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSONBlob(http.StatusOK, data)
}

func (api *locationApi) provinces(ctx echo.Context) error {
	data, err := api.svc.Provinces(ctx.Request().Context(), ctx.Param("code"))
	if err != nil {
		return err
	}
	return ctx.JSONBlob(http.StatusOK, data)
}

func (api *locationApi) municipalities(ctx echo.Context) error {
	data, err := api.svc.Municipalities(ctx.Request().Context(), ctx.Param("code"))
	if err != nil {
		return err
	}
	return ctx.JSONBlob(http.StatusOK, data)
}

func (api *locationApi) clearCache(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"cleared": api.svc.ClearCache()})
}
