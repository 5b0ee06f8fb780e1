package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/medkg/medgraph/pkg/graph"
	"github.com/medkg/medgraph/pkg/query"
)

type App struct {
	Graph  *graph.Graph
	Engine *query.Engine
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{Context: c, App: app})
		}
	}
}
