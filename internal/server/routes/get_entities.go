package routes

import (
	"net/http"
	"strconv"

	"github.com/medkg/medgraph/internal/server/middleware"
	"github.com/medkg/medgraph/pkg/graph"

	"github.com/labstack/echo/v4"
)

const defaultEntityLimit = 100

func GetEntitiesHandler(c echo.Context) error {
	g := c.(*middleware.AppContext).App.Graph

	entityType := c.QueryParam("type")

	limit := defaultEntityLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
		}
		limit = parsed
	}

	entities := g.ListEntities(entityType, limit)

	return c.JSON(http.StatusOK, map[string]any{
		"total":    g.NodeCount(),
		"entities": entities,
	})
}

func GetEntityHandler(c echo.Context) error {
	g := c.(*middleware.AppContext).App.Graph

	node, ok := g.GetEntity(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "entity not found"})
	}

	type edges struct {
		Out []*graph.Edge `json:"out"`
		In  []*graph.Edge `json:"in"`
	}

	return c.JSON(http.StatusOK, map[string]any{
		"entity": node,
		"edges": edges{
			Out: g.OutEdges(node.Key),
			In:  g.InEdges(node.Key),
		},
	})
}
