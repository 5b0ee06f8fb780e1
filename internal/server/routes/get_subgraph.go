package routes

import (
	"net/http"
	"strconv"

	"github.com/medkg/medgraph/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

const (
	defaultSubgraphDepth    = 1
	defaultSubgraphMaxNodes = 50
)

func GetSubgraphHandler(c echo.Context) error {
	g := c.(*middleware.AppContext).App.Graph

	center := c.QueryParam("center")
	if center == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "center is required"})
	}

	depth := defaultSubgraphDepth
	if raw := c.QueryParam("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "depth must be a positive integer"})
		}
		depth = parsed
	}

	maxNodes := defaultSubgraphMaxNodes
	if raw := c.QueryParam("max_nodes"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "max_nodes must be a positive integer"})
		}
		maxNodes = parsed
	}

	sub := g.Subgraph(center, depth, maxNodes)

	return c.JSON(http.StatusOK, map[string]any{
		"nodes": sub.Nodes(),
		"links": sub.Edges(),
	})
}
