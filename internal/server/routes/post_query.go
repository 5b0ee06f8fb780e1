package routes

import (
	"net/http"

	"github.com/medkg/medgraph/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

func QueryHandler(c echo.Context) error {
	type queryRequest struct {
		Question string `json:"question" validate:"required"`
	}

	var req queryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "question is required"})
	}

	engine := c.(*middleware.AppContext).App.Engine
	result, err := engine.Answer(c.Request().Context(), req.Question)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, result)
}
