package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /paintings の公開API
type PaintingHandler struct {
	uc *usecase.PaintingUsecase
}

// DI
func NewPaintingHandler(uc *usecase.PaintingUsecase) *PaintingHandler {
	return &PaintingHandler{uc: uc}
}

func (h *PaintingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/paintings", h.list)
	e.GET("/paintings/:id", h.detail)
}

func (h *PaintingHandler) list(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.List(c.Request().Context(), usecase.ListPaintingsInput{
		Page:       page,
		Limit:      limit,
		Category:   c.QueryParam("category"),
		ActiveOnly: true,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *PaintingHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	painting, uerr := h.uc.Get(c.Request().Context(), id, false)
	if uerr != nil {
		return writeError(c, uerr)
	}

	return c.JSON(http.StatusOK, painting)
}
