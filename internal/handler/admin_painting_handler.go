package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminPaintingHandler struct {
	uc *usecase.PaintingUsecase
}

func NewAdminPaintingHandler(uc *usecase.PaintingUsecase) *AdminPaintingHandler {
	return &AdminPaintingHandler{uc: uc}
}

func (h *AdminPaintingHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/paintings", h.list)
	admin.GET("/paintings/:id", h.detail)
	admin.POST("/paintings", h.create)
	admin.PUT("/paintings/:id", h.update)
	admin.DELETE("/paintings/:id", h.delete)
}

func (h *AdminPaintingHandler) list(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	limit := 50
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
		ActiveOnly: false,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminPaintingHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	painting, uerr := h.uc.Get(c.Request().Context(), id, true)
	if uerr != nil {
		return writeError(c, uerr)
	}

	return c.JSON(http.StatusOK, painting)
}

func (h *AdminPaintingHandler) create(c echo.Context) error {
	var req usecase.PaintingInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	painting, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, painting)
}

func (h *AdminPaintingHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req usecase.PaintingInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	painting, uerr := h.uc.Update(c.Request().Context(), id, req)
	if uerr != nil {
		return writeError(c, uerr)
	}

	return c.JSON(http.StatusOK, painting)
}

func (h *AdminPaintingHandler) delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if uerr := h.uc.Delete(c.Request().Context(), id); uerr != nil {
		return writeError(c, uerr)
	}

	return c.NoContent(http.StatusNoContent)
}
