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

type AdminBookHandler struct {
	uc *usecase.BookUsecase
}

func NewAdminBookHandler(uc *usecase.BookUsecase) *AdminBookHandler {
	return &AdminBookHandler{uc: uc}
}

func (h *AdminBookHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/books", h.list)
	admin.GET("/books/:id", h.detail)
	admin.POST("/books", h.create)
	admin.PUT("/books/:id", h.update)
	admin.DELETE("/books/:id", h.delete)
}

func (h *AdminBookHandler) list(c echo.Context) error {
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

	//管理画面は非公開分も見える
	out, err := h.uc.List(c.Request().Context(), usecase.ListBooksInput{
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

func (h *AdminBookHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	book, uerr := h.uc.Get(c.Request().Context(), id, true)
	if uerr != nil {
		return writeError(c, uerr)
	}

	return c.JSON(http.StatusOK, book)
}

func (h *AdminBookHandler) create(c echo.Context) error {
	var req usecase.BookInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	book, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, book)
}

func (h *AdminBookHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req usecase.BookInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	book, uerr := h.uc.Update(c.Request().Context(), id, req)
	if uerr != nil {
		return writeError(c, uerr)
	}

	return c.JSON(http.StatusOK, book)
}

func (h *AdminBookHandler) delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if uerr := h.uc.Delete(c.Request().Context(), id); uerr != nil {
		return writeError(c, uerr)
	}

	return c.NoContent(http.StatusNoContent)
}
