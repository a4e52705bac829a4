package handler

import (
	"net/http"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 注文の領収書API。ログイン必須で、本人（email一致）か管理者だけ見える
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.GET("/:id", h.detail)
}

func (h *OrderHandler) detail(c echo.Context) error {
	email, _ := c.Get(middleware.CtxUserEmailKey).(string)
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)

	out, err := h.uc.GetOrder(c.Request().Context(), c.Param("id"), usecase.Viewer{
		Email:   email,
		IsAdmin: role == "ADMIN",
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
