package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AdminUserUsecase struct {
	users repo.UserRepository
}

// DI
func NewAdminUserUsecase(users repo.UserRepository) *AdminUserUsecase {
	return &AdminUserUsecase{users: users}
}

type AdminUserListOutput struct {
	Items []UserDTO `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

func (u *AdminUserUsecase) List(ctx context.Context, page int, limit int) (AdminUserListOutput, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	users, total, err := u.users.List(ctx, page, limit)
	if err != nil {
		return AdminUserListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]UserDTO, 0, len(users))
	for i := range users {
		items = append(items, toUserDTO(&users[i]))
	}

	return AdminUserListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

type AdminUserUpdateInput struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// ロール変更・アカウント停止/再開
func (u *AdminUserUsecase) Update(ctx context.Context, userID int64, in AdminUserUpdateInput) (UserDTO, error) {
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) || user == nil {
		return UserDTO{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.Role != nil {
		switch model.Role(*in.Role) {
		case model.RoleUser, model.RoleAdmin:
			user.Role = model.Role(*in.Role)
		default:
			return UserDTO{}, NewHTTPError(http.StatusBadRequest, "invalid role")
		}
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := u.users.Update(ctx, user); err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserDTO(user), nil
}
