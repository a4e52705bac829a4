package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type PaintingUsecase struct {
	paintings repo.PaintingRepository
}

// DI
func NewPaintingUsecase(paintings repo.PaintingRepository) *PaintingUsecase {
	return &PaintingUsecase{paintings: paintings}
}

type ListPaintingsInput struct {
	Page       int
	Limit      int
	Category   string
	ActiveOnly bool
}

type PaintingListOutput struct {
	Items []model.Painting `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *PaintingUsecase) List(ctx context.Context, in ListPaintingsInput) (PaintingListOutput, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}

	items, total, err := u.paintings.List(ctx, repo.PaintingListFilter{
		Page:       in.Page,
		Limit:      in.Limit,
		Category:   in.Category,
		ActiveOnly: in.ActiveOnly,
	})
	if err != nil {
		return PaintingListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return PaintingListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *PaintingUsecase) Get(ctx context.Context, paintingID int64, includeInactive bool) (model.Painting, error) {
	p, err := u.paintings.FindByID(ctx, paintingID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Painting{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Painting{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !p.Active && !includeInactive {
		return model.Painting{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return p, nil
}

type PaintingInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	Medium      string  `json:"medium"`
	WidthCM     float64 `json:"width_cm"`
	HeightCM    float64 `json:"height_cm"`
	Year        int     `json:"year"`
	Sold        bool    `json:"sold"`
	Active      bool    `json:"active"`
}

func (in PaintingInput) validate() error {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Category) == "" ||
		strings.TrimSpace(in.Medium) == "" ||
		strings.TrimSpace(in.ImageURL) == "" {
		return NewHTTPError(http.StatusBadRequest, "missing required fields")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	return nil
}

// 管理者用：新規作成
func (u *PaintingUsecase) Create(ctx context.Context, in PaintingInput) (model.Painting, error) {
	if err := in.validate(); err != nil {
		return model.Painting{}, err
	}

	painting := model.Painting{
		Title:       strings.TrimSpace(in.Title),
		Slug:        Slugify(in.Title),
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		Medium:      in.Medium,
		WidthCM:     in.WidthCM,
		HeightCM:    in.HeightCM,
		Year:        in.Year,
		Sold:        in.Sold,
		Active:      in.Active,
	}

	id, err := u.paintings.Create(ctx, painting)
	if err != nil {
		return model.Painting{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	painting.ID = id
	return painting, nil
}

// 管理者用：更新
func (u *PaintingUsecase) Update(ctx context.Context, paintingID int64, in PaintingInput) (model.Painting, error) {
	if err := in.validate(); err != nil {
		return model.Painting{}, err
	}

	existing, err := u.paintings.FindByID(ctx, paintingID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Painting{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Painting{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	existing.Title = strings.TrimSpace(in.Title)
	existing.Slug = Slugify(in.Title)
	existing.Description = in.Description
	existing.Price = in.Price
	existing.ImageURL = in.ImageURL
	existing.Category = in.Category
	existing.Medium = in.Medium
	existing.WidthCM = in.WidthCM
	existing.HeightCM = in.HeightCM
	existing.Year = in.Year
	existing.Sold = in.Sold
	existing.Active = in.Active

	if err := u.paintings.Update(ctx, existing); err != nil {
		return model.Painting{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return existing, nil
}

// 管理者用：削除
func (u *PaintingUsecase) Delete(ctx context.Context, paintingID int64) error {
	err := u.paintings.Delete(ctx, paintingID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
