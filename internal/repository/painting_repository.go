package repository

import (
	"context"

	"app/internal/domain/model"
)

type PaintingListFilter struct {
	Page       int
	Limit      int
	Category   string
	ActiveOnly bool
}

type PaintingRepository interface {
	FindByID(ctx context.Context, paintingID int64) (model.Painting, error)
	FindBySlug(ctx context.Context, slug string) (model.Painting, error)
	List(ctx context.Context, f PaintingListFilter) ([]model.Painting, int64, error)
	Create(ctx context.Context, painting model.Painting) (int64, error)
	Update(ctx context.Context, painting model.Painting) error
	Delete(ctx context.Context, paintingID int64) error
	Count(ctx context.Context) (int64, error)
}
