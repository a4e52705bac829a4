package repository

import (
	"context"

	"app/internal/domain/model"
)

type BookListFilter struct {
	Page       int
	Limit      int
	Category   string
	ActiveOnly bool
	Featured   *bool
}

type BookRepository interface {
	FindByID(ctx context.Context, bookID int64) (model.Book, error)
	FindBySlug(ctx context.Context, slug string) (model.Book, error)
	List(ctx context.Context, f BookListFilter) ([]model.Book, int64, error)
	Create(ctx context.Context, book model.Book) (int64, error)
	Update(ctx context.Context, book model.Book) error
	Delete(ctx context.Context, bookID int64) error
	Count(ctx context.Context) (int64, error)
}
