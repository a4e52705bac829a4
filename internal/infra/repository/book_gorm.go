package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type BookGormRepository struct {
	db *gorm.DB
}

func NewBookGormRepository(db *gorm.DB) *BookGormRepository {
	return &BookGormRepository{db: db}
}

func (r *BookGormRepository) FindByID(ctx context.Context, bookID int64) (model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).Where("id = ?", bookID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Book{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Book{}, err
	}
	return b, nil
}

func (r *BookGormRepository) FindBySlug(ctx context.Context, slug string) (model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Book{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Book{}, err
	}
	return b, nil
}

func (r *BookGormRepository) List(ctx context.Context, f repo.BookListFilter) ([]model.Book, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}

	q := r.db.WithContext(ctx).Model(&model.Book{})

	if f.ActiveOnly {
		q = q.Where("active = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Book{}, 0, err
	}

	var items []model.Book
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("created_at desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Book{}, 0, err
	}

	return items, total, nil
}

func (r *BookGormRepository) Create(ctx context.Context, book model.Book) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&book).Error; err != nil {
		return 0, err
	}
	return book.ID, nil
}

func (r *BookGormRepository) Update(ctx context.Context, book model.Book) error {
	res := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("id = ?", book.ID).
		Updates(map[string]interface{}{
			"title":          book.Title,
			"slug":           book.Slug,
			"author":         book.Author,
			"description":    book.Description,
			"price":          book.Price,
			"category":       book.Category,
			"cover_image":    book.CoverImage,
			"pdf_url":        book.PDFURL,
			"published_year": book.PublishedYear,
			"featured":       book.Featured,
			"active":         book.Active,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *BookGormRepository) Delete(ctx context.Context, bookID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", bookID).Delete(&model.Book{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *BookGormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Book{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
