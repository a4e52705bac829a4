package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type PaintingGormRepository struct {
	db *gorm.DB
}

func NewPaintingGormRepository(db *gorm.DB) *PaintingGormRepository {
	return &PaintingGormRepository{db: db}
}

func (r *PaintingGormRepository) FindByID(ctx context.Context, paintingID int64) (model.Painting, error) {
	var p model.Painting
	err := r.db.WithContext(ctx).Where("id = ?", paintingID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Painting{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Painting{}, err
	}
	return p, nil
}

func (r *PaintingGormRepository) FindBySlug(ctx context.Context, slug string) (model.Painting, error) {
	var p model.Painting
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Painting{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Painting{}, err
	}
	return p, nil
}

func (r *PaintingGormRepository) List(ctx context.Context, f repo.PaintingListFilter) ([]model.Painting, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}

	q := r.db.WithContext(ctx).Model(&model.Painting{})

	if f.ActiveOnly {
		q = q.Where("active = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Painting{}, 0, err
	}

	var items []model.Painting
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("created_at desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Painting{}, 0, err
	}

	return items, total, nil
}

func (r *PaintingGormRepository) Create(ctx context.Context, painting model.Painting) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&painting).Error; err != nil {
		return 0, err
	}
	return painting.ID, nil
}

func (r *PaintingGormRepository) Update(ctx context.Context, painting model.Painting) error {
	res := r.db.WithContext(ctx).Model(&model.Painting{}).
		Where("id = ?", painting.ID).
		Updates(map[string]interface{}{
			"title":       painting.Title,
			"slug":        painting.Slug,
			"description": painting.Description,
			"price":       painting.Price,
			"image_url":   painting.ImageURL,
			"category":    painting.Category,
			"medium":      painting.Medium,
			"width_cm":    painting.WidthCM,
			"height_cm":   painting.HeightCM,
			"year":        painting.Year,
			"sold":        painting.Sold,
			"active":      painting.Active,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PaintingGormRepository) Delete(ctx context.Context, paintingID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", paintingID).Delete(&model.Painting{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PaintingGormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Painting{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
