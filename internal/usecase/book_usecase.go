package usecase

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type BookUsecase struct {
	books repo.BookRepository
}

// DI
func NewBookUsecase(books repo.BookRepository) *BookUsecase {
	return &BookUsecase{books: books}
}

type ListBooksInput struct {
	Page     int
	Limit    int
	Category string
	Featured *bool
	//falseは管理画面用（非公開も見える）
	ActiveOnly bool
}

type BookListOutput struct {
	Items []model.Book `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (u *BookUsecase) List(ctx context.Context, in ListBooksInput) (BookListOutput, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}

	items, total, err := u.books.List(ctx, repo.BookListFilter{
		Page:       in.Page,
		Limit:      in.Limit,
		Category:   in.Category,
		Featured:   in.Featured,
		ActiveOnly: in.ActiveOnly,
	})
	if err != nil {
		return BookListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return BookListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

func (u *BookUsecase) Get(ctx context.Context, bookID int64, includeInactive bool) (model.Book, error) {
	b, err := u.books.FindByID(ctx, bookID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Book{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Book{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//公開側には非公開の本を見せない
	if !b.Active && !includeInactive {
		return model.Book{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return b, nil
}

type BookInput struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	CoverImage    string  `json:"cover_image"`
	PDFURL        string  `json:"pdf_url"`
	PublishedYear int     `json:"published_year"`
	Featured      bool    `json:"featured"`
	Active        bool    `json:"active"`
}

func (in BookInput) validate() error {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Author) == "" ||
		strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Category) == "" {
		return NewHTTPError(http.StatusBadRequest, "missing required fields")
	}
	if in.Price < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	return nil
}

// 管理者用：新規作成
func (u *BookUsecase) Create(ctx context.Context, in BookInput) (model.Book, error) {
	if err := in.validate(); err != nil {
		return model.Book{}, err
	}

	book := model.Book{
		Title:         strings.TrimSpace(in.Title),
		Slug:          Slugify(in.Title),
		Author:        strings.TrimSpace(in.Author),
		Description:   in.Description,
		Price:         in.Price,
		Category:      in.Category,
		CoverImage:    in.CoverImage,
		PDFURL:        in.PDFURL,
		PublishedYear: in.PublishedYear,
		Featured:      in.Featured,
		Active:        in.Active,
	}

	id, err := u.books.Create(ctx, book)
	if err != nil {
		return model.Book{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	book.ID = id
	return book, nil
}

// 管理者用：更新
func (u *BookUsecase) Update(ctx context.Context, bookID int64, in BookInput) (model.Book, error) {
	if err := in.validate(); err != nil {
		return model.Book{}, err
	}

	existing, err := u.books.FindByID(ctx, bookID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Book{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Book{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	existing.Title = strings.TrimSpace(in.Title)
	existing.Slug = Slugify(in.Title)
	existing.Author = strings.TrimSpace(in.Author)
	existing.Description = in.Description
	existing.Price = in.Price
	existing.Category = in.Category
	existing.CoverImage = in.CoverImage
	existing.PDFURL = in.PDFURL
	existing.PublishedYear = in.PublishedYear
	existing.Featured = in.Featured
	existing.Active = in.Active

	if err := u.books.Update(ctx, existing); err != nil {
		return model.Book{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return existing, nil
}

// 管理者用：削除
func (u *BookUsecase) Delete(ctx context.Context, bookID int64) error {
	err := u.books.Delete(ctx, bookID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// タイトルからURL用slugを作る
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
