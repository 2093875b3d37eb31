package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/validate"
)

type TitleService interface {
	List(ctx context.Context, f repository.TitleFilter) ([]repository.TitleWithRating, int64, error)
	GetByID(ctx context.Context, id int64) (*repository.TitleWithRating, error)
	Create(ctx context.Context, req dto.CreateTitleRequest) (*repository.TitleWithRating, error)
	Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*repository.TitleWithRating, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    *repository.TitleRepo
	categoryRepo *repository.CategoryRepo
	genreRepo    *repository.GenreRepo
}

func NewTitleService(titleRepo *repository.TitleRepo, categoryRepo *repository.CategoryRepo, genreRepo *repository.GenreRepo) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
	}
}

func (s *titleService) List(ctx context.Context, f repository.TitleFilter) ([]repository.TitleWithRating, int64, error) {
	return s.titleRepo.List(ctx, f)
}

func (s *titleService) GetByID(ctx context.Context, id int64) (*repository.TitleWithRating, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	return title, nil
}

func (s *titleService) Create(ctx context.Context, req dto.CreateTitleRequest) (*repository.TitleWithRating, error) {
	if err := validateYear(req.Year); err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
	}

	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}
	if len(req.Genre) > 0 {
		genres, err := s.resolveGenres(ctx, req.Genre)
		if err != nil {
			return nil, err
		}
		title.Genres = genres
	}

	if err := s.titleRepo.Create(ctx, title); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validate.Errors{"name": {"A title with this name already exists."}}
		}
		return nil, err
	}
	return s.GetByID(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, id int64, req dto.UpdateTitleRequest) (*repository.TitleWithRating, error) {
	if err := validateYear(req.Year); err != nil {
		return nil, err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	title := existing.Title

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = req.Year
	}
	if req.Description != nil {
		title.Description = req.Description
	}
	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	// Detach loaded associations so Save only touches the titles row.
	title.Category = nil
	genres := title.Genres
	title.Genres = nil

	if err := s.titleRepo.Update(ctx, &title); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validate.Errors{"name": {"A title with this name already exists."}}
		}
		return nil, err
	}

	if req.Genre != nil {
		genres, err = s.resolveGenres(ctx, req.Genre)
		if err != nil {
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(ctx, &title, genres); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validate.Errors{"category": {"Category with this slug does not exist."}}
		}
		return nil, err
	}
	return category, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return []models.Genre{}, nil
	}
	genres, err := s.genreRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validate.Errors{"genre": {"One or more genre slugs do not exist."}}
		}
		return nil, err
	}
	return genres, nil
}

// validateYear enforces the upper bound only: a title cannot be dated in the
// future, but there is no oldest allowed year.
func validateYear(year *int) error {
	if year != nil && *year > time.Now().Year() {
		return validate.Errors{"year": {"Year cannot be in the future."}}
	}
	return nil
}
