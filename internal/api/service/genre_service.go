package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/validate"
)

type GenreService interface {
	List(ctx context.Context, search string, offset, limit int) ([]models.Genre, int64, error)
	Create(ctx context.Context, req dto.CreateGenreRequest) (*models.Genre, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type genreService struct {
	repo *repository.GenreRepo
}

func NewGenreService(repo *repository.GenreRepo) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) List(ctx context.Context, search string, offset, limit int) ([]models.Genre, int64, error) {
	return s.repo.List(ctx, search, offset, limit)
}

func (s *genreService) Create(ctx context.Context, req dto.CreateGenreRequest) (*models.Genre, error) {
	errs := validate.Errors{}
	errs.CheckSlug("slug", req.Slug)
	if errs.Any() {
		return nil, errs
	}

	genre := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, genre); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validate.Errors{"slug": {"A genre with this slug already exists."}}
		}
		return nil, err
	}
	return genre, nil
}

func (s *genreService) DeleteBySlug(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}
