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

type CategoryService interface {
	List(ctx context.Context, search string, offset, limit int) ([]models.Category, int64, error)
	Create(ctx context.Context, req dto.CreateCategoryRequest) (*models.Category, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type categoryService struct {
	repo *repository.CategoryRepo
}

func NewCategoryService(repo *repository.CategoryRepo) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, search string, offset, limit int) ([]models.Category, int64, error) {
	return s.repo.List(ctx, search, offset, limit)
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryRequest) (*models.Category, error) {
	errs := validate.Errors{}
	errs.CheckSlug("slug", req.Slug)
	if errs.Any() {
		return nil, errs
	}

	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validate.Errors{"slug": {"A category with this slug already exists."}}
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) DeleteBySlug(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
