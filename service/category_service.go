package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"service-desk/logger"
	"service-desk/model"
	"service-desk/repository"
	"service-desk/validation"
	"strings"
)

// CategoryService manages the category taxonomy.
type CategoryService struct {
	repo   repository.ICategoryRepository
	cache  ICacheClient
	policy AccessPolicy
}

func NewCategoryService(repo repository.ICategoryRepository, cache ICacheClient, policy AccessPolicy) *CategoryService {
	return &CategoryService{repo: repo, cache: cache, policy: policy}
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context, actor *model.User) ([]*model.Category, error) {
	if err := s.policy.Authorize(actor, ActionManageCategories); err != nil {
		return nil, err
	}
	return s.repo.ListCategories(ctx)
}

// Choices lists categories for the request form. Anyone may read them.
func (s *CategoryService) Choices(ctx context.Context) ([]*model.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *CategoryService) Get(ctx context.Context, actor *model.User, id int) (*model.Category, error) {
	if err := s.policy.Authorize(actor, ActionManageCategories); err != nil {
		return nil, err
	}
	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, actor *model.User, in model.CategoryInput) (*model.Category, error) {
	if err := s.policy.Authorize(actor, ActionManageCategories); err != nil {
		return nil, err
	}
	if errs := validation.Category(in); !errs.Empty() {
		return nil, errs
	}

	category := &model.Category{Name: strings.TrimSpace(in.Name)}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("could not create category: %w", err)
	}
	logger.Log.WithField("category_id", category.ID).Info("Category created")
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, actor *model.User, id int, in model.CategoryInput) (*model.Category, error) {
	category, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if errs := validation.Category(in); !errs.Empty() {
		return nil, errs
	}

	category.Name = strings.TrimSpace(in.Name)
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not update category: %w", err)
	}
	invalidateLanding(ctx, s.cache)
	logger.Log.WithField("category_id", id).Info("Category updated")
	return category, nil
}

// Delete removes a category unconditionally; requests that used it keep
// existing without a category.
func (s *CategoryService) Delete(ctx context.Context, actor *model.User, id int) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("could not delete category: %w", err)
	}
	invalidateLanding(ctx, s.cache)
	logger.Log.WithField("category_id", id).Info("Category deleted")
	return nil
}
