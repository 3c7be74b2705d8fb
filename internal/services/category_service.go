package services

import (
	"context"
	"errors"
	"fmt"

	"gastronom/internal/caching"
	"gastronom/internal/catalog"
	"gastronom/internal/models"
	"gastronom/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrCategoryNotEmpty rejects deletion of a category that still has
// children or products; callers must reassign them first.
var ErrCategoryNotEmpty = errors.New("category still has children or products")

type CategoryService interface {
	Create(ctx context.Context, name string, parentID *uuid.UUID) (*models.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Rename(ctx context.Context, id uuid.UUID, name string) error
	Reparent(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Category, error)
	Tree(ctx context.Context) (*catalog.Tree, error)
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	productRepo  repositories.ProductRepository
	cacheService caching.CacheService
}

func NewCategoryService(categoryRepo repositories.CategoryRepository, productRepo repositories.ProductRepository, cacheService caching.CacheService) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		cacheService: cacheService,
	}
}

func (s *categoryService) Create(ctx context.Context, name string, parentID *uuid.UUID) (*models.Category, error) {
	if name == "" {
		return nil, errors.New("category name is required")
	}
	if parentID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *parentID); err != nil {
			return nil, fmt.Errorf("parent category: %w", err)
		}
	}

	category := &models.Category{
		ID:       uuid.New(),
		Name:     name,
		ParentID: parentID,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if cached, err := s.cacheService.GetCategory(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		zap.S().Warnw("category cache read failed", "category_id", id, "error", err)
	}
	return s.categoryRepo.GetByID(ctx, id)
}

func (s *categoryService) Rename(ctx context.Context, id uuid.UUID, name string) error {
	if name == "" {
		return errors.New("category name is required")
	}
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return err
	}
	s.dropFromCache(ctx, id)
	return nil
}

// Reparent moves a category under a new parent (nil makes it a root). The
// whole forest is loaded and checked so the move can never introduce a
// cycle or a self-parent.
func (s *categoryService) Reparent(ctx context.Context, id uuid.UUID, newParentID *uuid.UUID) error {
	all, err := s.categoryRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	tree, err := catalog.NewTree(all)
	if err != nil {
		return fmt.Errorf("stored hierarchy is invalid: %w", err)
	}
	if err := tree.ValidateReparent(id, newParentID); err != nil {
		return err
	}

	category, ok := tree.Get(id)
	if !ok {
		return repositories.ErrNotFound
	}
	category.ParentID = newParentID
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return err
	}
	s.dropFromCache(ctx, id)
	return nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	hasChildren, err := s.categoryRepo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return ErrCategoryNotEmpty
	}
	productCount, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if productCount > 0 {
		return ErrCategoryNotEmpty
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.dropFromCache(ctx, id)
	return nil
}

func (s *categoryService) List(ctx context.Context, limit, offset int) ([]*models.Category, error) {
	limit, offset = clampPage(limit, offset)
	return s.categoryRepo.List(ctx, limit, offset)
}

// Tree loads the full hierarchy as an arena; construction fails if the
// stored parent relation is not a forest.
func (s *categoryService) Tree(ctx context.Context) (*catalog.Tree, error) {
	all, err := s.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.NewTree(all)
}

func (s *categoryService) dropFromCache(ctx context.Context, id uuid.UUID) {
	if err := s.cacheService.DeleteCategory(ctx, id); err != nil {
		zap.S().Warnw("category cache invalidation failed", "category_id", id, "error", err)
	}
}
