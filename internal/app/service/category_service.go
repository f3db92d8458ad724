package service

import (
	"errors"

	"github.com/hvngo/shop-backend/internal/app/model"
	"github.com/hvngo/shop-backend/internal/app/repository"
	"github.com/hvngo/shop-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryService interface {
	CreateCategory(category *model.Category) error
	GetAllCategories() ([]model.Category, error)
	GetCategoryByID(id uint) (*model.Category, error)
	UpdateCategory(category *model.Category) error
	DeleteCategory(id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(category *model.Category) error {
	if err := s.categoryRepo.Create(category); err != nil {
		logger.Error("Failed to create category", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}

	logger.Info("Category created successfully", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return nil
}

func (s *categoryService) GetAllCategories() ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		logger.Error("Failed to fetch categories", err, nil)
		return nil, err
	}
	return categories, nil
}

func (s *categoryService) GetCategoryByID(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		logger.Error("Failed to fetch category", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(category *model.Category) error {
	if err := s.categoryRepo.Update(category); err != nil {
		logger.Error("Failed to update category", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}

	logger.Info("Category updated successfully", map[string]interface{}{
		"category_id": category.ID,
	})
	return nil
}

func (s *categoryService) DeleteCategory(id uint) error {
	rows, err := s.categoryRepo.Delete(id)
	if err != nil {
		logger.Error("Failed to delete category", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}
	if rows == 0 {
		return ErrCategoryNotFound
	}

	logger.Info("Category deleted successfully", map[string]interface{}{
		"category_id": id,
	})
	return nil
}
