package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hvngo/shop-backend/internal/app/model"
	"github.com/hvngo/shop-backend/internal/app/service"
	apperrors "github.com/hvngo/shop-backend/internal/errors"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Category name is required")
		return
	}

	category := &model.Category{Name: req.Name, Description: req.Description}
	if err := ctrl.categoryService.CreateCategory(category); err != nil {
		respondStorageError(c, err, "category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Category created successfully", "category_id": category.ID})
}

func (ctrl *CategoryController) GetAllCategories(c *gin.Context) {
	categories, err := ctrl.categoryService.GetAllCategories()
	if err != nil {
		respondStorageError(c, err, "category")
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (ctrl *CategoryController) GetCategoryByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Category id must be a number")
		return
	}

	category, err := ctrl.categoryService.GetCategoryByID(uint(id))
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
	case err != nil:
		respondStorageError(c, err, "category")
	default:
		c.JSON(http.StatusOK, category)
	}
}

func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Category id must be a number")
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Category name is required")
		return
	}

	category, err := ctrl.categoryService.GetCategoryByID(uint(id))
	if errors.Is(err, service.ErrCategoryNotFound) {
		apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		return
	} else if err != nil {
		respondStorageError(c, err, "category")
		return
	}

	category.Name = req.Name
	category.Description = req.Description
	if err := ctrl.categoryService.UpdateCategory(category); err != nil {
		respondStorageError(c, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category updated successfully"})
}

func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Category id must be a number")
		return
	}

	err = ctrl.categoryService.DeleteCategory(uint(id))
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
	case err != nil:
		respondStorageError(c, err, "category")
	default:
		c.Status(http.StatusNoContent)
	}
}
