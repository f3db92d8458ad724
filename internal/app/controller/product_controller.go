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

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

type createProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
	ImageURL    string  `json:"image_url"`
	CategoryID  *uint   `json:"category_id"`
}

func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product payload: "+err.Error())
		return
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
	}

	err := ctrl.productService.CreateProduct(product)
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.BadRequest(c, apperrors.CategoryNotFound, "Category not found")
	case err != nil:
		respondStorageError(c, err, "product")
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Product created successfully", "product_id": product.ID})
	}
}

func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	products, err := ctrl.productService.GetAllProducts()
	if err != nil {
		respondStorageError(c, err, "product")
		return
	}

	c.JSON(http.StatusOK, products)
}

func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Product id must be a number")
		return
	}

	product, err := ctrl.productService.GetProductByID(uint(id))
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case err != nil:
		respondStorageError(c, err, "product")
	default:
		c.JSON(http.StatusOK, product)
	}
}

func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Product id must be a number")
		return
	}

	err = ctrl.productService.DeleteProduct(uint(id))
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case err != nil:
		respondStorageError(c, err, "product")
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
