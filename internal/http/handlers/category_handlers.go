package handlers

import (
	"net/http"
	"strings"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

// ListCategoriesHandler godoc
// @Summary List product categories
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ProductCategory
// @Router /api/product-categories [get]
func ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	categories, err := categoryRepo.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "category")
		return
	}
	respond(w, http.StatusOK, categories)
}

// CreateCategoryHandler godoc
// @Summary Create a product category
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body CategoryRequest true "Category to add"
// @Success 201 {object} models.ProductCategory
// @Failure 400 {object} ValidationErrors
// @Failure 409 {string} string "Name taken"
// @Router /api/product-categories [post]
func CreateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if validateCategory(req).failed(w) {
		return
	}

	created, err := categoryRepo.Create(r.Context(), models.ProductCategory{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	})
	if err != nil {
		writeStoreError(w, err, "category")
		return
	}
	recordActivity(r, "Product category created", "product_category", created.ID)
	respond(w, http.StatusCreated, created)
}
