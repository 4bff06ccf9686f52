package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/rogerio-castellano/bizmanage/internal/repo"
	"github.com/shopspring/decimal"
)

func applyProduct(p *models.Product, req ProductRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.SKU != nil {
		p.SKU = *req.SKU
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.CategoryID != nil {
		p.CategoryID = *req.CategoryID
	}
	if req.InStock != nil {
		p.InStock = *req.InStock
	}
	if req.MinStockLevel != nil {
		p.MinStockLevel = *req.MinStockLevel
	}
}

// checkCategory adds a validation error when categoryID does not exist.
func checkCategory(r *http.Request, v *validator, categoryID *int) error {
	if categoryID == nil || *categoryID <= 0 {
		return nil
	}
	_, err := categoryRepo.GetByID(r.Context(), *categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		v.add("categoryId", "category does not exist")
		return nil
	}
	return err
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the catalog
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} models.Product
// @Failure 400 {object} ValidationErrors
// @Failure 409 {string} string "SKU taken"
// @Router /api/products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	v := validateProduct(req, true)
	if err := checkCategory(r, v, req.CategoryID); err != nil {
		writeStoreError(w, err, "category")
		return
	}
	if v.failed(w) {
		return
	}

	product := models.Product{InStock: true, MinStockLevel: models.DefaultMinStockLevel}
	applyProduct(&product, req)
	created, err := productRepo.Create(r.Context(), product)
	if err != nil {
		writeStoreError(w, err, "product")
		return
	}
	recordActivity(r, "Product created", "product", created.ID)
	respond(w, http.StatusCreated, created)
}

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Product
// @Failure 500 {string} string "Internal error"
// @Router /api/products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productRepo.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "product")
		return
	}
	respond(w, http.StatusOK, products)
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} models.Product
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	product, err := productRepo.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "product")
		return
	}
	respond(w, http.StatusOK, product)
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Param id path int true "Product ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/products/{id} [delete]
// @Security BearerAuth
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	if err := productRepo.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "product")
		return
	}
	recordActivity(r, "Product deleted", "product", id)
	w.WriteHeader(http.StatusNoContent)
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body ProductRequest true "Fields to change"
// @Success 200 {object} models.Product
// @Failure 400 {object} ValidationErrors
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /api/products/{id} [put]
// @Security BearerAuth
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}

	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	v := validateProduct(req, false)
	if err := checkCategory(r, v, req.CategoryID); err != nil {
		writeStoreError(w, err, "category")
		return
	}
	if v.failed(w) {
		return
	}

	product, err := productRepo.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "product")
		return
	}
	applyProduct(&product, req)
	updated, err := productRepo.Update(r.Context(), product)
	if err != nil {
		writeStoreError(w, err, "product")
		return
	}
	recordActivity(r, "Product updated", "product", updated.ID)
	respond(w, http.StatusOK, updated)
}

func parseDecimalPtr(s string) (*decimal.Decimal, bool) {
	if s == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, false
	}
	return &d, true
}

// FilterProductsHandler godoc
// @Summary Filter and paginate products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param name query string false "Filter by name"
// @Param categoryId query int false "Filter by category"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /api/products/search [get]
func FilterProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repo.ProductFilter{Name: q.Get("name")}
	var ok [5]bool
	filter.CategoryID, ok[0] = queryInt(r, "categoryId")
	filter.MinPrice, ok[1] = parseDecimalPtr(q.Get("minPrice"))
	filter.MaxPrice, ok[2] = parseDecimalPtr(q.Get("maxPrice"))
	filter.Offset, ok[3] = queryInt(r, "offset")
	filter.Limit, ok[4] = queryInt(r, "limit")
	for _, good := range ok {
		if !good {
			http.Error(w, "invalid query parameter", http.StatusBadRequest)
			return
		}
	}

	if filter.Limit != nil && *filter.Limit <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}
	if filter.Offset != nil && *filter.Offset < 0 {
		http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
		return
	}

	products, total, err := productRepo.Filter(r.Context(), filter)
	if err != nil {
		writeStoreError(w, err, "product")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	respond(w, http.StatusOK, ProductsSearchResult{Data: products, Meta: Meta{TotalCount: total}})
}
