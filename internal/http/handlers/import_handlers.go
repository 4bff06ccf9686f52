package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/rogerio-castellano/bizmanage/internal/repo"
	"github.com/shopspring/decimal"
)

type csvRow struct {
	Name          string
	SKU           string
	Description   string
	Price         decimal.Decimal
	CategoryID    int
	MinStockLevel int
}

var requiredColumns = []string{"name", "sku", "price", "categoryid"}

func parseCSV(file io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		price, _ := decimal.NewFromString(field(record, "price"))
		row := csvRow{
			Name:          field(record, "name"),
			SKU:           field(record, "sku"),
			Description:   field(record, "description"),
			Price:         price,
			CategoryID:    parseInt(field(record, "categoryid")),
			MinStockLevel: models.DefaultMinStockLevel,
		}
		if s := field(record, "minstocklevel"); s != "" {
			row.MinStockLevel = parseInt(s)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func validateRow(r csvRow) error {
	if r.Name == "" {
		return errors.New("missing name")
	}
	if r.SKU == "" {
		return errors.New("missing sku")
	}
	if !r.Price.IsPositive() {
		return errors.New("invalid price")
	}
	if r.CategoryID <= 0 {
		return errors.New("invalid categoryId")
	}
	if r.MinStockLevel < 0 {
		return errors.New("invalid minStockLevel")
	}
	return nil
}

// parseInt returns -1 for anything that is not a number so validation rejects it.
func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return v
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Columns: name, sku, price, categoryId and optionally description, minStockLevel. Rows are matched by SKU.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Invalid file"
// @Failure 500 {string} string "Internal error"
// @Router /api/products/import [post]
// @Security BearerAuth
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	imported := 0
	errorsList := []ValidationError{}
	rowError := func(row int, format string, args ...any) {
		errorsList = append(errorsList, ValidationError{
			Field:       fmt.Sprintf("row %d", row),
			Description: fmt.Sprintf(format, args...),
		})
	}

	for i, rec := range records {
		rowNum := i + 2 // header is row 1

		if err := validateRow(rec); err != nil {
			rowError(rowNum, "%v", err)
			continue
		}

		existing, err := productRepo.GetBySKU(ctx, rec.SKU)
		if err == nil {
			if mode == "skip" {
				rowError(rowNum, "product '%s' already exists", rec.SKU)
				continue
			}
			existing.Name = rec.Name
			existing.Description = rec.Description
			existing.Price = rec.Price
			existing.CategoryID = rec.CategoryID
			existing.MinStockLevel = rec.MinStockLevel
			if _, err := productRepo.Update(ctx, existing); err != nil {
				rowError(rowNum, "failed to update '%s'", rec.SKU)
				continue
			}
			imported++
			continue
		}
		if !errors.Is(err, repo.ErrNotFound) {
			rowError(rowNum, "lookup failed: %v", err)
			continue
		}

		created, err := productRepo.Create(ctx, models.Product{
			Name:          rec.Name,
			SKU:           rec.SKU,
			Description:   rec.Description,
			Price:         rec.Price,
			CategoryID:    rec.CategoryID,
			InStock:       true,
			MinStockLevel: rec.MinStockLevel,
		})
		if err != nil {
			rowError(rowNum, "%v", err)
			continue
		}
		recordActivity(r, "Product imported", "product", created.ID)
		imported++
	}

	respond(w, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: imported,
		Errors:                errorsList,
	})
}
