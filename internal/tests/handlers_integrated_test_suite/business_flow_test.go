package handlers_integrated_test_suite

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	handler "github.com/rogerio-castellano/bizmanage/internal/http/handlers"
	"github.com/rogerio-castellano/bizmanage/internal/http/router"
	"github.com/rogerio-castellano/bizmanage/internal/insights"
	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/rogerio-castellano/bizmanage/internal/repo"
)

func importProducts(t *testing.T, r http.Handler, csvData, mode string) handler.ImportProductsResult {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "products.csv")
	if err != nil {
		t.Fatalf("fail to create form file: %v", err)
	}
	if _, err := part.Write([]byte(csvData)); err != nil {
		t.Fatalf("fail to write file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/products/import?mode="+mode, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	resp, err := decode[handler.ImportProductsResult](w)
	if err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestImportProductsHandler(t *testing.T) {
	t.Cleanup(clearBusinessData)
	r := router.NewRouter()

	csvData := fmt.Sprintf(`name,sku,price,categoryId
Mouse,MOU-1,25.99,%[1]d
Keyboard,KEY-1,45.00,%[1]d
Mouse v2,MOU-1,19.00,%[1]d`, categoryID)

	resp := importProducts(t, r, csvData, "skip")
	if resp.ImportedProductsCount != 2 || len(resp.Errors) != 1 {
		t.Errorf("expected 2 imports and 1 error in skip mode, got %d and %v", resp.ImportedProductsCount, resp.Errors)
	}

	resp = importProducts(t, r, csvData, "update")
	if resp.ImportedProductsCount != 3 || len(resp.Errors) != 0 {
		t.Errorf("expected 3 imports in update mode, got %d and %v", resp.ImportedProductsCount, resp.Errors)
	}

	w := call(r, token, http.MethodGet, "/api/products/search?name=mouse", nil)
	found, err := decode[handler.ProductsSearchResult](w)
	if err != nil {
		t.Fatalf("failed to decode search: %v", err)
	}
	if found.Meta.TotalCount != 1 || found.Data[0].Name != "Mouse v2" {
		t.Errorf("expected the updated mouse, got %+v", found)
	}
}

func TestOrderLifecycle(t *testing.T) {
	t.Cleanup(clearBusinessData)
	r := router.NewRouter()

	w := call(r, token, http.MethodPost, "/api/branches", handler.BranchRequest{Name: ptr("North"), Address: ptr("1 Main St")})
	branch, _ := decode[models.Branch](w)
	w = call(r, token, http.MethodPost, "/api/customers", handler.CustomerRequest{Name: ptr("Acme")})
	customer, _ := decode[models.Customer](w)
	price := decimal.RequireFromString("12.50")
	w = call(r, token, http.MethodPost, "/api/products", handler.ProductRequest{
		Name: ptr("Lamp"), SKU: ptr("LMP-1"), Price: &price, CategoryID: ptr(categoryID),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for product, got %d: %s", w.Code, w.Body.String())
	}
	product, _ := decode[models.Product](w)

	w = call(r, token, http.MethodPost, "/api/orders", handler.OrderRequest{
		CustomerID: customer.ID,
		BranchID:   branch.ID,
		Items:      []handler.OrderItemRequest{{ProductID: product.ID, Quantity: 4, Price: price}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for order, got %d: %s", w.Code, w.Body.String())
	}
	order, _ := decode[handler.OrderResponse](w)
	if !order.Total.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected total 50, got %v", order.Total)
	}

	path := fmt.Sprintf("/api/orders/%d/status", order.ID)
	w = call(r, token, http.MethodPut, path, handler.OrderStatusRequest{Status: "shipped"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %d", w.Code)
	}
	w = call(r, token, http.MethodPut, path, handler.OrderStatusRequest{Status: "completed"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on status update, got %d", w.Code)
	}

	w = call(r, token, http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), nil)
	stored, _ := decode[handler.OrderResponse](w)
	if stored.Status != models.StatusCompleted || len(stored.Items) != 1 {
		t.Errorf("unexpected stored order %+v", stored)
	}

	w = call(r, token, http.MethodGet, "/api/analytics/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for dashboard, got %d", w.Code)
	}
	dash, _ := decode[repo.Dashboard](w)
	if !dash.Stats.TotalSales.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected total sales 50, got %v", dash.Stats.TotalSales)
	}
	if !dash.Stats.Revenue.IsZero() {
		t.Errorf("expected no revenue from an unpaid order, got %v", dash.Stats.Revenue)
	}

	w = call(r, token, http.MethodGet, "/api/activities?limit=1", nil)
	activities, _ := decode[[]handler.ActivityResponse](w)
	if len(activities) != 1 || activities[0].Activity != "Order status updated to completed" {
		t.Errorf("expected the status change as latest activity, got %+v", activities)
	}
}

func TestInsightsAgainstPostgres(t *testing.T) {
	t.Cleanup(clearBusinessData)
	r := router.NewRouter()

	ai.reply = "```json\n{\"insights\": [{\"title\": \"Quiet period\", \"description\": \"No orders yet.\", \"type\": \"neutral\"}], \"summary\": \"Nothing to report.\"}\n```"

	w := call(r, token, http.MethodPost, "/api/insights", insights.Request{DataType: insights.DomainOverall, Timespan: insights.TimespanQuarter})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	resp, err := decode[insights.Response](w)
	if err != nil {
		t.Fatalf("failed to decode insights: %v", err)
	}
	if resp.Summary != "Nothing to report." || len(resp.Insights) != 1 {
		t.Errorf("unexpected insights %+v", resp)
	}
	if resp.Recommendations == nil {
		t.Error("expected recommendations to default to an empty list")
	}
	if resp.AnalysisDate == "" {
		t.Error("expected analysis date to be filled in")
	}
}
