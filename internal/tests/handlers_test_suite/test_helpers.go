package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/rogerio-castellano/bizmanage/internal/auth"
	handler "github.com/rogerio-castellano/bizmanage/internal/http/handlers"
	"github.com/rogerio-castellano/bizmanage/internal/http/router"
	"github.com/rogerio-castellano/bizmanage/internal/insights"
	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/rogerio-castellano/bizmanage/internal/repo"
)

var (
	token       string
	adminID     int
	categoryID  int
	userRepo    *repo.InMemoryUserRepository
	branchRepo  *repo.InMemoryBranchRepository
	productRepo *repo.InMemoryProductRepository
	invRepo     *repo.InMemoryInventoryRepository
	custRepo    *repo.InMemoryCustomerRepository
	supRepo     *repo.InMemorySupplierRepository
	orderRepo   *repo.InMemoryOrderRepository
	itemRepo    *repo.InMemoryOrderItemRepository
	actRepo     *repo.InMemoryActivityRepository
	ai          = &scriptedCompleter{}
)

// scriptedCompleter answers every completion with reply, or fails with err when set.
type scriptedCompleter struct {
	reply  string
	err    error
	calls  int
	prompt string
}

func (c *scriptedCompleter) Complete(_ context.Context, _, prompt string) (string, error) {
	c.calls++
	c.prompt = prompt
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func (c *scriptedCompleter) reset() {
	*c = scriptedCompleter{}
}

func init() {
	auth.Configure("handlers-suite-secret", 15*time.Minute)
	setupTestRepos("secret")

	var err error
	token, err = generateToken(router.NewRouter(), "admin", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func setupTestRepos(password string) {
	ctx := context.Background()

	userRepo = repo.NewInMemoryUserRepository()
	branchRepo = repo.NewInMemoryBranchRepository()
	categoryRepo := repo.NewInMemoryCategoryRepository()
	productRepo = repo.NewInMemoryProductRepository()
	invRepo = repo.NewInMemoryInventoryRepository()
	custRepo = repo.NewInMemoryCustomerRepository()
	supRepo = repo.NewInMemorySupplierRepository()
	orderRepo = repo.NewInMemoryOrderRepository()
	itemRepo = orderRepo.Items()
	actRepo = repo.NewInMemoryActivityRepository()

	dashboardRepo := repo.NewInMemoryDashboardRepository()
	dashboardRepo.SetRepositories(branchRepo, productRepo, invRepo, custRepo, orderRepo, actRepo)

	handler.SetUserRepo(userRepo)
	handler.SetBranchRepo(branchRepo)
	handler.SetCategoryRepo(categoryRepo)
	handler.SetProductRepo(productRepo)
	handler.SetInventoryRepo(invRepo)
	handler.SetCustomerRepo(custRepo)
	handler.SetSupplierRepo(supRepo)
	handler.SetOrderRepos(orderRepo, itemRepo)
	handler.SetActivityRepo(actRepo)
	handler.SetDashboardRepo(dashboardRepo)
	handler.SetRefreshStore(auth.NewMemoryRefreshStore())
	handler.SetLogger(zerolog.Nop())

	aggregator := &insights.Aggregator{
		Orders:     orderRepo,
		OrderItems: itemRepo,
		Customers:  custRepo,
		Products:   productRepo,
		Inventory:  invRepo,
		Branches:   branchRepo,
		Suppliers:  supRepo,
	}
	handler.SetInsightService(insights.NewService(aggregator, ai, zerolog.Nop(), time.Second))

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	admin, err := userRepo.CreateUser(ctx, models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		FullName:     "Admin",
		Email:        "admin@example.com",
		Role:         models.RoleAdmin,
	})
	if err != nil {
		panic(fmt.Sprintf("error creating admin: %v", err))
	}
	adminID = admin.ID

	category, err := categoryRepo.Create(ctx, models.ProductCategory{Name: "Electronics"})
	if err != nil {
		panic(fmt.Sprintf("error creating category: %v", err))
	}
	categoryID = category.ID
}

func clearAll() {
	productRepo.Clear()
	branchRepo.Clear()
	invRepo.Clear()
	custRepo.Clear()
	supRepo.Clear()
	orderRepo.Clear()
	itemRepo.Clear()
	actRepo.Clear()
	ai.reset()
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.CredentialsRequest{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", w.Code, w.Body.String())
	}
	var resp handler.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

// call sends payload as JSON with the admin token. A nil payload sends no body.
func call(r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	return callAs(r, token, method, path, payload)
}

func callAs(r http.Handler, bearer, method, path string, payload any) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) (T, error) {
	var v T
	err := json.NewDecoder(w.Body).Decode(&v)
	return v, err
}

func ptr[T any](v T) *T {
	return &v
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	return call(r, http.MethodPost, "/api/products", p)
}

func newProductRequest(name, sku, price string) handler.ProductRequest {
	req := handler.ProductRequest{Name: ptr(name), SKU: ptr(sku), CategoryID: ptr(categoryID)}
	if price != "" {
		req.Price = ptr(mustDecimal(price))
	}
	return req
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func createBranch(t *testing.T, r http.Handler, name string) models.Branch {
	t.Helper()
	w := call(r, http.MethodPost, "/api/branches", handler.BranchRequest{Name: ptr(name), Address: ptr("1 Main St")})
	if w.Code != http.StatusCreated {
		t.Fatalf("creating branch %q: expected 201, got %d: %s", name, w.Code, w.Body.String())
	}
	b, err := decode[models.Branch](w)
	if err != nil {
		t.Fatalf("decoding branch: %v", err)
	}
	return b
}

func createCustomer(t *testing.T, r http.Handler, name string) models.Customer {
	t.Helper()
	w := call(r, http.MethodPost, "/api/customers", handler.CustomerRequest{Name: ptr(name)})
	if w.Code != http.StatusCreated {
		t.Fatalf("creating customer %q: expected 201, got %d: %s", name, w.Code, w.Body.String())
	}
	c, err := decode[models.Customer](w)
	if err != nil {
		t.Fatalf("decoding customer: %v", err)
	}
	return c
}

func mustCreateProduct(t *testing.T, r http.Handler, name, sku, price string) models.Product {
	t.Helper()
	w := createProduct(r, newProductRequest(name, sku, price))
	if w.Code != http.StatusCreated {
		t.Fatalf("creating product %q: expected 201, got %d: %s", name, w.Code, w.Body.String())
	}
	p, err := decode[models.Product](w)
	if err != nil {
		t.Fatalf("decoding product: %v", err)
	}
	return p
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func hasFieldError(errs handler.ValidationErrors, field string) bool {
	for _, e := range errs.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}
