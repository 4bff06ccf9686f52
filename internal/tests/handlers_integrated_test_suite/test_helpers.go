package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rogerio-castellano/bizmanage/internal/auth"
	"github.com/rogerio-castellano/bizmanage/internal/db"
	handler "github.com/rogerio-castellano/bizmanage/internal/http/handlers"
	"github.com/rogerio-castellano/bizmanage/internal/insights"
	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/rogerio-castellano/bizmanage/internal/repo"
)

var (
	token      string
	database   *sql.DB
	userRepo   *repo.PostgresUserRepository
	categoryID int
	ai         = &cannedCompleter{}
)

type cannedCompleter struct {
	reply string
	err   error
}

func (c *cannedCompleter) Complete(context.Context, string, string) (string, error) {
	return c.reply, c.err
}

// setup connects to url, migrates, wires Postgres repositories into the handlers and creates the admin account.
func setup(url, password string) error {
	ctx := context.Background()
	auth.Configure("integrated-suite-secret", 15*time.Minute)

	var err error
	database, err = db.Connect(ctx, url)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	if _, err := db.Migrate(database); err != nil {
		return err
	}
	if err := truncateAll(); err != nil {
		return err
	}

	userRepo = repo.NewPostgresUserRepository(database)
	branchRepo := repo.NewPostgresBranchRepository(database)
	categoryRepo := repo.NewPostgresCategoryRepository(database)
	productRepo := repo.NewPostgresProductRepository(database)
	inventoryRepo := repo.NewPostgresInventoryRepository(database)
	customerRepo := repo.NewPostgresCustomerRepository(database)
	supplierRepo := repo.NewPostgresSupplierRepository(database)
	orderRepo := repo.NewPostgresOrderRepository(database)
	itemRepo := repo.NewPostgresOrderItemRepository(database)

	handler.SetUserRepo(userRepo)
	handler.SetBranchRepo(branchRepo)
	handler.SetCategoryRepo(categoryRepo)
	handler.SetProductRepo(productRepo)
	handler.SetInventoryRepo(inventoryRepo)
	handler.SetCustomerRepo(customerRepo)
	handler.SetSupplierRepo(supplierRepo)
	handler.SetOrderRepos(orderRepo, itemRepo)
	handler.SetActivityRepo(repo.NewPostgresActivityRepository(database))
	handler.SetDashboardRepo(repo.NewPostgresDashboardRepository(database))
	handler.SetRefreshStore(auth.NewMemoryRefreshStore())
	handler.SetLogger(zerolog.Nop())
	handler.SetInsightService(insights.NewService(&insights.Aggregator{
		Orders:     orderRepo,
		OrderItems: itemRepo,
		Customers:  customerRepo,
		Products:   productRepo,
		Inventory:  inventoryRepo,
		Branches:   branchRepo,
		Suppliers:  supplierRepo,
	}, ai, zerolog.Nop(), 2*time.Second))

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if _, err := userRepo.CreateUser(ctx, models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		FullName:     "Admin",
		Email:        "admin@example.com",
		Role:         models.RoleAdmin,
	}); err != nil {
		return fmt.Errorf("could not create admin: %w", err)
	}

	category, err := categoryRepo.Create(ctx, models.ProductCategory{Name: "Electronics"})
	if err != nil {
		return fmt.Errorf("could not create category: %w", err)
	}
	categoryID = category.ID
	return nil
}

func truncateAll() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, `TRUNCATE TABLE activity_logs, order_items, orders, inventory, products,
		product_categories, customers, suppliers, users, branches RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

// clearBusinessData empties everything except users and categories.
func clearBusinessData() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := database.ExecContext(ctx, `TRUNCATE TABLE activity_logs, order_items, orders, inventory, products,
		customers, suppliers, branches RESTART IDENTITY CASCADE`)
	if err != nil {
		fmt.Println(fmt.Errorf("failed to truncate tables: %w", err))
	}
	ai.reply, ai.err = "", nil
}

func userRoleToken(r http.Handler, username string) (string, error) {
	password := "secret-password"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	_, err := userRepo.CreateUser(context.Background(), models.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Regular " + username,
		Email:        username + "@example.com",
	})
	if err != nil {
		return "", err
	}
	return generateToken(r, username, password)
}

func generateToken(r http.Handler, username, password string) (string, error) {
	body, _ := json.Marshal(handler.CredentialsRequest{Username: username, Password: password})

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d", w.Code)
	}
	var resp handler.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func call(r http.Handler, bearer, method, path string, payload any) *httptest.ResponseRecorder {
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
