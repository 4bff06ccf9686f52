package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rogerio-castellano/bizmanage/internal/config"
	"github.com/rogerio-castellano/bizmanage/internal/db"
	"github.com/rogerio-castellano/bizmanage/internal/http/handlers"
	"github.com/rogerio-castellano/bizmanage/internal/insights"
	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/rogerio-castellano/bizmanage/internal/repo"
)

type stores struct {
	users      repo.UserRepository
	branches   repo.BranchRepository
	categories repo.CategoryRepository
	products   repo.ProductRepository
	inventory  repo.InventoryRepository
	customers  repo.CustomerRepository
	suppliers  repo.SupplierRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	activities repo.ActivityRepository
	dashboard  repo.DashboardRepository

	db *sql.DB
}

func memoryStores() *stores {
	orders := repo.NewInMemoryOrderRepository()
	s := &stores{
		users:      repo.NewInMemoryUserRepository(),
		branches:   repo.NewInMemoryBranchRepository(),
		categories: repo.NewInMemoryCategoryRepository(),
		products:   repo.NewInMemoryProductRepository(),
		inventory:  repo.NewInMemoryInventoryRepository(),
		customers:  repo.NewInMemoryCustomerRepository(),
		suppliers:  repo.NewInMemorySupplierRepository(),
		orders:     orders,
		orderItems: orders.Items(),
		activities: repo.NewInMemoryActivityRepository(),
	}
	dashboard := repo.NewInMemoryDashboardRepository()
	dashboard.SetRepositories(s.branches, s.products, s.inventory, s.customers, s.orders, s.activities)
	s.dashboard = dashboard
	return s
}

func postgresStores(ctx context.Context, url string, log zerolog.Logger) (*stores, error) {
	database, err := db.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	version, err := db.Migrate(database)
	if err != nil {
		database.Close()
		return nil, err
	}
	log.Info().Uint("schema_version", version).Msg("database migrated")

	return &stores{
		users:      repo.NewPostgresUserRepository(database),
		branches:   repo.NewPostgresBranchRepository(database),
		categories: repo.NewPostgresCategoryRepository(database),
		products:   repo.NewPostgresProductRepository(database),
		inventory:  repo.NewPostgresInventoryRepository(database),
		customers:  repo.NewPostgresCustomerRepository(database),
		suppliers:  repo.NewPostgresSupplierRepository(database),
		orders:     repo.NewPostgresOrderRepository(database),
		orderItems: repo.NewPostgresOrderItemRepository(database),
		activities: repo.NewPostgresActivityRepository(database),
		dashboard:  repo.NewPostgresDashboardRepository(database),
		db:         database,
	}, nil
}

func openStores(ctx context.Context, cfg config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.Storage == config.StoragePostgres {
		return postgresStores(ctx, cfg.DatabaseURL, log)
	}
	return memoryStores(), nil
}

func (s *stores) install() {
	handlers.SetUserRepo(s.users)
	handlers.SetBranchRepo(s.branches)
	handlers.SetCategoryRepo(s.categories)
	handlers.SetProductRepo(s.products)
	handlers.SetInventoryRepo(s.inventory)
	handlers.SetCustomerRepo(s.customers)
	handlers.SetSupplierRepo(s.suppliers)
	handlers.SetOrderRepos(s.orders, s.orderItems)
	handlers.SetActivityRepo(s.activities)
	handlers.SetDashboardRepo(s.dashboard)
}

func (s *stores) aggregator() *insights.Aggregator {
	return &insights.Aggregator{
		Orders:     s.orders,
		OrderItems: s.orderItems,
		Customers:  s.customers,
		Products:   s.products,
		Inventory:  s.inventory,
		Branches:   s.branches,
		Suppliers:  s.suppliers,
	}
}

// ensureAdmin creates the bootstrap admin account when a password is configured and the user does not exist yet.
func (s *stores) ensureAdmin(ctx context.Context, username, password string) (bool, error) {
	if password == "" {
		return false, nil
	}
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return false, fmt.Errorf("looking up admin user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	_, err = s.users.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: string(hashed),
		FullName:     "Administrator",
		Email:        username + "@localhost",
		Role:         models.RoleAdmin,
		Active:       true,
	})
	if err != nil {
		return false, fmt.Errorf("creating admin user: %w", err)
	}
	return true, nil
}

func (s *stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
