package handlers

import (
	"time"

	"github.com/rogerio-castellano/bizmanage/internal/auth"
	"github.com/rogerio-castellano/bizmanage/internal/events"
	"github.com/rogerio-castellano/bizmanage/internal/insights"
	"github.com/rogerio-castellano/bizmanage/internal/logging"
	repo "github.com/rogerio-castellano/bizmanage/internal/repo"
	"github.com/rs/zerolog"
)

var (
	userRepo      repo.UserRepository
	branchRepo    repo.BranchRepository
	categoryRepo  repo.CategoryRepository
	productRepo   repo.ProductRepository
	inventoryRepo repo.InventoryRepository
	customerRepo  repo.CustomerRepository
	supplierRepo  repo.SupplierRepository
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	activityRepo  repo.ActivityRepository
	dashboardRepo repo.DashboardRepository

	insightService *insights.Service
)

var (
	refreshStore auth.RefreshStore = auth.NewMemoryRefreshStore()
	refreshTTL                     = 7 * 24 * time.Hour
	publisher    events.Publisher  = events.Nop{}
	logger       zerolog.Logger    = logging.Logger
)

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetBranchRepo(r repo.BranchRepository) {
	branchRepo = r
}

func SetCategoryRepo(r repo.CategoryRepository) {
	categoryRepo = r
}

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetInventoryRepo(r repo.InventoryRepository) {
	inventoryRepo = r
}

func SetCustomerRepo(r repo.CustomerRepository) {
	customerRepo = r
}

func SetSupplierRepo(r repo.SupplierRepository) {
	supplierRepo = r
}

func SetOrderRepos(orders repo.OrderRepository, items repo.OrderItemRepository) {
	orderRepo = orders
	orderItemRepo = items
}

func SetActivityRepo(r repo.ActivityRepository) {
	activityRepo = r
}

func SetDashboardRepo(r repo.DashboardRepository) {
	dashboardRepo = r
}

func SetRefreshStore(s auth.RefreshStore) {
	refreshStore = s
}

func SetRefreshTTL(ttl time.Duration) {
	if ttl > 0 {
		refreshTTL = ttl
	}
}

// SetPublisher replaces the activity event sink. nil restores the no-op publisher.
func SetPublisher(p events.Publisher) {
	if p == nil {
		p = events.Nop{}
	}
	publisher = p
}

func SetInsightService(s *insights.Service) {
	insightService = s
}

func SetLogger(l zerolog.Logger) {
	logger = l
}
