package insights

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildPromptEmptySales(t *testing.T) {
	p := BuildPrompt(Summary{
		Domain:   DomainSales,
		Timespan: TimespanWeek,
		Sales: &SalesSummary{
			TopSellingProducts: []ProductSales{},
		},
	})

	assert.Contains(t, p.System, "sales data analysis")
	assert.Contains(t, p.User, "- Timespan: week\n")
	assert.Contains(t, p.User, "- Total Orders: 0\n")
	assert.Contains(t, p.User, "- Total Revenue: $0.00\n")
	assert.Contains(t, p.User, "- Average Order Value: $0.00\n")
	assert.Contains(t, p.User, "- Top Selling Products: []\n")
	assert.Contains(t, p.User, "- Customer Retention Rate: 0%\n")
	assert.Contains(t, p.User, "3-5 key business insights and 2-3 actionable recommendations")
	assert.Contains(t, p.User, `"analysisDate": "ISO string of current date"`)
}

func TestBuildPromptPerDomain(t *testing.T) {
	inv := BuildPrompt(Summary{Domain: DomainInventory, Timespan: TimespanDay, Inventory: &InventorySummary{
		TotalProducts: 2,
		LowStockItems: 1,
		StockOutRisk:  []StockRisk{{ProductID: 1, ProductName: "Widget", Quantity: 3, BranchID: 2, BranchName: "North"}},
	}})
	assert.Contains(t, inv.System, "inventory management")
	assert.Contains(t, inv.User, `- Stock Out Risk Items: [{"productId":1,"productName":"Widget","quantity":3,"branchId":2,"branchName":"North"}]`)
	assert.Contains(t, inv.User, "overall inventory health")

	cust := BuildPrompt(Summary{Domain: DomainCustomers, Timespan: TimespanDay, Customers: &CustomerSummary{
		TotalCustomers:       3,
		ActiveCustomers:      1,
		EngagementRate:       100.0 / 3,
		AverageCustomerSpend: decimal.RequireFromString("19.999"),
		TopCustomers:         []CustomerSpend{{CustomerID: 1, CustomerName: "Ana", TotalSpent: decimal.RequireFromString("19.5"), OrderCount: 2}},
	}})
	assert.Contains(t, cust.System, "customer relationship management")
	assert.Contains(t, cust.User, "- Customer Engagement Rate: 33.33%\n")
	assert.Contains(t, cust.User, "- Average Customer Spend: $20.00\n")
	assert.Contains(t, cust.User, `"totalSpent":19.5`)

	all := BuildPrompt(Summary{Domain: DomainOverall, Timespan: TimespanYear, Overall: &OverallSummary{TotalBranches: 4}})
	assert.Contains(t, all.System, "holistic business analysis")
	assert.True(t, strings.HasPrefix(all.User, "I need you to analyze overall business data"))
	assert.Contains(t, all.User, "- Total Branches: 4\n")
}

func TestBuildPromptDeterministic(t *testing.T) {
	s := Summary{Domain: DomainSales, Timespan: TimespanDay, Sales: &SalesSummary{
		TotalOrders:           2,
		TotalRevenue:          decimal.RequireFromString("3"),
		CustomerRetentionRate: 100.0 / 3,
		TopSellingProducts:    []ProductSales{},
	}}
	assert.Equal(t, BuildPrompt(s), BuildPrompt(s))
	assert.Contains(t, BuildPrompt(s).User, "- Customer Retention Rate: 33.333333333333336%\n")
}
