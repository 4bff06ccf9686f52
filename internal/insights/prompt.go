package insights

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Prompt is what a Completer receives for one insight request.
type Prompt struct {
	System string
	User   string
}

const systemSuffix = " You provide clear, actionable insights and recommendations based on %s." +
	" Always format your response as valid JSON exactly matching the specified structure."

var systemPrompts = map[Domain]string{
	DomainSales:     "You are a business analytics AI specializing in sales data analysis." + fmt.Sprintf(systemSuffix, "business data"),
	DomainInventory: "You are a business analytics AI specializing in inventory management analysis." + fmt.Sprintf(systemSuffix, "business data"),
	DomainCustomers: "You are a business analytics AI specializing in customer relationship management." + fmt.Sprintf(systemSuffix, "customer data"),
	DomainOverall:   "You are a business analytics AI specializing in holistic business analysis." + fmt.Sprintf(systemSuffix, "business data across multiple departments"),
}

const answerInstructions = `
For each insight, include:
- A brief title
- A detailed description with supporting data
- The type (positive, negative, neutral, or opportunity)
- Any key metrics or data points

For each recommendation, include:
- A brief title
- A detailed description
- Priority level (low, medium, or high)
- Potential business impact
- Implementation guidance

Also provide a brief summary of the overall %s health.

Format your response as a JSON object with the following structure:
{
  "insights": [
    {
      "title": "string",
      "description": "string",
      "type": "positive|negative|neutral|opportunity",
      "metrics": [
        {
          "name": "string",
          "value": "string or number",
          "change": "string or number (optional)",
          "trend": "up|down|stable (optional)"
        }
      ],
      "tags": ["tag1", "tag2"]
    }
  ],
  "recommendations": [
    {
      "title": "string",
      "description": "string",
      "priority": "low|medium|high",
      "potentialImpact": "string",
      "implementation": "string",
      "tags": ["tag1", "tag2"]
    }
  ],
  "summary": "string",
  "analysisDate": "ISO string of current date"
}
`

// BuildPrompt renders s as a prompt. It has no side effects and the same
// summary always yields the same prompt.
func BuildPrompt(s Summary) Prompt {
	var b strings.Builder
	var subject, ask, health string

	switch {
	case s.Sales != nil:
		subject, health = "business sales data", "business"
		ask = "."
		line(&b, "Total Orders", strconv.Itoa(s.Sales.TotalOrders))
		line(&b, "Total Revenue", Money(s.Sales.TotalRevenue))
		line(&b, "Average Order Value", Money(s.Sales.AverageOrderValue))
		line(&b, "Top Selling Products", jsonList(productRows(s.Sales.TopSellingProducts)))
		line(&b, "Customer Retention Rate", Percent(s.Sales.CustomerRetentionRate))
	case s.Inventory != nil:
		subject, health = "business inventory data", "inventory"
		ask = "."
		line(&b, "Total Products", strconv.Itoa(s.Inventory.TotalProducts))
		line(&b, "Low Stock Items", strconv.Itoa(s.Inventory.LowStockItems))
		line(&b, "Stock Out Risk Items", jsonList(s.Inventory.StockOutRisk))
	case s.Customers != nil:
		subject, health = "business customer data", "customer"
		ask = "\nfor improving customer relationships and engagement."
		line(&b, "Total Customers", strconv.Itoa(s.Customers.TotalCustomers))
		line(&b, "Active Customers", strconv.Itoa(s.Customers.ActiveCustomers))
		line(&b, "Customer Engagement Rate", strconv.FormatFloat(s.Customers.EngagementRate, 'f', 2, 64)+"%")
		line(&b, "Average Customer Spend", Money(s.Customers.AverageCustomerSpend))
		line(&b, "Top Customers", jsonList(customerRows(s.Customers.TopCustomers)))
	case s.Overall != nil:
		subject, health = "overall business data", "business"
		ask = "\nthat take a holistic view of the business operations."
		line(&b, "Total Orders", strconv.Itoa(s.Overall.TotalOrders))
		line(&b, "Total Revenue", Money(s.Overall.TotalRevenue))
		line(&b, "Average Order Value", Money(s.Overall.AverageOrderValue))
		line(&b, "Total Customers", strconv.Itoa(s.Overall.TotalCustomers))
		line(&b, "Total Products", strconv.Itoa(s.Overall.TotalProducts))
		line(&b, "Low Stock Items", strconv.Itoa(s.Overall.LowStockItems))
		line(&b, "Total Suppliers", strconv.Itoa(s.Overall.TotalSuppliers))
		line(&b, "Total Branches", strconv.Itoa(s.Overall.TotalBranches))
	}

	intro := "I need you to analyze " + subject + " and provide insights and recommendations."
	if s.Overall != nil {
		intro = "I need you to analyze overall business data and provide holistic insights and recommendations."
	}

	user := intro + "\n\nData Summary:\n- Timespan: " + string(s.Timespan) + "\n" + b.String() +
		"\nBased on this data, please identify 3-5 key business insights and 2-3 actionable recommendations" + ask + "\n" +
		fmt.Sprintf(answerInstructions, health)

	return Prompt{System: systemPrompts[s.Domain], User: user}
}

func line(b *strings.Builder, label, value string) {
	b.WriteString("- ")
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}

// Money formats d as dollars with two decimals, e.g. $1234.50.
func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Percent prints a rate with the shortest exact representation, e.g. 50% or 33.333333333333336%.
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

type productRow struct {
	ProductID   int     `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

func productRows(ps []ProductSales) []productRow {
	rows := make([]productRow, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, productRow{p.ProductID, p.ProductName, p.Quantity, p.Revenue.InexactFloat64()})
	}
	return rows
}

type customerRow struct {
	CustomerID   int     `json:"customerId"`
	CustomerName string  `json:"customerName"`
	TotalSpent   float64 `json:"totalSpent"`
	OrderCount   int     `json:"orderCount"`
}

func customerRows(cs []CustomerSpend) []customerRow {
	rows := make([]customerRow, 0, len(cs))
	for _, c := range cs {
		rows = append(rows, customerRow{c.CustomerID, c.CustomerName, c.TotalSpent.InexactFloat64(), c.OrderCount})
	}
	return rows
}

// jsonList renders v compactly. Lists never fail to encode, so an error yields "[]".
func jsonList(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(raw)
}
