package handlers_test_suite

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rogerio-castellano/bizmanage/internal/http/router"
	"github.com/rogerio-castellano/bizmanage/internal/insights"
	"github.com/rogerio-castellano/bizmanage/internal/models"
)

const modelReply = "Here is my analysis.\n```json\n" + `{
  "insights": [
    {"title": "Revenue concentrated", "description": "One customer drives most sales.", "type": "warning",
     "metrics": [{"name": "share", "value": 75, "trend": "up"}], "tags": ["sales"]}
  ],
  "recommendations": [
    {"title": "Broaden the customer base", "description": "Run a referral campaign.", "priority": "high",
     "potentialImpact": "Lower dependency on one account", "implementation": "Email existing customers"}
  ],
  "summary": "Healthy but concentrated.",
  "analysisDate": "2026-01-02T03:04:05Z"
}` + "\n```"

func seedSales(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	customer, _ := custRepo.Create(ctx, models.Customer{Name: "Acme"})
	branch, _ := branchRepo.Create(ctx, models.Branch{Name: "Downtown", Address: "1 Main St"})
	product, _ := productRepo.Create(ctx, models.Product{Name: "Lamp", SKU: "LMP-1", Price: mustDecimal("20"), CategoryID: categoryID})

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, total := range []string{"40", "60"} {
		order := orderRepo.Insert(models.Order{
			CustomerID: customer.ID,
			BranchID:   branch.ID,
			OrderDate:  base.Add(time.Duration(i) * time.Hour),
			Total:      mustDecimal(total),
			Status:     models.StatusCompleted,
		})
		if _, err := itemRepo.Create(ctx, models.OrderItem{OrderID: order.ID, ProductID: product.ID, Quantity: 2, Price: mustDecimal("20")}); err != nil {
			t.Fatalf("seeding order item: %v", err)
		}
	}
}

func TestGenerateInsightsHandler_Success(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	seedSales(t)
	ai.reply = modelReply

	w := call(r, http.MethodPost, "/api/insights", insights.Request{DataType: insights.DomainSales, Timespan: insights.TimespanMonth})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	resp, err := decode[insights.Response](w)
	if err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(resp.Insights) != 1 || resp.Insights[0].Title != "Revenue concentrated" {
		t.Errorf("unexpected insights %+v", resp.Insights)
	}
	if len(resp.Recommendations) != 1 || resp.Recommendations[0].Priority != "high" {
		t.Errorf("unexpected recommendations %+v", resp.Recommendations)
	}
	if resp.AnalysisDate != "2026-01-02T03:04:05Z" {
		t.Errorf("expected analysis date from the model, got %q", resp.AnalysisDate)
	}

	if ai.calls != 1 {
		t.Fatalf("expected one completion call, got %d", ai.calls)
	}
	for _, want := range []string{"- Total Orders: 2", "- Total Revenue: $100.00", "- Average Order Value: $50.00", "- Customer Retention Rate: 100%"} {
		if !strings.Contains(ai.prompt, want) {
			t.Errorf("expected prompt to contain %q:\n%s", want, ai.prompt)
		}
	}
}

func TestGenerateInsightsHandler_EmptyStore(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	ai.reply = modelReply

	w := call(r, http.MethodPost, "/api/insights", insights.Request{DataType: insights.DomainSales, Timespan: insights.TimespanDay})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if !strings.Contains(ai.prompt, "- Total Revenue: $0.00") || !strings.Contains(ai.prompt, "- Top Selling Products: []") {
		t.Errorf("expected zeroed summary in prompt:\n%s", ai.prompt)
	}
}

func TestGenerateInsightsHandler_Fallback(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"transport failure", "", errors.New("connection reset")},
		{"prose without json", "I cannot help with that.", nil},
		{"json missing summary", "```json\n{\"insights\": []}\n```", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(clearAll)
			r := router.NewRouter()
			ai.reply, ai.err = tt.reply, tt.err

			w := call(r, http.MethodPost, "/api/insights", insights.Request{DataType: insights.DomainOverall, Timespan: insights.TimespanWeek})
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200 OK, got %d", w.Code)
			}

			resp, err := decode[insights.Response](w)
			if err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			if len(resp.Insights) != 1 || resp.Insights[0].Title != "Error Generating Insights" || resp.Insights[0].Type != "neutral" {
				t.Errorf("expected fallback insight, got %+v", resp.Insights)
			}
			if resp.Recommendations == nil || len(resp.Recommendations) != 0 {
				t.Errorf("expected empty recommendations, got %+v", resp.Recommendations)
			}
			if resp.Summary != "Unable to analyze data at this time." {
				t.Errorf("unexpected summary %q", resp.Summary)
			}
			if _, err := time.Parse(time.RFC3339, resp.AnalysisDate); err != nil {
				t.Errorf("expected RFC3339 analysis date, got %q", resp.AnalysisDate)
			}
		})
	}
}

func TestGenerateInsightsHandler_InvalidRequest(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	tests := []struct {
		name string
		body any
	}{
		{"unknown domain", insights.Request{DataType: "weather", Timespan: insights.TimespanDay}},
		{"unknown timespan", insights.Request{DataType: insights.DomainSales, Timespan: "decade"}},
		{"missing fields", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, http.MethodPost, "/api/insights", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
		})
	}
	if ai.calls != 0 {
		t.Errorf("expected no completion for invalid requests, got %d", ai.calls)
	}
}
