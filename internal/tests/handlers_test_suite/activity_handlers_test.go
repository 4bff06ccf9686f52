package handlers_test_suite

import (
	"encoding/csv"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	handler "github.com/rogerio-castellano/bizmanage/internal/http/handlers"
	"github.com/rogerio-castellano/bizmanage/internal/http/router"
	"github.com/rogerio-castellano/bizmanage/internal/models"
)

func TestListActivitiesHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	for i := 0; i < 12; i++ {
		createBranch(t, r, "Branch "+strconv.Itoa(i))
	}

	w := call(r, http.MethodGet, "/api/activities", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	activities, err := decode[[]handler.ActivityResponse](w)
	if err != nil {
		t.Fatalf("error decoding activities: %v", err)
	}
	if len(activities) != 10 {
		t.Fatalf("expected default limit of 10, got %d", len(activities))
	}
	if activities[0].Activity != "Branch created" || activities[0].EntityType != "branch" {
		t.Errorf("unexpected newest activity %+v", activities[0].ActivityLog)
	}
	if activities[0].User == nil || activities[0].User.Username != "admin" {
		t.Errorf("expected activity enriched with admin user, got %+v", activities[0].User)
	}
	if activities[0].ID < activities[1].ID {
		t.Errorf("expected newest first, got ids %d then %d", activities[0].ID, activities[1].ID)
	}

	w = call(r, http.MethodGet, "/api/activities?limit=3", nil)
	limited, _ := decode[[]handler.ActivityResponse](w)
	if len(limited) != 3 {
		t.Errorf("expected 3 activities, got %d", len(limited))
	}

	w = call(r, http.MethodGet, "/api/activities?limit=0", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for zero limit, got %d", w.Code)
	}
}

func TestSearchActivitiesHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	createBranch(t, r, "North")
	createCustomer(t, r, "Acme")
	createCustomer(t, r, "Globex")

	w := call(r, http.MethodGet, "/api/activities/search?entityType=customer&limit=1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	resp, err := decode[handler.ActivitiesSearchResult](w)
	if err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Meta.TotalCount != 2 {
		t.Errorf("expected 2 customer activities, got %d", resp.Meta.TotalCount)
	}
	if len(resp.Data) != 1 {
		t.Errorf("expected one entry on the page, got %d", len(resp.Data))
	}

	future := url.QueryEscape(time.Now().Add(time.Hour).Format(time.RFC3339))
	w = call(r, http.MethodGet, "/api/activities/search?since="+future, nil)
	resp, _ = decode[handler.ActivitiesSearchResult](w)
	if resp.Meta.TotalCount != 0 {
		t.Errorf("expected no activity in the future, got %d", resp.Meta.TotalCount)
	}

	w = call(r, http.MethodGet, "/api/activities/search?until=yesterday", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed until, got %d", w.Code)
	}
}

func TestExportActivitiesHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	createBranch(t, r, "North")
	createCustomer(t, r, "Acme")

	t.Run("csv", func(t *testing.T) {
		w := call(r, http.MethodGet, "/api/activities/export?format=csv", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
			t.Errorf("expected text/csv, got %q", ct)
		}
		rows, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
		if err != nil {
			t.Fatalf("invalid csv: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected header and 2 rows, got %d", len(rows))
		}
		if rows[0][2] != "activity" || rows[1][2] != "Customer created" {
			t.Errorf("unexpected csv content %v", rows)
		}
		if rows[1][1] != strconv.Itoa(adminID) {
			t.Errorf("expected user id %d, got %q", adminID, rows[1][1])
		}
	})

	t.Run("json", func(t *testing.T) {
		w := call(r, http.MethodGet, "/api/activities/export?format=json&entityType=branch", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		logs, err := decode[[]models.ActivityLog](w)
		if err != nil {
			t.Fatalf("error decoding export: %v", err)
		}
		if len(logs) != 1 || logs[0].Activity != "Branch created" {
			t.Errorf("unexpected export %+v", logs)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		w := call(r, http.MethodGet, "/api/activities/export?format=xml", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}
