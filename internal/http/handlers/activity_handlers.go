package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rogerio-castellano/bizmanage/internal/events"
	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/rogerio-castellano/bizmanage/internal/repo"
)

// recordActivity logs a mutation by the caller of r. Failures never fail the request.
func recordActivity(r *http.Request, activity, entityType string, entityID int) {
	recordActivityAs(r, callerID(r), activity, entityType, entityID)
}

func recordActivityAs(r *http.Request, userID *int, activity, entityType string, entityID int) {
	if activityRepo == nil {
		return
	}
	entry, err := activityRepo.Create(r.Context(), models.ActivityLog{
		UserID:     userID,
		Activity:   activity,
		EntityType: entityType,
		EntityID:   &entityID,
	})
	if err != nil {
		logger.Error().Err(err).Str("activity", activity).Msg("could not record activity")
		return
	}

	if err := publisher.Publish(r.Context(), events.Activity(entry)); err != nil {
		logger.Warn().Err(err).Int("activity_id", entry.ID).Msg("could not publish activity")
	}
}

// withUsers attaches the acting user to each entry.
func withUsers(r *http.Request, logs []models.ActivityLog) ([]ActivityResponse, error) {
	users, err := userRepo.List(r.Context())
	if err != nil {
		return nil, err
	}
	byID := make(map[int]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]ActivityResponse, len(logs))
	for i, l := range logs {
		out[i] = ActivityResponse{ActivityLog: l}
		if l.UserID != nil {
			if u, ok := byID[*l.UserID]; ok {
				out[i].User = &u
			}
		}
	}
	return out, nil
}

// ListActivitiesHandler godoc
// @Summary List recent activities
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of entries (default 10)"
// @Success 200 {array} ActivityResponse
// @Failure 400 {string} string "Invalid limit"
// @Router /api/activities [get]
func ListActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit")
	if !ok || (limit != nil && *limit <= 0) {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}
	n := 0
	if limit != nil {
		n = *limit
	}

	logs, err := activityRepo.ListRecent(r.Context(), n)
	if err != nil {
		writeStoreError(w, err, "activity")
		return
	}
	resp, err := withUsers(r, logs)
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	respond(w, http.StatusOK, resp)
}

// parseTimeParam reads an RFC 3339 query parameter.
func parseTimeParam(r *http.Request, name string) (*time.Time, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, true
	}
	// Reverse the substitution of + by space in the offset, otherwise time.Parse fails.
	// Example: 2025-07-03T17:44:03+02:00 arrives as 2025-07-03T17:44:03 02:00.
	if len(s) == len(time.RFC3339) && s[len(s)-6] == ' ' {
		s = s[:len(s)-6] + "+" + s[len(s)-5:]
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &ts, true
}

func activityFilter(w http.ResponseWriter, r *http.Request) (repo.ActivityFilter, bool) {
	f := repo.ActivityFilter{EntityType: r.URL.Query().Get("entityType")}

	var ok bool
	if f.Since, ok = parseTimeParam(r, "since"); !ok {
		http.Error(w, "invalid since date format", http.StatusBadRequest)
		return f, false
	}
	if f.Until, ok = parseTimeParam(r, "until"); !ok {
		http.Error(w, "invalid until date format", http.StatusBadRequest)
		return f, false
	}
	if f.Limit, ok = queryInt(r, "limit"); !ok || (f.Limit != nil && *f.Limit <= 0) {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return f, false
	}
	if f.Offset, ok = queryInt(r, "offset"); !ok || (f.Offset != nil && *f.Offset < 0) {
		http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
		return f, false
	}
	return f, true
}

// SearchActivitiesHandler godoc
// @Summary Filter and paginate activities
// @Tags activities
// @Produce json
// @Security BearerAuth
// @Param entityType query string false "Only entries about this entity type"
// @Param since query string false "Entries from this timestamp (RFC3339)"
// @Param until query string false "Entries until this timestamp (RFC3339)"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ActivitiesSearchResult
// @Failure 400 {string} string "Invalid input"
// @Failure 500 {string} string "Internal error"
// @Router /api/activities/search [get]
func SearchActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	filter, ok := activityFilter(w, r)
	if !ok {
		return
	}

	logs, total, err := activityRepo.Filter(r.Context(), filter)
	if err != nil {
		writeStoreError(w, err, "activity")
		return
	}
	data, err := withUsers(r, logs)
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	respond(w, http.StatusOK, ActivitiesSearchResult{Data: data, Meta: Meta{TotalCount: total}})
}

func optionalInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

// ExportActivitiesHandler godoc
// @Summary Export activities
// @Tags activities
// @Produce text/csv, application/json
// @Security BearerAuth
// @Param format query string true "Export format (csv or json)"
// @Param entityType query string false "Only entries about this entity type"
// @Param since query string false "Filter from timestamp (RFC3339)"
// @Param until query string false "Filter until timestamp (RFC3339)"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid input"
// @Failure 500 {string} string "Internal error"
// @Router /api/activities/export [get]
func ExportActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		http.Error(w, "format must be 'csv' or 'json'", http.StatusBadRequest)
		return
	}
	filter, ok := activityFilter(w, r)
	if !ok {
		return
	}

	logs, _, err := activityRepo.Filter(r.Context(), filter)
	if err != nil {
		writeStoreError(w, err, "activity")
		return
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="activities.json"`)
		if err := json.NewEncoder(w).Encode(logs); err != nil {
			logger.Error().Err(err).Msg("failed to encode activities")
		}

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="activities.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{"id", "user_id", "activity", "entity_type", "entity_id", "timestamp"})
		for _, l := range logs {
			_ = csvWriter.Write([]string{
				strconv.Itoa(l.ID),
				optionalInt(l.UserID),
				l.Activity,
				l.EntityType,
				optionalInt(l.EntityID),
				l.Timestamp.UTC().Format(time.RFC3339),
			})
		}
		csvWriter.Flush()
	}
}
