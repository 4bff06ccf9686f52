package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

// ListUsersHandler godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 403 {string} string "Forbidden"
// @Failure 500 {string} string "Internal error"
// @Router /api/users [get]
func ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := userRepo.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	respond(w, http.StatusOK, users)
}

// UpdateUserHandler godoc
// @Summary Update a user
// @Description Admins may change any user; others may only change themselves and never their role.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param user body UserUpdateRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} ValidationErrors
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /api/users/{id} [put]
func UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}
	claims, err := GetClaims(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req UserUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if validateUserUpdate(req).failed(w) {
		return
	}

	isAdmin := claims.Role == models.RoleAdmin
	if !isAdmin && (claims.UserID != id || req.Role != nil || req.Active != nil) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	user, err := userRepo.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.BranchID != nil {
		user.BranchID = req.BranchID
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	updated, err := userRepo.Update(r.Context(), user)
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	recordActivity(r, "User updated", "user", updated.ID)
	respond(w, http.StatusOK, updated)
}

// DeleteUserHandler godoc
// @Summary Delete a user
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /api/users/{id} [delete]
func DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid user ID", http.StatusBadRequest)
		return
	}
	if caller := callerID(r); caller != nil && *caller == id {
		http.Error(w, "cannot delete your own account", http.StatusBadRequest)
		return
	}
	if err := userRepo.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "user")
		return
	}
	recordActivity(r, "User deleted", "user", id)
	w.WriteHeader(http.StatusNoContent)
}
