package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

func applyBranch(b *models.Branch, req BranchRequest) {
	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.Address != nil {
		b.Address = *req.Address
	}
	if req.PhoneNumber != nil {
		b.PhoneNumber = *req.PhoneNumber
	}
	if req.Manager != nil {
		b.Manager = *req.Manager
	}
	if req.Active != nil {
		b.Active = *req.Active
	}
}

// ListBranchesHandler godoc
// @Summary List branches
// @Tags branches
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Branch
// @Failure 500 {string} string "Internal error"
// @Router /api/branches [get]
func ListBranchesHandler(w http.ResponseWriter, r *http.Request) {
	branches, err := branchRepo.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "branch")
		return
	}
	respond(w, http.StatusOK, branches)
}

// GetBranchHandler godoc
// @Summary Get branch by ID
// @Tags branches
// @Produce json
// @Security BearerAuth
// @Param id path int true "Branch ID"
// @Success 200 {object} models.Branch
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Router /api/branches/{id} [get]
func GetBranchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid branch ID", http.StatusBadRequest)
		return
	}
	branch, err := branchRepo.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "branch")
		return
	}
	respond(w, http.StatusOK, branch)
}

// CreateBranchHandler godoc
// @Summary Create a branch
// @Tags branches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param branch body BranchRequest true "Branch to add"
// @Success 201 {object} models.Branch
// @Failure 400 {object} ValidationErrors
// @Failure 409 {string} string "Name taken"
// @Router /api/branches [post]
func CreateBranchHandler(w http.ResponseWriter, r *http.Request) {
	var req BranchRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if validateBranch(req, true).failed(w) {
		return
	}

	branch := models.Branch{Active: true}
	applyBranch(&branch, req)
	created, err := branchRepo.Create(r.Context(), branch)
	if err != nil {
		writeStoreError(w, err, "branch")
		return
	}
	recordActivity(r, "Branch created", "branch", created.ID)
	respond(w, http.StatusCreated, created)
}

// UpdateBranchHandler godoc
// @Summary Update a branch
// @Tags branches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Branch ID"
// @Param branch body BranchRequest true "Fields to change"
// @Success 200 {object} models.Branch
// @Failure 400 {object} ValidationErrors
// @Failure 404 {string} string "Not found"
// @Router /api/branches/{id} [put]
func UpdateBranchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid branch ID", http.StatusBadRequest)
		return
	}
	var req BranchRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if validateBranch(req, false).failed(w) {
		return
	}

	branch, err := branchRepo.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "branch")
		return
	}
	applyBranch(&branch, req)
	updated, err := branchRepo.Update(r.Context(), branch)
	if err != nil {
		writeStoreError(w, err, "branch")
		return
	}
	recordActivity(r, "Branch updated", "branch", updated.ID)
	respond(w, http.StatusOK, updated)
}

// DeleteBranchHandler godoc
// @Summary Delete a branch
// @Tags branches
// @Security BearerAuth
// @Param id path int true "Branch ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Router /api/branches/{id} [delete]
func DeleteBranchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid branch ID", http.StatusBadRequest)
		return
	}
	if err := branchRepo.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "branch")
		return
	}
	recordActivity(r, "Branch deleted", "branch", id)
	w.WriteHeader(http.StatusNoContent)
}
