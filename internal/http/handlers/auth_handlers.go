package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/bizmanage/internal/auth"
	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/rogerio-castellano/bizmanage/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

// issueTokens creates an access token and a stored refresh token for user.
func issueTokens(r *http.Request, user models.User) (string, string, error) {
	token, err := auth.GenerateToken(user)
	if err != nil {
		return "", "", err
	}
	refresh := auth.NewRefreshToken()
	if err := refreshStore.Save(r.Context(), refresh, user.ID, refreshTTL); err != nil {
		return "", "", err
	}
	return token, refresh, nil
}

// RegisterHandler godoc
// @Summary Register new user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "New account"
// @Success 201 {object} RegisterResult
// @Failure 400 {object} ValidationErrors
// @Failure 409 {string} string "User exists"
// @Router /api/register [post]
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if validateRegister(req).failed(w) {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	user, err := userRepo.CreateUser(r.Context(), models.User{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(hashed),
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         models.RoleUser,
		BranchID:     req.BranchID,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "username or email already exists", http.StatusConflict)
			return
		}
		http.Error(w, "failed to register user", http.StatusInternalServerError)
		return
	}

	token, refresh, err := issueTokens(r, user)
	if err != nil {
		http.Error(w, "failed to generate token", http.StatusInternalServerError)
		return
	}

	recordActivityAs(r, &user.ID, "User registered", "user", user.ID)
	respond(w, http.StatusCreated, RegisterResult{
		Message:      "user registered",
		Token:        token,
		RefreshToken: refresh,
		User:         user,
	})
}

// LoginHandler godoc
// @Summary Authenticate user and return JWT and refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "Account disabled"
// @Router /api/login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials CredentialsRequest
	if err := readJSON(w, r, &credentials); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	user, err := userRepo.GetByUsername(r.Context(), credentials.Username)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if !user.Active {
		http.Error(w, "account disabled", http.StatusForbidden)
		return
	}

	token, refresh, err := issueTokens(r, user)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	respond(w, http.StatusOK, LoginResult{Token: token, RefreshToken: refresh, User: user})
}

// RefreshHandler godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unknown refresh token"
// @Router /api/refresh [post]
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil || req.RefreshToken == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	userID, err := refreshStore.Lookup(r.Context(), req.RefreshToken)
	if err != nil {
		http.Error(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}
	user, err := userRepo.GetByID(r.Context(), userID)
	if err != nil || !user.Active {
		http.Error(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	// refresh tokens are single use
	if err := refreshStore.Revoke(r.Context(), req.RefreshToken); err != nil {
		http.Error(w, "could not rotate token", http.StatusInternalServerError)
		return
	}
	token, refresh, err := issueTokens(r, user)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	respond(w, http.StatusOK, LoginResult{Token: token, RefreshToken: refresh, User: user})
}

// LogoutHandler godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Param body body RefreshRequest true "Refresh token"
// @Success 204 "Logged out"
// @Failure 400 {string} string "Invalid input"
// @Router /api/logout [post]
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil || req.RefreshToken == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if err := refreshStore.Revoke(r.Context(), req.RefreshToken); err != nil {
		http.Error(w, "could not revoke token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// currentUser loads the user named by the request's token.
func currentUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	claims, err := GetClaims(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return models.User{}, false
	}
	user, err := userRepo.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return models.User{}, false
		}
		http.Error(w, "could not fetch user", http.StatusInternalServerError)
		return models.User{}, false
	}
	return user, true
}

// CurrentUserHandler godoc
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {string} string "Unauthorized"
// @Router /api/user [get]
func CurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, user)
}

// UpdateProfileHandler godoc
// @Summary Update the authenticated user's profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body ProfileRequest true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} ValidationErrors
// @Failure 401 {string} string "Unauthorized"
// @Failure 409 {string} string "Email in use"
// @Router /api/user/profile [patch]
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if validateProfile(req).failed(w) {
		return
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "failed to hash password", http.StatusInternalServerError)
			return
		}
		user.PasswordHash = string(hashed)
	}

	updated, err := userRepo.Update(r.Context(), user)
	if err != nil {
		writeStoreError(w, err, "user")
		return
	}
	recordActivity(r, "Profile updated", "user", updated.ID)
	respond(w, http.StatusOK, updated)
}
