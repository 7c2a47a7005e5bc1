package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/libraryhub/libraryhub/internal/auth"
	"github.com/libraryhub/libraryhub/internal/database/users"
	"github.com/libraryhub/libraryhub/internal/entities"
)

// UsersController handles account registration and management.
type UsersController struct {
	authService *auth.Service
	users       *users.Repository
}

// NewUsersController creates a new UsersController.
func NewUsersController(authService *auth.Service, userRepo *users.Repository) *UsersController {
	return &UsersController{authService: authService, users: userRepo}
}

// Register creates a new account.
// POST /api/users
func (uc *UsersController) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email, username and password are required")
		return
	}

	user, err := uc.authService.Register(req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			respondConflict(c, "a user with this email already exists")
			return
		}
		if isValidationError(err) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "register user")
		return
	}
	respondCreated(c, user)
}

// Me returns the authenticated user's own account.
// GET /api/users/me
func (uc *UsersController) Me(c *gin.Context) {
	user := auth.CurrentUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	c.JSON(http.StatusOK, user)
}

// List returns all accounts. Admin only.
// GET /api/users
func (uc *UsersController) List(c *gin.Context) {
	all, err := uc.users.List()
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, all)
}

// Get returns a single account by ID. Admin only.
// GET /api/users/:id
func (uc *UsersController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := uc.users.GetByID(id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update modifies an account. Owners may change their username and password,
// admins may additionally change role and is_active on any account.
// PATCH /api/users/:id
func (uc *UsersController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	current := auth.CurrentUser(c)
	if current == nil {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	if current.ID != id && !current.IsAdmin() {
		respondForbidden(c, "cannot modify another user's account")
		return
	}

	target, err := uc.users.GetByID(id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "get user")
		return
	}

	var req struct {
		Username *string `json:"username"`
		Password *string `json:"password"`
		Role     *string `json:"role"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	updates := map[string]any{}
	if req.Username != nil {
		if *req.Username == "" {
			respondBadRequest(c, auth.ErrUsernameRequired.Error())
			return
		}
		if len(*req.Username) > auth.MaxUsernameLength {
			respondBadRequest(c, auth.ErrUsernameTooLong.Error())
			return
		}
		updates["username"] = *req.Username
	}
	if req.Password != nil {
		hash, err := uc.authService.HashNewPassword(*req.Password)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		updates["password_hash"] = hash
	}
	if req.Role != nil || req.IsActive != nil {
		if !current.IsAdmin() {
			respondForbidden(c, "only admins may change role or active status")
			return
		}
		if req.Role != nil {
			role := entities.UserRole(*req.Role)
			if role != entities.UserRoleUser && role != entities.UserRoleAdmin {
				respondBadRequest(c, "invalid role")
				return
			}
			updates["role"] = role
		}
		if req.IsActive != nil {
			updates["is_active"] = *req.IsActive
		}
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, target)
		return
	}

	if err := uc.users.Updates(target, updates); err != nil {
		respondInternalError(c, err, "update user")
		return
	}

	// Deactivation also kills the account's refresh tokens
	if req.IsActive != nil && !*req.IsActive {
		if err := uc.authService.RevokeUserTokens(target.ID); err != nil {
			respondInternalError(c, err, "revoke tokens")
			return
		}
	}

	updated, err := uc.users.GetByID(id)
	if err != nil {
		respondInternalError(c, err, "reload user")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes an account. Owner or admin.
// DELETE /api/users/:id
func (uc *UsersController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	current := auth.CurrentUser(c)
	if current == nil {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}
	if current.ID != id && !current.IsAdmin() {
		respondForbidden(c, "cannot delete another user's account")
		return
	}

	if _, err := uc.users.GetByID(id); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "get user")
		return
	}

	if err := uc.users.Delete(id); err != nil {
		respondInternalError(c, err, "delete user")
		return
	}
	respondSuccess(c, "user deleted")
}

// isValidationError reports whether the registration error is caused by
// invalid input rather than a server fault.
func isValidationError(err error) bool {
	for _, candidate := range []error{
		auth.ErrEmailRequired,
		auth.ErrEmailInvalid,
		auth.ErrUsernameRequired,
		auth.ErrUsernameTooLong,
		auth.ErrPasswordRequired,
		auth.ErrPasswordTooShort,
		auth.ErrPasswordTooLong,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}
