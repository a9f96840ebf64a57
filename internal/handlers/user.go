package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"property-portal/internal/auth"
	"property-portal/internal/config"
	"property-portal/internal/database"
	"property-portal/internal/middleware"
	"property-portal/internal/models"
)

// UserHandler serves account creation and session routes.
type UserHandler struct {
	db           *database.DB
	authCfg      config.AuthConfig
	cookieDomain string
}

func NewUserHandler(db *database.DB, authCfg config.AuthConfig, cookieDomain string) *UserHandler {
	return &UserHandler{db: db, authCfg: authCfg, cookieDomain: cookieDomain}
}

type credentialsRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

// Create registers a regular account.
func (h *UserHandler) Create(c *gin.Context) {
	user, ok := h.createAccount(c, models.RoleUser)
	if !ok {
		return
	}

	respondSuccess(c, http.StatusCreated, "User created successfully.", gin.H{
		"user": user,
	})
}

// CreateAdmin registers an admin account. The request must ask for
// the admin role explicitly; the fresh session token is returned so
// the account is signed in right after signup.
func (h *UserHandler) CreateAdmin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Failed to create admin. "+err.Error())
		return
	}
	if req.Role != string(models.RoleAdmin) {
		respondFail(c, http.StatusBadRequest, "Only admin role is allowed for this action.")
		return
	}

	user, ok := h.storeAccount(c, req, models.RoleAdmin)
	if !ok {
		return
	}

	token, err := h.issueSession(c, user)
	if err != nil {
		respondError(c, err.Error())
		return
	}

	respondSuccess(c, http.StatusCreated, "Admin created successfully.", gin.H{
		"user":  user,
		"token": token,
	})
}

// Login checks credentials and issues a session token, both as an
// http-only cookie and in the response body. Unknown email and wrong
// password answer identically so accounts cannot be enumerated.
func (h *UserHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil || req.Email == "" || req.Password == "" {
		respondFail(c, http.StatusBadRequest, "Please provide both email and password.")
		return
	}

	user, err := h.db.GetUserByEmail(req.Email)
	if err != nil {
		respondFail(c, http.StatusUnauthorized, "Login failed. Please check your credentials.")
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		respondFail(c, http.StatusUnauthorized, "Login failed. Please check your credentials.")
		return
	}

	token, err := h.issueSession(c, user)
	if err != nil {
		respondError(c, err.Error())
		return
	}

	respondSuccess(c, http.StatusOK, "Logged in successfully.", gin.H{
		"user":  user,
		"token": token,
	})
}

// Logout clears the session cookie.
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("jwt", "", -1, "/", h.cookieDomain, true, true)

	respondSuccess(c, http.StatusOK, "You have been logged out.", nil)
}

// CheckAuth echoes the identity the auth middleware resolved.
func (h *UserHandler) CheckAuth(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondFail(c, http.StatusUnauthorized, "Authentication failed. User does not exist.")
		return
	}

	respondSuccess(c, http.StatusOK, "User authenticated successfully.", gin.H{
		"user":  user,
		"token": middleware.CurrentToken(c),
	})
}

func (h *UserHandler) createAccount(c *gin.Context, role models.UserRole) (*models.User, bool) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "Failed to create user. "+err.Error())
		return nil, false
	}
	return h.storeAccount(c, req, role)
}

func (h *UserHandler) storeAccount(c *gin.Context, req credentialsRequest, role models.UserRole) (*models.User, bool) {
	if req.Email == "" || req.Password == "" {
		respondFail(c, http.StatusBadRequest, "Please provide both email and password.")
		return nil, false
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, "Failed to process password.")
		return nil, false
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Email:    req.Email,
		Password: hash,
		Role:     role,
	}

	if err := h.db.CreateUser(user); err != nil {
		respondFail(c, http.StatusBadRequest, "Failed to create user. "+err.Error())
		return nil, false
	}

	return user, true
}

// issueSession signs a token and sets it as the jwt cookie.
func (h *UserHandler) issueSession(c *gin.Context, user *models.User) (string, error) {
	token, err := auth.GenerateToken(h.authCfg.JWTSecret, user, h.authCfg.TokenTTL())
	if err != nil {
		return "", err
	}

	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("jwt", token, int(h.authCfg.TokenTTL().Seconds()), "/", h.cookieDomain, true, true)

	return token, nil
}
