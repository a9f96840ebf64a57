package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"property-portal/internal/auth"
	"property-portal/internal/config"
	"property-portal/internal/models"
)

func TestLoginFailureModesAnswerIdentically(t *testing.T) {
	db := newTestDB(t)

	hash, err := auth.HashPassword("right-password")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := db.CreateUser(&models.User{
		ID:       "u-1",
		Email:    "ana@example.com",
		Password: hash,
		Role:     models.RoleUser,
	}); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}

	h := NewUserHandler(db, config.AuthConfig{JWTSecret: "test-secret", TokenTTLHours: 1}, "")

	login := func(email, password string) *httptest.ResponseRecorder {
		gin.SetMode(gin.TestMode)
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/user/login", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		h.Login(c)
		return rec
	}

	unknownEmail := login("ghost@example.com", "whatever")
	wrongPassword := login("ana@example.com", "wrong")

	if unknownEmail.Code != http.StatusUnauthorized || wrongPassword.Code != http.StatusUnauthorized {
		t.Fatalf("codes = %d / %d, want 401 for both", unknownEmail.Code, wrongPassword.Code)
	}
	// Accounts must not be enumerable from the response
	if unknownEmail.Body.String() != wrongPassword.Body.String() {
		t.Errorf("failure bodies differ:\nunknown email: %s\nwrong password: %s",
			unknownEmail.Body.String(), wrongPassword.Body.String())
	}

	ok := login("ana@example.com", "right-password")
	if ok.Code != http.StatusOK {
		t.Errorf("valid credentials rejected: %d %s", ok.Code, ok.Body.String())
	}
}
