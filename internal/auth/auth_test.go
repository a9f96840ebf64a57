package auth

import (
	"testing"
	"time"

	"property-portal/internal/models"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("password stored in the clear")
	}

	if !CheckPasswordHash("s3cret", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	user := &models.User{ID: "u-1", Email: "admin@example.com", Role: models.RoleAdmin}

	token, err := GenerateToken("test-secret", user, time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := ValidateToken("test-secret", token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != "u-1" || claims.Email != "admin@example.com" || claims.Role != string(models.RoleAdmin) {
		t.Errorf("claims mismatch: %+v", claims)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	user := &models.User{ID: "u-1", Email: "a@b.c", Role: models.RoleUser}

	token, err := GenerateToken("secret-a", user, time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := ValidateToken("secret-b", token); err == nil {
		t.Error("token signed with another secret was accepted")
	}
}

func TestTokenExpiry(t *testing.T) {
	user := &models.User{ID: "u-1", Email: "a@b.c", Role: models.RoleUser}

	token, err := GenerateToken("test-secret", user, -time.Minute)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := ValidateToken("test-secret", token); err == nil {
		t.Error("expired token was accepted")
	}
}
