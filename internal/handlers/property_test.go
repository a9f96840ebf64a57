package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"property-portal/internal/database"
	"property-portal/internal/models"
	"property-portal/internal/search"
	"property-portal/internal/storage"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	db := database.NewFromGorm(gdb)
	if err := db.InitSchema(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// unreachableSearch returns a client whose requests fail immediately.
// Index maintenance is logged and never fails a request.
func unreachableSearch() *search.Client {
	return search.NewClient("http://127.0.0.1:1", "")
}

func TestDeleteCascadesDespiteFailedFileDeletes(t *testing.T) {
	db := newTestDB(t)
	store := storage.NewStore(t.TempDir())
	h := NewPropertyHandler(db, store, unreachableSearch())

	property := &models.Property{
		ID:     uuid.NewString(),
		Title:  "Cabin",
		Images: []string{"gone-1.jpg", "gone-2.jpg"},
	}
	reviews := []models.Review{{
		ID:     uuid.NewString(),
		User:   "Ana",
		Photo:  "ana.jpg",
		Review: "Great stay",
		Rating: 5,
	}}
	if err := db.CreatePropertyWithReviews(property, reviews); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// None of the referenced files exist on disk, so every unlink fails
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/v1/property/"+property.ID, nil)
	c.Params = gin.Params{{Key: "_id", Value: property.ID}}
	h.Delete(c)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if _, err := db.GetProperty(property.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("property record should be gone, got err %v", err)
	}
	remaining, err := db.ListReviews(property.ID)
	if err != nil {
		t.Fatalf("list reviews failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected no reviews left, got %d", len(remaining))
	}
}
