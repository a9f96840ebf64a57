package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"property-portal/internal/database"
	"property-portal/internal/ingest"
	"property-portal/internal/models"
	"property-portal/internal/storage"
)

// ReviewHandler serves the standalone /api/v1/review routes.
type ReviewHandler struct {
	db    *database.DB
	store *storage.Store
}

func NewReviewHandler(db *database.DB, store *storage.Store) *ReviewHandler {
	return &ReviewHandler{db: db, store: store}
}

// List returns the reviews of one property.
func (h *ReviewHandler) List(c *gin.Context) {
	propertyID := c.Query("property")
	if propertyID == "" {
		respondFail(c, http.StatusBadRequest, "Please provide a property id.")
		return
	}

	reviews, err := h.db.ListReviews(propertyID)
	if err != nil {
		respondError(c, err.Error())
		return
	}

	respondList(c, "Reviews fetched successfully.", len(reviews), reviews)
}

// Create persists a standalone review, with an optional photo upload
// under the "photo" field. The owning property must exist.
func (h *ReviewHandler) Create(c *gin.Context) {
	form, files, err := parseBody(c)
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	propertyID := form.Get("property")
	if propertyID == "" {
		respondFail(c, http.StatusBadRequest, "A review must belong to a property.")
		return
	}

	exists, err := h.db.PropertyExists(propertyID)
	if err != nil {
		respondError(c, err.Error())
		return
	}
	if !exists {
		respondFail(c, http.StatusBadRequest, "No property found with this ID")
		return
	}

	user := form.Get("username")
	if user == "" {
		user = form.Get("user")
	}
	if user == "" || form.Get("review") == "" {
		respondFail(c, http.StatusBadRequest, "A review must have a user and a review text.")
		return
	}

	rating, err := ingest.Rating(form)
	if err == nil {
		err = validateRating(rating)
	}
	if err != nil {
		respondFail(c, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	photo := form.Get("userphoto")
	if photo == "" {
		photo = form.Get("photo")
	}
	if fhs := files["photo"]; len(fhs) > 0 {
		name, err := h.store.SaveUpload(storage.ReviewImagesDir, fhs[0])
		if err != nil {
			if errors.Is(err, storage.ErrNotImage) {
				respondFail(c, http.StatusBadRequest, "Only images are allowed!")
				return
			}
			respondError(c, err.Error())
			return
		}
		photo = name
	}

	review := &models.Review{
		ID:         uuid.NewString(),
		User:       user,
		Photo:      photo,
		Review:     form.Get("review"),
		Rating:     rating,
		Date:       form.Get("date"),
		PropertyID: propertyID,
	}

	if err := h.db.CreateReview(review); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	respondSuccess(c, http.StatusCreated, "Review created successfully.", gin.H{
		"review": review,
	})
}

// Delete removes one review and its photo file.
func (h *ReviewHandler) Delete(c *gin.Context) {
	review, err := h.db.DeleteReview(c.Param("_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, "Review not found")
			return
		}
		respondError(c, err.Error())
		return
	}

	if review.Photo != "" {
		h.store.Delete(storage.ReviewImagesDir, review.Photo)
	}

	respondSuccess(c, http.StatusOK, "Review deleted successfully.", nil)
}
