package handlers

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"property-portal/internal/database"
	"property-portal/internal/ingest"
	"property-portal/internal/models"
	"property-portal/internal/query"
	"property-portal/internal/search"
	"property-portal/internal/storage"
)

// PropertyHandler serves the /api/v1/property routes.
type PropertyHandler struct {
	db     *database.DB
	store  *storage.Store
	search *search.Client
}

func NewPropertyHandler(db *database.DB, store *storage.Store, searchClient *search.Client) *PropertyHandler {
	return &PropertyHandler{db: db, store: store, search: searchClient}
}

// List returns properties matching the query-string filter and sort.
func (h *PropertyHandler) List(c *gin.Context) {
	filter := query.Parse(c.Request.URL.Query())

	properties, err := h.db.ListProperties(filter)
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	respondList(c, "Properties fetched successfully.", len(properties), properties)
}

// Get returns one property with its reviews populated.
func (h *PropertyHandler) Get(c *gin.Context) {
	property, err := h.db.GetProperty(c.Param("_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, "Property not found")
			return
		}
		respondError(c, err.Error())
		return
	}

	respondSuccess(c, http.StatusOK, "Property fetched successfully.", gin.H{
		"property": property,
	})
}

// Create accepts a JSON or multipart body and persists a property
// together with any embedded reviews.
func (h *PropertyHandler) Create(c *gin.Context) {
	form, files, err := parseBody(c)
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	details, err := ingest.Details(form, models.Details{})
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	imageFilenames, err := h.saveUploads(files, "images", storage.PropertyImagesDir)
	if err != nil {
		h.respondUploadError(c, err)
		return
	}

	property := &models.Property{
		ID:          uuid.NewString(),
		Title:       form.Get("title"),
		Address:     form.Get("address"),
		Description: form.Get("description"),
		Images:      imageFilenames,
		Details:     details,
		Features:    ingest.Features(form),
		Amenities:   ingest.Amenities(form),
	}

	if property.Title == "" {
		respondFail(c, http.StatusBadRequest, "A property must have a title.")
		return
	}

	inputs := ingest.Reviews(form)
	reviews := make([]models.Review, 0, len(inputs))
	for idx, input := range inputs {
		if err := validateRating(input.Rating.Int()); err != nil {
			respondFail(c, http.StatusBadRequest, err.Error())
			return
		}

		photo := h.saveReviewPhoto(files, idx, input.PhotoIndex)
		if photo == "" {
			photo = input.FallbackPhoto()
		}

		reviews = append(reviews, models.Review{
			ID:     uuid.NewString(),
			User:   input.DisplayName(),
			Photo:  photo,
			Review: input.Review,
			Rating: input.Rating.Int(),
			Date:   input.Date,
		})
	}

	if err := h.db.CreatePropertyWithReviews(property, reviews); err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	h.indexProperty(property)

	respondSuccess(c, http.StatusCreated, "Property created successfully.", gin.H{
		"property": property,
		"reviews":  reviews,
	})
}

// Update applies a partial property update: scalar fields, the
// normalized nested fields, the image-set diff and the per-review
// delete/update/create instructions.
func (h *PropertyHandler) Update(c *gin.Context) {
	id := c.Param("_id")

	existing, err := h.db.GetProperty(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, "No property found with this ID")
			return
		}
		respondError(c, err.Error())
		return
	}

	form, files, err := parseBody(c)
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	if form.Has("title") {
		existing.Title = form.Get("title")
	}
	if form.Has("address") {
		existing.Address = form.Get("address")
	}
	if form.Has("description") {
		existing.Description = form.Get("description")
	}

	details, err := ingest.Details(form, existing.Details)
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}
	existing.Details = details

	if ingest.HasField(form, "features") {
		existing.Features = ingest.Features(form)
	}
	if ingest.HasField(form, "amenities") {
		existing.Amenities = ingest.Amenities(form)
	}

	// New image set = images the client kept + fresh uploads. Anything
	// previously stored but absent from the new set comes off disk.
	kept := ingest.KeptImages(form, existing.Images)
	uploaded, err := h.saveUploads(files, "images", storage.PropertyImagesDir)
	if err != nil {
		h.respondUploadError(c, err)
		return
	}
	imagesUpdated := len(uploaded) > 0
	newImages := append(append([]string{}, kept...), uploaded...)

	stale := ingest.ImagesToDelete(existing.Images, newImages)
	h.store.DeleteAll(storage.PropertyImagesDir, stale)
	existing.Images = newImages

	var mutation database.ReviewMutation
	for _, input := range ingest.Reviews(form) {
		switch {
		case input.Delete && input.ID != "":
			mutation.DeleteIDs = append(mutation.DeleteIDs, input.ID)
		case input.ID != "":
			if err := validateRating(input.Rating.Int()); err != nil {
				respondFail(c, http.StatusBadRequest, err.Error())
				return
			}
			photo := input.Photo
			if photo == "" {
				photo = input.UserPhoto
			}
			mutation.Updates = append(mutation.Updates, models.Review{
				ID:     input.ID,
				User:   input.DisplayName(),
				Photo:  photo,
				Review: input.Review,
				Rating: input.Rating.Int(),
				Date:   input.Date,
			})
		default:
			if err := validateRating(input.Rating.Int()); err != nil {
				respondFail(c, http.StatusBadRequest, err.Error())
				return
			}
			mutation.Creates = append(mutation.Creates, models.Review{
				ID:     uuid.NewString(),
				User:   input.DisplayName(),
				Photo:  input.FallbackPhoto(),
				Review: input.Review,
				Rating: input.Rating.Int(),
				Date:   input.Date,
			})
		}
	}

	touched, err := h.db.SavePropertyWithReviews(existing, mutation)
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	h.indexProperty(existing)

	message := "Property and reviews updated successfully."
	if imagesUpdated {
		message = "Property, images, and reviews updated successfully."
	}
	if touched == nil {
		touched = []models.Review{}
	}
	respondSuccess(c, http.StatusOK, message, gin.H{
		"property": existing,
		"reviews":  touched,
	})
}

// UpdateImages replaces a property's image set wholesale: every
// previously stored file is deleted and the new uploads take over.
func (h *PropertyHandler) UpdateImages(c *gin.Context) {
	id := c.Param("_id")

	existing, err := h.db.GetProperty(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, "Property not found")
			return
		}
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	var files map[string][]*multipart.FileHeader
	if form != nil {
		files = form.File
	}
	uploaded, err := h.saveUploads(files, "images", storage.PropertyImagesDir)
	if err != nil {
		h.respondUploadError(c, err)
		return
	}

	h.store.DeleteAll(storage.PropertyImagesDir, existing.Images)

	property, err := h.db.UpdatePropertyImages(id, uploaded)
	if err != nil {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	h.indexProperty(property)

	respondSuccess(c, http.StatusOK, "Images updated successfully.", gin.H{
		"newProperty": property,
	})
}

// Delete removes a property, its reviews and all their image files.
// Record deletion is transactional; file deletion stays best-effort.
func (h *PropertyHandler) Delete(c *gin.Context) {
	property, reviews, err := h.db.DeletePropertyCascade(c.Param("_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondFail(c, http.StatusNotFound, "Property not found")
			return
		}
		respondError(c, err.Error())
		return
	}

	var photos []string
	for _, review := range reviews {
		if review.Photo != "" {
			photos = append(photos, review.Photo)
		}
	}
	h.store.DeleteAll(storage.ReviewImagesDir, photos)
	h.store.DeleteAll(storage.PropertyImagesDir, property.Images)

	if err := h.search.DeleteProperty(property.ID); err != nil {
		log.Printf("[search] failed to remove property %s from index: %v", property.ID, err)
	}

	respondSuccess(c, http.StatusOK, "Property deleted successfully.", nil)
}

// Search runs a free-text query against the search index.
func (h *PropertyHandler) Search(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	if err != nil {
		limit = 20
	}

	docs, err := h.search.Search(c.Query("q"), limit)
	if err != nil {
		respondError(c, err.Error())
		return
	}

	respondList(c, "Properties fetched successfully.", len(docs), docs)
}

// Reindex pushes every stored property into the search index.
func (h *PropertyHandler) Reindex(c *gin.Context) {
	properties, err := h.db.GetAllProperties()
	if err != nil {
		respondError(c, err.Error())
		return
	}

	if err := h.search.IndexProperties(properties); err != nil {
		respondError(c, err.Error())
		return
	}

	log.Printf("[search] reindexed %d properties", len(properties))
	respondSuccess(c, http.StatusOK, "Reindex complete.", gin.H{
		"indexed": len(properties),
	})
}

// saveUploads stores each uploaded file under the given field name
// and returns the assigned filenames.
func (h *PropertyHandler) saveUploads(files map[string][]*multipart.FileHeader, field, dir string) ([]string, error) {
	filenames := []string{}
	for _, fh := range files[field] {
		name, err := h.store.SaveUpload(dir, fh)
		if err != nil {
			return nil, err
		}
		filenames = append(filenames, name)
	}
	return filenames, nil
}

// saveReviewPhoto stores the upload for reviewImages[<photoIndex>],
// falling back to the review's position in the list.
func (h *PropertyHandler) saveReviewPhoto(files map[string][]*multipart.FileHeader, idx int, photoIndex *int) string {
	i := idx
	if photoIndex != nil {
		i = *photoIndex
	}
	fhs := files[fmt.Sprintf("reviewImages[%d]", i)]
	if len(fhs) == 0 {
		return ""
	}
	name, err := h.store.SaveUpload(storage.ReviewImagesDir, fhs[0])
	if err != nil {
		log.Printf("[images] failed to save review photo: %v", err)
		return ""
	}
	return name
}

func (h *PropertyHandler) respondUploadError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotImage) {
		respondFail(c, http.StatusBadRequest, "Only images are allowed!")
		return
	}
	respondError(c, err.Error())
}

func (h *PropertyHandler) indexProperty(p *models.Property) {
	if err := h.search.IndexProperty(p); err != nil {
		log.Printf("[search] failed to index property %s: %v", p.ID, err)
	}
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	return nil
}
