// Package ingest normalizes property create/update request bodies.
//
// The admin frontend sends the same logical payload in three shapes:
// a JSON document, a multipart form with JSON-encoded string fields,
// or a multipart form with bracket-indexed keys such as
// amenities[0][name]. Everything funnels into a Form and comes out as
// plain structs with a fixed key set.
package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"property-portal/internal/models"
)

// Form is a flattened request body. Multipart and urlencoded bodies
// already arrive in this shape; JSON bodies are converted with FromJSON.
type Form map[string][]string

// FromJSON flattens a decoded JSON object into a Form. Nested arrays
// and objects are re-encoded as JSON strings so the multipart and JSON
// paths share one normalization routine.
func FromJSON(body map[string]any) Form {
	form := make(Form, len(body))
	for key, value := range body {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			form[key] = []string{v}
		case []any, map[string]any:
			encoded, err := json.Marshal(v)
			if err != nil {
				continue
			}
			form[key] = []string{string(encoded)}
		default:
			form[key] = []string{fmt.Sprint(v)}
		}
	}
	return form
}

func (f Form) Get(key string) string {
	if vs := f[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func (f Form) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// HasField reports whether a nested field was sent at all, in either
// its direct or bracket-indexed shape. A field that was not sent must
// be left unchanged on update rather than emptied.
func HasField(f Form, name string) bool {
	if f.Has(name) {
		return true
	}
	for _, sub := range []string{"name", "description", "icon"} {
		if f.Has(fmt.Sprintf("%s[0][%s]", name, sub)) {
			return true
		}
	}
	return false
}

// Features extracts the features field in any of its shapes and
// returns entries with the fixed {name, description, icon} key set.
func Features(f Form) []models.Feature {
	values, ok := f["features"]
	if ok {
		if len(values) > 1 {
			// Repeated form field: each value is an object or a bare name
			features := make([]models.Feature, 0, len(values))
			for _, v := range values {
				var feat models.Feature
				if err := json.Unmarshal([]byte(v), &feat); err != nil {
					feat = models.Feature{Name: v}
				}
				features = append(features, withFeatureDefaults(feat))
			}
			return features
		}

		var features []models.Feature
		if err := json.Unmarshal([]byte(values[0]), &features); err != nil {
			// String-encoded field that is not valid JSON: empty list
			return []models.Feature{}
		}
		for i := range features {
			features[i] = withFeatureDefaults(features[i])
		}
		return features
	}

	// Bracket-indexed flat fields, terminating at the first gap
	var features []models.Feature
	for idx := 0; ; idx++ {
		name := f.Get(fmt.Sprintf("features[%d][name]", idx))
		description := f.Get(fmt.Sprintf("features[%d][description]", idx))
		icon := f.Get(fmt.Sprintf("features[%d][icon]", idx))
		if name == "" && description == "" && icon == "" {
			break
		}
		features = append(features, withFeatureDefaults(models.Feature{
			Name:        name,
			Description: description,
			Icon:        icon,
		}))
	}
	return features
}

// Amenities extracts the amenities field in any of its shapes and
// returns entries with the fixed {name, icon} key set.
func Amenities(f Form) []models.Amenity {
	values, ok := f["amenities"]
	if ok {
		if len(values) > 1 {
			amenities := make([]models.Amenity, 0, len(values))
			for _, v := range values {
				var am models.Amenity
				if err := json.Unmarshal([]byte(v), &am); err != nil {
					am = models.Amenity{Name: v}
				}
				amenities = append(amenities, withAmenityDefaults(am))
			}
			return amenities
		}

		var amenities []models.Amenity
		if err := json.Unmarshal([]byte(values[0]), &amenities); err != nil {
			// A single amenity string that is not valid JSON becomes
			// one named entry with the default icon
			return []models.Amenity{{Name: values[0], Icon: models.DefaultIcon}}
		}
		for i := range amenities {
			amenities[i] = withAmenityDefaults(amenities[i])
		}
		return amenities
	}

	var amenities []models.Amenity
	for idx := 0; ; idx++ {
		name := f.Get(fmt.Sprintf("amenities[%d][name]", idx))
		icon := f.Get(fmt.Sprintf("amenities[%d][icon]", idx))
		if name == "" && icon == "" {
			break
		}
		amenities = append(amenities, withAmenityDefaults(models.Amenity{
			Name: name,
			Icon: icon,
		}))
	}
	return amenities
}

// Details merges the request's structural numbers into the current
// values. The field arrives either as a JSON object under "details"
// or as bracket keys like details[bedrooms]. Values must be
// non-negative integers when present.
func Details(f Form, current models.Details) (models.Details, error) {
	merged := current

	if f.Has("details") {
		var raw map[string]any
		if err := json.Unmarshal([]byte(f.Get("details")), &raw); err != nil {
			return merged, fmt.Errorf("details is not a valid object")
		}
		for field, value := range raw {
			n, err := coerceNonNegInt(value)
			if err != nil {
				return merged, fmt.Errorf("details.%s must be a non-negative integer", field)
			}
			setDetail(&merged, field, n)
		}
		return merged, nil
	}

	for _, field := range []string{"bedrooms", "beds", "bathrooms", "maxGuests"} {
		key := fmt.Sprintf("details[%s]", field)
		if !f.Has(key) {
			continue
		}
		n, err := coerceNonNegInt(f.Get(key))
		if err != nil {
			return merged, fmt.Errorf("details.%s must be a non-negative integer", field)
		}
		setDetail(&merged, field, n)
	}
	return merged, nil
}

func setDetail(d *models.Details, field string, n int) {
	switch field {
	case "bedrooms":
		d.Bedrooms = n
	case "beds":
		d.Beds = n
	case "bathrooms":
		d.Bathrooms = n
	case "maxGuests":
		d.MaxGuests = n
	}
}

func coerceNonNegInt(value any) (int, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 || v != float64(int(v)) {
			return 0, fmt.Errorf("not a non-negative integer")
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("not a non-negative integer")
		}
		return n, nil
	default:
		return 0, fmt.Errorf("not a number")
	}
}

// ReviewInput is a free-form review object as sent by the client.
// On update it may carry a delete flag, an id (update that review) or
// neither (create a new review for the property).
type ReviewInput struct {
	ID         string  `json:"_id"`
	Username   string  `json:"username"`
	User       string  `json:"user"`
	Photo      string  `json:"photo"`
	UserPhoto  string  `json:"userphoto"`
	Review     string  `json:"review"`
	Rating     flexInt `json:"rating"`
	Date       string  `json:"date"`
	Delete     bool    `json:"delete"`
	PhotoIndex *int    `json:"photoIndex"`
}

// DisplayName prefers the username field, falling back to user.
func (r ReviewInput) DisplayName() string {
	if r.Username != "" {
		return r.Username
	}
	return r.User
}

// FallbackPhoto is the client-supplied photo used when no file was
// uploaded for this review.
func (r ReviewInput) FallbackPhoto() string {
	if r.UserPhoto != "" {
		return r.UserPhoto
	}
	return r.Photo
}

// Rating parses a top-level rating field, accepting a whole number or
// a numeric string. Fractional values are rejected, same as the
// details fields.
func Rating(f Form) (int, error) {
	raw := f.Get("rating")
	if raw == "" {
		return 0, fmt.Errorf("rating is required")
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || n != float64(int(n)) {
		return 0, fmt.Errorf("rating must be a whole number")
	}
	return int(n), nil
}

// Reviews parses the reviews field. A malformed JSON string degrades
// to an empty list, never an error.
func Reviews(f Form) []ReviewInput {
	raw := f.Get("reviews")
	if raw == "" {
		return nil
	}
	var reviews []ReviewInput
	if err := json.Unmarshal([]byte(raw), &reviews); err != nil {
		return nil
	}
	return reviews
}

// KeptImages resolves the image filenames the client wants to retain
// on update: an explicit existingImages JSON field wins, then a plain
// images field, then the property's current set.
func KeptImages(f Form, current []string) []string {
	if f.Has("existingImages") {
		var kept []string
		if err := json.Unmarshal([]byte(f.Get("existingImages")), &kept); err != nil {
			return []string{}
		}
		return kept
	}

	if values, ok := f["images"]; ok {
		if len(values) > 1 {
			return values
		}
		var kept []string
		if err := json.Unmarshal([]byte(values[0]), &kept); err != nil {
			return []string{values[0]}
		}
		return kept
	}

	return current
}

// ImagesToDelete returns the filenames present in old but absent from
// next. Pure set membership; order carries no meaning.
func ImagesToDelete(old, next []string) []string {
	keep := make(map[string]struct{}, len(next))
	for _, img := range next {
		keep[img] = struct{}{}
	}
	var stale []string
	for _, img := range old {
		if _, ok := keep[img]; !ok {
			stale = append(stale, img)
		}
	}
	return stale
}

func withFeatureDefaults(f models.Feature) models.Feature {
	if f.Icon == "" {
		f.Icon = models.DefaultIcon
	}
	return f
}

func withAmenityDefaults(a models.Amenity) models.Amenity {
	if a.Icon == "" {
		a.Icon = models.DefaultIcon
	}
	return a
}

// flexInt tolerates ratings arriving as a JSON number or a numeric
// string, which happens when the payload was assembled from form data.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	var asNumber float64
	if err := json.Unmarshal(data, &asNumber); err == nil {
		*n = flexInt(asNumber)
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return err
	}
	parsed, err := strconv.ParseFloat(asString, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = flexInt(parsed)
	return nil
}

// Int returns the rating as a plain int.
func (n flexInt) Int() int {
	return int(n)
}
