package ingest

import (
	"reflect"
	"sort"
	"testing"

	"property-portal/internal/models"
)

func TestAmenitiesShapesAgree(t *testing.T) {
	// The JSON-string and bracket-indexed shapes of the same payload
	// must normalize identically.
	jsonForm := Form{
		"amenities": {`[{"name":"Pool","icon":"FaSwimmer"},{"name":"Wifi"}]`},
	}
	bracketForm := Form{
		"amenities[0][name]": {"Pool"},
		"amenities[0][icon]": {"FaSwimmer"},
		"amenities[1][name]": {"Wifi"},
	}

	fromJSON := Amenities(jsonForm)
	fromBrackets := Amenities(bracketForm)

	want := []models.Amenity{
		{Name: "Pool", Icon: "FaSwimmer"},
		{Name: "Wifi", Icon: models.DefaultIcon},
	}
	if !reflect.DeepEqual(fromJSON, want) {
		t.Errorf("JSON shape: got %+v, want %+v", fromJSON, want)
	}
	if !reflect.DeepEqual(fromBrackets, want) {
		t.Errorf("bracket shape: got %+v, want %+v", fromBrackets, want)
	}
}

func TestAmenitiesSingleInvalidString(t *testing.T) {
	f := Form{"amenities": {"Ocean view"}}

	got := Amenities(f)

	want := []models.Amenity{{Name: "Ocean view", Icon: models.DefaultIcon}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestFeaturesInvalidJSONFallsBackEmpty(t *testing.T) {
	f := Form{"features": {"{not json"}}

	got := Features(f)

	if got == nil || len(got) != 0 {
		t.Errorf("expected empty list, got %+v", got)
	}
}

func TestFeaturesDefaultIcon(t *testing.T) {
	f := Form{"features": {`[{"name":"Fireplace","description":"Wood burning"}]`}}

	got := Features(f)

	want := []models.Feature{{Name: "Fireplace", Description: "Wood burning", Icon: models.DefaultIcon}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestFeaturesBracketsStopAtGap(t *testing.T) {
	f := Form{
		"features[0][name]": {"Sauna"},
		"features[2][name]": {"Unreachable"},
	}

	got := Features(f)

	if len(got) != 1 || got[0].Name != "Sauna" {
		t.Errorf("expected indices to terminate at the first gap, got %+v", got)
	}
}

func TestHasField(t *testing.T) {
	if !HasField(Form{"amenities": {"[]"}}, "amenities") {
		t.Error("direct field should be detected")
	}
	if !HasField(Form{"amenities[0][name]": {"Pool"}}, "amenities") {
		t.Error("bracket field should be detected")
	}
	if HasField(Form{"title": {"x"}}, "amenities") {
		t.Error("absent field should not be detected")
	}
}

func TestDetailsMergesJSONObject(t *testing.T) {
	current := models.Details{Bedrooms: 1, Beds: 1, Bathrooms: 1, MaxGuests: 2}
	f := Form{"details": {`{"bedrooms":3,"maxGuests":"6"}`}}

	got, err := Details(f, current)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := models.Details{Bedrooms: 3, Beds: 1, Bathrooms: 1, MaxGuests: 6}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestDetailsBracketKeys(t *testing.T) {
	f := Form{"details[beds]": {"2"}, "details[bathrooms]": {"1"}}

	got, err := Details(f, models.Details{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Beds != 2 || got.Bathrooms != 1 {
		t.Errorf("got %+v", got)
	}
}

func TestDetailsRejectsNegative(t *testing.T) {
	f := Form{"details": {`{"bedrooms":-1}`}}

	if _, err := Details(f, models.Details{}); err == nil {
		t.Error("expected an error for a negative value")
	}
}

func TestReviewsMalformedDegradesToNil(t *testing.T) {
	f := Form{"reviews": {"not json at all"}}

	if got := Reviews(f); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestReviewsParsing(t *testing.T) {
	f := Form{"reviews": {`[
		{"_id":"r1","delete":true},
		{"_id":"r2","username":"Ana","review":"Great stay","rating":"4"},
		{"user":"Ben","review":"Nice","rating":5,"photoIndex":0}
	]`}}

	got := Reviews(f)
	if len(got) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(got))
	}

	if !got[0].Delete || got[0].ID != "r1" {
		t.Errorf("first entry should be a delete for r1, got %+v", got[0])
	}
	if got[1].DisplayName() != "Ana" || got[1].Rating.Int() != 4 {
		t.Errorf("numeric-string rating should parse, got %+v", got[1])
	}
	if got[2].ID != "" || got[2].DisplayName() != "Ben" || got[2].Rating.Int() != 5 {
		t.Errorf("create entry mis-parsed: %+v", got[2])
	}
	if got[2].PhotoIndex == nil || *got[2].PhotoIndex != 0 {
		t.Errorf("photoIndex 0 must survive as an explicit index, got %+v", got[2].PhotoIndex)
	}
	if got[1].PhotoIndex != nil {
		t.Errorf("absent photoIndex must stay nil, got %v", *got[1].PhotoIndex)
	}
}

func TestReviewFallbackPhoto(t *testing.T) {
	r := ReviewInput{Photo: "a.jpg", UserPhoto: "b.jpg"}
	if got := r.FallbackPhoto(); got != "b.jpg" {
		t.Errorf("userphoto should win, got %q", got)
	}
	r.UserPhoto = ""
	if got := r.FallbackPhoto(); got != "a.jpg" {
		t.Errorf("photo should be the fallback, got %q", got)
	}
}

func TestKeptImagesPrecedence(t *testing.T) {
	current := []string{"old-1.jpg", "old-2.jpg"}

	t.Run("existingImages wins", func(t *testing.T) {
		f := Form{
			"existingImages": {`["old-2.jpg"]`},
			"images":         {`["old-1.jpg"]`},
		}
		got := KeptImages(f, current)
		if !reflect.DeepEqual(got, []string{"old-2.jpg"}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("malformed existingImages keeps nothing", func(t *testing.T) {
		f := Form{"existingImages": {"{bad"}}
		got := KeptImages(f, current)
		if len(got) != 0 {
			t.Errorf("got %v", got)
		}
	})

	t.Run("plain images field", func(t *testing.T) {
		f := Form{"images": {"solo.jpg"}}
		got := KeptImages(f, current)
		if !reflect.DeepEqual(got, []string{"solo.jpg"}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("neither field keeps current set", func(t *testing.T) {
		got := KeptImages(Form{}, current)
		if !reflect.DeepEqual(got, current) {
			t.Errorf("got %v", got)
		}
	})
}

func TestImagesToDelete(t *testing.T) {
	got := ImagesToDelete([]string{"a.jpg", "b.jpg"}, []string{"b.jpg", "c.jpg"})
	if !reflect.DeepEqual(got, []string{"a.jpg"}) {
		t.Errorf("expected exactly a.jpg, got %v", got)
	}

	if got := ImagesToDelete([]string{"a.jpg"}, []string{"a.jpg"}); got != nil {
		t.Errorf("expected nothing to delete, got %v", got)
	}

	got = ImagesToDelete([]string{"a.jpg", "b.jpg", "c.jpg"}, nil)
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"a.jpg", "b.jpg", "c.jpg"}) {
		t.Errorf("expected full set, got %v", got)
	}
}

func TestFromJSONEncodesNestedValues(t *testing.T) {
	body := map[string]any{
		"title":     "Cabin",
		"rating":    4.5,
		"published": true,
		"skip":      nil,
		"amenities": []any{map[string]any{"name": "Pool"}},
	}

	f := FromJSON(body)

	if f.Get("title") != "Cabin" {
		t.Errorf("title = %q", f.Get("title"))
	}
	if f.Get("rating") != "4.5" || f.Get("published") != "true" {
		t.Errorf("scalars mis-encoded: rating=%q published=%q", f.Get("rating"), f.Get("published"))
	}
	if f.Has("skip") {
		t.Error("null values must be dropped")
	}

	// Nested arrays round-trip through the single-JSON-string path
	amenities := Amenities(f)
	if len(amenities) != 1 || amenities[0].Name != "Pool" || amenities[0].Icon != models.DefaultIcon {
		t.Errorf("got %+v", amenities)
	}
}

func TestRating(t *testing.T) {
	if _, err := Rating(Form{}); err == nil {
		t.Error("missing rating must error")
	}
	if _, err := Rating(Form{"rating": {"excellent"}}); err == nil {
		t.Error("non-numeric rating must error")
	}
	if _, err := Rating(Form{"rating": {"4.7"}}); err == nil {
		t.Error("fractional rating must error, not truncate")
	}
	n, err := Rating(Form{"rating": {"4"}})
	if err != nil || n != 4 {
		t.Errorf("got %d, %v", n, err)
	}
}
