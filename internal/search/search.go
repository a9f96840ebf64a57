// Package search maintains a Meilisearch index of property listings
// for the site's free-text search box.
package search

import (
	"encoding/json"

	"github.com/meilisearch/meilisearch-go"

	"property-portal/internal/models"
)

type Client struct {
	client *meilisearch.Client
	index  string
}

func NewClient(host, apiKey string) *Client {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &Client{
		client: client,
		index:  "properties",
	}
}

// PropertyDoc is the flattened shape a property takes in the index.
type PropertyDoc struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Address       string  `json:"address"`
	Description   string  `json:"description"`
	Bedrooms      int     `json:"bedrooms"`
	Beds          int     `json:"beds"`
	Bathrooms     int     `json:"bathrooms"`
	MaxGuests     int     `json:"max_guests"`
	RatingAverage float64 `json:"rating_average"`
	RatingCount   int     `json:"rating_count"`
	CreatedAt     int64   `json:"created_at"`
}

func docFromProperty(p *models.Property) PropertyDoc {
	return PropertyDoc{
		ID:            p.ID,
		Title:         p.Title,
		Address:       p.Address,
		Description:   p.Description,
		Bedrooms:      p.Details.Bedrooms,
		Beds:          p.Details.Beds,
		Bathrooms:     p.Details.Bathrooms,
		MaxGuests:     p.Details.MaxGuests,
		RatingAverage: p.Rating.Average,
		RatingCount:   p.Rating.Count,
		CreatedAt:     p.CreatedAt.Unix(),
	}
}

// InitIndex initializes the Meilisearch index
func (s *Client) InitIndex() error {
	// Create index if it doesn't exist
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"title",
		"address",
		"description",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"id",
		"bedrooms",
		"beds",
		"bathrooms",
		"max_guests",
		"rating_average",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"rating_average",
		"created_at",
	})
	return err
}

// IndexProperty indexes a single property
func (s *Client) IndexProperty(p *models.Property) error {
	_, err := s.client.Index(s.index).AddDocuments([]PropertyDoc{docFromProperty(p)})
	return err
}

// IndexProperties indexes multiple properties
func (s *Client) IndexProperties(properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}
	docs := make([]PropertyDoc, 0, len(properties))
	for i := range properties {
		docs = append(docs, docFromProperty(&properties[i]))
	}
	_, err := s.client.Index(s.index).AddDocuments(docs)
	return err
}

// DeleteProperty removes a property from the index
func (s *Client) DeleteProperty(id string) error {
	_, err := s.client.Index(s.index).DeleteDocument(id)
	return err
}

// Search runs a free-text query and returns matching documents.
func (s *Client) Search(query string, limit int64) ([]PropertyDoc, error) {
	if limit == 0 {
		limit = 20
	}

	searchRes, err := s.client.Index(s.index).Search(query, &meilisearch.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	docs := make([]PropertyDoc, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		hitJSON, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc PropertyDoc
		if err := json.Unmarshal(hitJSON, &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}
