package sdk

import "time"

// Document is a stored document as returned by the API. Content may be
// truncated to a snippet in search responses.
type Document struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// SearchRequest is the body of the search endpoints.
type SearchRequest struct {
	Query  string            `json:"query"`
	Limit  int               `json:"limit,omitempty"`
	Filter map[string]string `json:"filter,omitempty"`
}

// MetadataSearchRequest is the body of the metadata search endpoint.
type MetadataSearchRequest struct {
	Filter map[string]string `json:"filter"`
	Limit  int               `json:"limit,omitempty"`
}

// InsertRequest is one document to ingest.
type InsertRequest struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SearchHit is a single ranked match.
type SearchHit struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
	Tier     string   `json:"tier"`
}

// SearchResponse is the ranked result set of a search call.
type SearchResponse struct {
	Results []SearchHit `json:"results"`
	Total   int         `json:"total"`
}

// DocumentsResponse is a plain list of documents.
type DocumentsResponse struct {
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
}

// Health is the service health snapshot.
type Health struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Documents int    `json:"documents"`
	Error     string `json:"error,omitempty"`
}

type countResponse struct {
	Count int `json:"count"`
}

type batchInsertRequest struct {
	Documents []InsertRequest `json:"documents"`
}
