package chi

import (
	"time"
	"unicode/utf8"

	"github.com/quaero-io/quaero/internal/domain/document"
	"github.com/quaero-io/quaero/internal/domain/search/result"
)

// searchRequest is the body of the search endpoints.
type searchRequest struct {
	Query  string            `json:"query"`
	Limit  int               `json:"limit,omitempty"`
	Filter map[string]string `json:"filter,omitempty"`
}

// metadataSearchRequest is the body of the metadata search endpoint.
type metadataSearchRequest struct {
	Filter map[string]string `json:"filter"`
	Limit  int               `json:"limit,omitempty"`
}

// insertRequest is the body of the single-document insert endpoint.
type insertRequest struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// batchInsertRequest is the body of the batch insert endpoint.
type batchInsertRequest struct {
	Documents []insertRequest `json:"documents"`
}

type documentResponse struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type searchHit struct {
	Document documentResponse `json:"document"`
	Score    float64          `json:"score"`
	Tier     string           `json:"tier"`
}

type searchResponse struct {
	Results []searchHit `json:"results"`
	Total   int         `json:"total"`
}

type documentsResponse struct {
	Documents []documentResponse `json:"documents"`
	Total     int                `json:"total"`
}

type countResponse struct {
	Count int `json:"count"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Documents int    `json:"documents"`
	Error     string `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toDocumentResponse(doc document.Document, snippetLen int) documentResponse {
	return documentResponse{
		ID:        doc.ID(),
		Content:   truncateRunes(doc.Content(), snippetLen),
		Metadata:  doc.Metadata(),
		CreatedAt: doc.CreatedAt(),
		UpdatedAt: doc.UpdatedAt(),
	}
}

func toSearchResponse(results []result.Result, snippetLen int) searchResponse {
	hits := make([]searchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, searchHit{
			Document: toDocumentResponse(r.Document(), snippetLen),
			Score:    r.Score(),
			Tier:     string(r.Tier()),
		})
	}
	return searchResponse{Results: hits, Total: len(hits)}
}

func toDocumentsResponse(docs []document.Document, snippetLen int) documentsResponse {
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d, snippetLen))
	}
	return documentsResponse{Documents: out, Total: len(out)}
}

// truncateRunes caps s at n runes; n <= 0 disables truncation.
func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
