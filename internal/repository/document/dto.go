package document

import (
	"strconv"
	"strings"
	"time"

	"github.com/quaero-io/quaero/internal/db"
	"github.com/quaero-io/quaero/internal/domain"
	"github.com/quaero-io/quaero/internal/domain/document"
)

// toFields flattens a document into a hash: reserved fields carry
// content and timestamps, metadata entries become plain fields.
// Reserved fields win on collision.
func toFields(doc document.Document) map[string]string {
	fields := make(map[string]string, len(doc.Metadata())+3)
	for k, v := range doc.Metadata() {
		fields[k] = v
	}
	fields[db.FieldContent] = doc.Content()
	fields[db.FieldCreatedAt] = strconv.FormatInt(doc.CreatedAt().Unix(), 10)
	fields[db.FieldUpdatedAt] = strconv.FormatInt(doc.UpdatedAt().Unix(), 10)
	return fields
}

// fromFields hydrates a document from its hash record.
func fromFields(key string, fields map[string]string) document.Document {
	id := strings.TrimPrefix(key, domain.DocKeyPrefix)
	metadata := make(map[string]string)
	for k, v := range fields {
		if strings.HasPrefix(k, "__") {
			continue
		}
		metadata[k] = v
	}
	return document.Reconstruct(
		id,
		fields[db.FieldContent],
		metadata,
		parseUnix(fields[db.FieldCreatedAt]),
		parseUnix(fields[db.FieldUpdatedAt]),
	)
}

func parseUnix(s string) time.Time {
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
