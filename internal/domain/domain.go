// Package domain holds the core types shared across quaero layers.
package domain

// KeyPrefix namespaces all quaero keys in the backing store.
const KeyPrefix = "quaero:"

// DocKeyPrefix namespaces document records.
const DocKeyPrefix = KeyPrefix + "doc:"

// IndexName is the full-text index over document records.
const IndexName = KeyPrefix + "doc:idx"
