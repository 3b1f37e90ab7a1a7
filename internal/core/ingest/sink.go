// Package ingest hands composed artifacts to a vector store.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"legal-assistant/config"
	"legal-assistant/internal/core/document"
)

// Status is the final state of an ingestion.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusPending   Status = "pending"
)

// ErrNoText is returned by sinks that index text when a file carries none.
var ErrNoText = errors.New("ingest: file has no text passages")

// File is one unit handed to a sink: the rendered bytes plus, when known,
// the passages they were rendered from.
type File struct {
	DocID       int64
	Name        string
	ContentType string
	Data        []byte
	Passages    []document.Passage
}

// Result reports what the sink did with a file. Only StatusCompleted counts
// as success.
type Result struct {
	Status  Status   `json:"status"`
	BatchID string   `json:"batch_id,omitempty"`
	FileIDs []string `json:"file_ids,omitempty"`
	Vectors int      `json:"vectors,omitempty"`
}

// OK reports whether the file was fully ingested.
func (r Result) OK() bool { return r.Status == StatusCompleted }

// Sink ingests files into a store.
type Sink interface {
	Ingest(ctx context.Context, f File) (Result, error)
}

// NewSink builds the sink named by cfg.Ingest.Sink.
func NewSink(cfg config.Config) (Sink, error) {
	switch cfg.Ingest.Sink {
	case "vectorstore":
		return NewVectorStore(cfg), nil
	case "milvus":
		return NewMilvus(cfg, NewEmbedder(cfg.OpenAI)), nil
	default:
		return nil, fmt.Errorf("ingest: unknown sink %q", cfg.Ingest.Sink)
	}
}
