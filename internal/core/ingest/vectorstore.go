package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"legal-assistant/config"
	"legal-assistant/pkg/logger"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/time/rate"
)

type fileBatchRequest struct {
	FileIDs []string `json:"file_ids"`
}

type fileBatchResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	FileCounts struct {
		InProgress int `json:"in_progress"`
		Completed  int `json:"completed"`
		Failed     int `json:"failed"`
		Cancelled  int `json:"cancelled"`
		Total      int `json:"total"`
	} `json:"file_counts"`
}

// VectorStore uploads files and adds them to a hosted vector store as a file
// batch, then polls the batch until it settles.
type VectorStore struct {
	client       openai.Client
	storeID      string
	limiter      *rate.Limiter
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewVectorStore builds the sink from the openai and ingest sections.
func NewVectorStore(cfg config.Config, opts ...option.RequestOption) *VectorStore {
	base := []option.RequestOption{
		option.WithAPIKey(cfg.OpenAI.Key),
		option.WithHeader("OpenAI-Beta", "assistants=v2"),
	}
	if cfg.OpenAI.BaseURL != "" {
		base = append(base, option.WithBaseURL(cfg.OpenAI.BaseURL))
	}
	return &VectorStore{
		client:       openai.NewClient(append(base, opts...)...),
		storeID:      cfg.Ingest.VectorStoreID,
		limiter:      rate.NewLimiter(rate.Limit(cfg.Ingest.RatePerSecond), 1),
		pollInterval: time.Duration(cfg.Ingest.PollInterval) * time.Millisecond,
		pollTimeout:  time.Duration(cfg.Ingest.PollTimeout) * time.Second,
	}
}

func (v *VectorStore) Ingest(ctx context.Context, f File) (Result, error) {
	if v.storeID == "" {
		return Result{Status: StatusFailed}, errors.New("ingest: vector store id is not configured")
	}
	log := logger.WithModule(config.ModuleOpenAI).WithFields(logger.Fields{
		"file":  f.Name,
		"bytes": len(f.Data),
		"store": v.storeID,
	})

	if err := v.limiter.Wait(ctx); err != nil {
		return Result{Status: StatusFailed}, err
	}
	obj, err := v.client.Files.New(ctx, openai.FileNewParams{
		File:    openai.File(bytes.NewReader(f.Data), f.Name, f.ContentType),
		Purpose: openai.FilePurposeAssistants,
	})
	if err != nil {
		return Result{Status: StatusFailed}, fmt.Errorf("ingest: upload %s: %w", f.Name, err)
	}
	log.WithField("file_id", obj.ID).Info("openai: file uploaded")

	if err := v.limiter.Wait(ctx); err != nil {
		return Result{Status: StatusFailed, FileIDs: []string{obj.ID}}, err
	}
	var batch fileBatchResponse
	path := fmt.Sprintf("vector_stores/%s/file_batches", v.storeID)
	if err := v.client.Post(ctx, path, fileBatchRequest{FileIDs: []string{obj.ID}}, &batch); err != nil {
		return Result{Status: StatusFailed, FileIDs: []string{obj.ID}}, fmt.Errorf("ingest: create file batch: %w", err)
	}

	batch, err = v.poll(ctx, batch)
	res := Result{Status: batchStatus(batch.Status), BatchID: batch.ID, FileIDs: []string{obj.ID}}
	if err != nil {
		return res, err
	}
	log.WithFields(logger.Fields{
		"batch":     batch.ID,
		"status":    batch.Status,
		"completed": batch.FileCounts.Completed,
		"failed":    batch.FileCounts.Failed,
	}).Info("openai: file batch settled")
	return res, nil
}

// poll re-reads the batch until it leaves in_progress or the poll timeout
// passes. A timeout is not an error: the batch is reported as pending.
func (v *VectorStore) poll(ctx context.Context, batch fileBatchResponse) (fileBatchResponse, error) {
	deadline := time.Now().Add(v.pollTimeout)
	path := fmt.Sprintf("vector_stores/%s/file_batches/%s", v.storeID, batch.ID)
	for batchStatus(batch.Status) == StatusPending && time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return batch, ctx.Err()
		case <-time.After(v.pollInterval):
		}
		if err := v.limiter.Wait(ctx); err != nil {
			return batch, err
		}
		if err := v.client.Get(ctx, path, nil, &batch); err != nil {
			return batch, fmt.Errorf("ingest: poll file batch: %w", err)
		}
	}
	return batch, nil
}

func batchStatus(s string) Status {
	switch s {
	case "completed":
		return StatusCompleted
	case "failed", "cancelled":
		return StatusFailed
	default:
		return StatusPending
	}
}
