package ingest

import (
	"context"
	"errors"

	"legal-assistant/config"
	"legal-assistant/pkg/logger"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const embedBatchSize = 100

type openAIEmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type openAIEmbeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Embedder turns passages into vectors with the OpenAI embeddings endpoint.
type Embedder struct {
	client openai.Client
	model  string
	key    string
}

// NewEmbedder builds an embedder from the openai section. Retries are
// disabled; every batch is attempted once.
func NewEmbedder(cfg config.OpenAIConfig, opts ...option.RequestOption) *Embedder {
	base := []option.RequestOption{option.WithAPIKey(cfg.Key), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		base = append(base, option.WithBaseURL(cfg.BaseURL))
	}
	return &Embedder{
		client: openai.NewClient(append(base, opts...)...),
		model:  cfg.EmbeddingModel,
		key:    cfg.Key,
	}
}

// Embed returns one vector per input, in input order.
func (e *Embedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}
	if e.key == "" {
		return nil, errors.New("missing openai key")
	}
	log := logger.WithModule(config.ModuleOpenAI)
	var all [][]float32
	for i := 0; i < len(inputs); i += embedBatchSize {
		j := min(i+embedBatchSize, len(inputs))
		batch := inputs[i:j]
		log.WithFields(logger.Fields{
			"model":       e.model,
			"batch_start": i,
			"batch_end":   j,
		}).Info("openai: embedding batch start")

		vectors, err := e.embedBatch(ctx, batch)
		if err != nil {
			log.WithFields(logger.Fields{
				"model":       e.model,
				"batch_start": i,
				"batch_end":   j,
				"error":       err,
			}).Errorf("openai: embedding batch failed")
			return nil, err
		}
		all = append(all, vectors...)
	}
	return all, nil
}

func (e *Embedder) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	var out openAIEmbeddingResponse
	if err := e.client.Post(ctx, "embeddings", openAIEmbeddingRequest{Model: e.model, Input: batch}, &out); err != nil {
		return nil, err
	}
	if out.Error != nil {
		return nil, errors.New(out.Error.Message)
	}
	if len(out.Data) != len(batch) {
		return nil, errors.New("openai: embedding count does not match input count")
	}
	vectors := make([][]float32, len(out.Data))
	for _, d := range out.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, errors.New("openai: embedding index out of range")
		}
		vec := make([]float32, len(d.Embedding))
		for k, x := range d.Embedding {
			vec[k] = float32(x)
		}
		vectors[d.Index] = vec
	}
	return vectors, nil
}
