package ingest

import (
	"context"
	"fmt"

	"legal-assistant/config"
	"legal-assistant/pkg/logger"

	milvusclient "github.com/milvus-io/milvus-sdk-go/v2/client"
	milvusentity "github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	milvusVectorDim  = 1536
	milvusContentMax = 65535
	milvusShards     = 2
)

// milvusAPI is the part of the Milvus client the sink needs.
type milvusAPI interface {
	HasCollection(ctx context.Context, collName string) (bool, error)
	CreateCollection(ctx context.Context, schema *milvusentity.Schema, shardsNum int32, opts ...milvusclient.CreateCollectionOption) error
	CreateIndex(ctx context.Context, collName string, fieldName string, idx milvusentity.Index, async bool, opts ...milvusclient.IndexOption) error
	Insert(ctx context.Context, collName string, partitionName string, columns ...milvusentity.Column) (milvusentity.Column, error)
	Flush(ctx context.Context, collName string, async bool, opts ...milvusclient.FlushOption) error
	Close() error
}

type vectorizer interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// Milvus embeds the passages of a file and stores them in a self-hosted
// collection, one row per passage.
type Milvus struct {
	cfg      config.Config
	embedder vectorizer
	dial     func(ctx context.Context) (milvusAPI, error)
}

// NewMilvus returns a Milvus sink for the configured address and collection.
func NewMilvus(cfg config.Config, embedder vectorizer) *Milvus {
	return &Milvus{
		cfg:      cfg,
		embedder: embedder,
		dial: func(ctx context.Context) (milvusAPI, error) {
			return milvusclient.NewClient(ctx, milvusclient.Config{Address: cfg.Milvus.Address})
		},
	}
}

func (m *Milvus) Ingest(ctx context.Context, f File) (Result, error) {
	if len(f.Passages) == 0 {
		return Result{Status: StatusFailed}, ErrNoText
	}
	texts := make([]string, len(f.Passages))
	for i, p := range f.Passages {
		texts[i] = p.Text
	}
	vectors, err := m.embedder.Embed(ctx, texts)
	if err != nil {
		return Result{Status: StatusFailed}, fmt.Errorf("ingest: embed %s: %w", f.Name, err)
	}

	cli, err := m.dial(ctx)
	if err != nil {
		return Result{Status: StatusFailed}, fmt.Errorf("ingest: connect milvus: %w", err)
	}
	defer cli.Close()

	collection := m.cfg.Milvus.Collection
	if collection == "" {
		collection = "legal_chunks"
	}
	exists, err := cli.HasCollection(ctx, collection)
	if err != nil {
		return Result{Status: StatusFailed}, err
	}
	if !exists {
		if err := m.createCollection(ctx, cli, collection); err != nil {
			return Result{Status: StatusFailed}, err
		}
	}

	// primary keys are derived from docID and part number
	n := len(f.Passages)
	ids := make([]int64, n)
	docIDs := make([]int64, n)
	parts := make([]int32, n)
	pages := make([]int32, n)
	for i, p := range f.Passages {
		ids[i] = (f.DocID << 20) + int64(p.Part)
		docIDs[i] = f.DocID
		parts[i] = int32(p.Part)
		pages[i] = int32(p.Page)
		if len(texts[i]) > milvusContentMax {
			texts[i] = texts[i][:milvusContentMax]
		}
	}
	_, err = cli.Insert(ctx, collection, "",
		milvusentity.NewColumnInt64("id", ids),
		milvusentity.NewColumnInt64("doc_id", docIDs),
		milvusentity.NewColumnInt32("chunk_index", parts),
		milvusentity.NewColumnInt32("page_index", pages),
		milvusentity.NewColumnVarChar("content", texts),
		milvusentity.NewColumnFloatVector("embedding", milvusVectorDim, vectors),
	)
	if err != nil {
		return Result{Status: StatusFailed}, fmt.Errorf("ingest: insert into %s: %w", collection, err)
	}
	if err := cli.Flush(ctx, collection, false); err != nil {
		return Result{Status: StatusFailed}, fmt.Errorf("ingest: flush %s: %w", collection, err)
	}

	logger.WithModule(config.ModuleMilvus).WithFields(logger.Fields{
		"collection": collection,
		"doc_id":     f.DocID,
		"rows":       n,
	}).Info("milvus: passages inserted")
	return Result{Status: StatusCompleted, Vectors: n}, nil
}

func (m *Milvus) createCollection(ctx context.Context, cli milvusAPI, collection string) error {
	schema := milvusentity.NewSchema().WithName(collection).WithDescription("legal artifact passages")
	// primary key without AutoID, ids are provided
	schema.WithField(milvusentity.NewField().WithName("id").WithDataType(milvusentity.FieldTypeInt64).WithIsPrimaryKey(true))
	schema.WithField(milvusentity.NewField().WithName("doc_id").WithDataType(milvusentity.FieldTypeInt64))
	schema.WithField(milvusentity.NewField().WithName("chunk_index").WithDataType(milvusentity.FieldTypeInt32))
	schema.WithField(milvusentity.NewField().WithName("page_index").WithDataType(milvusentity.FieldTypeInt32))
	schema.WithField(milvusentity.NewField().WithName("content").WithDataType(milvusentity.FieldTypeVarChar).WithMaxLength(milvusContentMax))
	schema.WithField(milvusentity.NewField().WithName("embedding").WithDataType(milvusentity.FieldTypeFloatVector).WithDim(milvusVectorDim))

	if err := cli.CreateCollection(ctx, schema, milvusShards); err != nil {
		return err
	}

	hnsw := m.cfg.Milvus.IndexHNSWConfig
	idx, err := milvusentity.NewIndexHNSW(milvusentity.MetricType(hnsw.MetricType), hnsw.M, hnsw.EfConstruction)
	if err != nil {
		return fmt.Errorf("ingest: hnsw index: %w", err)
	}
	return cli.CreateIndex(ctx, collection, "embedding", idx, false)
}
