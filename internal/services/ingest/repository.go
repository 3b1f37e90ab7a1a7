package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"

	"legal-assistant/internal/core/dates"
	"legal-assistant/internal/core/document"
	"legal-assistant/internal/database"
	"legal-assistant/internal/database/model"

	"gorm.io/gorm"
)

// Repository records ingested documents, their parts and their dates.
type Repository interface {
	CreateDocument(ctx context.Context, doc *model.Document) error
	GetDocument(ctx context.Context, id int64) (*model.Document, error)
	UpdateDocument(ctx context.Context, id int64, updates map[string]interface{}) error
	SaveChunks(ctx context.Context, docID int64, passages []document.Passage) error
	SaveDates(ctx context.Context, docID int64, found []dates.ImportantDate) error
}

// ErrDocumentNotFound is returned by GetDocument for an unknown id.
var ErrDocumentNotFound = errors.New("document not found")

// GormRepository is the MySQL Repository.
type GormRepository struct{}

func NewRepository() *GormRepository { return &GormRepository{} }

func (GormRepository) CreateDocument(ctx context.Context, doc *model.Document) error {
	return database.CreateEntity(ctx, doc)
}

func (GormRepository) GetDocument(ctx context.Context, id int64) (*model.Document, error) {
	doc, err := database.GetEntityByID[model.Document](ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	return doc, err
}

func (GormRepository) UpdateDocument(ctx context.Context, id int64, updates map[string]interface{}) error {
	return database.UpdateEntityByID[model.Document](ctx, id, updates)
}

// SaveChunks replaces the chunk rows of a document.
func (GormRepository) SaveChunks(ctx context.Context, docID int64, passages []document.Passage) error {
	records := make([]model.Chunk, 0, len(passages))
	for _, p := range passages {
		preview := buildContentPreview(p.Text, 512)
		h := sha256.Sum256([]byte(p.Text))
		page := int32(p.Page)
		records = append(records, model.Chunk{
			DocumentID:     docID,
			ChunkIndex:     int32(p.Part),
			PageIndex:      &page,
			ContentPreview: &preview,
			ContentHash:    hex.EncodeToString(h[:]),
		})
	}
	return database.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", docID).Delete(&model.Chunk{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, 100).Error
	})
}

func (GormRepository) SaveDates(ctx context.Context, docID int64, found []dates.ImportantDate) error {
	records := make([]model.ImportantDate, 0, len(found))
	for _, d := range found {
		t, err := d.Time()
		if err != nil {
			continue
		}
		records = append(records, model.ImportantDate{DocumentID: docID, Description: d.Description, Date: t})
	}
	return database.CreateEntities(ctx, records, 100)
}

// buildContentPreview drops the BOM and control characters except common
// whitespace, and truncates by runes.
func buildContentPreview(s string, maxRunes int) string {
	var b strings.Builder
	b.Grow(min(len(s), maxRunes*4))
	count := 0
	for _, r := range s {
		if r == '\uFEFF' {
			continue
		}
		if r != '\n' && r != '\t' && r != '\r' && !unicode.IsPrint(r) {
			continue
		}
		b.WriteRune(r)
		count++
		if count >= maxRunes {
			break
		}
	}
	return strings.TrimSpace(b.String())
}
