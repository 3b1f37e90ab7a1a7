package model

import "time"

const TableNameChunk = "chunks"

// Chunk is one rendered part of a document's artifact.
type Chunk struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	DocumentID     int64     `gorm:"column:document_id;not null;index" json:"document_id"`
	ChunkIndex     int32     `gorm:"column:chunk_index;not null" json:"chunk_index"`
	PageIndex      *int32    `gorm:"column:page_index" json:"page_index"`
	ContentPreview *string   `gorm:"column:content_preview;type:text" json:"content_preview"`
	ContentHash    string    `gorm:"column:content_hash;type:char(64);not null" json:"content_hash"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName Chunk's table name
func (*Chunk) TableName() string {
	return TableNameChunk
}
