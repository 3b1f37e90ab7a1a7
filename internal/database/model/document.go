package model

import "time"

// Document kinds.
const (
	KindDocument   = "document"
	KindEmail      = "email"
	KindAttachment = "attachment"
	KindKnowledge  = "knowledge"
)

// Document statuses.
const (
	StatusProcessing = "processing"
	StatusReady      = "ready"
	StatusFailed     = "failed"
)

const TableNameDocument = "documents"

// Document is one ingested source and the artifact composed from it.
type Document struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	Kind            string    `gorm:"column:kind;type:varchar(16);not null;index" json:"kind"`
	Source          string    `gorm:"column:source;type:varchar(255);not null" json:"source"`
	OriginalPath    *string   `gorm:"column:original_path;type:varchar(512)" json:"original_path"`
	ArtifactPath    *string   `gorm:"column:artifact_path;type:varchar(512)" json:"artifact_path"`
	SHA256          *string   `gorm:"column:sha256;type:char(64)" json:"sha256"`
	DocType         *string   `gorm:"column:doc_type;type:varchar(64)" json:"doc_type"`
	Parties         *string   `gorm:"column:parties;type:varchar(512)" json:"parties"`
	Jurisdiction    *string   `gorm:"column:jurisdiction;type:varchar(128)" json:"jurisdiction"`
	Status          string    `gorm:"column:status;type:varchar(32);not null;default:processing" json:"status"`
	ChunksRendered  int32     `gorm:"column:chunks_rendered;not null;default:0" json:"chunks_rendered"`
	ChunksAvailable int32     `gorm:"column:chunks_available;not null;default:0" json:"chunks_available"`
	Pages           int32     `gorm:"column:pages;not null;default:0" json:"pages"`
	SinkStatus      *string   `gorm:"column:sink_status;type:varchar(16)" json:"sink_status"`
	BatchID         *string   `gorm:"column:batch_id;type:varchar(64)" json:"batch_id"`
	Error           *string   `gorm:"column:error;type:text" json:"error"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName Document's table name
func (*Document) TableName() string {
	return TableNameDocument
}
