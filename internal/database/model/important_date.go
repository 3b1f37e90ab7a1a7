package model

import "time"

const TableNameImportantDate = "important_dates"

// ImportantDate is a labelled date taken from a document's metadata.
type ImportantDate struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	DocumentID  int64     `gorm:"column:document_id;not null;index" json:"document_id"`
	Description string    `gorm:"column:description;type:varchar(255);not null" json:"description"`
	Date        time.Time `gorm:"column:date;type:date;not null" json:"date"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName ImportantDate's table name
func (*ImportantDate) TableName() string {
	return TableNameImportantDate
}
