package document

import "time"

type StorageState string

const (
	StorageStateStored       StorageState = "stored"
	StorageStateMetadataOnly StorageState = "metadata_only"
)

// Document is an uploaded file attached to an event, quote, or
// preregistration. When no object store is configured only the metadata
// row exists and StorageState reflects that.
type Document struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`

	FileName    string `gorm:"column:file_name;not null" json:"file_name"`
	ContentType string `gorm:"column:content_type" json:"content_type"`
	SizeBytes   int64  `gorm:"column:size_bytes" json:"size_bytes"`
	ObjectKey   string `gorm:"column:object_key;uniqueIndex" json:"object_key"`

	EntityType string `gorm:"column:entity_type;index" json:"entity_type"`
	EntityID   string `gorm:"column:entity_id;index" json:"entity_id"`

	UploadedBy   string       `gorm:"column:uploaded_by" json:"uploaded_by"`
	StorageState StorageState `gorm:"column:storage_state;type:varchar(20)" json:"storage_state"`
}

func (Document) TableName() string {
	return "documents"
}
