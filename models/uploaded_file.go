package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadedFile is the metadata record for a file stored at the object-storage
// provider. Created exactly once per successful upload; immutable thereafter.
type UploadedFile struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name        string `gorm:"not null" json:"name"`
	Size        int64  `gorm:"not null" json:"size"`
	Type        string `gorm:"not null" json:"type"` // MIME type
	B2FileID    string `gorm:"column:b2_file_id;not null" json:"b2_file_id"`
	B2FileName  string `gorm:"column:b2_file_name;not null" json:"b2_file_name"`
	DownloadURL string `gorm:"not null" json:"download_url"`
	UploadedAt  time.Time `gorm:"not null" json:"uploaded_at"`
}

// BeforeCreate hook to generate UUID and stamp the upload time
func (f *UploadedFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	if f.UploadedAt.IsZero() {
		f.UploadedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for UploadedFile model
func (UploadedFile) TableName() string {
	return "files"
}
