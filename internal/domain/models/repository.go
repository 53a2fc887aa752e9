package models

import (
	"time"

	"github.com/lib/pq"
)

// Repo is a repository record created through the JSON endpoint
type Repo struct {
	Seq         uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	ID          string `json:"id" gorm:"uniqueIndex;not null"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TableName specifies the table name for Repo
func (Repo) TableName() string {
	return "repos"
}

// Clone returns a copy that shares no state with r
func (r *Repo) Clone() *Repo {
	c := *r
	return &c
}

// UploadRepo is a repository record created through the multipart endpoint.
// Files holds the names of the uploaded files in submission order; the
// content lives in upload storage under the record id.
type UploadRepo struct {
	Seq         uint           `json:"-" gorm:"primaryKey;autoIncrement"`
	ID          string         `json:"id" gorm:"uniqueIndex;not null"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	IsPublic    bool           `json:"isPublic"`
	Files       pq.StringArray `json:"files" gorm:"type:text[]"`
	CreatedAt   string         `json:"createdAt"`
}

// TableName specifies the table name for UploadRepo
func (UploadRepo) TableName() string {
	return "upload_repos"
}

// Clone returns a copy that shares no state with r
func (r *UploadRepo) Clone() *UploadRepo {
	c := *r
	c.Files = append(pq.StringArray(nil), r.Files...)
	if c.Files == nil {
		c.Files = pq.StringArray{}
	}
	return &c
}

// FormatCreatedAt renders t the way createdAt is stored: UTC, millisecond precision
func FormatCreatedAt(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
