package models

import "time"

// ContactSubmission stores an accepted contact form enquiry. Rows are append-only.
type ContactSubmission struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	Email       string    `gorm:"size:160;not null" json:"email"`
	Phone       string    `gorm:"size:40;not null" json:"phone"`
	Description string    `gorm:"type:text;not null" json:"description"`
	IPAddress   string    `gorm:"size:64" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName keeps the table name used by the site since its first deployment.
func (ContactSubmission) TableName() string {
	return "contact_forms"
}
