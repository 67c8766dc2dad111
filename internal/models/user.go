package models

import "time"

// User is an identity issued by the external provider. UID is never generated here.
type User struct {
	UID         string    `gorm:"primarykey;type:varchar(128)" json:"uid"`
	Email       string    `gorm:"type:varchar(255)" json:"email"`
	DisplayName string    `gorm:"type:varchar(255)" json:"display_name"`
	PhotoURL    string    `gorm:"type:text" json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
