package models

import (
	"time"

	"gorm.io/gorm"
)

type Barber struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Name      string  `gorm:"size:100;not null" json:"name"`
	AvatarURL string  `gorm:"size:512" json:"avatar_url"`
	Rating    float64 `gorm:"type:numeric(2,1);default:5.0" json:"rating"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
