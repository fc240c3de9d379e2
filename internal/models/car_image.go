package models

import (
	"time"
)

// CarImage is one stored photo of a car. The binary payload lives in the
// storage backend (S3 or local disk) under ObjectKey; URL is what clients
// render.
type CarImage struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	CarID      uint      `json:"carId" gorm:"not null;index"`
	ObjectKey  string    `json:"-" gorm:"not null"`
	URL        string    `json:"url" gorm:"not null"`
	UploadedAt time.Time `json:"uploadedAt" gorm:"autoCreateTime"`
}
