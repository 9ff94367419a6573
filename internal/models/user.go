package models

import (
	"time"
)

type User struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Login     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"login"`
	Email     string    `gorm:"type:varchar(191)" json:"email,omitempty"`
	FirstName string    `gorm:"type:varchar(50)" json:"firstName,omitempty"`
	LastName  string    `gorm:"type:varchar(50)" json:"lastName,omitempty"`
	Activated bool      `gorm:"not null;default:true" json:"activated"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
