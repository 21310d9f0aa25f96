package models

import "time"

type Employee struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:255;not null;index"`
	Email      string `gorm:"size:255;uniqueIndex;not null"`
	Phone      string `gorm:"size:50"`
	Position   string `gorm:"size:255"`
	Department string `gorm:"size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Çalışana zimmetli envanter (çalışan silinince assigned_to NULL yapılır)
	InventoryItems []InventoryItem `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL"`
}
