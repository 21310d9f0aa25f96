package models

import "time"

type InventoryCategory struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null;index"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Kategori silinince altındaki envanter de silinir (cascade)
	InventoryItems []InventoryItem `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}
