package models

import "time"

type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "Available"
	ItemStatusAssigned  ItemStatus = "Assigned"
	ItemStatusInRepair  ItemStatus = "In Repair"
	ItemStatusRetired   ItemStatus = "Retired"
)

// ValidItemStatus durum değerinin 4 geçerli değerden biri olup olmadığını kontrol eder.
func ValidItemStatus(s ItemStatus) bool {
	switch s {
	case ItemStatusAvailable, ItemStatusAssigned, ItemStatusInRepair, ItemStatusRetired:
		return true
	}
	return false
}

type InventoryItem struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"size:255;not null;index"`
	CategoryID       uint   `gorm:"not null;index"`
	Category         InventoryCategory
	SerialNumber     string `gorm:"size:255;uniqueIndex;not null"`
	Brand            string `gorm:"size:255;not null"`
	Model            string `gorm:"size:255;not null"`
	PurchaseDate     time.Time
	WarrantyEndDate  *time.Time
	Status           ItemStatus `gorm:"size:20;not null;default:Available;index"`
	Location         string     `gorm:"size:255;not null"`
	Description      string     `gorm:"type:text"`
	AssignedTo       *uint      `gorm:"index"`
	AssignedEmployee *Employee  `gorm:"foreignKey:AssignedTo"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
