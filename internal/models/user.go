package models

import "time"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null;default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	CreatedTickets  []Ticket `gorm:"foreignKey:CreatedBy"`
	AssignedTickets []Ticket `gorm:"foreignKey:AssignedTo"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
