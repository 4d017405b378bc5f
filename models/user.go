package models

import "time"

const UserTable = "eqp_users"

// User is keyed by matricula (the university student/staff id). The derived
// institutional email is stored for display only; login uses matricula.
type User struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Matricula string `gorm:"uniqueIndex;size:60;not null" json:"matricula"`
	Email     string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName string `gorm:"size:120;not null" json:"firstName"`
	LastName  string `gorm:"size:120;not null" json:"lastName"`

	PasswordHash string `gorm:"size:100;not null" json:"-"`
	IsAdmin      bool   `gorm:"not null;default:false" json:"isAdmin"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"loginCount"`
	LastLoginIP string     `gorm:"size:45" json:"-"`
	LastLoginUA string     `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }
