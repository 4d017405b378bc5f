package models

import "time"

const ItemTable = "eqp_items"

// Item statuses. Depleted doubles as the soft-delete marker: an item that
// still has historical requests is never removed, only forced to
// Depleted/available=0 (see Repo.DeleteItem).
const (
	ItemStatusAvailable   = "Available"
	ItemStatusDepleted    = "Depleted"
	ItemStatusMaintenance = "UnderMaintenance"
)

// Item is a category of loanable equipment. AvailableQuantity is shared
// mutable state across every request against the item; it is only ever
// changed inside the request-transition transaction and must stay within
// [0, TotalQuantity].
type Item struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	Name         string `gorm:"size:200;not null" json:"name"`
	Description  string `gorm:"type:text" json:"description"`
	DepartmentID string `gorm:"type:uuid;index;not null" json:"departmentId"`

	TotalQuantity     int    `gorm:"not null" json:"totalQuantity"`
	AvailableQuantity int    `gorm:"not null" json:"availableQuantity"`
	Status            string `gorm:"size:24;not null;default:'Available'" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return ItemTable }
