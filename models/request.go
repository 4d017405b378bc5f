package models

import "time"

const RequestTable = "eqp_requests"

// Request lifecycle states. Moves are one-directional: Pending fans out to
// Approved/Rejected/Finalized, Approved closes into Finalized. Rejected and
// Finalized are terminal.
const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusFinalized = "Finalized"
)

// LoanRequest is a user's ask to borrow one unit of an item for a time
// window on UseDate. StartTime/EndTime are wall-clock "HH:MM" strings.
type LoanRequest struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"type:uuid;index;not null" json:"userId"`
	ItemID string `gorm:"type:uuid;index;not null" json:"itemId"`

	UseDate       time.Time `gorm:"type:date;not null" json:"useDate"`
	StartTime     string    `gorm:"size:5;not null" json:"startTime"`
	EndTime       string    `gorm:"size:5;not null" json:"endTime"`
	Justification string    `gorm:"type:text;not null" json:"justification"`

	Status  string  `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	Comment *string `gorm:"type:text" json:"comment,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (LoanRequest) TableName() string { return RequestTable }

// KnownStatus reports whether s is one of the four lifecycle states.
func KnownStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusFinalized:
		return true
	}
	return false
}

// ValidTransition reports whether a request may move from -> to. Terminal
// states admit nothing; Pending may not be re-entered.
func ValidTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected || to == StatusFinalized
	case StatusApproved:
		return to == StatusFinalized
	}
	return false
}

// InventoryDelta is the change to the item's available_quantity implied by
// the move from -> to: approval reserves one unit (-1), finalizing an
// approved loan returns it (+1). A request finalized straight from Pending
// never held a unit, so nothing is returned.
func InventoryDelta(from, to string) int {
	switch {
	case to == StatusApproved:
		return -1
	case from == StatusApproved && to == StatusFinalized:
		return +1
	}
	return 0
}
