package db

import (
	"context"
	"time"

	"equipment-loans/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RequestRow is a request joined with item, department and requester info,
// the shape the request listing/detail endpoints return.
type RequestRow struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	ItemID        string    `json:"itemId"`
	UseDate       time.Time `json:"useDate"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	Justification string    `json:"justification"`
	Status        string    `json:"status"`
	Comment       *string   `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`

	ItemName       string `json:"itemName"`
	DepartmentName string `json:"departmentName"`
	Matricula      string `json:"matricula"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
}

const requestRowSelect = `
	s.id, s.user_id, s.item_id, s.use_date, s.start_time, s.end_time,
	s.justification, s.status, s.comment, s.created_at,
	i.name AS item_name, d.name AS department_name,
	u.matricula, u.first_name, u.last_name
`

func (r *Repo) requestRows(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table(models.RequestTable+" s").
		Select(requestRowSelect).
		Joins("INNER JOIN "+models.ItemTable+" i ON i.id = s.item_id").
		Joins("INNER JOIN "+models.DepartmentTable+" d ON d.id = i.department_id").
		Joins("INNER JOIN " + models.UserTable + " u ON u.id = s.user_id")
}

type CreateRequestInput struct {
	UserID        string
	ItemID        string
	UseDate       time.Time
	StartTime     string
	EndTime       string
	Justification string
}

// CreateRequest inserts a Pending request. Stock is checked but NOT
// reserved here; the unit is only taken at approval time, so several
// Pending requests may race for the same unit and the loser of that race
// gets ErrOutOfStock on approval.
func (r *Repo) CreateRequest(ctx context.Context, in CreateRequestInput) (*models.LoanRequest, error) {
	req := &models.LoanRequest{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		ItemID:        in.ItemID,
		UseDate:       in.UseDate,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		Justification: in.Justification,
		Status:        models.StatusPending,
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Item
		if err := tx.First(&it, "id = ?", in.ItemID).Error; err != nil {
			return err
		}
		if it.AvailableQuantity <= 0 {
			return ErrOutOfStock
		}
		return tx.Create(req).Error
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// TransitionRequest moves a request to newStatus and reconciles the item's
// available counter in the SAME transaction:
//  1. lock the request row
//  2. validate the move against the one-directional lifecycle
//  3. apply the inventory delta as a guarded UPDATE — approval is a
//     compare-and-decrement with a floor of zero, so concurrent approvals
//     against the last unit cannot drive the counter negative
//  4. persist the new status and reviewer comment
func (r *Repo) TransitionRequest(ctx context.Context, id, newStatus string, comment *string) (*models.LoanRequest, error) {
	var req models.LoanRequest
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "id = ?", id).Error; err != nil {
			return err
		}

		if !models.ValidTransition(req.Status, newStatus) {
			return ErrInvalidTransition
		}

		switch models.InventoryDelta(req.Status, newStatus) {
		case -1:
			res := tx.Model(&models.Item{}).
				Where("id = ? AND available_quantity > 0", req.ItemID).
				Update("available_quantity", gorm.Expr("available_quantity - 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrOutOfStock
			}
		case +1:
			// Guarded so a finalize can never push available past total.
			if err := tx.Model(&models.Item{}).
				Where("id = ? AND available_quantity < total_quantity", req.ItemID).
				Update("available_quantity", gorm.Expr("available_quantity + 1")).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&req).Updates(map[string]interface{}{
			"status":  newStatus,
			"comment": comment,
		}).Error; err != nil {
			return err
		}
		req.Status = newStatus
		req.Comment = comment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *Repo) FindRequestByID(ctx context.Context, id string) (*RequestRow, error) {
	var row RequestRow
	if err := r.requestRows(ctx).Where("s.id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repo) ListRequestsByUser(ctx context.Context, userID, status string) ([]RequestRow, error) {
	q := r.requestRows(ctx).Where("s.user_id = ?", userID)
	if status != "" {
		q = q.Where("s.status = ?", status)
	}
	var rows []RequestRow
	if err := q.Order("s.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repo) ListAllRequests(ctx context.Context, status string) ([]RequestRow, error) {
	q := r.requestRows(ctx)
	if status != "" {
		q = q.Where("s.status = ?", status)
	}
	var rows []RequestRow
	if err := q.Order("s.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteRequest removes a request while it is still Pending. Ownership is
// checked by the caller; the Pending guard lives here so it shares the lock
// with the delete.
func (r *Repo) DeleteRequest(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.LoanRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "id = ?", id).Error; err != nil {
			return err
		}
		if req.Status != models.StatusPending {
			return ErrNotPending
		}
		return tx.Delete(&models.LoanRequest{}, "id = ?", id).Error
	})
}

// RequestStats are the caller's request counts per lifecycle state.
type RequestStats struct {
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Finalized int64 `json:"finalized"`
}

func (r *Repo) UserRequestStats(ctx context.Context, userID string) (*RequestStats, error) {
	rows := []struct {
		Status string
		N      int64
	}{}
	if err := r.DB.WithContext(ctx).Model(&models.LoanRequest{}).
		Select("status, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	var st RequestStats
	for _, row := range rows {
		switch row.Status {
		case models.StatusPending:
			st.Pending = row.N
		case models.StatusApproved:
			st.Approved = row.N
		case models.StatusRejected:
			st.Rejected = row.N
		case models.StatusFinalized:
			st.Finalized = row.N
		}
	}
	return &st, nil
}
