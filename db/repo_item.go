package db

import (
	"context"
	"time"

	"equipment-loans/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRow is an item joined with its department name, the shape every
// listing endpoint returns.
type ItemRow struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	DepartmentID      string    `json:"departmentId"`
	DepartmentName    string    `json:"departmentName"`
	TotalQuantity     int       `json:"totalQuantity"`
	AvailableQuantity int       `json:"availableQuantity"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

const itemRowSelect = `
	i.id, i.name, i.description, i.department_id, d.name AS department_name,
	i.total_quantity, i.available_quantity, i.status, i.created_at, i.updated_at
`

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Department{}, "id = ?", it.DepartmentID).Error; err != nil {
			return err
		}
		return tx.Create(it).Error
	})
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*ItemRow, error) {
	var row ItemRow
	err := r.DB.WithContext(ctx).
		Table(models.ItemTable+" i").
		Select(itemRowSelect).
		Joins("INNER JOIN "+models.DepartmentTable+" d ON d.id = i.department_id").
		Where("i.id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repo) ListItems(ctx context.Context, departmentID string) ([]ItemRow, error) {
	q := r.DB.WithContext(ctx).
		Table(models.ItemTable + " i").
		Select(itemRowSelect).
		Joins("INNER JOIN " + models.DepartmentTable + " d ON d.id = i.department_id")
	if departmentID != "" {
		q = q.Where("i.department_id = ?", departmentID)
	}
	var rows []ItemRow
	if err := q.Order("i.name ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type UpdateItemInput struct {
	Name              *string
	Description       *string
	DepartmentID      *string
	TotalQuantity     *int
	AvailableQuantity *int
	Status            *string
}

// UpdateItem applies a partial update, re-checking the quantity invariant
// against whichever side of the pair is not changing.
func (r *Repo) UpdateItem(ctx context.Context, id string, in UpdateItemInput) (*ItemRow, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&it, "id = ?", id).Error; err != nil {
			return err
		}

		total := it.TotalQuantity
		avail := it.AvailableQuantity
		if in.TotalQuantity != nil {
			total = *in.TotalQuantity
		}
		if in.AvailableQuantity != nil {
			avail = *in.AvailableQuantity
		}
		if total < 0 || avail < 0 || avail > total {
			return ErrQuantityBounds
		}

		updates := map[string]interface{}{}
		if in.Name != nil {
			updates["name"] = *in.Name
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if in.DepartmentID != nil {
			if err := tx.First(&models.Department{}, "id = ?", *in.DepartmentID).Error; err != nil {
				return err
			}
			updates["department_id"] = *in.DepartmentID
		}
		if in.TotalQuantity != nil {
			updates["total_quantity"] = total
		}
		if in.AvailableQuantity != nil {
			updates["available_quantity"] = avail
		}
		if in.Status != nil {
			updates["status"] = *in.Status
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&models.Item{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindItemByID(ctx, id)
}

// DeleteItem applies the deletion policy in one transaction:
//  1. any Pending/Approved request  -> refuse
//  2. any Finalized/Rejected request -> soft delete (Depleted, available=0)
//  3. otherwise                      -> hard delete
//
// Returns soft=true when the item was retained for request history.
func (r *Repo) DeleteItem(ctx context.Context, id string) (soft bool, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&it, "id = ?", id).Error; err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&models.LoanRequest{}).
			Where("item_id = ? AND status IN ?", id,
				[]string{models.StatusPending, models.StatusApproved}).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrActiveRequests
		}

		var historical int64
		if err := tx.Model(&models.LoanRequest{}).
			Where("item_id = ? AND status IN ?", id,
				[]string{models.StatusFinalized, models.StatusRejected}).
			Count(&historical).Error; err != nil {
			return err
		}
		if historical > 0 {
			soft = true
			return tx.Model(&models.Item{}).
				Where("id = ?", id).
				Updates(map[string]interface{}{
					"status":             models.ItemStatusDepleted,
					"available_quantity": 0,
				}).Error
		}

		return tx.Delete(&models.Item{}, "id = ?", id).Error
	})
	return soft, err
}
