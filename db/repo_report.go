package db

import (
	"context"
	"time"

	"equipment-loans/models"
)

// Usage reports (admin): top requested items and top requesters since a
// cutoff. Shapes mirror the request listing joins.

type ItemUsageRow struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DepartmentName string `json:"departmentName"`
	TotalRequests  int64  `json:"totalRequests"`
}

type UserUsageRow struct {
	ID            string `json:"id"`
	Matricula     string `json:"matricula"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	TotalRequests int64  `json:"totalRequests"`
}

func (r *Repo) TopRequestedItems(ctx context.Context, since time.Time, limit int) ([]ItemUsageRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []ItemUsageRow
	err := r.DB.WithContext(ctx).
		Table(models.RequestTable+" s").
		Select(`i.id, i.name, d.name AS department_name, COUNT(s.id) AS total_requests`).
		Joins("INNER JOIN "+models.ItemTable+" i ON i.id = s.item_id").
		Joins("INNER JOIN "+models.DepartmentTable+" d ON d.id = i.department_id").
		Where("s.created_at >= ?", since).
		Group("i.id, i.name, d.name").
		Order("total_requests DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *Repo) TopRequesters(ctx context.Context, since time.Time, limit int) ([]UserUsageRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []UserUsageRow
	err := r.DB.WithContext(ctx).
		Table(models.RequestTable+" s").
		Select(`u.id, u.matricula, u.first_name, u.last_name, COUNT(s.id) AS total_requests`).
		Joins("INNER JOIN "+models.UserTable+" u ON u.id = s.user_id").
		Where("s.created_at >= ?", since).
		Group("u.id, u.matricula, u.first_name, u.last_name").
		Order("total_requests DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
