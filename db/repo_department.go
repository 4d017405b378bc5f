package db

import (
	"context"
	"strings"

	"equipment-loans/models"

	"gorm.io/gorm"
)

// Departments

func (r *Repo) CreateDepartment(ctx context.Context, d *models.Department) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Department{}).
			Where("LOWER(name) = ?", strings.ToLower(d.Name)).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateDept
		}
		return tx.Create(d).Error
	})
}

func (r *Repo) FindDepartmentByID(ctx context.Context, id string) (*models.Department, error) {
	var d models.Department
	if err := r.DB.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repo) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var ds []models.Department
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&ds).Error
	return ds, err
}

type UpdateDepartmentInput struct {
	Name        *string
	Description *string
}

func (r *Repo) UpdateDepartment(ctx context.Context, id string, in UpdateDepartmentInput) (*models.Department, error) {
	var d models.Department
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&d, "id = ?", id).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{}
		if in.Name != nil {
			var n int64
			if err := tx.Model(&models.Department{}).
				Where("LOWER(name) = ? AND id <> ?", strings.ToLower(*in.Name), id).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrDuplicateDept
			}
			updates["name"] = *in.Name
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&d).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&d, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteDepartment refuses while items still reference the department.
func (r *Repo) DeleteDepartment(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d models.Department
		if err := tx.First(&d, "id = ?", id).Error; err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&models.Item{}).
			Where("department_id = ?", id).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDeptHasItems
		}
		return tx.Delete(&models.Department{}, "id = ?", id).Error
	})
}
