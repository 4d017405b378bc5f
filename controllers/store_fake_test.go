package controllers

import (
	"context"
	"strings"
	"time"

	"equipment-loans/db"
	"equipment-loans/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeStore is an in-memory Store for handler tests. It mirrors the repo's
// guard semantics (stock floor, lifecycle checks, deletion policy) so the
// controllers see the same sentinel errors they would get from Postgres.
type fakeStore struct {
	users map[string]*models.User
	depts map[string]*models.Department
	items map[string]*models.Item
	reqs  map[string]*models.LoanRequest
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: map[string]*models.User{},
		depts: map[string]*models.Department{},
		items: map[string]*models.Item{},
		reqs:  map[string]*models.LoanRequest{},
	}
}

// seed helpers

func (f *fakeStore) addUser(matricula string, admin bool) *models.User {
	u := &models.User{ID: uuid.NewString(), Matricula: matricula, Email: matricula + "@uni.edu", IsAdmin: admin}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) addDept(name string) *models.Department {
	d := &models.Department{ID: uuid.NewString(), Name: name}
	f.depts[d.ID] = d
	return d
}

func (f *fakeStore) addItem(deptID string, total, avail int) *models.Item {
	it := &models.Item{
		ID: uuid.NewString(), Name: "projector", Description: "hdmi",
		DepartmentID: deptID, TotalQuantity: total, AvailableQuantity: avail,
		Status: models.ItemStatusAvailable,
	}
	f.items[it.ID] = it
	return it
}

func (f *fakeStore) addRequest(userID, itemID, status string) *models.LoanRequest {
	r := &models.LoanRequest{
		ID: uuid.NewString(), UserID: userID, ItemID: itemID,
		UseDate: time.Now().AddDate(0, 0, 1), StartTime: "09:00", EndTime: "11:00",
		Justification: "lab session", Status: status, CreatedAt: time.Now(),
	}
	f.reqs[r.ID] = r
	return r
}

// users

func (f *fakeStore) CreateUser(_ context.Context, u *models.User) error {
	for _, e := range f.users {
		if strings.EqualFold(e.Matricula, u.Matricula) {
			return db.ErrDuplicateMatricula
		}
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) FindUserByMatricula(_ context.Context, matricula string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Matricula, strings.TrimSpace(matricula)) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) TouchUserLogin(_ context.Context, _, _, _ string) error { return nil }

// departments

func (f *fakeStore) CreateDepartment(_ context.Context, d *models.Department) error {
	for _, e := range f.depts {
		if strings.EqualFold(e.Name, d.Name) {
			return db.ErrDuplicateDept
		}
	}
	f.depts[d.ID] = d
	return nil
}

func (f *fakeStore) FindDepartmentByID(_ context.Context, id string) (*models.Department, error) {
	if d, ok := f.depts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) ListDepartments(_ context.Context) ([]models.Department, error) {
	out := []models.Department{}
	for _, d := range f.depts {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeStore) UpdateDepartment(_ context.Context, id string, in db.UpdateDepartmentInput) (*models.Department, error) {
	d, ok := f.depts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if in.Name != nil {
		for eid, e := range f.depts {
			if eid != id && strings.EqualFold(e.Name, *in.Name) {
				return nil, db.ErrDuplicateDept
			}
		}
		d.Name = *in.Name
	}
	if in.Description != nil {
		d.Description = *in.Description
	}
	return d, nil
}

func (f *fakeStore) DeleteDepartment(_ context.Context, id string) error {
	if _, ok := f.depts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, it := range f.items {
		if it.DepartmentID == id {
			return db.ErrDeptHasItems
		}
	}
	delete(f.depts, id)
	return nil
}

// items

func (f *fakeStore) itemRow(it *models.Item) *db.ItemRow {
	deptName := ""
	if d, ok := f.depts[it.DepartmentID]; ok {
		deptName = d.Name
	}
	return &db.ItemRow{
		ID: it.ID, Name: it.Name, Description: it.Description,
		DepartmentID: it.DepartmentID, DepartmentName: deptName,
		TotalQuantity: it.TotalQuantity, AvailableQuantity: it.AvailableQuantity,
		Status: it.Status, CreatedAt: it.CreatedAt, UpdatedAt: it.UpdatedAt,
	}
}

func (f *fakeStore) CreateItem(_ context.Context, it *models.Item) error {
	if _, ok := f.depts[it.DepartmentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.items[it.ID] = it
	return nil
}

func (f *fakeStore) FindItemByID(_ context.Context, id string) (*db.ItemRow, error) {
	if it, ok := f.items[id]; ok {
		return f.itemRow(it), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) ListItems(_ context.Context, departmentID string) ([]db.ItemRow, error) {
	out := []db.ItemRow{}
	for _, it := range f.items {
		if departmentID == "" || it.DepartmentID == departmentID {
			out = append(out, *f.itemRow(it))
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateItem(_ context.Context, id string, in db.UpdateItemInput) (*db.ItemRow, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	total, avail := it.TotalQuantity, it.AvailableQuantity
	if in.TotalQuantity != nil {
		total = *in.TotalQuantity
	}
	if in.AvailableQuantity != nil {
		avail = *in.AvailableQuantity
	}
	if total < 0 || avail < 0 || avail > total {
		return nil, db.ErrQuantityBounds
	}
	if in.Name != nil {
		it.Name = *in.Name
	}
	if in.Description != nil {
		it.Description = *in.Description
	}
	if in.DepartmentID != nil {
		if _, ok := f.depts[*in.DepartmentID]; !ok {
			return nil, gorm.ErrRecordNotFound
		}
		it.DepartmentID = *in.DepartmentID
	}
	it.TotalQuantity, it.AvailableQuantity = total, avail
	if in.Status != nil {
		it.Status = *in.Status
	}
	return f.itemRow(it), nil
}

func (f *fakeStore) DeleteItem(_ context.Context, id string) (bool, error) {
	it, ok := f.items[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	var historical bool
	for _, r := range f.reqs {
		if r.ItemID != id {
			continue
		}
		switch r.Status {
		case models.StatusPending, models.StatusApproved:
			return false, db.ErrActiveRequests
		default:
			historical = true
		}
	}
	if historical {
		it.Status = models.ItemStatusDepleted
		it.AvailableQuantity = 0
		return true, nil
	}
	delete(f.items, id)
	return false, nil
}

// requests

func (f *fakeStore) requestRow(r *models.LoanRequest) *db.RequestRow {
	row := &db.RequestRow{
		ID: r.ID, UserID: r.UserID, ItemID: r.ItemID,
		UseDate: r.UseDate, StartTime: r.StartTime, EndTime: r.EndTime,
		Justification: r.Justification, Status: r.Status, Comment: r.Comment,
		CreatedAt: r.CreatedAt,
	}
	if it, ok := f.items[r.ItemID]; ok {
		row.ItemName = it.Name
		if d, ok := f.depts[it.DepartmentID]; ok {
			row.DepartmentName = d.Name
		}
	}
	if u, ok := f.users[r.UserID]; ok {
		row.Matricula = u.Matricula
		row.FirstName = u.FirstName
		row.LastName = u.LastName
	}
	return row
}

func (f *fakeStore) CreateRequest(_ context.Context, in db.CreateRequestInput) (*models.LoanRequest, error) {
	it, ok := f.items[in.ItemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if it.AvailableQuantity <= 0 {
		return nil, db.ErrOutOfStock
	}
	r := &models.LoanRequest{
		ID: uuid.NewString(), UserID: in.UserID, ItemID: in.ItemID,
		UseDate: in.UseDate, StartTime: in.StartTime, EndTime: in.EndTime,
		Justification: in.Justification, Status: models.StatusPending,
		CreatedAt: time.Now(),
	}
	f.reqs[r.ID] = r
	return r, nil
}

func (f *fakeStore) TransitionRequest(_ context.Context, id, newStatus string, comment *string) (*models.LoanRequest, error) {
	r, ok := f.reqs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if !models.ValidTransition(r.Status, newStatus) {
		return nil, db.ErrInvalidTransition
	}
	it := f.items[r.ItemID]
	switch models.InventoryDelta(r.Status, newStatus) {
	case -1:
		if it == nil || it.AvailableQuantity <= 0 {
			return nil, db.ErrOutOfStock
		}
		it.AvailableQuantity--
	case +1:
		if it != nil && it.AvailableQuantity < it.TotalQuantity {
			it.AvailableQuantity++
		}
	}
	r.Status = newStatus
	r.Comment = comment
	return r, nil
}

func (f *fakeStore) FindRequestByID(_ context.Context, id string) (*db.RequestRow, error) {
	if r, ok := f.reqs[id]; ok {
		return f.requestRow(r), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) ListRequestsByUser(_ context.Context, userID, status string) ([]db.RequestRow, error) {
	out := []db.RequestRow{}
	for _, r := range f.reqs {
		if r.UserID == userID && (status == "" || r.Status == status) {
			out = append(out, *f.requestRow(r))
		}
	}
	return out, nil
}

func (f *fakeStore) ListAllRequests(_ context.Context, status string) ([]db.RequestRow, error) {
	out := []db.RequestRow{}
	for _, r := range f.reqs {
		if status == "" || r.Status == status {
			out = append(out, *f.requestRow(r))
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteRequest(_ context.Context, id string) error {
	r, ok := f.reqs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if r.Status != models.StatusPending {
		return db.ErrNotPending
	}
	delete(f.reqs, id)
	return nil
}

func (f *fakeStore) UserRequestStats(_ context.Context, userID string) (*db.RequestStats, error) {
	var st db.RequestStats
	for _, r := range f.reqs {
		if r.UserID != userID {
			continue
		}
		switch r.Status {
		case models.StatusPending:
			st.Pending++
		case models.StatusApproved:
			st.Approved++
		case models.StatusRejected:
			st.Rejected++
		case models.StatusFinalized:
			st.Finalized++
		}
	}
	return &st, nil
}

// reports

func (f *fakeStore) TopRequestedItems(_ context.Context, since time.Time, limit int) ([]db.ItemUsageRow, error) {
	counts := map[string]int64{}
	for _, r := range f.reqs {
		if !r.CreatedAt.Before(since) {
			counts[r.ItemID]++
		}
	}
	out := []db.ItemUsageRow{}
	for id, n := range counts {
		it := f.items[id]
		if it == nil {
			continue
		}
		out = append(out, db.ItemUsageRow{ID: id, Name: it.Name, TotalRequests: n})
	}
	return out, nil
}

func (f *fakeStore) TopRequesters(_ context.Context, since time.Time, limit int) ([]db.UserUsageRow, error) {
	counts := map[string]int64{}
	for _, r := range f.reqs {
		if !r.CreatedAt.Before(since) {
			counts[r.UserID]++
		}
	}
	out := []db.UserUsageRow{}
	for id, n := range counts {
		u := f.users[id]
		if u == nil {
			continue
		}
		out = append(out, db.UserUsageRow{ID: id, Matricula: u.Matricula, TotalRequests: n})
	}
	return out, nil
}
