package db

import "errors"

// Business-rule failures surfaced to controllers. Missing rows come back as
// gorm.ErrRecordNotFound and are mapped to 404 at the boundary;
// ErrQuantityBounds maps to 400, everything else here to 409.
var (
	ErrOutOfStock         = errors.New("item has no available units")
	ErrQuantityBounds     = errors.New("available quantity must stay within [0, total]")
	ErrInvalidTransition  = errors.New("invalid request status transition")
	ErrActiveRequests     = errors.New("item has pending or approved requests")
	ErrNotPending         = errors.New("only pending requests can be deleted")
	ErrDuplicateMatricula = errors.New("matricula already registered")
	ErrDuplicateDept      = errors.New("department name already exists")
	ErrDeptHasItems       = errors.New("department still has items")
)
