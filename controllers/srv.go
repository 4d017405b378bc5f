package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"equipment-loans/app"
	"equipment-loans/db"
	"equipment-loans/models"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store is the persistence surface the controllers consume; *db.Repo is the
// production implementation, tests plug in an in-memory fake.
type Store interface {
	// users
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByMatricula(ctx context.Context, matricula string) (*models.User, error)
	TouchUserLogin(ctx context.Context, userID, ip, ua string) error

	// departments
	CreateDepartment(ctx context.Context, d *models.Department) error
	FindDepartmentByID(ctx context.Context, id string) (*models.Department, error)
	ListDepartments(ctx context.Context) ([]models.Department, error)
	UpdateDepartment(ctx context.Context, id string, in db.UpdateDepartmentInput) (*models.Department, error)
	DeleteDepartment(ctx context.Context, id string) error

	// items
	CreateItem(ctx context.Context, it *models.Item) error
	FindItemByID(ctx context.Context, id string) (*db.ItemRow, error)
	ListItems(ctx context.Context, departmentID string) ([]db.ItemRow, error)
	UpdateItem(ctx context.Context, id string, in db.UpdateItemInput) (*db.ItemRow, error)
	DeleteItem(ctx context.Context, id string) (bool, error)

	// requests
	CreateRequest(ctx context.Context, in db.CreateRequestInput) (*models.LoanRequest, error)
	TransitionRequest(ctx context.Context, id, newStatus string, comment *string) (*models.LoanRequest, error)
	FindRequestByID(ctx context.Context, id string) (*db.RequestRow, error)
	ListRequestsByUser(ctx context.Context, userID, status string) ([]db.RequestRow, error)
	ListAllRequests(ctx context.Context, status string) ([]db.RequestRow, error)
	DeleteRequest(ctx context.Context, id string) error
	UserRequestStats(ctx context.Context, userID string) (*db.RequestStats, error)

	// reports
	TopRequestedItems(ctx context.Context, since time.Time, limit int) ([]db.ItemUsageRow, error)
	TopRequesters(ctx context.Context, since time.Time, limit int) ([]db.UserUsageRow, error)
}

// Sessions is the slice of the session store the auth handlers need.
type Sessions interface {
	Create(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error
}

type Srv struct {
	Store     Store
	Sess      Sessions
	RDB       *redis.Client
	Log       *zap.Logger
	WebOrigin string
	TTL       time.Duration
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Store:     db.NewRepo(a.DB),
		Sess:      a.AppSessions(),
		RDB:       a.RDB,
		Log:       a.Log,
		WebOrigin: a.Config.WebOrigin,
		TTL:       a.Config.SessionTTL,
	}
}

// --- helpers ---

// fail maps persistence errors onto the HTTP error contract. Anything not
// recognized is logged with full context and reduced to a generic 500 body;
// raw internal error text never reaches the client.
func (s *Srv) fail(c *gin.Context, err error) {
	switch {
	case db.IsNotFound(err):
		c.JSON(http.StatusNotFound, app.H{"error": "not found"})
	case errors.Is(err, db.ErrQuantityBounds):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	case errors.Is(err, db.ErrOutOfStock),
		errors.Is(err, db.ErrInvalidTransition),
		errors.Is(err, db.ErrActiveRequests),
		errors.Is(err, db.ErrNotPending),
		errors.Is(err, db.ErrDuplicateMatricula),
		errors.Is(err, db.ErrDuplicateDept),
		errors.Is(err, db.ErrDeptHasItems):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	default:
		s.Log.Error("internal error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal server error"})
	}
}

func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	age := int(maxAge / time.Second)
	if maxAge < 0 {
		age = -1 // delete
	}
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   age,
	})
}

// identity pulled out of the gin context by AuthRequired.
func caller(c *gin.Context) (userID string, isAdmin bool) {
	if v, ok := c.Get("userID"); ok {
		userID, _ = v.(string)
	}
	if v, ok := c.Get("isAdmin"); ok {
		isAdmin, _ = v.(bool)
	}
	return userID, isAdmin
}
