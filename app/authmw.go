package app

import (
	"context"
	"net/http"

	"equipment-loans/models"
	"equipment-loans/session"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

// SessionSource and UserFinder are the slices of the session store and repo
// the middleware actually needs; tests fake them.
type SessionSource interface {
	Get(ctx context.Context, id string) (*session.AppSession, error)
	Delete(ctx context.Context, id string) error
}

type UserFinder interface {
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

// AuthRequired resolves the session cookie to a user and stashes identity in
// the gin context. isAdmin comes from the single is_admin column — there is
// deliberately no email-list or alternate-field fallback.
func AuthRequired(appSess SessionSource, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		u, err := users.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			// Stale session for a deleted user.
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}

		c.Set("userID", u.ID)
		c.Set("matricula", u.Matricula)
		c.Set("isAdmin", u.IsAdmin)
		c.Next()
	}
}

// AdminOnly assumes AuthRequired already ran.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("isAdmin")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if isAdmin, _ := v.(bool); !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
