package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"equipment-loans/app"
	"equipment-loans/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct {
	*Srv
	EmailDomain string
}

func NewAuthController(s *Srv, emailDomain string) *AuthController {
	return &AuthController{Srv: s, EmailDomain: emailDomain}
}

type registerInput struct {
	Matricula string `json:"matricula" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
}

// Register creates an account keyed by matricula. The institutional email
// is derived, never user-supplied.
func (ac *AuthController) Register(c *gin.Context) {
	var in registerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	matricula := strings.ToLower(strings.TrimSpace(in.Matricula))
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		ac.fail(c, err)
		return
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Matricula:    matricula,
		Email:        fmt.Sprintf("%s@%s", matricula, ac.EmailDomain),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash),
	}
	if err := ac.Store.CreateUser(c.Request.Context(), u); err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

type loginInput struct {
	Matricula string `json:"matricula" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

func (ac *AuthController) Login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := ac.Store.FindUserByMatricula(c.Request.Context(), in.Matricula)
	if err != nil {
		// Same response for unknown account and bad password.
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "invalid credentials"})
		return
	}

	// Login snapshot is best effort, never blocks the login.
	_ = ac.Store.TouchUserLogin(c.Request.Context(), u.ID, c.ClientIP(), c.Request.UserAgent())

	sid := uuid.NewString()
	if err := ac.Sess.Create(c.Request.Context(), sid, u.ID); err != nil {
		ac.fail(c, err)
		return
	}
	ac.setAppCookie(c.Writer, sid, ac.TTL)
	c.JSON(http.StatusOK, u)
}

func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = ac.Sess.Delete(c.Request.Context(), ck.Value)
	}
	ac.setAppCookie(c.Writer, "", -1)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (ac *AuthController) WhoAmI(c *gin.Context) {
	userID, _ := caller(c)
	u, err := ac.Store.FindUserByID(c.Request.Context(), userID)
	if err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
