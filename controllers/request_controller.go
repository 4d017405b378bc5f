package controllers

import (
	"net/http"
	"time"

	"equipment-loans/app"
	"equipment-loans/db"
	"equipment-loans/models"

	"github.com/gin-gonic/gin"
)

type RequestController struct{ *Srv }

func NewRequestController(s *Srv) *RequestController { return &RequestController{Srv: s} }

type createRequestInput struct {
	ItemID        string `json:"itemId" binding:"required"`
	UseDate       string `json:"useDate" binding:"required"`   // 2006-01-02
	StartTime     string `json:"startTime" binding:"required"` // 15:04
	EndTime       string `json:"endTime" binding:"required"`
	Justification string `json:"justification" binding:"required"`
}

// Create inserts a Pending request. Date and time-window ordering are
// validated here, not left to the client.
func (rc *RequestController) Create(c *gin.Context) {
	var in createRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	useDate, err := time.Parse("2006-01-02", in.UseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "useDate must be YYYY-MM-DD"})
		return
	}
	start, err := time.Parse("15:04", in.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "startTime must be HH:MM"})
		return
	}
	end, err := time.Parse("15:04", in.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "endTime must be HH:MM"})
		return
	}
	if !end.After(start) {
		c.JSON(http.StatusBadRequest, app.H{"error": "endTime must be after startTime"})
		return
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if useDate.Before(today) {
		c.JSON(http.StatusBadRequest, app.H{"error": "useDate cannot be in the past"})
		return
	}

	userID, _ := caller(c)
	req, err := rc.Store.CreateRequest(c.Request.Context(), db.CreateRequestInput{
		UserID:        userID,
		ItemID:        in.ItemID,
		UseDate:       useDate,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		Justification: in.Justification,
	})
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// ListMine returns the caller's requests, optionally filtered by status.
func (rc *RequestController) ListMine(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !models.KnownStatus(status) {
		c.JSON(http.StatusBadRequest, app.H{"error": "unknown status"})
		return
	}
	userID, _ := caller(c)
	rows, err := rc.Store.ListRequestsByUser(c.Request.Context(), userID, status)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": rows})
}

// Get returns one request; only its owner or an admin may look at it.
func (rc *RequestController) Get(c *gin.Context) {
	row, err := rc.Store.FindRequestByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	userID, isAdmin := caller(c)
	if !isAdmin && row.UserID != userID {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, row)
}

// Delete removes a Pending request. Owner or admin only; requests that
// already left Pending stay for the audit trail.
func (rc *RequestController) Delete(c *gin.Context) {
	row, err := rc.Store.FindRequestByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	userID, isAdmin := caller(c)
	if !isAdmin && row.UserID != userID {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return
	}
	if err := rc.Store.DeleteRequest(c.Request.Context(), row.ID); err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (rc *RequestController) Stats(c *gin.Context) {
	userID, _ := caller(c)
	st, err := rc.Store.UserRequestStats(c.Request.Context(), userID)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// ListAll returns every request (admin view), optionally by status.
func (rc *RequestController) ListAll(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !models.KnownStatus(status) {
		c.JSON(http.StatusBadRequest, app.H{"error": "unknown status"})
		return
	}
	rows, err := rc.Store.ListAllRequests(c.Request.Context(), status)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"requests": rows})
}

type transitionInput struct {
	Status  string  `json:"status" binding:"required,oneof=Pending Approved Rejected Finalized"`
	Comment *string `json:"comment"`
}

// Transition moves a request through its lifecycle (admin). The status
// write and the stock adjustment happen in one transaction downstream.
func (rc *RequestController) Transition(c *gin.Context) {
	var in transitionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	req, err := rc.Store.TransitionRequest(c.Request.Context(), c.Param("id"), in.Status, in.Comment)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
