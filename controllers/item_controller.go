package controllers

import (
	"net/http"

	"equipment-loans/app"
	"equipment-loans/db"
	"equipment-loans/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

func (ic *ItemController) List(c *gin.Context) {
	items, err := ic.Store.ListItems(c.Request.Context(), c.Query("departmentId"))
	if err != nil {
		ic.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

func (ic *ItemController) Get(c *gin.Context) {
	it, err := ic.Store.FindItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		ic.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

type createItemInput struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description" binding:"required"`
	DepartmentID  string `json:"departmentId" binding:"required"`
	TotalQuantity int    `json:"totalQuantity" binding:"required,min=1"`
}

// Create registers a new item with the full stock available.
func (ic *ItemController) Create(c *gin.Context) {
	var in createItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	it := &models.Item{
		ID:                uuid.NewString(),
		Name:              in.Name,
		Description:       in.Description,
		DepartmentID:      in.DepartmentID,
		TotalQuantity:     in.TotalQuantity,
		AvailableQuantity: in.TotalQuantity,
		Status:            models.ItemStatusAvailable,
	}
	if err := ic.Store.CreateItem(c.Request.Context(), it); err != nil {
		ic.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

type updateItemInput struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	DepartmentID      *string `json:"departmentId"`
	TotalQuantity     *int    `json:"totalQuantity"`
	AvailableQuantity *int    `json:"availableQuantity"`
	Status            *string `json:"status" binding:"omitempty,oneof=Available Depleted UnderMaintenance"`
}

func (ic *ItemController) Update(c *gin.Context) {
	var in updateItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.Name == nil && in.Description == nil && in.DepartmentID == nil &&
		in.TotalQuantity == nil && in.AvailableQuantity == nil && in.Status == nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "no fields to update"})
		return
	}
	it, err := ic.Store.UpdateItem(c.Request.Context(), c.Param("id"), db.UpdateItemInput{
		Name:              in.Name,
		Description:       in.Description,
		DepartmentID:      in.DepartmentID,
		TotalQuantity:     in.TotalQuantity,
		AvailableQuantity: in.AvailableQuantity,
		Status:            in.Status,
	})
	if err != nil {
		ic.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// Delete applies the three-way deletion policy; the response says whether
// the item was removed or only withdrawn (soft delete).
func (ic *ItemController) Delete(c *gin.Context) {
	soft, err := ic.Store.DeleteItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		ic.fail(c, err)
		return
	}
	if soft {
		c.JSON(http.StatusOK, app.H{"ok": true, "softDeleted": true})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "softDeleted": false})
}
