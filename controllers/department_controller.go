package controllers

import (
	"net/http"

	"equipment-loans/app"
	"equipment-loans/db"
	"equipment-loans/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DepartmentController struct{ *Srv }

func NewDepartmentController(s *Srv) *DepartmentController { return &DepartmentController{Srv: s} }

func (dc *DepartmentController) List(c *gin.Context) {
	ds, err := dc.Store.ListDepartments(c.Request.Context())
	if err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"departments": ds})
}

func (dc *DepartmentController) Get(c *gin.Context) {
	d, err := dc.Store.FindDepartmentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (dc *DepartmentController) Create(c *gin.Context) {
	var in struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	d := &models.Department{ID: uuid.NewString(), Name: in.Name, Description: in.Description}
	if err := dc.Store.CreateDepartment(c.Request.Context(), d); err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (dc *DepartmentController) Update(c *gin.Context) {
	var in struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.Name == nil && in.Description == nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "no fields to update"})
		return
	}
	d, err := dc.Store.UpdateDepartment(c.Request.Context(), c.Param("id"),
		db.UpdateDepartmentInput{Name: in.Name, Description: in.Description})
	if err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (dc *DepartmentController) Delete(c *gin.Context) {
	if err := dc.Store.DeleteDepartment(c.Request.Context(), c.Param("id")); err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// ListItems returns the department's items; 404s when the department is
// unknown rather than answering with an empty list.
func (dc *DepartmentController) ListItems(c *gin.Context) {
	id := c.Param("id")
	if _, err := dc.Store.FindDepartmentByID(c.Request.Context(), id); err != nil {
		dc.fail(c, err)
		return
	}
	items, err := dc.Store.ListItems(c.Request.Context(), id)
	if err != nil {
		dc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}
