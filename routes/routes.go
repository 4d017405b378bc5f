package routes

import (
	"time"

	"equipment-loans/app"
	"equipment-loans/controllers"
	"equipment-loans/db"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	repo := db.NewRepo(a.DB)

	authCtl := controllers.NewAuthController(s, a.Config.EmailDomain)
	deptCtl := controllers.NewDepartmentController(s)
	itemCtl := controllers.NewItemController(s)
	reqCtl := controllers.NewRequestController(s)
	repCtl := controllers.NewReportController(s)

	authMW := app.AuthRequired(a.AppSessions(), repo)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// Auth (public + session)
	// ------------------------------
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}
	authed := auth.Group("", authMW, seenMW)
	{
		authed.POST("/logout", authCtl.Logout)
		authed.GET("/whoami", authCtl.WhoAmI)
	}

	// ------------------------------
	// Departments
	// ------------------------------
	depts := r.Group("/api/departments", authMW, seenMW)
	{
		depts.GET("", deptCtl.List)
		depts.GET("/:id", deptCtl.Get)
		depts.GET("/:id/items", deptCtl.ListItems)
	}
	deptsAdmin := r.Group("/api/departments", authMW, adminMW)
	{
		deptsAdmin.POST("", deptCtl.Create)
		deptsAdmin.PATCH("/:id", deptCtl.Update)
		deptsAdmin.DELETE("/:id", deptCtl.Delete)
	}

	// ------------------------------
	// Items
	// ------------------------------
	items := r.Group("/api/items", authMW, seenMW)
	{
		items.GET("", itemCtl.List) // ?departmentId=
		items.GET("/:id", itemCtl.Get)
	}
	itemsAdmin := r.Group("/api/items", authMW, adminMW)
	{
		itemsAdmin.POST("", itemCtl.Create)
		itemsAdmin.PATCH("/:id", itemCtl.Update)
		itemsAdmin.DELETE("/:id", itemCtl.Delete)
	}

	// ------------------------------
	// Loan requests
	// ------------------------------
	reqs := r.Group("/api/requests", authMW, seenMW)
	{
		reqs.POST("", reqCtl.Create)
		reqs.GET("", reqCtl.ListMine) // ?status=
		reqs.GET("/stats", reqCtl.Stats)
		reqs.GET("/:id", reqCtl.Get)
		reqs.DELETE("/:id", reqCtl.Delete)
	}

	// ------------------------------
	// Admin: request review + reports
	// ------------------------------
	admin := r.Group("/api/admin", authMW, adminMW)
	{
		admin.GET("/requests", reqCtl.ListAll) // ?status=
		admin.PATCH("/requests/:id", reqCtl.Transition)
		admin.GET("/reports", repCtl.Usage) // ?period=&type=
	}
}
