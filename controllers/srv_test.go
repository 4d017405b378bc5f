package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// testRouter mounts the handlers behind a stub identity middleware so the
// tests exercise ownership and role checks without Redis or cookies.
func testRouter(fs *fakeStore, userID string, isAdmin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	s := &Srv{Store: fs, Log: zap.NewNop()}

	authCtl := NewAuthController(s, "uni.edu")
	deptCtl := NewDepartmentController(s)
	itemCtl := NewItemController(s)
	reqCtl := NewRequestController(s)
	repCtl := NewReportController(s)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
			c.Set("isAdmin", isAdmin)
		}
		c.Next()
	})

	r.POST("/api/auth/register", authCtl.Register)

	r.GET("/api/departments", deptCtl.List)
	r.POST("/api/departments", deptCtl.Create)
	r.DELETE("/api/departments/:id", deptCtl.Delete)

	r.GET("/api/items", itemCtl.List)
	r.GET("/api/items/:id", itemCtl.Get)
	r.POST("/api/items", itemCtl.Create)
	r.PATCH("/api/items/:id", itemCtl.Update)
	r.DELETE("/api/items/:id", itemCtl.Delete)

	r.POST("/api/requests", reqCtl.Create)
	r.GET("/api/requests", reqCtl.ListMine)
	r.GET("/api/requests/stats", reqCtl.Stats)
	r.GET("/api/requests/:id", reqCtl.Get)
	r.DELETE("/api/requests/:id", reqCtl.Delete)

	r.GET("/api/admin/requests", reqCtl.ListAll)
	r.PATCH("/api/admin/requests/:id", reqCtl.Transition)
	r.GET("/api/admin/reports", repCtl.Usage)

	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}
