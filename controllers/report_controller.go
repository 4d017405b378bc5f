package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"equipment-loans/app"
	"equipment-loans/db"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportController struct{ *Srv }

func NewReportController(s *Srv) *ReportController { return &ReportController{Srv: s} }

const reportCacheTTL = 60 * time.Second

// periodStart resolves a report period token to its cutoff time.
func periodStart(period string, now time.Time) (time.Time, bool) {
	switch period {
	case "24h":
		return now.Add(-24 * time.Hour), true
	case "5d":
		return now.AddDate(0, 0, -5), true
	case "15d":
		return now.AddDate(0, 0, -15), true
	case "1m":
		return now.AddDate(0, -1, 0), true
	case "6m":
		return now.AddDate(0, -6, 0), true
	case "1y":
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

type usageReport struct {
	Items []db.ItemUsageRow `json:"items,omitempty"`
	Users []db.UserUsageRow `json:"users,omitempty"`
	Meta  struct {
		Period string    `json:"period"`
		Since  time.Time `json:"since"`
		Until  time.Time `json:"until"`
	} `json:"meta"`
}

// Usage serves the admin usage report: top-10 requested items and/or top-10
// requesters since the period cutoff. Results are cached in Redis briefly
// since the ranking queries scan the whole request table.
func (rc *ReportController) Usage(c *gin.Context) {
	period := c.DefaultQuery("period", "24h")
	kind := c.DefaultQuery("type", "full")

	now := time.Now().UTC()
	since, ok := periodStart(period, now)
	if !ok {
		c.JSON(http.StatusBadRequest, app.H{"error": "unknown period"})
		return
	}
	if kind != "items" && kind != "users" && kind != "full" {
		c.JSON(http.StatusBadRequest, app.H{"error": "unknown report type"})
		return
	}

	cacheKey := fmt.Sprintf("report:usage:%s:%s", period, kind)
	if rc.RDB != nil {
		if b, err := rc.RDB.Get(c.Request.Context(), cacheKey).Bytes(); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", b)
			return
		}
	}

	var rep usageReport
	rep.Meta.Period = period
	rep.Meta.Since = since
	rep.Meta.Until = now

	var err error
	if kind == "items" || kind == "full" {
		if rep.Items, err = rc.Store.TopRequestedItems(c.Request.Context(), since, 10); err != nil {
			rc.fail(c, err)
			return
		}
	}
	if kind == "users" || kind == "full" {
		if rep.Users, err = rc.Store.TopRequesters(c.Request.Context(), since, 10); err != nil {
			rc.fail(c, err)
			return
		}
	}

	if rc.RDB != nil {
		if b, err := json.Marshal(rep); err == nil {
			if err := rc.RDB.Set(c.Request.Context(), cacheKey, b, reportCacheTTL).Err(); err != nil {
				rc.Log.Warn("report cache write failed", zap.Error(err))
			}
		}
	}
	c.JSON(http.StatusOK, rep)
}
