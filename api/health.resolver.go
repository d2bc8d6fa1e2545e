package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
}

func (m ApiHandler) health(c *gin.Context) {
	dbStatus := "connected"
	if err := m.Db.PingContext(c.Request.Context()); err != nil {
		dbStatus = "disconnected"
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Database:  dbStatus,
	})
}
