package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/libraryhub/libraryhub/internal/database"
	"github.com/libraryhub/libraryhub/internal/tasks"
)

// HealthResponse reports overall service health plus per-dependency checks.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController answers readiness probes.
type HealthController struct {
	db         *database.Database
	taskClient *tasks.Client
	version    string
}

// NewHealthController creates a new HealthController.
func NewHealthController(db *database.Database, taskClient *tasks.Client, version string) *HealthController {
	return &HealthController{db: db, taskClient: taskClient, version: version}
}

// Status reports whether the catalog database and the task queue are
// reachable. Any failing check turns the response into a 503.
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	checks := map[string]string{
		"database": h.checkDatabase(),
		"tasks":    h.checkTasks(),
	}

	status := "healthy"
	statusCode := http.StatusOK
	for _, result := range checks {
		if result != "ok" && result != "disabled" {
			status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
			break
		}
	}

	c.IndentedJSON(statusCode, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}

func (h *HealthController) checkDatabase() string {
	if h.db == nil {
		return "error: not configured"
	}
	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return "error: " + err.Error()
	}
	if err := sqlDB.Ping(); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

func (h *HealthController) checkTasks() string {
	if h.taskClient == nil {
		return "disabled"
	}
	if err := h.taskClient.Ping(); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
