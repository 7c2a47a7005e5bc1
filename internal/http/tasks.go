package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/libraryhub/libraryhub/internal/tasks"
)

// TasksController handles task queue management endpoints. Admin only.
type TasksController struct {
	client *tasks.Client
}

// NewTasksController creates a new TasksController.
func NewTasksController(client *tasks.Client) *TasksController {
	return &TasksController{client: client}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// ListTaskTypes handles GET /api/admin/tasks/types
// Returns the list of available task types that can be triggered.
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	types := []TaskTypeInfo{
		{
			Type:        "refresh_book",
			Description: "Refresh a single cached book's metadata from OpenLibrary",
			Queue:       "refresh_book",
		},
		{
			Type:        "refresh_stale_books",
			Description: "Enqueue refreshes for all cached books with stale metadata",
			Queue:       "refresh_stale_books",
		},
		{
			Type:        "cleanup_refresh_tokens",
			Description: "Purge expired refresh tokens",
			Queue:       "cleanup_refresh_tokens",
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"task_types": types,
	})
}

// GetTaskStatus handles GET /api/admin/tasks/:id
// Returns the status of a specific task.
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// RunTaskRequest is the request body for running a task.
type RunTaskRequest struct {
	// BookID is required for refresh_book
	BookID uint `json:"book_id,omitempty"`
	// TTLHours optionally overrides the staleness cutoff for refresh_stale_books
	TTLHours int `json:"ttl_hours,omitempty"`
}

// RunTask handles POST /api/admin/tasks/:type/run
// Manually triggers a task of the specified type.
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	var req RunTaskRequest
	if c.Request.ContentLength > 0 {
		_ = c.ShouldBindJSON(&req)
	}

	var task backlite.Task
	switch taskType {
	case "refresh_book":
		if req.BookID == 0 {
			respondBadRequest(c, "book_id is required for refresh_book task")
			return
		}
		task = tasks.RefreshBookTask{BookID: req.BookID}

	case "refresh_stale_books":
		task = tasks.RefreshStaleBooksTask{TTLHours: req.TTLHours}

	case "cleanup_refresh_tokens":
		task = tasks.CleanupRefreshTokensTask{}

	default:
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
		return
	}

	ids, err := tc.client.Add(task).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue task")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"task_id": ids[0],
		"type":    taskType,
		"message": "task enqueued",
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
