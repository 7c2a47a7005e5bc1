package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.TaskClient, cfg.Version)
	authController := NewAuthController(cfg.AuthService)
	usersController := NewUsersController(cfg.AuthService, cfg.Users)
	booksController := NewBooksController(cfg.Catalog, cfg.Reviews)
	reviewsController := NewReviewsController(cfg.Reviews, cfg.Enricher)
	favoritesController := NewFavoritesController(cfg.FavoritesStore, cfg.Books, cfg.Enricher)
	shelvesController := NewBookshelvesController(cfg.Bookshelves, cfg.Books, cfg.Enricher)
	readingController := NewReadingListController(cfg.ReadingList, cfg.Books, cfg.Enricher)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Public endpoints
	router.POST("/api/users", usersController.Register)
	router.POST("/api/auth/token", authController.Token)
	router.POST("/api/auth/refresh-token", authController.RefreshToken)
	router.GET("/api/books/search", booksController.Search)
	router.GET("/api/books/:olid", booksController.Get)
	router.GET("/api/books/:olid/reviews", booksController.ListReviews)

	// Everything below requires a Bearer access token
	api := router.Group("/api", cfg.AuthMiddleware.RequireAuth())

	api.GET("/users/me", usersController.Me)
	api.PATCH("/users/:id", usersController.Update)
	api.DELETE("/users/:id", usersController.Delete)

	api.POST("/books/:olid/reviews", reviewsController.Create)
	api.PATCH("/reviews/:id", reviewsController.Update)
	api.DELETE("/reviews/:id", reviewsController.Delete)

	api.GET("/favorites", favoritesController.List)
	api.POST("/favorites/:olid", favoritesController.Add)
	api.DELETE("/favorites/:olid", favoritesController.Remove)

	api.POST("/bookshelves", shelvesController.Create)
	api.GET("/bookshelves", shelvesController.List)
	api.GET("/bookshelves/:id", shelvesController.Get)
	api.PATCH("/bookshelves/:id", shelvesController.Update)
	api.DELETE("/bookshelves/:id", shelvesController.Delete)
	api.POST("/bookshelves/:id/books", shelvesController.AddBook)
	api.DELETE("/bookshelves/:id/books/:bookId", shelvesController.RemoveBook)

	api.POST("/reading-list", readingController.Create)
	api.GET("/reading-list", readingController.List)
	api.PATCH("/reading-list/:id", readingController.Update)
	api.DELETE("/reading-list/:id", readingController.Delete)

	// Admin endpoints
	admin := api.Group("", cfg.AuthMiddleware.RequireAdmin())
	admin.GET("/users", usersController.List)
	admin.GET("/users/:id", usersController.Get)

	// Task management endpoints
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		admin.GET("/admin/tasks/types", tasksController.ListTaskTypes)
		admin.GET("/admin/tasks/:id", tasksController.GetTaskStatus)
		admin.POST("/admin/tasks/:type/run", tasksController.RunTask)
	}

	return router
}
