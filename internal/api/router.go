package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/chimgan/sales/internal/api/handlers"
	"github.com/chimgan/sales/internal/api/middleware"
	"github.com/chimgan/sales/internal/config"
	"github.com/chimgan/sales/internal/conversations"
	"github.com/chimgan/sales/internal/email"
	"github.com/chimgan/sales/internal/services"
)

// Deps are the services the API is built from. main wires them once.
type Deps struct {
	Config      *config.Config
	Items       services.IItemService
	Inquiries   services.IInquiryService
	Users       services.IUserService
	Categories  services.ICategoryService
	Analytics   services.IAnalyticsService
	Settings    services.IConfigService
	Templates   services.IEmailTemplateService
	Uploader    handlers.ImageUploader
	Feed        conversations.Feed
	RateLimiter *middleware.RateLimiterMiddleware
}

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	r := gin.Default()

	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	if d.RateLimiter != nil {
		r.Use(d.RateLimiter.Limit())
	}

	configHandler := handlers.NewRestConfigHandler(d.Settings, d.Categories)
	itemHandler := handlers.NewRestItemHandler(d.Items, d.Inquiries, d.Users, d.Uploader)
	authHandler := handlers.NewRestAuthHandler(cfg, d.Users)
	userHandler := handlers.NewRestUserHandler(d.Users)
	conversationHandler := handlers.NewRestConversationHandler(d.Inquiries, d.Users)
	wsHandler := handlers.NewWsConversationHandler(d.Feed, d.Inquiries, d.Users, cfg.AllowedOrigins)
	adminHandler := handlers.NewRestAdminHandler(d.Items, d.Categories, d.Inquiries, d.Users, d.Analytics, d.Settings, d.Templates)

	requireAuth := middleware.AuthMiddleware(cfg.JwtSecret)

	v1 := r.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})
		v1.GET("/config", configHandler.GetPublicConfig)
		v1.GET("/categories", configHandler.ListCategories)
		v1.GET("/tags", configHandler.ListTags)

		v1.GET("/items", itemHandler.ListItems)
		v1.GET("/items/:id", itemHandler.GetItem)
		v1.POST("/items/:id/inquiries", middleware.OptionalAuth(cfg.JwtSecret), itemHandler.CreateInquiry)

		v1.POST("/auth/signup", authHandler.SignUp)
		v1.POST("/auth/signin", authHandler.SignIn)
		v1.POST("/admin/login", authHandler.AdminLogin)

		// accepts user and admin tokens
		v1.POST("/uploads", requireAuth, itemHandler.UploadImages)

		me := v1.Group("/me", requireAuth)
		{
			me.GET("", userHandler.GetMe)
			me.PUT("", userHandler.UpdateMe)
			me.PUT("/preferences", userHandler.UpdatePreferences)
			me.GET("/items", itemHandler.ListMyItems)
			me.POST("/items", itemHandler.CreateMyItem)
		}

		conv := v1.Group("/conversations", requireAuth)
		{
			conv.GET("", conversationHandler.List)
			conv.GET("/:id/messages", conversationHandler.Messages)
			conv.POST("/:id/messages", conversationHandler.Send)
			conv.POST("/:id/read", conversationHandler.MarkRead)
			conv.POST("/:id/hide", conversationHandler.Hide)
		}
		v1.GET("/ws/conversations", requireAuth, wsHandler.ServeWs)

		admin := v1.Group("/admin", requireAuth, middleware.AdminMiddleware())
		{
			admin.GET("/items", adminHandler.ListItems)
			admin.POST("/items", adminHandler.CreateItem)
			admin.PATCH("/items/:id", adminHandler.UpdateItem)
			admin.PUT("/items/:id/status", adminHandler.SetItemStatus)
			admin.DELETE("/items/:id", adminHandler.DeleteItem)

			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.RenameCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)
			admin.POST("/tags", adminHandler.CreateTag)
			admin.PUT("/tags/:id", adminHandler.RenameTag)
			admin.DELETE("/tags/:id", adminHandler.DeleteTag)

			admin.GET("/inquiries", adminHandler.ListInquiries)
			admin.PUT("/inquiries/:id/status", adminHandler.SetInquiryStatus)

			admin.GET("/users", adminHandler.ListUsers)
			admin.PATCH("/users/:id", adminHandler.UpdateUser)

			admin.GET("/analytics", adminHandler.Analytics)
			admin.PUT("/settings", adminHandler.UpdateSettings)
			admin.GET("/templates/:template/:locale", adminHandler.GetTemplate)
			admin.PUT("/templates/:template/:locale", adminHandler.SaveTemplate)
		}
	}

	return r
}

// SetupServiceRouter configures the internal service API, bound to a separate
// port. It can stop the process and expose captured e-mails to test harnesses.
func SetupServiceRouter(cfg *config.Config, rdb *redis.Client, shutdownChan chan<- struct{}) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.POST("/api", func(c *gin.Context) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		switch req.Method {
		case "shutdown":
			log.Println("received shutdown command via service API")
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "Shutdown initiated"})
			select {
			case shutdownChan <- struct{}{}:
			default:
				log.Println("shutdown channel already signaled")
			}
		case "getTestEmails":
			if rdb == nil || !cfg.EmailCapture {
				c.JSON(http.StatusConflict, gin.H{"success": false, "error": "e-mail capture is disabled"})
				return
			}
			var args []string // ["recipient@example.com"]
			if err := json.Unmarshal(req.Arguments, &args); err != nil || len(args) != 1 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid arguments: expected JSON array [email]"})
				return
			}
			mails, err := email.ReadCaptured(c.Request.Context(), rdb, args[0])
			if err != nil {
				log.Printf("service API: reading captured e-mails for %s: %v", args[0], err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Redis error"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "data": mails})
		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Unknown service method: %s", req.Method)})
		}
	})
	return r
}
