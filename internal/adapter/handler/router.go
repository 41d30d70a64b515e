package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/media-review/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg       *config.Config
	session   *Session
	comments  *Comments
	viewer    *Viewer
	timeline  *Timeline
	assistant *Assistant
	events    *Events
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, session *Session, comments *Comments, viewer *Viewer, timeline *Timeline, assistant *Assistant, events *Events) *Router {
	return &Router{
		cfg:       cfg,
		session:   session,
		comments:  comments,
		viewer:    viewer,
		timeline:  timeline,
		assistant: assistant,
		events:    events,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupSessionRoutes(v1)
	rt.setupCommentRoutes(v1)
	rt.setupViewerRoutes(v1)
	rt.setupTimelineRoutes(v1)
	rt.setupAssistantRoutes(v1)

	v1.GET("/events", rt.events.Stream)
}

func (rt *Router) setupSessionRoutes(g *echo.Group) {
	g.GET("/review/:id", rt.session.Open)

	sessionGroup := g.Group("/session")
	sessionGroup.GET("", rt.session.Current)
	sessionGroup.POST("/route", rt.session.Route)
	sessionGroup.POST("/select", rt.session.Select)
	sessionGroup.POST("/override", rt.session.Override)
	sessionGroup.POST("/media-type", rt.session.SwitchMediaType)

	g.GET("/catalog", rt.session.Catalog)
	g.GET("/catalog/storage", rt.session.Storage)
}

func (rt *Router) setupCommentRoutes(g *echo.Group) {
	commentGroup := g.Group("/comments")
	commentGroup.GET("", rt.comments.List)
	commentGroup.POST("", rt.comments.Create)
	commentGroup.PUT("/:ref", rt.comments.Edit)
	commentGroup.POST("/:ref/thread", rt.comments.Reply)
	commentGroup.PATCH("/:ref/reactions", rt.comments.React)
	commentGroup.DELETE("/:ref", rt.comments.Delete)

	historyGroup := g.Group("/history")
	historyGroup.GET("", rt.comments.ReviewedAssets)
	historyGroup.GET("/:assetId", rt.comments.PreviousComments)
}

func (rt *Router) setupViewerRoutes(g *echo.Group) {
	viewerGroup := g.Group("/viewer")
	viewerGroup.POST("/messages", rt.viewer.Message)
	viewerGroup.POST("/hash", rt.viewer.Hash)
	viewerGroup.POST("/jump", rt.viewer.Jump)
	viewerGroup.GET("/page", rt.viewer.Page)
}

func (rt *Router) setupTimelineRoutes(g *echo.Group) {
	timelineGroup := g.Group("/timeline")
	timelineGroup.POST("/ready", rt.timeline.Ready)
	timelineGroup.GET("/position", rt.timeline.Current)
	timelineGroup.POST("/position", rt.timeline.Position)
	timelineGroup.POST("/seek", rt.timeline.Seek)
	timelineGroup.GET("/clusters", rt.timeline.Clusters)
}

func (rt *Router) setupAssistantRoutes(g *echo.Group) {
	assistantGroup := g.Group("/assistant")
	assistantGroup.POST("/review", rt.assistant.Review)
	assistantGroup.POST("/chat", rt.assistant.Chat)
	assistantGroup.POST("/notify/team", rt.assistant.NotifyTeam)
	assistantGroup.POST("/notify/comment", rt.assistant.NotifyComment)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
