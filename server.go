package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/motion"
	"github.com/Zachkp/folio/internal/page"
	"github.com/Zachkp/folio/internal/store"
)

// app carries everything the routes need.
type app struct {
	log     *zap.Logger
	site    *content.Site
	views   *page.Registry
	store   *store.Store
	contact contact.Handler
	admin   *adminAuth
	now     func() time.Time
	// retention bounds how long page-view records are kept.
	retention time.Duration
}

type visibilityRequest struct {
	Section  string   `json:"section" binding:"required"`
	Ratio    *float64 `json:"ratio"`
	Top      float64  `json:"top"`
	Bottom   float64  `json:"bottom"`
	Viewport float64  `json:"viewport"`
}

func (r visibilityRequest) entry() motion.Entry {
	if r.Ratio != nil {
		return motion.Entry{Target: r.Section, Ratio: *r.Ratio}
	}
	return motion.Entry{Target: r.Section, Measured: true, Top: r.Top, Bottom: r.Bottom, Viewport: r.Viewport}
}

type mountRequest struct {
	// Observe defaults to true; clients without visibility observation send
	// false and get every section revealed at once.
	Observe *bool `json:"observe"`
}

func newRouter(a *app, staticDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(a.log))

	if staticDir != "" {
		if _, err := os.Stat(staticDir); err == nil {
			r.Static("/static", staticDir)
		}
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "views": a.views.Len()})
	})

	api := r.Group("/api")

	api.GET("/content", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"owner":       a.site.Owner,
			"hero":        a.site.Hero,
			"about":       a.site.About,
			"services":    a.site.Services,
			"skills":      a.site.Skills,
			"testimonial": a.site.Testimonial,
			"tabs":        a.site.Tabs,
		})
	})

	api.POST("/views", func(c *gin.Context) {
		var req mountRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
		observe := req.Observe == nil || *req.Observe

		snap, err := a.views.Mount(c.Request.Context(), page.MountOptions{Observe: observe})
		if err != nil {
			a.log.Error("mount view", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "view engine unavailable"})
			return
		}
		a.trackView(c, snap.ID)
		c.JSON(http.StatusCreated, snap)
	})

	api.GET("/views/:id", func(c *gin.Context) {
		var snap page.Snapshot
		err := a.views.With(c.Request.Context(), c.Param("id"), func(v *page.View) {
			snap = v.Snapshot()
		})
		if err != nil {
			viewError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	})

	api.POST("/views/:id/visibility", func(c *gin.Context) {
		var req visibilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var snap page.Snapshot
		err := a.views.With(c.Request.Context(), c.Param("id"), func(v *page.View) {
			v.Report(req.entry())
			snap = v.Snapshot()
		})
		if err != nil {
			viewError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	})

	api.POST("/views/:id/tab", func(c *gin.Context) {
		var req struct {
			Key string `json:"key" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var snap page.Snapshot
		var selErr error
		err := a.views.With(c.Request.Context(), c.Param("id"), func(v *page.View) {
			_, selErr = v.SelectTab(req.Key)
			snap = v.Snapshot()
		})
		if err != nil {
			viewError(c, err)
			return
		}
		if selErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": selErr.Error()})
			return
		}
		c.JSON(http.StatusOK, snap)
	})

	api.DELETE("/views/:id", func(c *gin.Context) {
		if err := a.views.Release(c.Request.Context(), c.Param("id")); err != nil {
			viewError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	// Contact form submission
	r.POST("/contact", func(c *gin.Context) {
		var form contact.Form
		if err := c.ShouldBind(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		sub, err := contact.Submit(c.Request.Context(), form, a.contact)
		var fe contact.FieldErrors
		switch {
		case errors.As(err, &fe):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fe})
			return
		case err != nil:
			a.log.Error("contact submission failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Sorry, there was an error sending your message. Please try again later.",
			})
			return
		}

		a.log.Info("contact submission accepted", zap.String("submission", sub.ID))
		c.JSON(http.StatusOK, gin.H{
			"id":      sub.ID,
			"success": "Thank you for your message! I'll get back to you soon.",
		})
	})

	setupAdminRoutes(r, a)
	return r
}

func viewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, page.ErrViewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "view not found"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "view engine unavailable"})
	}
}

// trackView records the mount with a hashed client address. Clients
// sending Do Not Track are skipped.
func (a *app) trackView(c *gin.Context, id string) {
	if a.store == nil || c.GetHeader("DNT") == "1" {
		return
	}
	err := a.store.RecordView(c.Request.Context(), store.ViewRecord{
		ID:        id,
		HashedIP:  a.admin.hashIP(c.ClientIP()),
		UserAgent: c.GetHeader("User-Agent"),
		CreatedAt: a.now(),
	})
	if err != nil {
		a.log.Warn("recording view", zap.Error(err))
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", requestID(c)),
		)
	}
}

func requestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}
