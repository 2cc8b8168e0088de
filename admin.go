// admin.go - Token-guarded stats for the privacy-conscious visitor log
package main

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// resolveAdminToken returns the configured token or a fresh random one.
func resolveAdminToken(configured string, log *zap.Logger) string {
	if configured != "" {
		return configured
	}

	token := randomHex(32)
	log.Info("ADMIN_TOKEN not set, generated one for this process")
	if gin.Mode() == gin.DebugMode {
		log.Debug("admin token (dev only)", zap.String("token", token))
	}
	return token
}

func adminAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func setupAdminRoutes(r *gin.Engine, a *app) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(adminAuthMiddleware(a.adminToken))

	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.store.Stats()
		if err != nil {
			a.log.Error("load admin stats", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.store.Stats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.log.Info("admin stats exported", zap.String("by", a.tracker.HashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		cleanupOldVisitorData(a.store, a.log)
		c.JSON(http.StatusOK, gin.H{"message": "privacy cleanup complete"})
	})
}
