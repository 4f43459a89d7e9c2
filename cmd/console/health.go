package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// checkFunc 依赖检查
type checkFunc func(ctx context.Context) error

// healthHandler 健康检查（简单版）
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// pingHandler Ping 检查
func pingHandler(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// readyHandler 就绪检查（检查会话存储依赖）
func readyHandler(checks map[string]checkFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		results := make(map[string]interface{}, len(checks))
		allHealthy := true

		for name, check := range checks {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			status := "ok"
			if err := check(ctx); err != nil {
				status = "error: " + err.Error()
				allHealthy = false
			}
			cancel()
			results[name] = status
		}

		// 返回结果
		status := http.StatusOK
		statusText := "ready"
		if !allHealthy {
			status = http.StatusServiceUnavailable
			statusText = "not ready"
		}

		c.JSON(status, HealthResponse{
			Status:    statusText,
			Timestamp: time.Now().Unix(),
			Checks:    results,
		})
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp int64                  `json:"timestamp"`
	Checks    map[string]interface{} `json:"checks,omitempty"`
}
