// Package middleware 提供 HTTP 中间件
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"genlog-api/pkg/logger"
)

// AppIDContextKey gin.Context 中保存应用 ID 的键
const AppIDContextKey = "app_id"

// AppScope 从路径参数或查询参数解析应用 ID，注入到 gin 与日志上下文
func AppScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		appID := strings.TrimSpace(c.Param("appId"))
		if appID == "" {
			appID = strings.TrimSpace(c.Query("appId"))
		}

		if appID != "" {
			c.Set(AppIDContextKey, appID)
			ctx := logger.WithContext(c.Request.Context(), logger.AppIDKey, appID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// AppID 读取 AppScope 解析出的应用 ID
func AppID(c *gin.Context) string {
	return c.GetString(AppIDContextKey)
}
