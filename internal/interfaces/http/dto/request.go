package dto

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"genlog-api/internal/application/dashboard"
	"genlog-api/internal/domain/repository"
)

// FeedRequest 列表与导出共用的查询参数
type FeedRequest struct {
	AppID  string
	Query  dashboard.FeedQuery
	Cursor string
	Limit  int
}

// BindFeedQuery 解析 search/models/tags；search 参数出现即视为设置
func BindFeedQuery(c *gin.Context) dashboard.FeedQuery {
	var search *string
	if v, ok := c.GetQuery("search"); ok {
		search = &v
	}
	return dashboard.NewFeedQuery(search, splitList(c.QueryArray("models")), splitList(c.QueryArray("tags")))
}

// BindFeedRequest 解析应用、筛选与游标参数
func BindFeedRequest(c *gin.Context) FeedRequest {
	appID := strings.TrimSpace(c.Param("appId"))
	if appID == "" {
		appID = strings.TrimSpace(c.Query("appId"))
	}
	return FeedRequest{
		AppID:  appID,
		Query:  BindFeedQuery(c),
		Cursor: c.Query("cursor"),
		Limit:  repository.NormalizeLimit(parseIntWithDefault(c.Query("limit"), repository.DefaultLimit)),
	}
}

// BindGenerationID 从路径参数获取记录 ID
func BindGenerationID(c *gin.Context) string {
	return c.Param("id")
}

// splitList 同时支持重复参数与逗号分隔
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// parseIntWithDefault 解析整数，失败时返回默认值
func parseIntWithDefault(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
