package dashboard

import (
	"net/url"
	"strings"
)

// ExportPath CSV 导出接口路径
const ExportPath = "/api/generation/export"

// BuildExportURL 根据工作区与筛选条件拼出导出链接
// 参数顺序固定为 appId, search, models, tags；空条件不出现在链接中
func BuildExportURL(origin *url.URL, appID string, search *string, models, tags []string) string {
	var q strings.Builder
	q.WriteString("appId=")
	q.WriteString(url.QueryEscape(appID))

	if search != nil && *search != "" {
		q.WriteString("&search=")
		q.WriteString(url.QueryEscape(*search))
	}
	if len(models) > 0 {
		q.WriteString("&models=")
		q.WriteString(url.QueryEscape(strings.Join(models, ",")))
	}
	if len(tags) > 0 {
		q.WriteString("&tags=")
		q.WriteString(url.QueryEscape(strings.Join(tags, ",")))
	}

	u := url.URL{Path: ExportPath, RawQuery: q.String()}
	if origin != nil {
		u.Scheme = origin.Scheme
		u.Host = origin.Host
	}
	return u.String()
}

// ExportURLForQuery 使用已提交的筛选条件构造导出链接
func ExportURLForQuery(origin *url.URL, appID string, q FeedQuery) string {
	return BuildExportURL(origin, appID, q.Search, q.Models, q.Tags)
}
