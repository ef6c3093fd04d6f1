package postgres

import "github.com/google/uuid"

// validID 主键与 app_id 列为 uuid 类型，非法值按记录不存在处理
func validID(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}
