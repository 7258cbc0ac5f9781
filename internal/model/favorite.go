package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Favorite 收藏记录，除 id 外的结构由调用方决定（title、year、rating、poster 等）
type Favorite map[string]any

// Key 返回用于去重的 id 标识；数字与字符串 id 互不相等
func (f Favorite) Key() (string, bool) {
	v, ok := f["id"]
	if !ok || v == nil {
		return "", false
	}
	switch id := v.(type) {
	case string:
		return "s:" + id, true
	case float64:
		return "n:" + strconv.FormatFloat(id, 'f', -1, 64), true
	case float32:
		return "n:" + strconv.FormatFloat(float64(id), 'f', -1, 64), true
	case int:
		return "n:" + strconv.Itoa(id), true
	case int64:
		return "n:" + strconv.FormatInt(id, 10), true
	case json.Number:
		return "n:" + id.String(), true
	default:
		return fmt.Sprintf("%T:%v", v, v), true
	}
}

// SameID 判断两条收藏 id 是否相同
func (f Favorite) SameID(other Favorite) bool {
	a, ok := f.Key()
	if !ok {
		return false
	}
	b, ok := other.Key()
	return ok && a == b
}

// FavoritesResult 收藏操作结果
type FavoritesResult struct {
	Success   bool       `json:"success"`
	Favorites []Favorite `json:"favorites,omitempty"`
	Message   string     `json:"message,omitempty"`
	// Err 失败原因，供调用方区分重复与存储错误
	Err error `json:"-"`
}

// Preferences 用户偏好（仅本地保存）
type Preferences struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	Language      string `json:"language"`
}

// DefaultPreferences 未保存偏好时的默认值
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:         "dark",
		Notifications: true,
		Language:      "pt-BR",
	}
}
