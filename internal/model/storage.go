package model

import (
	"time"
)

// KVEntry 本地通用键值存储，值为 JSON 文本
type KVEntry struct {
	Key       string `gorm:"column:entry_key;primaryKey;type:varchar(191)"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string { return "kv_entries" }

// SecureEntry 敏感数据（加密后保存），与通用键值表分开
type SecureEntry struct {
	Key       string `gorm:"column:entry_key;primaryKey;type:varchar(191)"`
	Sealed    []byte
	UpdatedAt time.Time
}

func (SecureEntry) TableName() string { return "secure_entries" }
