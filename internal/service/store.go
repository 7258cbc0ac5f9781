package service

import (
	"context"
	"encoding/json"
	"fmt"
)

// KeyValueStore 本地键值存储，值为 JSON 文本
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// SecretStore 敏感数据存储，不会出现在通用键值导出中
type SecretStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// getJSON 读取并解析 JSON，键不存在时返回 false
func getJSON(ctx context.Context, store KeyValueStore, key string, target any) (bool, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return false, fmt.Errorf("解析 %s 失败: %w", key, err)
	}
	return true, nil
}

// setJSON 序列化后写入
func setJSON(ctx context.Context, store KeyValueStore, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("序列化 %s 失败: %w", key, err)
	}
	return store.Set(ctx, key, string(data))
}
