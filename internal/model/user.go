package model

import (
	"time"
)

// User 云端用户
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email        string    `json:"email" gorm:"unique"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// CloudFavorites 云端收藏列表，整列表以 JSON 保存
type CloudFavorites struct {
	UserID    string    `gorm:"primaryKey;type:varchar(36)"`
	Payload   string    `gorm:"type:text"`
	UpdatedAt time.Time `gorm:"index"`
}

// Profile 用户资料；更新时只覆盖请求中出现的字段
type Profile struct {
	UserID    string    `json:"-" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// CloudUser 登录返回的用户信息
type CloudUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginResult 登录结果
type LoginResult struct {
	Success bool       `json:"success"`
	Token   string     `json:"token,omitempty"`
	User    *CloudUser `json:"user,omitempty"`
	Error   string     `json:"error,omitempty"`
	// Err 原始错误，云端拒绝时为 *utils.StatusError
	Err error `json:"-"`
}

// RegisterResult 注册结果
type RegisterResult struct {
	Success bool       `json:"success"`
	User    *CloudUser `json:"user,omitempty"`
	Error   string     `json:"error,omitempty"`
}
