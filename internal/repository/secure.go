package repository

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/user/moviepicker/internal/model"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const secureKeyInfo = "moviepicker secure store v1"

// SecureRepository 敏感数据存储（如登录 Token），值使用 XChaCha20-Poly1305 加密
type SecureRepository struct {
	db   *gorm.DB
	aead cipher.AEAD
}

// NewSecureRepository 由应用密钥派生加密密钥
func NewSecureRepository(db *gorm.DB, secret string) (*SecureRepository, error) {
	if secret == "" {
		return nil, errors.New("secure store 需要非空密钥")
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(secureKeyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("派生密钥失败: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("初始化加密器失败: %w", err)
	}

	return &SecureRepository{db: db, aead: aead}, nil
}

// Get 读取并解密，键不存在时 ok 为 false
func (r *SecureRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry model.SecureEntry
	err := r.db.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("读取敏感数据失败: %w", err)
	}

	nonceSize := r.aead.NonceSize()
	if len(entry.Sealed) < nonceSize {
		return "", false, errors.New("敏感数据已损坏")
	}
	plain, err := r.aead.Open(nil, entry.Sealed[:nonceSize], entry.Sealed[nonceSize:], []byte(key))
	if err != nil {
		return "", false, fmt.Errorf("解密敏感数据失败: %w", err)
	}
	return string(plain), true, nil
}

// Set 加密后写入；键名作为附加数据，防止密文被挪到其他键下
func (r *SecureRepository) Set(ctx context.Context, key, value string) error {
	nonce := make([]byte, r.aead.NonceSize(), r.aead.NonceSize()+len(value)+r.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("生成随机数失败: %w", err)
	}

	entry := &model.SecureEntry{
		Key:       key,
		Sealed:    r.aead.Seal(nonce, nonce, []byte(value), []byte(key)),
		UpdatedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"sealed", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("写入敏感数据失败: %w", err)
	}
	return nil
}

// Delete 删除敏感数据
func (r *SecureRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&model.SecureEntry{}).Error; err != nil {
		return fmt.Errorf("删除敏感数据失败: %w", err)
	}
	return nil
}
