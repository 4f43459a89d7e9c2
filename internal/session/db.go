package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry 会话表记录
type Entry struct {
	Key       string     `gorm:"column:session_key;primaryKey;size:255"`
	Value     string     `gorm:"column:value;type:text;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

// TableName 表名
func (Entry) TableName() string {
	return "console_sessions"
}

// DBStore 数据库存储，支持 postgres 与 sqlite
type DBStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewDBStore 创建数据库存储并迁移表结构
func NewDBStore(db *gorm.DB, ttl time.Duration) (*DBStore, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate session table: %w", err)
	}
	return &DBStore{db: db, ttl: ttl, now: time.Now}, nil
}

// Get 读取键，过期条目视为不存在
func (s *DBStore) Get(ctx context.Context, key string) (string, error) {
	var e Entry
	err := s.db.WithContext(ctx).Where("session_key = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if e.ExpiresAt != nil && !e.ExpiresAt.After(s.now()) {
		return "", nil
	}
	return e.Value, nil
}

// Set 写入键，已存在则覆盖
func (s *DBStore) Set(ctx context.Context, key, value string) error {
	now := s.now()
	e := Entry{Key: key, Value: value, UpdatedAt: now}
	if s.ttl > 0 {
		exp := now.Add(s.ttl)
		e.ExpiresAt = &exp
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&e).Error
}

// Delete 删除键
func (s *DBStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Where("session_key IN ?", keys).Delete(&Entry{}).Error
}

// PurgeExpired 删除已过期条目
func (s *DBStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now()).
		Delete(&Entry{})
	return res.RowsAffected, res.Error
}

// Close 连接由 database 包管理
func (s *DBStore) Close() error { return nil }
