// Package session 提供控制台会话存储
//
// 会话只保存三个键：token、tenantId、userId。控制台服务按浏览器会话 ID
// 划分命名空间，CLI 使用文件存储单一命名空间。
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/dumeirei/evcs-console/internal/common/cache"
	"github.com/dumeirei/evcs-console/internal/common/config"
	"github.com/dumeirei/evcs-console/internal/common/database"
	"github.com/dumeirei/evcs-console/pkg/evcs"
)

// 存储驱动
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverDatabase = "database"
)

// Store 会话键值存储
type Store interface {
	evcs.Session
	Close() error
}

// Purger 支持清理过期条目的存储
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Open 按配置打开会话存储
// redis 与 database 驱动会初始化对应的全局连接，由调用方负责关闭
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Session.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverFile:
		return NewFileStore(cfg.Session.FilePath)
	case DriverRedis:
		client, err := cache.Init(&cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.Session.KeyPrefix, cfg.Session.TTLDuration()), nil
	case DriverDatabase:
		db, err := database.Init(&cfg.Database)
		if err != nil {
			return nil, err
		}
		return NewDBStore(db, cfg.Session.TTLDuration())
	default:
		return nil, fmt.Errorf("unsupported session driver %q", cfg.Session.Driver)
	}
}

// Scoped 返回限定在命名空间内的会话
func Scoped(store evcs.Session, namespace string) evcs.Session {
	if namespace == "" {
		return store
	}
	return &scoped{store: store, prefix: strings.TrimSuffix(namespace, ":") + ":"}
}

type scoped struct {
	store  evcs.Session
	prefix string
}

func (s *scoped) Get(ctx context.Context, key string) (string, error) {
	return s.store.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.prefix + k
	}
	return s.store.Delete(ctx, full...)
}

// Recorder 会话操作计数
type Recorder interface {
	RecordSessionOp(driver, operation string, err error)
}

// Instrument 为存储附加操作计数
func Instrument(store Store, driver string, rec Recorder) Store {
	if rec == nil {
		return store
	}
	return &instrumented{Store: store, driver: driver, rec: rec}
}

type instrumented struct {
	Store
	driver string
	rec    Recorder
}

func (s *instrumented) Get(ctx context.Context, key string) (string, error) {
	v, err := s.Store.Get(ctx, key)
	s.rec.RecordSessionOp(s.driver, "get", err)
	return v, err
}

func (s *instrumented) Set(ctx context.Context, key, value string) error {
	err := s.Store.Set(ctx, key, value)
	s.rec.RecordSessionOp(s.driver, "set", err)
	return err
}

func (s *instrumented) Delete(ctx context.Context, keys ...string) error {
	err := s.Store.Delete(ctx, keys...)
	s.rec.RecordSessionOp(s.driver, "delete", err)
	return err
}

// PurgeExpired 透传到底层存储
func (s *instrumented) PurgeExpired(ctx context.Context) (int64, error) {
	if p, ok := s.Store.(Purger); ok {
		return p.PurgeExpired(ctx)
	}
	return 0, nil
}

// MemoryStore 进程内存储
type MemoryStore struct {
	*evcs.MemorySession
}

// NewMemoryStore 创建进程内存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{MemorySession: evcs.NewMemorySession()}
}

// Close 无操作
func (s *MemoryStore) Close() error { return nil }
