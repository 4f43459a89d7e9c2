package evcs

import (
	"context"
	"sync"
)

// 会话存储键
const (
	KeyToken    = "token"
	KeyTenantID = "tenantId"
	KeyUserID   = "userId"
)

// Session 会话键值存储能力
// 键不存在时 Get 返回空串与 nil 错误
type Session interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Level 提示级别
type Level string

// 提示级别
const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Notification 用户可见的提示
type Notification struct {
	Level    Level
	Message  string
	Endpoint string
	Status   int
}

// Notifier 提示展示能力
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc 函数适配器
type NotifierFunc func(ctx context.Context, n Notification)

// Notify 实现 Notifier
func (f NotifierFunc) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}

// Navigator 强制跳转登录页的能力
type Navigator interface {
	RedirectToLogin(ctx context.Context)
}

// NavigatorFunc 函数适配器
type NavigatorFunc func(ctx context.Context)

// RedirectToLogin 实现 Navigator
func (f NavigatorFunc) RedirectToLogin(ctx context.Context) {
	f(ctx)
}

// MemorySession 进程内会话存储
type MemorySession struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemorySession 创建进程内会话存储
func NewMemorySession() *MemorySession {
	return &MemorySession{values: make(map[string]string)}
}

// Get 读取键
func (s *MemorySession) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

// Set 写入键
func (s *MemorySession) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete 删除键
func (s *MemorySession) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}
