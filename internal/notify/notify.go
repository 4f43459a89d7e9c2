// Package notify 实现 API 客户端的用户提示
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/dumeirei/evcs-console/internal/common/logger"
	"github.com/dumeirei/evcs-console/pkg/evcs"
)

// LogNotifier 通过 zap 输出提示
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier 创建日志提示器
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log}
}

// Notify 实现 evcs.Notifier
func (n *LogNotifier) Notify(_ context.Context, note evcs.Notification) {
	fields := []zap.Field{
		logger.Endpoint(note.Endpoint),
		logger.StatusCode(note.Status),
	}
	if note.Level == evcs.LevelWarning {
		n.log.Warn(note.Message, fields...)
		return
	}
	n.log.Error(note.Message, fields...)
}

// WriterNotifier 把提示写到终端
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier 创建终端提示器
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify 实现 evcs.Notifier
func (n *WriterNotifier) Notify(_ context.Context, note evcs.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s\n", note.Level, note.Message)
}

// Collector 收集提示，供单次请求结束后回传给浏览器
type Collector struct {
	mu    sync.Mutex
	notes []evcs.Notification
}

// Notify 实现 evcs.Notifier
func (c *Collector) Notify(_ context.Context, note evcs.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = append(c.notes, note)
}

// Notifications 已收集的提示副本
func (c *Collector) Notifications() []evcs.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]evcs.Notification(nil), c.notes...)
}

// Last 最后一条提示
func (c *Collector) Last() (evcs.Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.notes) == 0 {
		return evcs.Notification{}, false
	}
	return c.notes[len(c.notes)-1], true
}

// Counter 按级别计数
type Counter interface {
	RecordNotification(level string)
}

// Multi 依次转发给多个提示器，Counter 可为 nil
func Multi(counter Counter, notifiers ...evcs.Notifier) evcs.Notifier {
	return evcs.NotifierFunc(func(ctx context.Context, note evcs.Notification) {
		if counter != nil {
			counter.RecordNotification(string(note.Level))
		}
		for _, n := range notifiers {
			if n != nil {
				n.Notify(ctx, note)
			}
		}
	})
}
