package queue

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/takeourcarsnow/receptai.fun/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrQueueFull 同時進行中的模型呼叫已達上限
var ErrQueueFull = errors.New("model call gate is full")

// ErrClosed 佇列已關閉
var ErrClosed = errors.New("model call gate is closed")

// Status 佇列狀態
type Status struct {
	Inflight       int   `json:"inflight"`
	MaxInflight    int   `json:"max_inflight"`
	ProcessedCount int64 `json:"processed_count"`
	RejectedCount  int64 `json:"rejected_count"`
	AbandonedCount int64 `json:"abandoned_count"`
}

// Manager 限制同時進行的模型呼叫數量。
// 名額在提供者呼叫真正返回時才釋放，因此已被放棄但仍在執行的呼叫也會佔用名額。
type Manager struct {
	slots     chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	processed int64
	rejected  int64
	abandoned int64

	onChange func(inflight int)
}

// NewManager 創建新的佇列管理器
func NewManager(maxInflight int, onChange func(inflight int)) *Manager {
	if maxInflight <= 0 {
		maxInflight = 1
	}
	return &Manager{
		slots:    make(chan struct{}, maxInflight),
		done:     make(chan struct{}),
		onChange: onChange,
	}
}

// Ticket 一個已取得的名額
type Ticket struct {
	m    *Manager
	once sync.Once
}

// Acquire 嘗試取得名額，已滿時立即返回 ErrQueueFull 而不等待
func (m *Manager) Acquire() (*Ticket, error) {
	select {
	case <-m.done:
		return nil, ErrClosed
	default:
	}

	select {
	case m.slots <- struct{}{}:
		m.notify()
		return &Ticket{m: m}, nil
	default:
		atomic.AddInt64(&m.rejected, 1)
		common.LogWarn("Model call gate is full",
			zap.Int("inflight", len(m.slots)),
			zap.Int("max_inflight", cap(m.slots)),
		)
		return nil, ErrQueueFull
	}
}

// Release 釋放名額，可重複呼叫
func (t *Ticket) Release() {
	t.once.Do(func() {
		<-t.m.slots
		atomic.AddInt64(&t.m.processed, 1)
		t.m.notify()
	})
}

// MarkAbandoned 記錄呼叫方已不再等待此名額的結果
func (t *Ticket) MarkAbandoned() {
	atomic.AddInt64(&t.m.abandoned, 1)
}

// GetQueueStatus 獲取佇列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		Inflight:       len(m.slots),
		MaxInflight:    cap(m.slots),
		ProcessedCount: atomic.LoadInt64(&m.processed),
		RejectedCount:  atomic.LoadInt64(&m.rejected),
		AbandonedCount: atomic.LoadInt64(&m.abandoned),
	}
}

// Close 關閉佇列管理器，之後的 Acquire 都會失敗
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
}

func (m *Manager) notify() {
	if m.onChange != nil {
		m.onChange(len(m.slots))
	}
}
