package price

import (
	"sync"
	"time"

	"github.com/takeourcarsnow/receptai.fun/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultValidityWindow 報價的預設有效期
const DefaultValidityWindow = time.Hour

// Clock 時間來源，測試時可替換
type Clock func() time.Time

// Entry 價格快取條目
type Entry struct {
	Key       string
	CreatedAt time.Time
	Quotes    []common.PriceQuote
}

// Stats 快取統計
type Stats struct {
	Size      int           `json:"size"`
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Evictions int64         `json:"evictions"`
	Window    time.Duration `json:"window"`
}

// Cache 以裸名稱為鍵的過期快取
type Cache struct {
	mu     sync.Mutex
	store  map[string]Entry
	window time.Duration
	now    Clock

	hits      int64
	misses    int64
	evictions int64

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewCache 創建價格快取，window <= 0 時使用預設有效期
func NewCache(window time.Duration, clock Clock) *Cache {
	if window <= 0 {
		window = DefaultValidityWindow
	}
	if clock == nil {
		clock = time.Now
	}
	return &Cache{
		store:  make(map[string]Entry),
		window: window,
		now:    clock,
	}
}

// Window 有效期
func (c *Cache) Window() time.Duration {
	return c.window
}

// Get 取得未過期的條目；過期條目即使仍存在也視為未命中
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key)
}

func (c *Cache) getLocked(key string) (Entry, bool) {
	entry, ok := c.store[key]
	if !ok || c.expired(entry, c.now()) {
		c.misses++
		common.LogCacheMiss("price", key)
		return Entry{}, false
	}
	c.hits++
	common.LogCacheHit("price", key)
	return entry, true
}

// Put 插入或取代條目，時間戳為當下
func (c *Cache) Put(key string, quotes []common.PriceQuote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putLocked(key, quotes)
}

func (c *Cache) putLocked(key string, quotes []common.PriceQuote) Entry {
	entry := Entry{
		Key:       key,
		CreatedAt: c.now(),
		Quotes:    quotes,
	}
	c.store[key] = entry
	return entry
}

// GetOrCreate 命中時返回快取條目，否則以 create 產生；create 回報 false 時不存入。
// 檢查與寫入在同一把鎖內完成，同一鍵的併發未命中只會產生一次。
func (c *Cache) GetOrCreate(key string, create func() ([]common.PriceQuote, bool)) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.getLocked(key); ok {
		return entry, true
	}
	quotes, store := create()
	if !store {
		return Entry{Key: key, CreatedAt: c.now(), Quotes: quotes}, false
	}
	return c.putLocked(key, quotes), false
}

// Sweep 移除所有超過有效期的條目，返回移除數量
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	count := 0
	for key, entry := range c.store {
		if c.expired(entry, now) {
			delete(c.store, key)
			count++
		}
	}
	c.evictions += int64(count)

	if count > 0 {
		common.LogInfo("Cleaned up expired price entries",
			zap.Int("count", count),
			zap.Int64("total_evictions", c.evictions),
			zap.Int("remaining_size", len(c.store)),
		)
	}
	return count
}

// Len 目前儲存的條目數（含尚未清理的過期條目）
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store)
}

// GetStats 獲取快取統計信息
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:      len(c.store),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Window:    c.window,
	}
}

// Start 啟動定期清理，週期等於有效期
func (c *Cache) Start() {
	c.StartEvery(c.window, nil)
}

// StartEvery 以指定週期啟動清理，每輪結束後呼叫 onSweep
func (c *Cache) StartEvery(interval time.Duration, onSweep func(removed, remaining int)) {
	c.mu.Lock()
	if c.stop != nil {
		c.mu.Unlock()
		return
	}
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	stop, done := c.stop, c.done
	c.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				removed := c.Sweep()
				if onSweep != nil {
					onSweep(removed, c.Len())
				}
			case <-stop:
				return
			}
		}
	}()

	common.LogInfo("價格快取已初始化",
		zap.Duration("有效期", c.window),
		zap.Duration("清理間隔", interval),
	)
}

// Close 停止定期清理
func (c *Cache) Close() error {
	c.once.Do(func() {
		c.mu.Lock()
		stop, done := c.stop, c.done
		c.mu.Unlock()
		if stop == nil {
			return
		}
		close(stop)
		<-done

		stats := c.GetStats()
		common.LogInfo("價格快取已關閉",
			zap.Int64("命中次數", stats.Hits),
			zap.Int64("未命中次數", stats.Misses),
			zap.Int64("淘汰次數", stats.Evictions),
		)
	})
	return nil
}

func (c *Cache) expired(entry Entry, now time.Time) bool {
	return now.Sub(entry.CreatedAt) > c.window
}
