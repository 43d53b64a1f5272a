package price

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/takeourcarsnow/receptai.fun/internal/core/catalog"
	"github.com/takeourcarsnow/receptai.fun/internal/infrastructure/metrics"
	"github.com/takeourcarsnow/receptai.fun/internal/pkg/common"

	"go.uber.org/zap"
)

// Vendor 報價來源
type Vendor interface {
	Name() string
	Quote(ctx context.Context, bareName string) (common.PriceQuote, error)
}

// MockVendor 以隨機價格模擬商店報價
type MockVendor struct {
	StoreName string
	SearchURL string

	mu   sync.Mutex
	rand *rand.Rand
}

// NewMockVendor 創建模擬商店，src 為 nil 時以時間為種子
func NewMockVendor(name, searchURL string, src rand.Source) *MockVendor {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &MockVendor{
		StoreName: name,
		SearchURL: searchURL,
		rand:      rand.New(src),
	}
}

// Name 商店名稱
func (v *MockVendor) Name() string {
	return v.StoreName
}

// Quote 產生 [1, 6) 歐元之間的報價與商店搜尋連結
func (v *MockVendor) Quote(ctx context.Context, bareName string) (common.PriceQuote, error) {
	v.mu.Lock()
	amount := v.rand.Float64()*5 + 1
	v.mu.Unlock()

	return common.PriceQuote{
		Store: v.StoreName,
		Name:  bareName,
		Price: fmt.Sprintf("€%.2f", amount),
		URL:   v.SearchURL + EscapeQuery(bareName),
	}, nil
}

// EscapeQuery 以 %20 表示空白的查詢字串編碼
func EscapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// DefaultVendors 預設的三家商店
func DefaultVendors(src rand.Source) []Vendor {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	seeded := rand.New(src)
	return []Vendor{
		NewMockVendor("Maxima", "https://www.maxima.lt/search?q=", rand.NewSource(seeded.Int63())),
		NewMockVendor("Rimi", "https://www.rimi.lt/e-parduotuve/lt/paieska?query=", rand.NewSource(seeded.Int63())),
		NewMockVendor("Lidl", "https://www.lidl.lt/paieska?query=", rand.NewSource(seeded.Int63())),
	}
}

// Service 價格查詢服務
type Service struct {
	cache   *Cache
	vendors []Vendor
}

// NewService 創建價格查詢服務
func NewService(cache *Cache, vendors []Vendor) *Service {
	return &Service{
		cache:   cache,
		vendors: vendors,
	}
}

// Cache 回傳底層快取
func (s *Service) Cache() *Cache {
	return s.cache
}

// Lookup 查詢食材報價。
// 命中快取時直接返回快取內容；未命中時向每家商店取價，
// 失敗的商店略過，結果以裸名稱為鍵寫入快取；全部失敗時不寫入。
func (s *Service) Lookup(ctx context.Context, displayName string) []common.PriceQuote {
	bare := catalog.BareName(displayName)

	entry, hit := s.cache.GetOrCreate(bare, func() ([]common.PriceQuote, bool) {
		quotes := s.collect(ctx, bare)
		return quotes, len(quotes) > 0
	})
	metrics.RecordPriceCache(hit)
	if !hit {
		metrics.SetPriceCacheEntries(s.cache.Len())
	}

	quotes := make([]common.PriceQuote, len(entry.Quotes))
	copy(quotes, entry.Quotes)
	return quotes
}

func (s *Service) collect(ctx context.Context, bare string) []common.PriceQuote {
	quotes := make([]common.PriceQuote, 0, len(s.vendors))
	for _, vendor := range s.vendors {
		quote, err := vendor.Quote(ctx, bare)
		if err != nil {
			common.LogWarn("商店報價失敗，略過",
				zap.String("store", vendor.Name()),
				zap.String("ingredient", bare),
				zap.Error(err),
			)
			continue
		}
		quotes = append(quotes, quote)
	}
	return quotes
}
