package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Category 食材分類
type Category string

// 固定的分類
const (
	CategoryVegetables Category = "darzoves"
	CategoryFruits     Category = "vaisiai"
	CategoryProteins   Category = "baltymai"
	CategoryDairy      Category = "pieno_produktai"
	CategoryGrains     Category = "grudai"
	CategoryOther      Category = "kiti_produktai"
)

// Categories 分類的固定順序
var Categories = []Category{
	CategoryVegetables,
	CategoryFruits,
	CategoryProteins,
	CategoryDairy,
	CategoryGrains,
	CategoryOther,
}

// Item 目錄中的單一食材
type Item struct {
	Name  string
	Emoji string
}

// Display 顯示字串：圖示 + 空白 + 名稱
func (i Item) Display() string {
	return i.Emoji + " " + i.Name
}

// Catalog 唯讀食材目錄
type Catalog struct {
	items map[Category][]Item
}

// New 以指定內容建立目錄
func New(items map[Category][]Item) *Catalog {
	return &Catalog{items: items}
}

// Default 內建的食材目錄
func Default() *Catalog {
	return New(defaultItems)
}

// Validate 檢查目錄完整性，失敗時服務不應啟動
func (c *Catalog) Validate() error {
	if c == nil || len(c.items) == 0 {
		return fmt.Errorf("catalog is empty")
	}

	known := make(map[Category]bool, len(Categories))
	for _, cat := range Categories {
		known[cat] = true
	}

	for cat, items := range c.items {
		if !known[cat] {
			return fmt.Errorf("unknown category %q", cat)
		}
		if len(items) == 0 {
			return fmt.Errorf("category %q has no items", cat)
		}
		seen := make(map[string]bool, len(items))
		for idx, item := range items {
			if strings.TrimSpace(item.Name) == "" {
				return fmt.Errorf("category %q item %d has empty name", cat, idx)
			}
			if item.Emoji == "" || !utf8.ValidString(item.Emoji) || strings.ContainsAny(item.Emoji, " \t\n") {
				return fmt.Errorf("category %q item %q has invalid icon", cat, item.Name)
			}
			if seen[item.Name] {
				return fmt.Errorf("category %q has duplicate item %q", cat, item.Name)
			}
			seen[item.Name] = true
		}
	}
	return nil
}

// Display 回傳分類到顯示字串列表的映射
func (c *Catalog) Display() map[Category][]string {
	out := make(map[Category][]string, len(c.items))
	for cat, items := range c.items {
		names := make([]string, len(items))
		for i, item := range items {
			names[i] = item.Display()
		}
		out[cat] = names
	}
	return out
}

// Items 回傳某分類的食材副本
func (c *Catalog) Items(cat Category) []Item {
	items := c.items[cat]
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Size 食材總數
func (c *Catalog) Size() int {
	n := 0
	for _, items := range c.items {
		n += len(items)
	}
	return n
}

// BareName 去掉顯示名稱開頭的圖示，即第一個以空白分隔的片段。
// 沒有空白或以空白開頭時原樣返回。
func BareName(display string) string {
	idx := strings.IndexFunc(display, isSpace)
	if idx <= 0 {
		return display
	}
	_, size := utf8.DecodeRuneInString(display[idx:])
	return display[idx+size:]
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
