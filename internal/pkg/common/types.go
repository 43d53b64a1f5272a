package common

import (
	"encoding/json"
)

// RecipeRequest 食譜生成請求
type RecipeRequest struct {
	Ingredients []string `json:"ingredients"`
}

// NutritionInfo 營養資訊
type NutritionInfo struct {
	Calories FlexString `json:"kalorijos,omitempty"`
	Protein  FlexString `json:"baltymai,omitempty"`
	Carbs    FlexString `json:"angliavandeniai,omitempty"`
	Fat      FlexString `json:"riebalai,omitempty"`
}

// Recipe 模型輸出的食譜
// 欄位名稱沿用前端使用的立陶宛語鍵名
type Recipe struct {
	Title        string         `json:"receptoPavadinimas"`
	PrepTime     FlexString     `json:"gaminimoLaikas,omitempty"`
	Difficulty   string         `json:"sudetingumas,omitempty"`
	Servings     FlexString     `json:"porcijos,omitempty"`
	Ingredients  []string       `json:"ingredientai,omitempty"`
	Instructions []string       `json:"instrukcijos"`
	Tips         []string       `json:"patarimai,omitempty"`
	Nutrition    *NutritionInfo `json:"maistoInformacija,omitempty"`

	// raw 保存模型原始 JSON，回應時原樣輸出
	raw json.RawMessage
}

type recipeFields Recipe

// UnmarshalJSON 解析食譜並保留原始內容。
// 只要求內容是 JSON 物件；各欄位逐一解析，型別不符的欄位留空，
// 是否缺少必要欄位由呼叫方驗證。
func (r *Recipe) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var out Recipe
	decodeField(fields, "receptoPavadinimas", &out.Title)
	decodeField(fields, "gaminimoLaikas", &out.PrepTime)
	decodeField(fields, "sudetingumas", &out.Difficulty)
	decodeField(fields, "porcijos", &out.Servings)
	decodeField(fields, "ingredientai", &out.Ingredients)
	decodeField(fields, "instrukcijos", &out.Instructions)
	decodeField(fields, "patarimai", &out.Tips)

	var nutrition NutritionInfo
	if decodeField(fields, "maistoInformacija", &nutrition) {
		out.Nutrition = &nutrition
	}

	out.raw = append(json.RawMessage(nil), data...)
	*r = out
	return nil
}

// decodeField 解析單一欄位，缺少或型別不符時返回 false 且不修改 v
func decodeField[T any](fields map[string]json.RawMessage, key string, v *T) bool {
	data, ok := fields[key]
	if !ok || string(data) == "null" {
		return false
	}

	// 先解析到暫存值，失敗時不留下部分結果
	var tmp T
	if err := json.Unmarshal(data, &tmp); err != nil {
		return false
	}
	*v = tmp
	return true
}

// MarshalJSON 有原始內容時原樣輸出，不做任何正規化
func (r Recipe) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	return json.Marshal(recipeFields(r))
}

// PriceQuote 商店報價
type PriceQuote struct {
	Store string `json:"store"`
	Name  string `json:"name"`
	Price string `json:"price"`
	URL   string `json:"url"`
}
