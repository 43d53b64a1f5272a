package recipe

import (
	"fmt"
)

// Kind 食譜生成失敗的分類
type Kind int

const (
	// KindInternal 未分類的失敗
	KindInternal Kind = iota
	// KindBadRequest 呼叫方輸入不正確，未呼叫模型
	KindBadRequest
	// KindTimeout 模型未在時限內回應
	KindTimeout
	// KindModelError 模型回傳錯誤或沒有可用回應
	KindModelError
	// KindServiceOverloaded 模型過載、限流或呼叫閘門已滿
	KindServiceOverloaded
	// KindParseFailed 模型輸出不是 JSON 物件
	KindParseFailed
	// KindValidationFailed JSON 缺少標題或步驟
	KindValidationFailed
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindTimeout:
		return "timeout"
	case KindModelError:
		return "model_error"
	case KindServiceOverloaded:
		return "service_overloaded"
	case KindParseFailed:
		return "parse_failed"
	case KindValidationFailed:
		return "validation_failed"
	default:
		return "internal"
	}
}

// GenerationError 分類後的食譜生成錯誤
type GenerationError struct {
	Kind Kind
	Err  error
	// Raw 清理後的模型輸出，僅在解析或驗證失敗時存在
	Raw string
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("recipe generation failed: %s", e.Kind)
	}
	return fmt.Sprintf("recipe generation failed: %s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error) *GenerationError {
	return &GenerationError{Kind: kind, Err: err}
}
