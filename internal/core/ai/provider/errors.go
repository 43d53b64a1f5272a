package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind 模型呼叫失敗的分類
type ErrorKind int

const (
	// ErrorKindUnknown 無法分類的失敗
	ErrorKindUnknown ErrorKind = iota
	// ErrorKindOverloaded 模型過載、限流或暫時不可用
	ErrorKindOverloaded
	// ErrorKindInternal 模型服務內部錯誤
	ErrorKindInternal
	// ErrorKindInvalidResponse 呼叫成功但沒有可用的回應內容
	ErrorKindInvalidResponse
	// ErrorKindTimeout 傳輸層逾時
	ErrorKindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindOverloaded:
		return "overloaded"
	case ErrorKindInternal:
		return "internal"
	case ErrorKindInvalidResponse:
		return "invalid_response"
	case ErrorKindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// classification 轉換表中的一列：狀態碼或訊息片段對應到分類
type classification struct {
	kind       ErrorKind
	statuses   []int
	substrings []string
}

// classificationTable 唯一進行字串比對的地方，依序比對，先符合者勝出
var classificationTable = []classification{
	{
		kind: ErrorKindOverloaded,
		statuses: []int{
			http.StatusTooManyRequests,
			http.StatusServiceUnavailable,
			529,
		},
		substrings: []string{
			"overloaded",
			"unavailable",
			"resource_exhausted",
			"resource exhausted",
			"rate limit",
			"quota",
			"503",
			"429",
		},
	},
	{
		kind: ErrorKindInternal,
		statuses: []int{
			http.StatusInternalServerError,
			http.StatusBadGateway,
		},
		substrings: []string{
			"internal",
			"500",
		},
	},
	{
		kind: ErrorKindTimeout,
		statuses: []int{
			http.StatusGatewayTimeout,
			http.StatusRequestTimeout,
		},
		substrings: []string{
			"deadline exceeded",
			"deadline_exceeded",
			"timeout",
		},
	},
}

// Classify 依 HTTP 狀態碼與錯誤訊息決定分類；狀態碼優先於訊息比對
func Classify(status int, message string) ErrorKind {
	if status != 0 {
		for _, row := range classificationTable {
			for _, s := range row.statuses {
				if s == status {
					return row.kind
				}
			}
		}
	}

	lower := strings.ToLower(message)
	for _, row := range classificationTable {
		for _, sub := range row.substrings {
			if strings.Contains(lower, sub) {
				return row.kind
			}
		}
	}
	return ErrorKindUnknown
}

// Error 提供者錯誤
type Error struct {
	Kind       ErrorKind
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s error (status %d): %s", e.Provider, e.Kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s %s error: %s", e.Provider, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError 建立提供者錯誤並套用轉換表分類
func NewError(provider string, status int, message string, err error) *Error {
	text := message
	if err != nil {
		text = strings.TrimSpace(text + " " + err.Error())
	}

	kind := Classify(status, text)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		kind = ErrorKindTimeout
	}

	return &Error{
		Kind:       kind,
		Provider:   provider,
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}

// InvalidResponse 建立「沒有可用回應」錯誤
func InvalidResponse(provider, message string) *Error {
	return &Error{
		Kind:     ErrorKindInvalidResponse,
		Provider: provider,
		Message:  message,
	}
}

// KindOf 取出錯誤鏈中的分類
func KindOf(err error) ErrorKind {
	if err == nil {
		return ErrorKindUnknown
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindTimeout
	}
	return Classify(0, err.Error())
}
