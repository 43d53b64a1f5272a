package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Error   string `json:"error"`             // 使用者可讀的錯誤信息
	Code    string `json:"code,omitempty"`    // 錯誤代碼
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// Wrap 以相同代碼與訊息包裝原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return NewError(e.Code, e.Message, e.Status, err)
}

// Response 轉換為 API 錯誤響應
func (e *CustomError) Response(details string) ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Code:    e.Code,
		Details: details,
	}
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// AsCustomError 取出錯誤鏈中的 CustomError
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeTooLarge        = "PAYLOAD_TOO_LARGE" // 413
	ErrCodeUnprocessable   = "UNPROCESSABLE"     // 422
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤，訊息為面向使用者的立陶宛語
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "Netinkama užklausa", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "Puslapis nerastas", http.StatusNotFound, nil)
	ErrBodyTooLarge    = NewError(ErrCodeTooLarge, "Užklausa per didelė", http.StatusRequestEntityTooLarge, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "Per daug užklausų, pabandykite vėliau", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "Serverio klaida", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "Paslauga laikinai nepasiekiama", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "Užklausa užtruko per ilgai", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrInvalidIngredients = NewError(ErrCodeInvalidRequest, "Pateikti netinkami ingredientai", http.StatusBadRequest, nil)
	ErrRecipeUnreadable   = NewError(ErrCodeUnprocessable, "Nepavyko apdoroti recepto, bandykite dar kartą", http.StatusUnprocessableEntity, nil)
	ErrRecipeTimeout      = NewError(ErrCodeGatewayTimeout, "Recepto generavimas užtruko per ilgai, bandykite dar kartą", http.StatusGatewayTimeout, nil)
	ErrModelOverloaded    = NewError(ErrCodeServiceUnavailable, "AI paslauga šiuo metu perkrauta, bandykite vėliau", http.StatusServiceUnavailable, nil)
	ErrModelFailure       = NewError(ErrCodeInternalError, "AI paslaugos klaida, bandykite vėliau", http.StatusInternalServerError, nil)
	ErrRecipeFailed       = NewError(ErrCodeInternalError, "Nepavyko sugeneruoti recepto", http.StatusInternalServerError, nil)
)
