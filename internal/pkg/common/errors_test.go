package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomError_Wrap(t *testing.T) {
	cause := errors.New("upstream")
	err := ErrRecipeTimeout.Wrap(cause)

	assert.Equal(t, http.StatusGatewayTimeout, err.Status)
	assert.Equal(t, ErrCodeGatewayTimeout, err.Code)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "upstream", err.Error())
	// 預定義錯誤本身不被修改
	assert.Nil(t, ErrRecipeTimeout.Err)
}

func TestAsCustomError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrInvalidIngredients)

	ce, ok := AsCustomError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, ce.Status)

	_, ok = AsCustomError(errors.New("plain"))
	assert.False(t, ok)
}

func TestCustomError_Response(t *testing.T) {
	resp := ErrRecipeUnreadable.Response("raw text")
	assert.Equal(t, ErrRecipeUnreadable.Message, resp.Error)
	assert.Equal(t, ErrCodeUnprocessable, resp.Code)
	assert.Equal(t, "raw text", resp.Details)
}
