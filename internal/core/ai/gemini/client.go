package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/takeourcarsnow/receptai.fun/internal/core/ai/provider"
	"github.com/takeourcarsnow/receptai.fun/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Name 提供者名稱
const Name = "gemini"

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client Gemini generateContent 客戶端
type Client struct {
	config provider.Config
	client *resty.Client
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// generateRequest generateContent 請求
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

// generateResponse generateContent 響應
type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// apiError API 錯誤響應
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewClient 創建 Gemini 客戶端
func NewClient(cfg provider.Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", cfg.APIKey)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		config: cfg,
		client: client,
	}
}

// Name 提供者名稱
func (c *Client) Name() string {
	return Name
}

// GetModel 獲取當前使用的模型名稱
func (c *Client) GetModel() string {
	return c.config.Model
}

// GetTimeout 獲取請求超時時間
func (c *Client) GetTimeout() time.Duration {
	return c.config.Timeout
}

// Generate 生成回應
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	body := generateRequest{
		Contents: make([]content, 0, len(req.Messages)),
	}
	for _, msg := range req.Messages {
		role := "user"
		if msg.Role == "assistant" || msg.Role == "model" {
			role = "model"
		}
		body.Contents = append(body.Contents, content{
			Role:  role,
			Parts: []part{{Text: msg.Content}},
		})
	}

	maxTokens, temperature := req.MaxTokens, req.Temperature
	if maxTokens == 0 {
		maxTokens = c.config.MaxTokens
	}
	if temperature == 0 {
		temperature = c.config.Temperature
	}
	if maxTokens > 0 || temperature > 0 {
		body.GenerationConfig = &generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		}
	}

	common.LogDebug("Sending request to Gemini",
		zap.String("model", c.config.Model),
		zap.Int("messages", len(req.Messages)),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("model", c.config.Model).
		SetBody(body).
		Post("/models/{model}:generateContent")
	if err != nil {
		return nil, provider.NewError(Name, 0, "failed to send request", err)
	}

	if resp.StatusCode() != http.StatusOK {
		var apiErr apiError
		message := resp.String()
		if jsonErr := json.Unmarshal(resp.Body(), &apiErr); jsonErr == nil && apiErr.Error.Message != "" {
			message = strings.TrimSpace(apiErr.Error.Status + " " + apiErr.Error.Message)
		}
		common.LogError("Gemini returned error status",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("model", c.config.Model),
			zap.String("response", common.Truncate(message, 300)),
		)
		return nil, provider.NewError(Name, resp.StatusCode(), message, nil)
	}

	var result generateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, provider.InvalidResponse(Name, fmt.Sprintf("failed to parse response: %v", err))
	}

	if len(result.Candidates) == 0 {
		reason := "no candidates in response"
		if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
			reason = "prompt blocked: " + result.PromptFeedback.BlockReason
		}
		return nil, provider.InvalidResponse(Name, reason)
	}

	candidate := result.Candidates[0]
	var sb strings.Builder
	for _, p := range candidate.Content.Parts {
		sb.WriteString(p.Text)
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return nil, provider.InvalidResponse(Name, "empty content in response (finish reason "+candidate.FinishReason+")")
	}

	return &provider.Response{
		Content:      text,
		FinishReason: candidate.FinishReason,
		Usage: provider.Usage{
			PromptTokens:     result.UsageMetadata.PromptTokenCount,
			CompletionTokens: result.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      result.UsageMetadata.TotalTokenCount,
		},
	}, nil
}

// Close 關閉客戶端
func (c *Client) Close() error {
	c.client.GetClient().CloseIdleConnections()
	return nil
}
