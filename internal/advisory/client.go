package advisory

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/grievance-management/internal"
	"github.com/sashabaranov/go-openai"
)

const insightsPrompt = `You assist a grievance desk. Read the grievance below and answer with a JSON object
with two string fields: "summary" (two sentences at most) and "recommendation"
(the next action the responsible department should take).

%s`

// Client talks to any OpenAI-compatible chat completion endpoint.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

func NewClient(cfg internal.AIConfig, logger *slog.Logger) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = internal.DefaultAIModel
	}

	return &Client{
		api:     openai.NewClientWithConfig(oc),
		model:   model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

func (c *Client) complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Error("AI request failed", "error", err, "model", c.model, "duration", time.Since(start))
		return "", internal.NewExternalError("Failed to process AI analysis", internal.ErrCodeAIFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", internal.NewExternalError("Failed to process AI analysis", internal.ErrCodeAIFailed, errors.New("empty completion"))
	}

	c.logger.Debug("AI request completed",
		"model", c.model,
		"duration", time.Since(start),
		"total_tokens", resp.Usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}

// Analyze asks for category and priority suggestions.
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*Analysis, error) {
	text, err := c.complete(ctx, BuildPrompt(req.Title, req.Description, req.CountAttachments()), false)
	if err != nil {
		return nil, err
	}
	return Parse(text), nil
}

type insights struct {
	Summary        string `json:"summary"`
	Recommendation string `json:"recommendation"`
}

// Insights returns a short summary and a recommended action for text. A
// reply that is not the requested JSON is kept whole as the summary.
func (c *Client) Insights(ctx context.Context, text string) (string, string, error) {
	reply, err := c.complete(ctx, strings.Replace(insightsPrompt, "%s", text, 1), true)
	if err != nil {
		return "", "", err
	}

	var out insights
	if err := json.Unmarshal([]byte(extractObject(reply)), &out); err != nil {
		c.logger.Warn("AI insights were not JSON, keeping raw text", "error", err)
		return strings.TrimSpace(reply), "", nil
	}
	return strings.TrimSpace(out.Summary), strings.TrimSpace(out.Recommendation), nil
}

// extractObject trims anything around the outermost JSON object, such as a
// markdown fence.
func extractObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}
