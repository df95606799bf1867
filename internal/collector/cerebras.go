package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"MetalWatch/internal/httpclient"
	"MetalWatch/internal/model"
)

const cerebrasChatURL = "https://api.cerebras.ai/v1/chat/completions"

// cerebrasModel is the chat model used for market commentary.
const cerebrasModel = "llama-4-scout-17b-16e-instruct"

// CerebrasInsighter implements Insighter using the Cerebras chat API.
type CerebrasInsighter struct {
	URL    string
	APIKey string
	Client *httpclient.Client
}

// NewCerebrasInsighter creates an insight generator backed by api.cerebras.ai.
func NewCerebrasInsighter(apiKey string, client *httpclient.Client) *CerebrasInsighter {
	if client == nil {
		client = httpclient.New(httpclient.Options{})
	}
	return &CerebrasInsighter{URL: cerebrasChatURL, APIKey: apiKey, Client: client}
}

func (c *CerebrasInsighter) Name() string { return "cerebras" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *CerebrasInsighter) GenerateInsight(ctx context.Context, series *model.PriceSeries, result *model.AnalysisResult) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    cerebrasModel,
		Messages: []chatMessage{{Role: "user", Content: insightPrompt(series, result)}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("cerebras chat: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("cerebras read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("cerebras: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return "", fmt.Errorf("cerebras decode: %w", err)
	}
	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("cerebras: response has no choices")
	}
	return chat.Choices[0].Message.Content, nil
}

// insightPrompt asks for commentary over the computed statistics.
func insightPrompt(series *model.PriceSeries, result *model.AnalysisResult) string {
	sign := "$"
	if series.Currency == model.CurrencyINR {
		sign = "₹"
	}
	return fmt.Sprintf(
		"Provide a brief analysis of the current %s market based on this data: current price %s%.2f, period change %+.2f%%, high %s%.2f, low %s%.2f. What might be influencing the price?",
		series.Metal, sign, result.Current, result.PercentChange, sign, result.Max, sign, result.Min)
}
