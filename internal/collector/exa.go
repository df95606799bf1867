package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"MetalWatch/internal/httpclient"
	"MetalWatch/internal/model"
)

const exaSearchURL = "https://api.exa.ai/search"

// ExaFinder implements SourceFinder using the Exa web search API.
type ExaFinder struct {
	URL    string
	APIKey string
	Client *httpclient.Client
}

// NewExaFinder creates a source finder backed by api.exa.ai.
func NewExaFinder(apiKey string, client *httpclient.Client) *ExaFinder {
	if client == nil {
		client = httpclient.New(httpclient.Options{})
	}
	return &ExaFinder{URL: exaSearchURL, APIKey: apiKey, Client: client}
}

func (f *ExaFinder) Name() string { return "exa" }

type exaSearchRequest struct {
	Query         string `json:"query"`
	NumResults    int    `json:"numResults"`
	UseAutoprompt bool   `json:"useAutoprompt"`
}

type exaSearchResponse struct {
	Results []struct {
		Title         string `json:"title"`
		URL           string `json:"url"`
		PublishedDate string `json:"publishedDate"`
	} `json:"results"`
}

func (f *ExaFinder) FindSources(ctx context.Context, metal model.Metal) ([]model.SourceRef, error) {
	query := fmt.Sprintf("current %s price USD per ounce today %d", metal, time.Now().Year())
	payload, err := json.Marshal(exaSearchRequest{Query: query, NumResults: 5, UseAutoprompt: true})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, f.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", f.APIKey)

	resp, err := f.Client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("exa search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("exa read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exa: status %d, body: %s", resp.StatusCode, string(body))
	}

	var search exaSearchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return nil, fmt.Errorf("exa decode: %w", err)
	}

	refs := make([]model.SourceRef, 0, len(search.Results))
	for _, r := range search.Results {
		refs = append(refs, model.SourceRef{
			Title:     r.Title,
			URL:       r.URL,
			Published: r.PublishedDate,
		})
	}
	return refs, nil
}
