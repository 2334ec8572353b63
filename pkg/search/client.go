package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-docchat-be/pkg/store"
)

// Client speaks the search engine's _search JSON API. The index itself
// (mappings, embeddings, ingestion) is owned by the ingestion side; this
// client only reads.
type Client struct {
	baseURL string
	index   string
	client  *http.Client
}

func NewClient(baseURL, index string) *Client {
	return &Client{
		baseURL: baseURL,
		index:   index,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

var _ Provider = &Client{}

type searchRequest struct {
	Query  map[string]interface{} `json:"query"`
	Size   int                    `json:"size"`
	Source []string               `json:"_source"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Score  float64 `json:"_score"`
			Source struct {
				ChunkID       string `json:"chunkId"`
				ChunkContent  string `json:"chunkContent"`
				DocumentTitle string `json:"documentTitle"`
				DocumentURL   string `json:"documentUrl"`
				FileName      string `json:"fileName"`
				ChunkIndex    int    `json:"chunkIndex"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Error *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error,omitempty"`
}

// Search runs one query in the requested mode and maps hits to passages.
func (c *Client) Search(ctx context.Context, query string, mode store.SearchMode, topN int) ([]store.Passage, error) {
	var body map[string]interface{}
	switch mode {
	case store.ModeSparse:
		body = buildSparseQuery(query)
	case store.ModeLexical:
		body = buildLexicalQuery(query)
	default:
		body = buildHybridQuery(query)
	}

	reqBody := searchRequest{
		Query: body,
		Size:  topN,
		Source: []string{
			"documentTitle", "chunkContent", "documentUrl",
			"fileName", "chunkIndex", "chunkId",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/_search", c.baseURL, c.index)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var searchResp searchResponse
	if err := json.Unmarshal(bodyBytes, &searchResp); err != nil {
		return nil, fmt.Errorf("unmarshal search response: %w", err)
	}
	if searchResp.Error != nil {
		return nil, fmt.Errorf("search error: %s: %s", searchResp.Error.Type, searchResp.Error.Reason)
	}

	passages := make([]store.Passage, 0, len(searchResp.Hits.Hits))
	for _, hit := range searchResp.Hits.Hits {
		passages = append(passages, store.Passage{
			ChunkID:    hit.Source.ChunkID,
			Content:    hit.Source.ChunkContent,
			Title:      hit.Source.DocumentTitle,
			URL:        hit.Source.DocumentURL,
			FileName:   hit.Source.FileName,
			ChunkIndex: hit.Source.ChunkIndex,
			Score:      hit.Score,
		})
	}

	return passages, nil
}

// buildHybridQuery merges keyword matching with semantic expansion so either
// signal can surface a chunk.
func buildHybridQuery(query string) map[string]interface{} {
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"should": []interface{}{
				map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":  query,
						"fields": []string{"chunkContent^2", "documentTitle^3"},
						"type":   "best_fields",
						"boost":  1.0,
					},
				},
				map[string]interface{}{
					"text_expansion": map[string]interface{}{
						"textExpansion": map[string]interface{}{
							"model_id":   ".elser_model_2",
							"model_text": query,
						},
					},
				},
			},
		},
	}
}

func buildSparseQuery(query string) map[string]interface{} {
	return map[string]interface{}{
		"text_expansion": map[string]interface{}{
			"textExpansion": map[string]interface{}{
				"model_id":   ".elser_model_2",
				"model_text": query,
			},
		},
	}
}

func buildLexicalQuery(query string) map[string]interface{} {
	return map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query":  query,
			"fields": []string{"chunkContent^2", "documentTitle^3"},
			"type":   "best_fields",
		},
	}
}
