package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Result holds the IDs of matching documents in relevance order. Callers
// hydrate the full records from the database so responses always reflect
// current data.
type Result struct {
	IDs   []string
	Total int
}

// SearchPosts searches post titles and content with fuzzy matching.
func (c *Client) SearchPosts(ctx context.Context, query string, limit, offset int) (*Result, error) {
	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []map[string]interface{}{
					{
						"match": map[string]interface{}{
							"title": map[string]interface{}{
								"query":     query,
								"boost":     2.0,
								"fuzziness": "AUTO",
							},
						},
					},
					{
						"match": map[string]interface{}{
							"content": map[string]interface{}{
								"query":     query,
								"fuzziness": "AUTO",
							},
						},
					},
					{
						"term": map[string]interface{}{
							"tags": map[string]interface{}{
								"value": query,
								"boost": 1.5,
							},
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"created_at": map[string]interface{}{"order": "desc"}},
		},
		"from": offset,
		"size": limit,
	}

	return c.executeSearch(ctx, IndexPosts, searchQuery)
}

// SearchUsers searches usernames, nicknames and bios.
func (c *Client) SearchUsers(ctx context.Context, query string, limit, offset int) (*Result, error) {
	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []map[string]interface{}{
					{
						"match": map[string]interface{}{
							"username": map[string]interface{}{
								"query":         query,
								"boost":         2.0,
								"fuzziness":     "AUTO",
								"prefix_length": 1,
							},
						},
					},
					{
						"match": map[string]interface{}{
							"nickname": map[string]interface{}{
								"query":     query,
								"boost":     1.5,
								"fuzziness": "AUTO",
							},
						},
					},
					{
						"match": map[string]interface{}{
							"bio": map[string]interface{}{
								"query":     query,
								"boost":     0.5,
								"fuzziness": "AUTO",
							},
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"follower_count": map[string]interface{}{"order": "desc"}},
		},
		"from": offset,
		"size": limit,
	}

	return c.executeSearch(ctx, IndexUsers, searchQuery)
}

// SearchTopics searches topic names and descriptions.
func (c *Client) SearchTopics(ctx context.Context, query string, limit, offset int) (*Result, error) {
	searchQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []map[string]interface{}{
					{
						"match": map[string]interface{}{
							"name": map[string]interface{}{
								"query":     query,
								"boost":     2.0,
								"fuzziness": "AUTO",
							},
						},
					},
					{
						"match": map[string]interface{}{
							"description": map[string]interface{}{
								"query": query,
							},
						},
					},
				},
				"minimum_should_match": 1,
			},
		},
		"sort": []map[string]interface{}{
			{"_score": map[string]interface{}{"order": "desc"}},
			{"use_count": map[string]interface{}{"order": "desc"}},
		},
		"from": offset,
		"size": limit,
	}

	return c.executeSearch(ctx, IndexTopics, searchQuery)
}

func (c *Client) executeSearch(ctx context.Context, index string, query map[string]interface{}) (*Result, error) {
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(queryJSON)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, decodeESError(res.Body, res.Status(), "searching "+index)
	}

	var searchResp struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	ids := make([]string, 0, len(searchResp.Hits.Hits))
	for _, hit := range searchResp.Hits.Hits {
		ids = append(ids, hit.ID)
	}

	return &Result{IDs: ids, Total: searchResp.Hits.Total.Value}, nil
}
