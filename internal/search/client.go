package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/elastic/go-elasticsearch/v8"
)

// Index names
const (
	IndexUsers  = "users"
	IndexPosts  = "posts"
	IndexTopics = "topics"
)

// Client wraps the Elasticsearch client with CampusHub-specific functionality
type Client struct {
	es *elasticsearch.Client
}

// NewClient creates a new Elasticsearch client
func NewClient() (*Client, error) {
	esURL := os.Getenv("ELASTICSEARCH_URL")
	if esURL == "" {
		esURL = "http://localhost:9200"
	}

	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	client := &Client{es: es}

	// Verify connection
	if _, err = es.Info(); err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}

	return client, nil
}

// InitializeIndices creates the search indices with proper mappings
func (c *Client) InitializeIndices(ctx context.Context) error {
	if err := c.createUsersIndex(ctx); err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}
	if err := c.createPostsIndex(ctx); err != nil {
		return fmt.Errorf("failed to create posts index: %w", err)
	}
	if err := c.createTopicsIndex(ctx); err != nil {
		return fmt.Errorf("failed to create topics index: %w", err)
	}
	return nil
}

func (c *Client) createUsersIndex(ctx context.Context) error {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":       map[string]interface{}{"type": "keyword"},
				"username": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{"type": "keyword"},
					},
				},
				"nickname": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
				},
				"bio": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
				},
				"college":        map[string]interface{}{"type": "keyword"},
				"major":          map[string]interface{}{"type": "keyword"},
				"follower_count": map[string]interface{}{"type": "integer"},
				"created_at":     map[string]interface{}{"type": "date"},
			},
		},
	}

	return c.createIndex(ctx, IndexUsers, mapping)
}

func (c *Client) createPostsIndex(ctx context.Context) error {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":      map[string]interface{}{"type": "keyword"},
				"user_id": map[string]interface{}{"type": "keyword"},
				"title": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
				},
				"content": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
				},
				"category_id":    map[string]interface{}{"type": "keyword"},
				"topics":         map[string]interface{}{"type": "keyword"},
				"tags":           map[string]interface{}{"type": "keyword"},
				"like_count":     map[string]interface{}{"type": "integer"},
				"comment_count":  map[string]interface{}{"type": "integer"},
				"favorite_count": map[string]interface{}{"type": "integer"},
				"view_count":     map[string]interface{}{"type": "integer"},
				"created_at":     map[string]interface{}{"type": "date"},
			},
		},
	}

	return c.createIndex(ctx, IndexPosts, mapping)
}

func (c *Client) createTopicsIndex(ctx context.Context) error {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id": map[string]interface{}{"type": "keyword"},
				"name": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
					"fields": map[string]interface{}{
						"keyword": map[string]interface{}{"type": "keyword"},
					},
				},
				"description": map[string]interface{}{
					"type":     "text",
					"analyzer": "standard",
				},
				"use_count":  map[string]interface{}{"type": "integer"},
				"created_at": map[string]interface{}{"type": "date"},
			},
		},
	}

	return c.createIndex(ctx, IndexTopics, mapping)
}

// createIndex creates an Elasticsearch index with the given mapping
func (c *Client) createIndex(ctx context.Context, indexName string, mapping map[string]interface{}) error {
	res, err := c.es.Indices.Exists([]string{indexName})
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	res.Body.Close()

	// Index already exists, skip creation
	if res.StatusCode == 200 {
		return nil
	}

	mappingJSON, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	res, err = c.es.Indices.Create(indexName,
		c.es.Indices.Create.WithBody(bytes.NewReader(mappingJSON)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return decodeESError(res.Body, res.Status(), "creating index")
	}

	return nil
}

func decodeESError(body io.Reader, status, action string) error {
	var errResp map[string]interface{}
	if err := json.NewDecoder(body).Decode(&errResp); err != nil {
		return fmt.Errorf("error response [%s]", status)
	}
	return fmt.Errorf("error %s: [%s] %v", action, status, errResp["error"])
}

// IndexPost indexes a post document for search
func (c *Client) IndexPost(ctx context.Context, postID string, doc map[string]interface{}) error {
	return c.indexDocument(ctx, IndexPosts, postID, doc, "indexing post")
}

// IndexUser indexes a user document for search
func (c *Client) IndexUser(ctx context.Context, userID string, doc map[string]interface{}) error {
	return c.indexDocument(ctx, IndexUsers, userID, doc, "indexing user")
}

// IndexTopic indexes a topic document for search
func (c *Client) IndexTopic(ctx context.Context, topicID string, doc map[string]interface{}) error {
	return c.indexDocument(ctx, IndexTopics, topicID, doc, "indexing topic")
}

func (c *Client) indexDocument(ctx context.Context, index, docID string, doc map[string]interface{}, action string) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := c.es.Index(index, bytes.NewReader(body),
		c.es.Index.WithDocumentID(docID),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return decodeESError(res.Body, res.Status(), action)
	}

	return nil
}

// DeletePost deletes a post document from the search index
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.deleteDocument(ctx, IndexPosts, postID, "deleting post")
}

// DeleteUser deletes a user document from the search index
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.deleteDocument(ctx, IndexUsers, userID, "deleting user")
}

// DeleteTopic deletes a topic document from the search index
func (c *Client) DeleteTopic(ctx context.Context, topicID string) error {
	return c.deleteDocument(ctx, IndexTopics, topicID, "deleting topic")
}

func (c *Client) deleteDocument(ctx context.Context, index, docID, action string) error {
	res, err := c.es.Delete(index, docID,
		c.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	defer res.Body.Close()

	// 404 is OK - document doesn't exist
	if res.IsError() && res.StatusCode != 404 {
		return decodeESError(res.Body, res.Status(), action)
	}

	return nil
}
