package search

import (
	"github.com/campushub/backend/internal/models"
)

// PostDocument builds the search document for a post.
func PostDocument(post *models.Post) map[string]interface{} {
	topics := make([]string, 0, len(post.Topics))
	for _, t := range post.Topics {
		topics = append(topics, t.Name)
	}
	tags := make([]string, 0, len(post.Tags))
	for _, t := range post.Tags {
		tags = append(tags, t.Name)
	}

	return map[string]interface{}{
		"id":             post.ID,
		"user_id":        post.UserID,
		"title":          post.Title,
		"content":        post.Content,
		"category_id":    post.CategoryID,
		"topics":         topics,
		"tags":           tags,
		"like_count":     post.LikeCount,
		"comment_count":  post.CommentCount,
		"favorite_count": post.FavoriteCount,
		"view_count":     post.ViewCount,
		"created_at":     post.CreatedAt,
	}
}

// UserDocument builds the search document for a user.
func UserDocument(user *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":             user.ID,
		"username":       user.Username,
		"nickname":       user.Nickname,
		"bio":            user.Bio,
		"college":        user.College,
		"major":          user.Major,
		"follower_count": user.FollowerCount,
		"created_at":     user.CreatedAt,
	}
}

// TopicDocument builds the search document for a topic.
func TopicDocument(topic *models.Topic) map[string]interface{} {
	return map[string]interface{}{
		"id":          topic.ID,
		"name":        topic.Name,
		"description": topic.Description,
		"use_count":   topic.UseCount,
		"created_at":  topic.CreatedAt,
	}
}
