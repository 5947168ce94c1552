package ranking

import (
	"fmt"
	"sort"
	"time"

	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/settings"
	"gorm.io/gorm"
)

// RankedPost pairs a post with its computed score and the viewer's
// interaction state
type RankedPost struct {
	Post        *models.Post      `json:"post"`
	Score       float64           `json:"score"`
	IsAdminPick bool              `json:"is_admin_pick"`
	Liked       bool              `json:"liked"`
	Favorited   bool              `json:"favorited"`
	TopComments []*models.Comment `json:"top_comments"`
}

// FeedPage is one page of the recommended feed
type FeedPage struct {
	Posts []*RankedPost `json:"posts"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	// Total counts scored posts only; admin picks are prepended to
	// page 1 and excluded from the paginated count
	Total int64 `json:"total"`
}

// RecommendedFeed assembles the recommended post feed.
//
// Admin-recommended posts (up to cfg.MaxAdminRecommended, newest first) are
// shown ahead of everything on page 1 only. The remaining published posts
// within the cfg.MaxAgeDays window are scored, sorted, and paginated
// independently of the admin block.
func RecommendedFeed(db *gorm.DB, cfg settings.RankingConfig, page, limit int, viewerID string) (*FeedPage, error) {
	now := time.Now()

	var adminPicks []*models.Post
	err := db.Where("status = ? AND is_recommended = ?", models.PostStatusPublished, true).
		Preload("User").
		Order("created_at DESC").
		Limit(cfg.MaxAdminRecommended).
		Find(&adminPicks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load admin-recommended posts: %w", err)
	}

	adminIDs := make([]string, 0, len(adminPicks))
	for _, p := range adminPicks {
		adminIDs = append(adminIDs, p.ID)
	}

	cutoff := now.AddDate(0, 0, -cfg.MaxAgeDays)
	query := db.Where("status = ? AND created_at >= ?", models.PostStatusPublished, cutoff).
		Preload("User")
	if len(adminIDs) > 0 {
		query = query.Where("id NOT IN ?", adminIDs)
	}

	var candidates []*models.Post
	if err := query.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to load candidate posts: %w", err)
	}

	scored := make([]*RankedPost, 0, len(candidates))
	for _, p := range candidates {
		scored = append(scored, &RankedPost{
			Post:  p,
			Score: Score(p, now, cfg),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Post.CreatedAt.After(scored[j].Post.CreatedAt)
	})

	total := int64(len(scored))
	start := (page - 1) * limit
	if start > len(scored) {
		start = len(scored)
	}
	end := start + limit
	if end > len(scored) {
		end = len(scored)
	}
	pagePosts := scored[start:end]

	result := make([]*RankedPost, 0, len(pagePosts)+len(adminPicks))
	if page == 1 {
		for _, p := range adminPicks {
			result = append(result, &RankedPost{
				Post:        p,
				Score:       Score(p, now, cfg),
				IsAdminPick: true,
			})
		}
	}
	result = append(result, pagePosts...)

	if err := enrich(db, result, viewerID); err != nil {
		return nil, err
	}

	return &FeedPage{
		Posts: result,
		Page:  page,
		Limit: limit,
		Total: total,
	}, nil
}

// enrich batch-fetches the latest top-level comments and the viewer's
// like/favorite state for the whole page. Three queries total, keyed by
// the page's post IDs.
func enrich(db *gorm.DB, posts []*RankedPost, viewerID string) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]string, 0, len(posts))
	byID := make(map[string]*RankedPost, len(posts))
	for _, rp := range posts {
		postIDs = append(postIDs, rp.Post.ID)
		byID[rp.Post.ID] = rp
		rp.TopComments = []*models.Comment{}
	}

	var comments []*models.Comment
	err := db.Where("post_id IN ? AND parent_id IS NULL AND is_hidden = ?", postIDs, false).
		Preload("User").
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return fmt.Errorf("failed to load top comments: %w", err)
	}
	for _, cm := range comments {
		rp := byID[cm.PostID]
		if rp != nil && len(rp.TopComments) < 2 {
			rp.TopComments = append(rp.TopComments, cm)
		}
	}

	if viewerID == "" {
		return nil
	}

	var likes []models.Like
	err = db.Where("user_id = ? AND target_type = ? AND target_id IN ?",
		viewerID, models.LikeTargetPost, postIDs).
		Find(&likes).Error
	if err != nil {
		return fmt.Errorf("failed to load like status: %w", err)
	}
	for _, l := range likes {
		if rp := byID[l.TargetID]; rp != nil {
			rp.Liked = true
		}
	}

	var favorites []models.Favorite
	err = db.Where("user_id = ? AND post_id IN ?", viewerID, postIDs).
		Find(&favorites).Error
	if err != nil {
		return fmt.Errorf("failed to load favorite status: %w", err)
	}
	for _, f := range favorites {
		if rp := byID[f.PostID]; rp != nil {
			rp.Favorited = true
		}
	}

	return nil
}
