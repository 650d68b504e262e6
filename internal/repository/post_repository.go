package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"quillpost/internal/model"
)

// sortColumns whitelists ORDER BY targets.
var sortColumns = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"published_at": "published_at",
	"read_count":   "read_count",
	"reading_time": "reading_time",
	"title":        "title",
}

// PostFilter narrows a post listing. Empty fields match everything.
type PostFilter struct {
	State    string
	AuthorID string
	Tag      string
	Search   string
}

type PostSort struct {
	Field string
	Desc  bool
}

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func IsSortableField(field string) bool {
	_, ok := sortColumns[field]
	return ok
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post failed: %w", err)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get post failed: %w", err)
	}
	return &post, nil
}

// IncrementReadCount bumps read_count in a single statement and returns the
// number of posts that matched.
func (r *PostRepository) IncrementReadCount(ctx context.Context, ids ...string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id IN ?", ids).
		UpdateColumn("read_count", gorm.Expr("read_count + ?", 1))
	if result.Error != nil {
		return 0, fmt.Errorf("increment read count failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *PostRepository) SetReadingTime(ctx context.Context, id string, minutes int) error {
	if err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("reading_time", minutes).Error; err != nil {
		return fmt.Errorf("set reading time failed: %w", err)
	}
	return nil
}

// UpdateContent writes the editable fields only; author and state are never
// touched here.
func (r *PostRepository) UpdateContent(ctx context.Context, post *model.Post) error {
	if err := r.db.WithContext(ctx).
		Model(post).
		Select("title", "description", "tags", "body", "reading_time", "updated_at").
		Updates(post).Error; err != nil {
		return fmt.Errorf("update post failed: %w", err)
	}
	return nil
}

func (r *PostRepository) MarkPublished(ctx context.Context, id string, at time.Time) error {
	if err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ? AND state = ?", id, model.PostStateDraft).
		Updates(map[string]interface{}{
			"state":        model.PostStatePublished,
			"published_at": at,
			"updated_at":   at,
		}).Error; err != nil {
		return fmt.Errorf("publish post failed: %w", err)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{}).Error; err != nil {
		return fmt.Errorf("delete post failed: %w", err)
	}
	return nil
}

func (r *PostRepository) Count(ctx context.Context, filter PostFilter) (int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count posts failed: %w", err)
	}
	return total, nil
}

func (r *PostRepository) Find(ctx context.Context, filter PostFilter, sort PostSort, offset, limit int) ([]model.Post, error) {
	column, ok := sortColumns[sort.Field]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}

	var posts []model.Post
	if err := r.filtered(ctx, filter).
		Order(column + " " + direction).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts failed: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) filtered(ctx context.Context, filter PostFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Post{})
	if filter.State != "" {
		q = q.Where("state = ?", filter.State)
	}
	if filter.AuthorID != "" {
		q = q.Where("author_id = ?", filter.AuthorID)
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		if strings.Contains(tag, model.TagSeparator) {
			return q.Where("1 = 0")
		}
		q = q.Where("LOWER(tags) LIKE ? ESCAPE '!'", containsPattern(model.TagSeparator+tag+model.TagSeparator))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := containsPattern(search)
		if strings.Contains(search, model.TagSeparator) {
			// no single tag can match across a separator
			q = q.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')", pattern, pattern)
		} else {
			q = q.Where(
				"(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!' OR LOWER(tags) LIKE ? ESCAPE '!')",
				pattern, pattern, pattern,
			)
		}
	}
	return q
}

func containsPattern(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
	return "%" + s + "%"
}
