package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"quillpost/internal/model"
	"quillpost/internal/pkg/pdfrender"
	"quillpost/internal/repository"
)

const sortAliasTimestamp = "timestamp"

type EventPublisher interface {
	Publish(ctx context.Context, event model.PostEvent) error
}

type BlogOptions struct {
	DefaultPageSize int
	MaxPageSize     int
	ListCountsReads bool
}

type BlogService struct {
	postRepo  *repository.PostRepository
	userRepo  *repository.UserRepository
	auditRepo *repository.AuditLogRepository
	publisher EventPublisher
	opts      BlogOptions
	now       func() time.Time
}

type CreatePostInput struct {
	Title       string
	Description string
	Tags        []string
	Body        string
}

type UpdatePostInput = CreatePostInput

type ListInput struct {
	Page      int
	Limit     int
	State     string
	Search    string
	Author    string
	Tag       string
	SortBy    string
	SortOrder string
}

type ListResult struct {
	Posts      []model.Post `json:"posts"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	Total      int64        `json:"total"`
	TotalPages int          `json:"total_pages"`
}

// NewBlogService wires post lifecycle operations. publisher may be nil.
func NewBlogService(
	postRepo *repository.PostRepository,
	userRepo *repository.UserRepository,
	auditRepo *repository.AuditLogRepository,
	publisher EventPublisher,
	opts BlogOptions,
) *BlogService {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 20
	}
	if opts.MaxPageSize < opts.DefaultPageSize {
		opts.MaxPageSize = opts.DefaultPageSize
	}
	return &BlogService{
		postRepo:  postRepo,
		userRepo:  userRepo,
		auditRepo: auditRepo,
		publisher: publisher,
		opts:      opts,
		now:       time.Now,
	}
}

func (s *BlogService) Create(ctx context.Context, actor Actor, input CreatePostInput) (*model.Post, error) {
	if err := Authorize(actor, ActionCreate, nil).Err(); err != nil {
		return nil, err
	}
	content, err := normalizeContent(input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := &model.Post{
		ID:          uuid.NewString(),
		Title:       content.Title,
		Description: content.Description,
		Tags:        content.Tags,
		Body:        content.Body,
		AuthorID:    actor.UserID,
		State:       model.PostStateDraft,
		ReadCount:   0,
		ReadingTime: ReadingTime(content.Body),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.emit(ctx, model.PostEventCreated, post.ID, actor)
	return post, nil
}

// Get returns a post and counts the read. Every successful call increments
// read_count by exactly one.
func (s *BlogService) Get(ctx context.Context, id string) (*model.Post, error) {
	if _, err := s.mustFind(ctx, id); err != nil {
		return nil, err
	}

	affected, err := s.postRepo.IncrementReadCount(ctx, id)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrPostNotFound
	}
	return s.mustFind(ctx, id)
}

func (s *BlogService) List(ctx context.Context, viewer Actor, input ListInput) (*ListResult, error) {
	filter, sort, err := s.buildQuery(input)
	if err != nil {
		return nil, err
	}
	if !viewer.Authenticated() {
		if filter.State == model.PostStateDraft {
			return s.empty(input.Page, input.Limit), nil
		}
		filter.State = model.PostStatePublished
	}

	result, err := s.page(ctx, filter, sort, input.Page, input.Limit)
	if err != nil {
		return nil, err
	}
	if s.opts.ListCountsReads {
		if err := s.countListedReads(ctx, result.Posts); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ListMine lists the actor's own posts in every state.
func (s *BlogService) ListMine(ctx context.Context, actor Actor, input ListInput) (*ListResult, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthenticated
	}
	filter, sort, err := s.buildQuery(input)
	if err != nil {
		return nil, err
	}
	filter.AuthorID = actor.UserID
	return s.page(ctx, filter, sort, input.Page, input.Limit)
}

func (s *BlogService) Update(ctx context.Context, actor Actor, id string, input UpdatePostInput) (*model.Post, error) {
	post, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionUpdate, post).Err(); err != nil {
		return nil, err
	}
	content, err := normalizeContent(input)
	if err != nil {
		return nil, err
	}

	post.Title = content.Title
	post.Description = content.Description
	post.Tags = content.Tags
	post.Body = content.Body
	post.ReadingTime = ReadingTime(content.Body)
	post.UpdatedAt = s.now()
	if err := s.postRepo.UpdateContent(ctx, post); err != nil {
		return nil, err
	}

	s.emit(ctx, model.PostEventUpdated, post.ID, actor)
	return post, nil
}

// Publish moves a draft to published. Publishing a published post changes
// nothing and succeeds.
func (s *BlogService) Publish(ctx context.Context, actor Actor, id string) (*model.Post, error) {
	post, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionPublish, post).Err(); err != nil {
		return nil, err
	}
	if post.IsPublished() {
		return post, nil
	}

	if err := s.postRepo.MarkPublished(ctx, id, s.now()); err != nil {
		return nil, err
	}
	published, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, model.PostEventPublished, id, actor)
	return published, nil
}

func (s *BlogService) Delete(ctx context.Context, actor Actor, id string) error {
	post, err := s.mustFind(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, ActionDelete, post).Err(); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.emit(ctx, model.PostEventDeleted, id, actor)
	return nil
}

// Export renders a post as PDF without counting a read.
func (s *BlogService) Export(ctx context.Context, id string) (*model.Post, []byte, error) {
	post, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	byline := ""
	author, err := s.userRepo.GetByID(ctx, post.AuthorID)
	if err != nil {
		return nil, nil, err
	}
	if author != nil {
		byline = strings.TrimSpace(author.FirstName + " " + author.LastName)
	}

	doc, err := pdfrender.RenderPost(post, byline)
	if err != nil {
		return nil, nil, err
	}
	return post, doc, nil
}

// AuditTrail returns the recorded lifecycle events of a post, oldest first.
// Entries outlive the post, so a deleted post is only NotFound when nothing
// was ever recorded for it.
func (s *BlogService) AuditTrail(ctx context.Context, actor Actor, id string) ([]model.AuditLog, error) {
	if err := Authorize(actor, ActionAudit, nil).Err(); err != nil {
		return nil, err
	}
	entries, err := s.auditRepo.ListByPostID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		return entries, nil
	}
	if _, err := s.mustFind(ctx, id); err != nil {
		return nil, err
	}
	return []model.AuditLog{}, nil
}

func (s *BlogService) mustFind(ctx context.Context, id string) (*model.Post, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrPostNotFound
	}
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *BlogService) page(ctx context.Context, filter repository.PostFilter, sort repository.PostSort, page, limit int) (*ListResult, error) {
	limit = s.clampLimit(limit)

	total, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	p := Paginate(total, page, limit)

	posts := []model.Post{}
	if total > 0 {
		posts, err = s.postRepo.Find(ctx, filter, sort, p.Offset, p.Limit)
		if err != nil {
			return nil, err
		}
	}

	return &ListResult{
		Posts:      posts,
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: p.TotalPages,
	}, nil
}

// empty is the listing anonymous viewers get for drafts.
func (s *BlogService) empty(page, limit int) *ListResult {
	p := Paginate(0, page, s.clampLimit(limit))
	return &ListResult{
		Posts:      []model.Post{},
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

func (s *BlogService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.opts.DefaultPageSize
	}
	if limit > s.opts.MaxPageSize {
		return s.opts.MaxPageSize
	}
	return limit
}

func (s *BlogService) countListedReads(ctx context.Context, posts []model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].ID)
	}
	if _, err := s.postRepo.IncrementReadCount(ctx, ids...); err != nil {
		return err
	}
	for i := range posts {
		posts[i].ReadCount++
		minutes := ReadingTime(posts[i].Body)
		if minutes == posts[i].ReadingTime {
			continue
		}
		if err := s.postRepo.SetReadingTime(ctx, posts[i].ID, minutes); err != nil {
			return err
		}
		posts[i].ReadingTime = minutes
	}
	return nil
}

func (s *BlogService) buildQuery(input ListInput) (repository.PostFilter, repository.PostSort, error) {
	state := strings.ToLower(strings.TrimSpace(input.State))
	switch state {
	case "", model.PostStateDraft, model.PostStatePublished:
	default:
		return repository.PostFilter{}, repository.PostSort{}, fmt.Errorf("%w: state must be draft or published", ErrInvalidInput)
	}

	field := strings.TrimSpace(input.SortBy)
	if field == "" || field == sortAliasTimestamp {
		field = "created_at"
	}
	if !repository.IsSortableField(field) {
		return repository.PostFilter{}, repository.PostSort{}, fmt.Errorf("%w: cannot sort by %q", ErrInvalidInput, field)
	}

	desc := true
	switch strings.ToLower(strings.TrimSpace(input.SortOrder)) {
	case "", "desc":
	case "asc":
		desc = false
	default:
		return repository.PostFilter{}, repository.PostSort{}, fmt.Errorf("%w: sortOrder must be asc or desc", ErrInvalidInput)
	}

	filter := repository.PostFilter{
		State:    state,
		AuthorID: strings.TrimSpace(input.Author),
		Tag:      strings.TrimSpace(input.Tag),
		Search:   strings.TrimSpace(input.Search),
	}
	return filter, repository.PostSort{Field: field, Desc: desc}, nil
}

func (s *BlogService) emit(ctx context.Context, event, postID string, actor Actor) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, model.PostEvent{
		Event:      event,
		PostID:     postID,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		OccurredAt: s.now(),
	})
	if err != nil {
		slog.WarnContext(ctx, "publish post event failed", "event", event, "post_id", postID, "error", err)
	}
}

func normalizeContent(input CreatePostInput) (CreatePostInput, error) {
	out := CreatePostInput{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Body:        strings.TrimSpace(input.Body),
		Tags:        []string{},
	}
	if out.Title == "" || out.Description == "" || out.Body == "" {
		return CreatePostInput{}, fmt.Errorf("%w: title, description and body are required", ErrInvalidInput)
	}

	seen := make(map[string]struct{}, len(input.Tags))
	for _, tag := range input.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if strings.Contains(tag, model.TagSeparator) {
			return CreatePostInput{}, fmt.Errorf("%w: tags must not contain %q", ErrInvalidInput, model.TagSeparator)
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Tags = append(out.Tags, tag)
	}
	return out, nil
}
