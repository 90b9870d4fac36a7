package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/repo"
)

// MaxCommentLength is the longest accepted comment, in characters.
const MaxCommentLength = 2000

// photoExtensions maps the accepted upload content types to the extension of
// the stored object.
var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// PhotoStore is the object storage holding photo bytes. Satisfied by
// *storage.S3Store.
type PhotoStore interface {
	PresignPut(ctx context.Context, key, contentType string) (string, time.Time, error)
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
}

// BlogService implements a trip's blog: visibility, posts, comments, photos
// and post tags.
//
// Reading (and commenting) follows the blog's visibility. Writing posts and
// editing the blog requires trip participation; only the trip owner changes
// the visibility.
type BlogService struct {
	repos    repo.Repos
	tx       repo.Transactor
	tags     *TagService
	photos   PhotoStore
	notifier Notifier
}

// NewBlogService constructs a BlogService. photos may be nil, in which case
// photo uploads fail validation.
func NewBlogService(repos repo.Repos, tx repo.Transactor, tags *TagService, photos PhotoStore, notifier Notifier) *BlogService {
	return &BlogService{repos: repos, tx: tx, tags: tags, photos: photos, notifier: notifier}
}

// ---- Blog --------------------------------------------------------------------

// CanRead reports whether viewer may read the trip's blog.
func (s *BlogService) CanRead(ctx context.Context, viewer, tripID uuid.UUID) (bool, error) {
	trip, err := s.repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return false, fmt.Errorf("service.BlogService.CanRead: %w", err)
	}
	blog, err := s.repos.Blogs.GetByTrip(ctx, tripID)
	if err != nil {
		return false, fmt.Errorf("service.BlogService.CanRead: %w", err)
	}
	ok, err := s.allows(ctx, trip, blog, viewer)
	if err != nil {
		return false, fmt.Errorf("service.BlogService.CanRead: %w", err)
	}
	return ok, nil
}

// Get returns the trip's blog when viewer may read it.
func (s *BlogService) Get(ctx context.Context, viewer, tripID uuid.UUID) (domain.Blog, error) {
	_, blog, err := s.readable(ctx, viewer, tripID)
	if err != nil {
		return domain.Blog{}, fmt.Errorf("service.BlogService.Get: %w", err)
	}
	return blog, nil
}

// Update overwrites title and description. An empty Visibility keeps the
// current one; changing it is reserved for the trip owner.
func (s *BlogService) Update(ctx context.Context, actor uuid.UUID, b domain.Blog) (domain.Blog, error) {
	trip, err := tripAccess(ctx, s.repos.Trips, b.TripID, actor)
	if err != nil {
		return domain.Blog{}, fmt.Errorf("service.BlogService.Update: %w", err)
	}
	current, err := s.repos.Blogs.GetByTrip(ctx, b.TripID)
	if err != nil {
		return domain.Blog{}, fmt.Errorf("service.BlogService.Update: %w", err)
	}

	if b.Visibility == "" {
		b.Visibility = current.Visibility
	}
	if !b.Visibility.Valid() {
		return domain.Blog{}, fmt.Errorf("%w: unknown visibility %q", domain.ErrValidation, b.Visibility)
	}
	if b.Visibility != current.Visibility && trip.OwnerID != actor {
		return domain.Blog{}, fmt.Errorf("%w: only the trip owner can change the blog visibility", domain.ErrForbidden)
	}
	if b.Title, err = required("title", b.Title); err != nil {
		return domain.Blog{}, err
	}
	b.ID = current.ID
	b.Description = strings.TrimSpace(b.Description)

	updated, err := s.repos.Blogs.Update(ctx, b)
	if err != nil {
		return domain.Blog{}, fmt.Errorf("service.BlogService.Update: %w", err)
	}
	return updated, nil
}

// ---- Posts -------------------------------------------------------------------

// ListPosts returns one page of the blog's posts, newest first.
func (s *BlogService) ListPosts(ctx context.Context, viewer, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Post, int64, error) {
	_, blog, err := s.readable(ctx, viewer, tripID)
	if err != nil {
		return nil, 0, fmt.Errorf("service.BlogService.ListPosts: %w", err)
	}
	posts, total, err := s.repos.Posts.ListByBlog(ctx, blog.ID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.BlogService.ListPosts: %w", err)
	}
	return nonNil(posts), total, nil
}

// GetPost returns one post of a readable blog.
func (s *BlogService) GetPost(ctx context.Context, viewer, tripID, postID uuid.UUID) (domain.Post, error) {
	_, blog, err := s.readable(ctx, viewer, tripID)
	if err != nil {
		return domain.Post{}, fmt.Errorf("service.BlogService.GetPost: %w", err)
	}
	post, err := s.repos.Posts.GetByID(ctx, blog.ID, postID)
	if err != nil {
		return domain.Post{}, fmt.Errorf("service.BlogService.GetPost: %w", err)
	}
	return post, nil
}

// CreatePost publishes a post authored by actor.
func (s *BlogService) CreatePost(ctx context.Context, actor, tripID uuid.UUID, p domain.Post) (domain.Post, error) {
	blog, err := s.writable(ctx, actor, tripID)
	if err != nil {
		return domain.Post{}, fmt.Errorf("service.BlogService.CreatePost: %w", err)
	}
	if p, err = s.normalizePost(ctx, tripID, p); err != nil {
		return domain.Post{}, err
	}
	p.BlogID = blog.ID
	p.AuthorID = actor

	created, err := s.repos.Posts.Create(ctx, p)
	if err != nil {
		return domain.Post{}, fmt.Errorf("service.BlogService.CreatePost: %w", err)
	}
	return created, nil
}

// UpdatePost overwrites title, content and day. Allowed for the author and
// the trip owner.
func (s *BlogService) UpdatePost(ctx context.Context, actor, tripID uuid.UUID, p domain.Post) (domain.Post, error) {
	current, err := s.ownPost(ctx, actor, tripID, p.ID)
	if err != nil {
		return domain.Post{}, fmt.Errorf("service.BlogService.UpdatePost: %w", err)
	}
	if p, err = s.normalizePost(ctx, tripID, p); err != nil {
		return domain.Post{}, err
	}
	p.BlogID = current.BlogID
	p.AuthorID = current.AuthorID

	updated, err := s.repos.Posts.Update(ctx, p)
	if err != nil {
		return domain.Post{}, fmt.Errorf("service.BlogService.UpdatePost: %w", err)
	}
	return updated, nil
}

// DeletePost removes a post with its comments, photos and tag links.
// Allowed for the author and the trip owner.
func (s *BlogService) DeletePost(ctx context.Context, actor, tripID, postID uuid.UUID) error {
	post, err := s.ownPost(ctx, actor, tripID, postID)
	if err != nil {
		return fmt.Errorf("service.BlogService.DeletePost: %w", err)
	}
	if err := s.repos.Posts.Delete(ctx, post.BlogID, post.ID); err != nil {
		return fmt.Errorf("service.BlogService.DeletePost: %w", err)
	}
	return nil
}

// ---- Comments ----------------------------------------------------------------

// ListComments returns a post's comments oldest first.
func (s *BlogService) ListComments(ctx context.Context, viewer, tripID, postID uuid.UUID) ([]domain.Comment, error) {
	post, err := s.GetPost(ctx, viewer, tripID, postID)
	if err != nil {
		return nil, fmt.Errorf("service.BlogService.ListComments: %w", err)
	}
	out, err := s.repos.Comments.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("service.BlogService.ListComments: %w", err)
	}
	return nonNil(out), nil
}

// AddComment lets anyone who can read the blog reply to a post. The post
// author is notified unless they wrote the comment.
func (s *BlogService) AddComment(ctx context.Context, viewer, tripID, postID uuid.UUID, content string) (domain.Comment, error) {
	content = strings.TrimSpace(content)
	if n := utf8.RuneCountInString(content); n == 0 || n > MaxCommentLength {
		return domain.Comment{}, fmt.Errorf("%w: comment must be 1 to %d characters", domain.ErrValidation, MaxCommentLength)
	}
	post, err := s.GetPost(ctx, viewer, tripID, postID)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("service.BlogService.AddComment: %w", err)
	}

	c, err := s.repos.Comments.Create(ctx, domain.Comment{PostID: post.ID, AuthorID: viewer, Content: content})
	if err != nil {
		return domain.Comment{}, fmt.Errorf("service.BlogService.AddComment: %w", err)
	}
	if post.AuthorID != viewer {
		s.notifier.Notify(ctx, domain.Notification{
			UserID:     post.AuthorID,
			Kind:       domain.NotifyCommentAdded,
			Message:    fmt.Sprintf("New comment on %q", post.Title),
			EntityType: "post",
			EntityID:   &post.ID,
		})
	}
	return c, nil
}

// DeleteComment removes a comment. Allowed for the comment author and the
// post author.
func (s *BlogService) DeleteComment(ctx context.Context, actor, tripID, postID, commentID uuid.UUID) error {
	post, err := s.GetPost(ctx, actor, tripID, postID)
	if err != nil {
		return fmt.Errorf("service.BlogService.DeleteComment: %w", err)
	}
	c, err := s.repos.Comments.GetByID(ctx, post.ID, commentID)
	if err != nil {
		return fmt.Errorf("service.BlogService.DeleteComment: %w", err)
	}
	if c.AuthorID != actor && post.AuthorID != actor {
		return fmt.Errorf("%w: only the comment or post author can delete a comment", domain.ErrForbidden)
	}
	if err := s.repos.Comments.Delete(ctx, post.ID, commentID); err != nil {
		return fmt.Errorf("service.BlogService.DeleteComment: %w", err)
	}
	return nil
}

// ---- Photos ------------------------------------------------------------------

// ListPhotos returns a post's photos.
func (s *BlogService) ListPhotos(ctx context.Context, viewer, tripID, postID uuid.UUID) ([]domain.Photo, error) {
	post, err := s.GetPost(ctx, viewer, tripID, postID)
	if err != nil {
		return nil, fmt.Errorf("service.BlogService.ListPhotos: %w", err)
	}
	out, err := s.repos.Photos.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("service.BlogService.ListPhotos: %w", err)
	}
	return nonNil(out), nil
}

// RequestPhotoUpload reserves a photo under
// trips/{trip}/posts/{post}/{id}{ext} and returns a presigned PUT URL for it.
func (s *BlogService) RequestPhotoUpload(ctx context.Context, actor, tripID, postID uuid.UUID, contentType, caption string) (domain.PhotoUpload, error) {
	if s.photos == nil {
		return domain.PhotoUpload{}, fmt.Errorf("%w: photo storage is not configured", domain.ErrValidation)
	}
	ext, ok := photoExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return domain.PhotoUpload{}, fmt.Errorf("%w: unsupported content type %q", domain.ErrValidation, contentType)
	}
	blog, err := s.writable(ctx, actor, tripID)
	if err != nil {
		return domain.PhotoUpload{}, fmt.Errorf("service.BlogService.RequestPhotoUpload: %w", err)
	}
	post, err := s.repos.Posts.GetByID(ctx, blog.ID, postID)
	if err != nil {
		return domain.PhotoUpload{}, fmt.Errorf("service.BlogService.RequestPhotoUpload: %w", err)
	}

	id := uuid.New()
	key := fmt.Sprintf("trips/%s/posts/%s/%s%s", tripID, post.ID, id, ext)
	uploadURL, expiresAt, err := s.photos.PresignPut(ctx, key, strings.ToLower(contentType))
	if err != nil {
		return domain.PhotoUpload{}, fmt.Errorf("service.BlogService.RequestPhotoUpload: %w", err)
	}
	photo, err := s.repos.Photos.Create(ctx, domain.Photo{
		ID:          id,
		PostID:      post.ID,
		StorageKey:  key,
		URL:         s.photos.PublicURL(key),
		ContentType: strings.ToLower(contentType),
		Caption:     strings.TrimSpace(caption),
	})
	if err != nil {
		return domain.PhotoUpload{}, fmt.Errorf("service.BlogService.RequestPhotoUpload: %w", err)
	}
	return domain.PhotoUpload{Photo: photo, UploadURL: uploadURL, ExpiresAt: expiresAt}, nil
}

// DeletePhoto removes the photo row and its stored object. The row survives
// when the object cannot be deleted.
func (s *BlogService) DeletePhoto(ctx context.Context, actor, tripID, postID, photoID uuid.UUID) error {
	blog, err := s.writable(ctx, actor, tripID)
	if err != nil {
		return fmt.Errorf("service.BlogService.DeletePhoto: %w", err)
	}
	post, err := s.repos.Posts.GetByID(ctx, blog.ID, postID)
	if err != nil {
		return fmt.Errorf("service.BlogService.DeletePhoto: %w", err)
	}
	err = s.tx.WithinTx(ctx, func(r repo.Repos) error {
		photo, err := r.Photos.Delete(ctx, post.ID, photoID)
		if err != nil {
			return err
		}
		if s.photos == nil {
			return nil
		}
		return s.photos.Delete(ctx, photo.StorageKey)
	})
	if err != nil {
		return fmt.Errorf("service.BlogService.DeletePhoto: %w", err)
	}
	return nil
}

// ---- Tags --------------------------------------------------------------------

// ListPostTags returns the tags of a post ordered by slug.
func (s *BlogService) ListPostTags(ctx context.Context, viewer, tripID, postID uuid.UUID) ([]domain.Tag, error) {
	post, err := s.GetPost(ctx, viewer, tripID, postID)
	if err != nil {
		return nil, fmt.Errorf("service.BlogService.ListPostTags: %w", err)
	}
	out, err := s.repos.Tags.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("service.BlogService.ListPostTags: %w", err)
	}
	return nonNil(out), nil
}

// AddPostTag upserts a tag by name and links it to the post. Linking twice is
// a no-op.
func (s *BlogService) AddPostTag(ctx context.Context, actor, tripID, postID uuid.UUID, name string) (domain.Tag, error) {
	blog, err := s.writable(ctx, actor, tripID)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.BlogService.AddPostTag: %w", err)
	}
	post, err := s.repos.Posts.GetByID(ctx, blog.ID, postID)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.BlogService.AddPostTag: %w", err)
	}
	tag, err := s.tags.UpsertByName(ctx, name)
	if err != nil {
		return domain.Tag{}, fmt.Errorf("service.BlogService.AddPostTag: %w", err)
	}
	if err := s.repos.Tags.AddToPost(ctx, post.ID, tag.ID); err != nil {
		return domain.Tag{}, fmt.Errorf("service.BlogService.AddPostTag: %w", err)
	}
	return tag, nil
}

// RemovePostTag unlinks a tag from a post by slug.
func (s *BlogService) RemovePostTag(ctx context.Context, actor, tripID, postID uuid.UUID, slug string) error {
	blog, err := s.writable(ctx, actor, tripID)
	if err != nil {
		return fmt.Errorf("service.BlogService.RemovePostTag: %w", err)
	}
	post, err := s.repos.Posts.GetByID(ctx, blog.ID, postID)
	if err != nil {
		return fmt.Errorf("service.BlogService.RemovePostTag: %w", err)
	}
	if err := s.repos.Tags.RemoveFromPost(ctx, post.ID, Slugify(slug)); err != nil {
		return fmt.Errorf("service.BlogService.RemovePostTag: %w", err)
	}
	return nil
}

// ---- access ------------------------------------------------------------------

// readable loads the trip and its blog and checks that viewer may read it.
func (s *BlogService) readable(ctx context.Context, viewer, tripID uuid.UUID) (domain.Trip, domain.Blog, error) {
	trip, err := s.repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, domain.Blog{}, err
	}
	blog, err := s.repos.Blogs.GetByTrip(ctx, tripID)
	if err != nil {
		return domain.Trip{}, domain.Blog{}, err
	}
	ok, err := s.allows(ctx, trip, blog, viewer)
	if err != nil {
		return domain.Trip{}, domain.Blog{}, err
	}
	if !ok {
		return domain.Trip{}, domain.Blog{}, fmt.Errorf("%w: this blog is not visible to you", domain.ErrForbidden)
	}
	return trip, blog, nil
}

// allows builds viewer's audience for the trip, querying only what the
// blog's visibility needs.
func (s *BlogService) allows(ctx context.Context, trip domain.Trip, blog domain.Blog, viewer uuid.UUID) (bool, error) {
	var a domain.Audience
	var err error
	if a.IsParticipant, err = s.repos.Trips.IsParticipant(ctx, trip.ID, viewer); err != nil {
		return false, err
	}
	if a.IsParticipant {
		return true, nil
	}

	switch blog.Visibility {
	case domain.VisibilityForMyFriends:
		if a.IsOwnerFriend, err = s.repos.Friends.AreFriends(ctx, viewer, trip.OwnerID); err != nil {
			return false, err
		}
	case domain.VisibilityForTripParticipantsFriends:
		members, err := participantIDs(ctx, s.repos.Trips, trip.ID)
		if err != nil {
			return false, err
		}
		if a.IsParticipantFriend, err = s.repos.Friends.FriendsWithAny(ctx, viewer, members); err != nil {
			return false, err
		}
	}
	return blog.Visibility.Allows(a), nil
}

// writable checks that actor participates in the trip and returns its blog.
func (s *BlogService) writable(ctx context.Context, actor, tripID uuid.UUID) (domain.Blog, error) {
	if _, err := tripAccess(ctx, s.repos.Trips, tripID, actor); err != nil {
		return domain.Blog{}, err
	}
	return s.repos.Blogs.GetByTrip(ctx, tripID)
}

// ownPost loads a post that actor may modify: their own, or any post when
// actor owns the trip.
func (s *BlogService) ownPost(ctx context.Context, actor, tripID, postID uuid.UUID) (domain.Post, error) {
	trip, err := tripAccess(ctx, s.repos.Trips, tripID, actor)
	if err != nil {
		return domain.Post{}, err
	}
	blog, err := s.repos.Blogs.GetByTrip(ctx, tripID)
	if err != nil {
		return domain.Post{}, err
	}
	post, err := s.repos.Posts.GetByID(ctx, blog.ID, postID)
	if err != nil {
		return domain.Post{}, err
	}
	if post.AuthorID != actor && trip.OwnerID != actor {
		return domain.Post{}, fmt.Errorf("%w: only the author or the trip owner can change a post", domain.ErrForbidden)
	}
	return post, nil
}

func (s *BlogService) normalizePost(ctx context.Context, tripID uuid.UUID, p domain.Post) (domain.Post, error) {
	title, err := required("title", p.Title)
	if err != nil {
		return p, err
	}
	p.Title = title
	p.Content = strings.TrimSpace(p.Content)
	if p.DayID != nil {
		if _, err := s.repos.Days.GetByID(ctx, tripID, *p.DayID); err != nil {
			return p, dayReference(err)
		}
	}
	return p, nil
}
