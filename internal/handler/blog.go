package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/travelhub/backend/internal/domain"
)

// BlogRequest is the body of PUT /blog. An omitted visibility keeps the
// current one.
type BlogRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Visibility  string `json:"visibility,omitempty"`
}

// BlogResponse is the API view of a trip's blog.
type BlogResponse struct {
	ID          uuid.UUID `json:"id"`
	TripID      uuid.UUID `json:"trip_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Visibility  string    `json:"visibility"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostRequest is the body of POST /posts and PUT /posts/{postID}.
type PostRequest struct {
	Title   string     `json:"title"`
	Content string     `json:"content"`
	DayID   *uuid.UUID `json:"day_id,omitempty"`
}

// PostResponse is the API view of a blog post.
type PostResponse struct {
	ID        uuid.UUID  `json:"id"`
	BlogID    uuid.UUID  `json:"blog_id"`
	AuthorID  uuid.UUID  `json:"author_id"`
	DayID     *uuid.UUID `json:"day_id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CommentRequest is the body of POST /comments.
type CommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse is the API view of a comment.
type CommentResponse struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// PhotoRequest is the body of POST /photos.
type PhotoRequest struct {
	ContentType string `json:"content_type"`
	Caption     string `json:"caption"`
}

// PhotoResponse is the API view of a stored photo.
type PhotoResponse struct {
	ID          uuid.UUID `json:"id"`
	PostID      uuid.UUID `json:"post_id"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Caption     string    `json:"caption"`
	CreatedAt   time.Time `json:"created_at"`
}

// PhotoUploadResponse tells the client where to PUT the image bytes.
type PhotoUploadResponse struct {
	Photo     PhotoResponse `json:"photo"`
	UploadURL string        `json:"upload_url"`
	Method    string        `json:"method"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// ---- Blog --------------------------------------------------------------------

// GetBlog handles GET /api/trips/{tripID}/blog.
func (s *Server) GetBlog(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	blog, err := s.svc.Blog.Get(r.Context(), me, tripID)
	if err != nil {
		s.writeError(w, r, err, "blog")
		return
	}
	writeJSON(w, http.StatusOK, blogToResponse(blog))
}

// UpdateBlog handles PUT /api/trips/{tripID}/blog.
func (s *Server) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	var body BlogRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	blog, err := s.svc.Blog.Update(r.Context(), me, domain.Blog{
		TripID:      tripID,
		Title:       body.Title,
		Description: body.Description,
		Visibility:  domain.Visibility(body.Visibility),
	})
	if err != nil {
		s.writeError(w, r, err, "blog")
		return
	}
	writeJSON(w, http.StatusOK, blogToResponse(blog))
}

// ---- Posts -------------------------------------------------------------------

// ListPosts handles GET /api/trips/{tripID}/posts, newest first.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	params := paginationParams(r)
	posts, total, err := s.svc.Blog.ListPosts(r.Context(), me, tripID, params)
	if err != nil {
		s.writeError(w, r, err, "blog")
		return
	}
	writeJSON(w, http.StatusOK, newPage(posts, postToResponse, params, total))
}

// GetPost handles GET /api/trips/{tripID}/posts/{postID}.
func (s *Server) GetPost(w http.ResponseWriter, r *http.Request) {
	me, tripID, postID, ok := s.postRequest(w, r)
	if !ok {
		return
	}
	post, err := s.svc.Blog.GetPost(r.Context(), me, tripID, postID)
	if err != nil {
		s.writeError(w, r, err, "post")
		return
	}
	writeJSON(w, http.StatusOK, postToResponse(post))
}

// CreatePost handles POST /api/trips/{tripID}/posts.
func (s *Server) CreatePost(w http.ResponseWriter, r *http.Request) {
	me, tripID, ok := s.tripRequest(w, r)
	if !ok {
		return
	}
	var body PostRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	post, err := s.svc.Blog.CreatePost(r.Context(), me, tripID, domain.Post{Title: body.Title, Content: body.Content, DayID: body.DayID})
	if err != nil {
		s.writeError(w, r, err, "blog")
		return
	}
	writeJSON(w, http.StatusCreated, postToResponse(post))
}

// UpdatePost handles PUT /api/trips/{tripID}/posts/{postID}.
func (s *Server) UpdatePost(w http.ResponseWriter, r *http.Request) {
	me, tripID, postID, ok := s.postRequest(w, r)
	if !ok {
		return
	}
	var body PostRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	post, err := s.svc.Blog.UpdatePost(r.Context(), me, tripID, domain.Post{ID: postID, Title: body.Title, Content: body.Content, DayID: body.DayID})
	if err != nil {
		s.writeError(w, r, err, "post")
		return
	}
	writeJSON(w, http.StatusOK, postToResponse(post))
}

// DeletePost handles DELETE /api/trips/{tripID}/posts/{postID}.
func (s *Server) DeletePost(w http.ResponseWriter, r *http.Request) {
	me, tripID, postID, ok := s.postRequest(w, r)
	if !ok {
		return
	}
	if err := s.svc.Blog.DeletePost(r.Context(), me, tripID, postID); err != nil {
		s.writeError(w, r, err, "post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Comments ----------------------------------------------------------------

// ListComments handles GET /api/trips/{tripID}/posts/{postID}/comments.
func (s *Server) ListComments(w http.ResponseWriter, r *http.Request) {
	me, tripID, postID, ok := s.postRequest(w, r)
	if !ok {
		return
	}
	comments, err := s.svc.Blog.ListComments(r.Context(), me, tripID, postID)
	if err != nil {
		s.writeError(w, r, err, "post")
		return
	}
	writeJSON(w, http.StatusOK, newList(comments, commentToResponse))
}

// AddComment handles POST /api/trips/{tripID}/posts/{postID}/comments.
func (s *Server) AddComment(w http.ResponseWriter, r *http.Request) {
	me, tripID, postID, ok := s.postRequest(w, r)
	if !ok {
		return
	}
	var body CommentRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	c, err := s.svc.Blog.AddComment(r.Context(), me, tripID, postID, body.Content)
	if err != nil {
		s.writeError(w, r, err, "post")
		return
	}
	writeJSON(w, http.StatusCreated, commentToResponse(c))
}

// DeleteComment handles DELETE .../posts/{postID}/comments/{commentID}.
func (s *Server) DeleteComment(w http.ResponseWriter, r *http.Request) {
	me, tripID, postID, ok := s.postRequest(w, r)
	if !ok {
		return
	}
	commentID, err := pathID(r, "commentID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := s.svc.Blog.DeleteComment(r.Context(), me, tripID, postID, commentID); err != nil {
		s.writeError(w, r, err, "comment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Photos ------------------------------------------------------------------

// ListPhotos handles GET /api/trips/{tripID}/posts/{postID}/photos.
func (s *Server) ListPhotos(w http.ResponseWriter, r *http.Request) {
	me, tripID, postID, ok := s.postRequest(w, r)
	if !ok {
		return
	}
	photos, err := s.svc.Blog.ListPhotos(r.Context(), me, tripID, postID)
	if err != nil {
		s.writeError(w, r, err, "post")
		return
	}
	writeJSON(w, http.StatusOK, newList(photos, photoToResponse))
}

// RequestPhotoUpload handles POST /api/trips/{tripID}/posts/{postID}/photos.
// The photo row is reserved and the response carries a presigned PUT URL.
func (s *Server) RequestPhotoUpload(w http.ResponseWriter, r *http.Request) {
	me, tripID, postID, ok := s.postRequest(w, r)
	if !ok {
		return
	}
	var body PhotoRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	up, err := s.svc.Blog.RequestPhotoUpload(r.Context(), me, tripID, postID, body.ContentType, body.Caption)
	if err != nil {
		s.writeError(w, r, err, "post")
		return
	}
	writeJSON(w, http.StatusCreated, PhotoUploadResponse{
		Photo:     photoToResponse(up.Photo),
		UploadURL: up.UploadURL,
		Method:    http.MethodPut,
		ExpiresAt: up.ExpiresAt,
	})
}

// DeletePhoto handles DELETE .../posts/{postID}/photos/{photoID}.
func (s *Server) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	me, tripID, postID, ok := s.postRequest(w, r)
	if !ok {
		return
	}
	photoID, err := pathID(r, "photoID")
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := s.svc.Blog.DeletePhoto(r.Context(), me, tripID, postID, photoID); err != nil {
		s.writeError(w, r, err, "photo")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Post tags ---------------------------------------------------------------

// ListPostTags handles GET /api/trips/{tripID}/posts/{postID}/tags.
func (s *Server) ListPostTags(w http.ResponseWriter, r *http.Request) {
	me, tripID, postID, ok := s.postRequest(w, r)
	if !ok {
		return
	}
	tags, err := s.svc.Blog.ListPostTags(r.Context(), me, tripID, postID)
	if err != nil {
		s.writeError(w, r, err, "post")
		return
	}
	writeJSON(w, http.StatusOK, newList(tags, tagToResponse))
}

// AddPostTag handles POST /api/trips/{tripID}/posts/{postID}/tags.
// Tagging twice is a no-op that returns the same tag.
func (s *Server) AddPostTag(w http.ResponseWriter, r *http.Request) {
	me, tripID, postID, ok := s.postRequest(w, r)
	if !ok {
		return
	}
	var body TagRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	tag, err := s.svc.Blog.AddPostTag(r.Context(), me, tripID, postID, body.Name)
	if err != nil {
		s.writeError(w, r, err, "post")
		return
	}
	writeJSON(w, http.StatusCreated, tagToResponse(tag))
}

// RemovePostTag handles DELETE /api/trips/{tripID}/posts/{postID}/tags/{slug}.
func (s *Server) RemovePostTag(w http.ResponseWriter, r *http.Request) {
	me, tripID, postID, ok := s.postRequest(w, r)
	if !ok {
		return
	}
	if err := s.svc.Blog.RemovePostTag(r.Context(), me, tripID, postID, chi.URLParam(r, "slug")); err != nil {
		s.writeError(w, r, err, "tag")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// postRequest extends tripRequest with the {postID} path parameter.
func (s *Server) postRequest(w http.ResponseWriter, r *http.Request) (me, tripID, postID uuid.UUID, ok bool) {
	if me, tripID, ok = s.tripRequest(w, r); !ok {
		return
	}
	var err error
	if postID, err = pathID(r, "postID"); err != nil {
		s.writeError(w, r, err, "")
		return me, tripID, postID, false
	}
	return me, tripID, postID, true
}

// --- mapping helpers --------------------------------------------------------

func blogToResponse(b domain.Blog) BlogResponse {
	return BlogResponse{
		ID:          b.ID,
		TripID:      b.TripID,
		Title:       b.Title,
		Description: b.Description,
		Visibility:  string(b.Visibility),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func postToResponse(p domain.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		BlogID:    p.BlogID,
		AuthorID:  p.AuthorID,
		DayID:     p.DayID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func commentToResponse(c domain.Comment) CommentResponse {
	return CommentResponse{ID: c.ID, PostID: c.PostID, AuthorID: c.AuthorID, Content: c.Content, CreatedAt: c.CreatedAt}
}

func photoToResponse(p domain.Photo) PhotoResponse {
	return PhotoResponse{
		ID:          p.ID,
		PostID:      p.PostID,
		URL:         p.URL,
		ContentType: p.ContentType,
		Caption:     p.Caption,
		CreatedAt:   p.CreatedAt,
	}
}
