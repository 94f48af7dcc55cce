package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-blog/pkg/response"
)

type PostHandler struct {
	Svc      *application.PostService
	Comments *application.CommentService
	Logger   *logrus.Logger
}

func NewPostHandler(svc *application.PostService, comments *application.CommentService, logger *logrus.Logger) *PostHandler {
	return &PostHandler{Svc: svc, Comments: comments, Logger: logger}
}

type createPostRequest struct {
	Title   string   `json:"title" binding:"required,notblank,max=200"`
	Content string   `json:"content" binding:"required,notblank"`
	Tags    []string `json:"tags" binding:"omitempty,max=20,dive,notblank,max=50"`
}

// updatePostRequest: an absent "tags" keeps the set, [] clears it.
type updatePostRequest struct {
	Title   *string  `json:"title" binding:"omitempty,notblank,max=200"`
	Content *string  `json:"content" binding:"omitempty,notblank"`
	Tags    []string `json:"tags" binding:"omitempty,max=20,dive,notblank,max=50"`
}

type likeRequest struct {
	IsLike *bool `json:"isLike" binding:"required"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

func (h *PostHandler) List(c *gin.Context) {
	skip, take := middleware.PageFrom(c)
	posts, total, err := h.Svc.List(c.Request.Context(), application.Page{Skip: skip, Take: take}, c.Query("searchValue"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, posts, "posts", response.PageMeta{Skip: skip, Take: take, Total: total})
}

func (h *PostHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	view, err := h.Svc.Get(c.Request.Context(), id, middleware.ActorFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, view, "post", nil)
}

func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	id, err := h.Svc.Create(c.Request.Context(), application.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}, middleware.ActorFrom(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, createdResponse{ID: id}, "post created", nil)
}

func (h *PostHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	actor := middleware.ActorFrom(c)
	err := h.Svc.Update(c.Request.Context(), id, application.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}, actor)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	view, err := h.Svc.Get(c.Request.Context(), id, actor)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, view, "post updated", nil)
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id, middleware.ActorFrom(c)); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "post deleted", nil)
}

// Like sets the caller's like on a post to isLike. Repeating a call is harmless.
func (h *PostHandler) Like(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req likeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	state, err := h.Svc.SetLike(c.Request.Context(), middleware.ActorFrom(c), id, *req.IsLike)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, state, "like updated", nil)
}

func (h *PostHandler) ListComments(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	tree, err := h.Comments.ListByPost(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, tree, "comments", nil)
}

func (h *PostHandler) Search(c *gin.Context) {
	posts, err := h.Svc.Search(c.Request.Context(), c.Query("q"), sizeQuery(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, posts, "posts", nil)
}
