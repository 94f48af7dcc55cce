package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-blog/pkg/response"
)

type CommentHandler struct {
	Svc    *application.CommentService
	Logger *logrus.Logger
}

func NewCommentHandler(svc *application.CommentService, logger *logrus.Logger) *CommentHandler {
	return &CommentHandler{Svc: svc, Logger: logger}
}

type createCommentRequest struct {
	PostID  int64  `json:"postId" binding:"required,gt=0"`
	Content string `json:"content" binding:"required,notblank,max=2000"`
}

type commentContentRequest struct {
	Content string `json:"content" binding:"required,notblank,max=2000"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	id, err := h.Svc.CreateTopLevel(c.Request.Context(), req.Content, middleware.ActorFrom(c), req.PostID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, createdResponse{ID: id}, "comment created", nil)
}

// Reply attaches a child comment to the comment in the path.
func (h *CommentHandler) Reply(c *gin.Context) {
	parentID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req commentContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	id, err := h.Svc.CreateChild(c.Request.Context(), req.Content, middleware.ActorFrom(c), parentID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, createdResponse{ID: id}, "reply created", nil)
}

func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req commentContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	actor := middleware.ActorFrom(c)
	comment, err := h.Svc.Update(c.Request.Context(), id, req.Content, actor)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	author := &entity.User{ID: actor.ID, Name: actor.Name}
	response.OK(c, http.StatusOK, application.NewCommentView(comment, author), "comment updated", nil)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id, middleware.ActorFrom(c)); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "comment deleted", nil)
}
