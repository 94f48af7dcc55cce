package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/application"
	"github.com/oksasatya/go-ddd-blog/internal/domain/authz"
	"github.com/oksasatya/go-ddd-blog/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-blog/pkg/apperror"
	"github.com/oksasatya/go-ddd-blog/pkg/response"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateMeRequest struct {
	Name        *string `json:"name" binding:"omitempty,notblank,max=100"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,phone"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Password    *string `json:"password" binding:"omitempty,pwd"`
}

func (h *UserHandler) List(c *gin.Context) {
	skip, take := middleware.PageFrom(c)
	users, total, err := h.Svc.List(c.Request.Context(), application.Page{Skip: skip, Take: take})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, application.NewUserProfiles(users), "users", response.PageMeta{Skip: skip, Take: take, Total: total})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	u, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, application.NewUserProfile(u), "user", nil)
}

func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.Svc.GetByID(c.Request.Context(), middleware.ActorFrom(c).ID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, application.NewUserProfile(u), "profile", nil)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalid(c, err)
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), middleware.ActorFrom(c).ID, application.UpdateUserInput{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Description: req.Description,
		Password:    req.Password,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, application.NewUserProfile(u), "profile updated", nil)
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.ActorFrom(c).ID); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "account deleted", nil)
}

// Delete removes any user; admin only.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := authz.RequireAdmin(middleware.ActorFrom(c)); err != nil {
		fail(c, h.Logger, err)
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK[any](c, http.StatusOK, nil, "user deleted", nil)
}

// UploadAvatar expects a multipart form with an "avatar" file field.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes)
	fh, err := c.FormFile("avatar")
	if err != nil {
		fail(c, h.Logger, apperror.NewValidation("avatar file is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, apperror.Wrap(err, "open upload"))
		return
	}
	defer func() { _ = f.Close() }()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), middleware.ActorFrom(c).ID, f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, application.NewUserProfile(u), "avatar updated", nil)
}

func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.Svc.Search(c.Request.Context(), c.Query("q"), sizeQuery(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]application.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, application.NewUserSummary(u))
	}
	response.OK(c, http.StatusOK, out, "users", nil)
}
