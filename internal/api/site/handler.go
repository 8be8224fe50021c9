package site

import (
	"net/http"

	"seratus-studio/internal/api/respond"
	"seratus-studio/internal/apperr"
	"seratus-studio/internal/domain/media"
	"seratus-studio/internal/services/appearance"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *appearance.Service
}

func NewHandler(svc *appearance.Service) *Handler {
	return &Handler{svc: svc}
}

func requireFile(c *gin.Context, field string) (*media.Upload, bool) {
	up, err := respond.FormUpload(c, field)
	if err != nil {
		respond.Error(c, err)
		return nil, false
	}
	if up == nil {
		respond.Error(c, apperr.Validation("No file uploaded"))
		return nil, false
	}
	return up, true
}

// GET /api/backgrounds
func (h *Handler) ListBackgrounds(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), respond.Principal(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"backgrounds": list})
}

// GET /api/backgrounds/active
func (h *Handler) ActiveBackground(c *gin.Context) {
	bg, err := h.svc.Active(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"background": bg})
}

// POST /api/backgrounds  (multipart: file, name)
//
// A set_active field is accepted for compatibility; uploads are always
// activated.
func (h *Handler) UploadBackground(c *gin.Context) {
	up, ok := requireFile(c, "file")
	if !ok {
		return
	}
	bg, err := h.svc.UploadBackground(c.Request.Context(), respond.Principal(c), c.PostForm("name"), *up)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"background": bg})
}

// PUT /api/backgrounds/:id/activate
func (h *Handler) ActivateBackground(c *gin.Context) {
	bg, err := h.svc.SetActive(c.Request.Context(), respond.Principal(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"background": bg})
}

// DELETE /api/backgrounds/:id
func (h *Handler) DeleteBackground(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), respond.Principal(c), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Background deleted"})
}

// GET /api/settings
func (h *Handler) Settings(c *gin.Context) {
	s, err := h.svc.Settings(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// POST /api/settings/logo
func (h *Handler) UploadLogo(c *gin.Context) {
	up, ok := requireFile(c, "file")
	if !ok {
		return
	}
	url, err := h.svc.UploadLogo(c.Request.Context(), respond.Principal(c), *up)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logo_url": url})
}

// POST /api/settings/profile-image
func (h *Handler) UploadProfileImage(c *gin.Context) {
	up, ok := requireFile(c, "file")
	if !ok {
		return
	}
	url, err := h.svc.UploadProfileImage(c.Request.Context(), respond.Principal(c), *up)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile_image_url": url})
}
