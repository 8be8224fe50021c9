package shop

import (
	"net/http"

	"seratus-studio/internal/api/respond"
	"seratus-studio/internal/apperr"
	"seratus-studio/internal/services/storefront"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *storefront.Service
}

func NewHandler(svc *storefront.Service) *Handler {
	return &Handler{svc: svc}
}

// GET /api/products
func (h *Handler) ListProducts(c *gin.Context) {
	q, err := productQuery(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	res, err := h.svc.ListProducts(c.Request.Context(), respond.Principal(c), q)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.svc.GetProduct(c.Request.Context(), respond.Principal(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

// POST /api/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "Invalid request body")
		return
	}
	p, err := h.svc.CreateProduct(c.Request.Context(), respond.Principal(c), req.input())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": p})
}

// PUT /api/products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "Invalid request body")
		return
	}
	p, err := h.svc.UpdateProduct(c.Request.Context(), respond.Principal(c), c.Param("id"), req.patch())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

// DELETE /api/products/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.svc.DeleteProduct(c.Request.Context(), respond.Principal(c), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// GET /api/artworks
func (h *Handler) ListArtworks(c *gin.Context) {
	q, err := artworkQuery(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	res, err := h.svc.ListArtworks(c.Request.Context(), q)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/artworks/:id
func (h *Handler) GetArtwork(c *gin.Context) {
	a, err := h.svc.GetArtwork(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"artwork": a})
}

// POST /api/artworks
func (h *Handler) CreateArtwork(c *gin.Context) {
	var req artworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "Invalid request body")
		return
	}
	a, err := h.svc.CreateArtwork(c.Request.Context(), respond.Principal(c), req.input())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"artwork": a})
}

// PUT /api/artworks/:id
func (h *Handler) UpdateArtwork(c *gin.Context) {
	var req artworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "Invalid request body")
		return
	}
	a, err := h.svc.UpdateArtwork(c.Request.Context(), respond.Principal(c), c.Param("id"), req.patch())
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"artwork": a})
}

// DELETE /api/artworks/:id
func (h *Handler) DeleteArtwork(c *gin.Context) {
	if err := h.svc.DeleteArtwork(c.Request.Context(), respond.Principal(c), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artwork deleted"})
}

// POST /api/uploads/:folder  (multipart field "file")
func (h *Handler) UploadImage(c *gin.Context) {
	up, err := respond.FormUpload(c, "file")
	if err != nil {
		respond.Error(c, err)
		return
	}
	if up == nil {
		respond.Error(c, apperr.Validation("No file uploaded"))
		return
	}
	url, err := h.svc.UploadImage(c.Request.Context(), respond.Principal(c), c.Param("folder"), *up)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
