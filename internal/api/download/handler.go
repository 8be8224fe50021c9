package download

import (
	"net/http"

	"seratus-studio/internal/api/respond"
	"seratus-studio/internal/services/fulfillment"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *fulfillment.Service
}

func NewHandler(svc *fulfillment.Service) *Handler {
	return &Handler{svc: svc}
}

// POST /api/download/generate
//
// JSON {order_id, type, watermark} or the same fields as a multipart form
// with an optional custom_watermark file.
func (h *Handler) Generate(c *gin.Context) {
	var req fulfillment.GenerateRequest
	if respond.IsMultipart(c) {
		req = fulfillment.GenerateRequest{
			OrderID:   c.PostForm("order_id"),
			Type:      c.PostForm("type"),
			Watermark: c.PostForm("watermark"),
		}
		wm, err := respond.FormUpload(c, "custom_watermark")
		if err != nil {
			respond.Error(c, err)
			return
		}
		req.CustomWatermark = wm
	} else {
		var body struct {
			OrderID   string `json:"order_id"`
			Type      string `json:"type"`
			Watermark string `json:"watermark"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			respond.BadRequest(c, "Invalid request body")
			return
		}
		req = fulfillment.GenerateRequest{OrderID: body.OrderID, Type: body.Type, Watermark: body.Watermark}
	}

	res, err := h.svc.Generate(c.Request.Context(), respond.Principal(c), req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/download/status/:orderId
func (h *Handler) Status(c *gin.Context) {
	st, err := h.svc.CheckStatus(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
