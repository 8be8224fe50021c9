package orders

import (
	"net/http"
	"strconv"
	"strings"

	"seratus-studio/internal/api/respond"
	domainorders "seratus-studio/internal/domain/orders"
	"seratus-studio/internal/domain/paging"
	"seratus-studio/internal/services/ordering"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *ordering.Service
}

func NewHandler(svc *ordering.Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
	ProductID       string `json:"product_id"`
	Quantity        *int   `json:"quantity"`
}

// bindCreate accepts JSON or a multipart form carrying an optional
// payment_proof file.
func bindCreate(c *gin.Context) (ordering.CreateInput, error) {
	var in ordering.CreateInput
	if respond.IsMultipart(c) {
		in = ordering.CreateInput{
			CustomerName:    c.PostForm("customer_name"),
			CustomerEmail:   c.PostForm("customer_email"),
			CustomerPhone:   c.PostForm("customer_phone"),
			CustomerAddress: c.PostForm("customer_address"),
			ProductID:       c.PostForm("product_id"),
			Quantity:        1,
		}
		if raw := strings.TrimSpace(c.PostForm("quantity")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return in, errInvalidQuantity
			}
			in.Quantity = n
		}
		proof, err := respond.FormUpload(c, "payment_proof")
		if err != nil {
			return in, err
		}
		in.PaymentProof = proof
		return in, nil
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return in, errInvalidBody
	}
	in = ordering.CreateInput{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		ProductID:       req.ProductID,
		Quantity:        1,
	}
	if req.Quantity != nil {
		in.Quantity = *req.Quantity
	}
	return in, nil
}

// POST /api/orders
func (h *Handler) Create(c *gin.Context) {
	in, err := bindCreate(c)
	if err != nil {
		respond.Error(c, err)
		return
	}
	o, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": o})
}

// GET /api/orders
func (h *Handler) List(c *gin.Context) {
	f := domainorders.ListFilter{
		Email:          c.Query("email"),
		PaymentStatus:  c.Query("payment_status"),
		DeliveryStatus: c.Query("delivery_status"),
		Page:           paging.Parse(c.Query("page"), c.Query("limit"), paging.DefaultLimit),
	}
	res, err := h.svc.List(c.Request.Context(), respond.Principal(c), f)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/orders/:id
func (h *Handler) Get(c *gin.Context) {
	o, err := h.svc.Get(c.Request.Context(), respond.Principal(c), c.Param("id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o})
}

type statusRequest struct {
	PaymentStatus  *string `json:"payment_status"`
	DeliveryStatus *string `json:"delivery_status"`
	DownloadLink   *string `json:"download_link"`
	Notes          *string `json:"notes"`
}

// PATCH /api/orders/:id
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "Invalid request body")
		return
	}
	o, err := h.svc.UpdateStatus(c.Request.Context(), respond.Principal(c), c.Param("id"), ordering.StatusPatch{
		PaymentStatus:  req.PaymentStatus,
		DeliveryStatus: req.DeliveryStatus,
		DownloadLink:   req.DownloadLink,
		Notes:          req.Notes,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o})
}

// DELETE /api/orders/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), respond.Principal(c), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
