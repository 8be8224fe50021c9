package admin

import (
	"net/http"

	"seratus-studio/internal/api/respond"
	"seratus-studio/internal/services/accounts"
	"seratus-studio/internal/services/ordering"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	accounts *accounts.Service
	orders   *ordering.Service
}

func NewHandler(accounts *accounts.Service, orders *ordering.Service) *Handler {
	return &Handler{accounts: accounts, orders: orders}
}

// GET /api/admin/users
func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.accounts.ListUsers(c.Request.Context(), respond.Principal(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

// POST /api/admin/users
func (h *Handler) CreateUser(c *gin.Context) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, "Invalid request body")
		return
	}

	u, err := h.accounts.CreateUser(c.Request.Context(), respond.Principal(c), accounts.CreateUserInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

// DELETE /api/admin/users/:id
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.accounts.DeleteUser(c.Request.Context(), respond.Principal(c), c.Param("id")); err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// GET /api/admin/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context(), respond.Principal(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
