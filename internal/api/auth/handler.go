package auth

import (
	"net/http"
	"time"

	"seratus-studio/internal/api/respond"
	"seratus-studio/internal/app/http/middleware"
	"seratus-studio/internal/services/accounts"

	"github.com/gin-gonic/gin"
)

const stateCookie = "oauth_state"

type Options struct {
	CookieSecure     bool
	FrontendRedirect string
}

type Handler struct {
	accounts *accounts.Service
	google   *accounts.GoogleSignIn
	opts     Options
}

// NewHandler wires the auth endpoints. google may be nil when Google sign-in
// is not configured.
func NewHandler(svc *accounts.Service, google *accounts.GoogleSignIn, opts Options) *Handler {
	return &Handler{accounts: svc, google: google, opts: opts}
}

func (h *Handler) GoogleEnabled() bool {
	return h.google != nil
}

func (h *Handler) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, token, int(accounts.TokenTTL/time.Second), "/", "", h.opts.CookieSecure, true)
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Login    string `json:"login"`
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respond.BadRequest(c, "Invalid request body")
		return
	}
	login := input.Login
	if login == "" {
		login = input.Username
	}
	if login == "" {
		login = input.Email
	}

	sess, err := h.accounts.Login(c.Request.Context(), login, input.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}
	h.setSession(c, sess.Token)
	c.JSON(http.StatusOK, sess)
}

// POST /api/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookie, "", -1, "/", "", h.opts.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	u, err := h.accounts.Me(c.Request.Context(), respond.Principal(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
