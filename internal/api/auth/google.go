package auth

import (
	"net/http"
	"net/url"

	"seratus-studio/internal/api/respond"
	"seratus-studio/internal/services/accounts"

	"github.com/gin-gonic/gin"
)

// GET /api/auth/google
func (h *Handler) GoogleStart(c *gin.Context) {
	state, err := accounts.RandomState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, 300, "/", "", h.opts.CookieSecure, true)
	c.Redirect(http.StatusFound, h.google.AuthURL(state))
}

// GET /api/auth/google/callback
func (h *Handler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		respond.BadRequest(c, "missing code/state")
		return
	}

	cookieState, err := c.Cookie(stateCookie)
	if err != nil || cookieState != state {
		respond.BadRequest(c, "invalid oauth state")
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", h.opts.CookieSecure, true)

	sess, err := h.google.Callback(c.Request.Context(), code)
	if err != nil {
		respond.Error(c, err)
		return
	}
	h.setSession(c, sess.Token)

	if h.opts.FrontendRedirect == "" {
		c.JSON(http.StatusOK, sess)
		return
	}
	c.Redirect(http.StatusFound, h.opts.FrontendRedirect+"?token="+url.QueryEscape(sess.Token))
}
