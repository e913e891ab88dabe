package http

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/oauth"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

const (
	stateCookieName   = "oauth_state"
	stateCookieMaxAge = 10 * 60
)

// IdentityProvider runs the provider side of the login. *oauth.GoogleProvider satisfies it.
type IdentityProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (services.Identity, error)
}

type AuthHandlerConfig struct {
	FrontendURL  string
	SecureCookie bool
}

type AuthHandler struct {
	service  *services.AuthService
	tokens   *services.TokenService
	provider IdentityProvider
	cfg      AuthHandlerConfig
}

func NewAuthHandler(service *services.AuthService, tokens *services.TokenService, provider IdentityProvider, cfg AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		tokens:   tokens,
		provider: provider,
		cfg:      cfg,
	}
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, requireSession gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.GET("/"+h.provider.Name()+"/login", h.Login)
		authGroup.GET("/"+h.provider.Name()+"/callback", h.Callback)
		authGroup.POST("/logout", requireSession, h.Logout)
		authGroup.GET("/me", requireSession, h.Me)
	}
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int, httpOnly bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.cfg.SecureCookie, httpOnly)
}

// Login godoc
// @Summary  Redirect to the identity provider
// @Tags     auth
// @Success  307
// @Router   /auth/google/login [get]
func (h *AuthHandler) Login(c *gin.Context) {
	state, err := oauth.NewState()
	if err != nil {
		handleError(c, err)
		return
	}

	h.setCookie(c, stateCookieName, state, stateCookieMaxAge, true)
	c.Redirect(http.StatusTemporaryRedirect, h.provider.AuthCodeURL(state))
}

// Callback godoc
// @Summary  Finish the provider login and start a session
// @Tags     auth
// @Param    code  query string true "Authorization code"
// @Param    state query string true "State echoed by the provider"
// @Success  302
// @Router   /auth/google/callback [get]
func (h *AuthHandler) Callback(c *gin.Context) {
	expected, err := c.Cookie(stateCookieName)
	state := c.Query("state")
	if err != nil || expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	h.setCookie(c, stateCookieName, "", -1, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	identity, err := h.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Printf("[AUTH] %s login failed: %v", h.provider.Name(), err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}

	user, err := h.service.Login(c.Request.Context(), identity)
	if err != nil {
		handleError(c, err)
		return
	}

	session, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		handleError(c, err)
		return
	}
	csrf, err := h.tokens.GenerateCSRFToken(user.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	maxAge := int(h.tokens.TokenDuration().Seconds())
	h.setCookie(c, middleware.SessionCookieName, session, maxAge, true)
	// Readable by the frontend so it can echo it in the CSRF header.
	h.setCookie(c, middleware.CSRFCookieName, csrf, maxAge, false)

	c.Redirect(http.StatusFound, h.cfg.FrontendURL)
}

// Logout godoc
// @Summary  End the session
// @Tags     auth
// @Param    X-CSRFToken header string false "Required when the session comes from the cookie"
// @Success  204
// @Router   /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, middleware.SessionCookieName, "", -1, true)
	h.setCookie(c, middleware.CSRFCookieName, "", -1, false)
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary  Current user
// @Tags     auth
// @Produce  json
// @Success  200 {object} userResponse
// @Router   /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, userResponse{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Provider: user.Provider,
	})
}
