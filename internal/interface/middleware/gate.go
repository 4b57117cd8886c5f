package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"skygate/internal/domain/entity"
	"skygate/internal/domain/repository"
	"skygate/internal/session"
	"skygate/pkg/helpers"
	"skygate/pkg/response"
)

// RouteKind declares how a protected route rejects unauthenticated
// requests. Page routes redirect; API routes answer 401 JSON. The kind
// is declared at registration, never sniffed from Accept headers.
type RouteKind int

const (
	KindPage RouteKind = iota
	KindAPI
)

const (
	// LoginPath is where unauthenticated page requests land.
	LoginPath = "/"
	// DashboardPath is where already-authenticated pre-auth requests land.
	DashboardPath = "/dashboard"
)

// Gate is the single authorization guard composed in front of every
// protected route. Every ambiguous or failed resolution denies access;
// only a healthy session plus a live user record lets a request through.
type Gate struct {
	Sessions *session.Manager
	Users    repository.UserRepository
	Cookies  *helpers.CookieManager
	Logger   *logrus.Logger
}

func NewGate(sessions *session.Manager, users repository.UserRepository, cookies *helpers.CookieManager, logger *logrus.Logger) *Gate {
	return &Gate{Sessions: sessions, Users: users, Cookies: cookies, Logger: logger}
}

// CurrentUser returns the authenticated user the gate attached to the
// request context.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}

// Require authenticates the request before the handler runs:
// cookie -> session record -> re-fetch the user by ID. The user re-fetch
// is deliberate: a session outliving its user is stale and must not be
// trusted on the cookie's implicit claim.
func (g *Gate) Require(kind RouteKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := g.Cookies.Token(c)
		if token == "" {
			g.deny(c, kind)
			return
		}

		rec, err := g.Sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			g.Logger.WithError(err).Error("session resolution failed")
			g.unavailable(c, kind)
			return
		}
		// nil covers missing and expired; an empty UserID is a pre-login
		// shell and authorizes nothing.
		if rec == nil || rec.UserID == "" {
			g.deny(c, kind)
			return
		}

		u, err := g.Users.GetByID(c.Request.Context(), rec.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			// User deleted after the session was issued. Drop the stale
			// session and deny.
			_ = g.Sessions.Destroy(c.Request.Context(), token)
			g.deny(c, kind)
			return
		}
		if err != nil {
			g.Logger.WithError(err).Error("user lookup failed during authorization")
			g.unavailable(c, kind)
			return
		}

		c.Set("userID", u.ID)
		c.Set("currentUser", u)
		c.Next()
	}
}

// RedirectAuthenticated guards pre-auth routes (landing, registration):
// a fully authenticated visitor is sent to the dashboard instead. Any
// ambiguity resolves to "render the pre-auth page".
func (g *Gate) RedirectAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := g.Cookies.Token(c)
		if token == "" {
			c.Next()
			return
		}
		rec, err := g.Sessions.Resolve(c.Request.Context(), token)
		if err != nil || rec == nil || rec.UserID == "" {
			c.Next()
			return
		}
		if _, err := g.Users.GetByID(c.Request.Context(), rec.UserID); err != nil {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, DashboardPath)
		c.Abort()
	}
}

func (g *Gate) deny(c *gin.Context, kind RouteKind) {
	if kind == KindPage {
		c.Redirect(http.StatusFound, LoginPath)
		c.Abort()
		return
	}
	resp := response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
	c.AbortWithStatusJSON(resp.Status, resp)
}

func (g *Gate) unavailable(c *gin.Context, kind RouteKind) {
	if kind == KindPage {
		c.String(http.StatusInternalServerError, "Server error")
		c.Abort()
		return
	}
	resp := response.Error[any](c, http.StatusInternalServerError, "server error", nil)
	c.AbortWithStatusJSON(resp.Status, resp)
}
