package modules

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	handlers "skygate/internal/interface/http"
	"skygate/internal/interface/middleware"
	"skygate/pkg/response"
)

// AuthModule registers the page routes and the authentication flow.
// Pre-auth: GET /, GET /register, POST /register, POST /login.
// Protected pages: GET /dashboard and its static sub-assets.
// GET /logout is open to any state and always succeeds.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Gate    *middleware.Gate
	WebDir  string
}

func NewAuthModule(h *handlers.AuthHandler, gate *middleware.Gate, webDir string) *AuthModule {
	return &AuthModule{Handler: h, Gate: gate, WebDir: webDir}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Landing assets stay public so the login page renders pre-auth.
	rg.Static("/static", filepath.Join(m.WebDir, "static"))

	rg.GET("/", m.Gate.RedirectAuthenticated(), m.Handler.Landing)
	rg.GET("/register", m.Gate.RedirectAuthenticated(), m.Handler.RegisterPage)
	rg.POST("/register", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)
	rg.GET("/logout", m.Handler.Logout)

	rg.GET("/health", func(c *gin.Context) {
		resp := response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "healthy")
		c.JSON(resp.Status, resp)
	})

	// Everything under the dashboard, assets included, sits behind the
	// same gate so no asset route drifts out of the policy.
	web := rg.Group("/dashboard")
	web.Use(m.Gate.Require(middleware.KindPage))
	{
		web.GET("", m.Handler.DashboardPage)
		web.Static("/assets", filepath.Join(m.WebDir, "dashboard-assets"))
	}
}
