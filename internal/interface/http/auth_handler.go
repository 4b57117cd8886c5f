package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"skygate/internal/application"
	"skygate/internal/interface/middleware"
	"skygate/internal/session"
	"skygate/pkg/helpers"
	"skygate/pkg/validation"
)

// AuthHandler serves the pre-auth pages and the register/login/logout
// flow. Responses are plain pages and redirects; the browser is the
// client here, not an API consumer.
type AuthHandler struct {
	Auth     *application.AuthService
	Sessions *session.Manager
	Cookies  *helpers.CookieManager
	Logger   *logrus.Logger
	Audit    *helpers.RabbitPublisher
	WebDir   string
}

func NewAuthHandler(auth *application.AuthService, sessions *session.Manager, cookies *helpers.CookieManager, logger *logrus.Logger, audit *helpers.RabbitPublisher, webDir string) *AuthHandler {
	return &AuthHandler{Auth: auth, Sessions: sessions, Cookies: cookies, Logger: logger, Audit: audit, WebDir: webDir}
}

type registerRequest struct {
	FirstName      string `form:"firstName"`
	LastName       string `form:"lastName"`
	Email          string `form:"email" binding:"required,email"`
	Username       string `form:"username" binding:"required,min=3,max=64"`
	Password       string `form:"password" binding:"required,pwd"`
	RepeatPassword string `form:"repeatPassword" binding:"required"`
	Country        string `form:"country"`
	City           string `form:"city"`
	Zip            string `form:"zip"`
}

type loginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Landing serves the login page.
func (h *AuthHandler) Landing(c *gin.Context) {
	c.File(filepath.Join(h.WebDir, "index.html"))
}

// RegisterPage serves the registration form.
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.File(filepath.Join(h.WebDir, "register.html"))
}

// DashboardPage serves the dashboard; the gate runs before this.
func (h *AuthHandler) DashboardPage(c *gin.Context) {
	c.File(filepath.Join(h.WebDir, "dashboard.html"))
}

// Register handles the registration form submission.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Logger.WithField("details", validation.ToDetails(err)).Debug("invalid registration payload")
		c.String(http.StatusBadRequest, "Invalid registration data")
		return
	}

	_, err := h.Auth.Register(c.Request.Context(), application.RegisterInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		RepeatPassword: req.RepeatPassword,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Country:        req.Country,
		City:           req.City,
		Zip:            req.Zip,
	})
	switch {
	case err == nil:
	case errors.Is(err, application.ErrPasswordMismatch):
		c.String(http.StatusBadRequest, "Passwords do not match")
		return
	case errors.Is(err, application.ErrUsernameTaken):
		c.String(http.StatusBadRequest, "Username is already taken")
		return
	case errors.Is(err, application.ErrEmailTaken):
		c.String(http.StatusBadRequest, "Email is already taken")
		return
	default:
		h.Logger.WithError(err).Error("registration failed")
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	h.publish(c, "register", "", req.Username)
	c.Data(http.StatusOK, "text/html; charset=utf-8",
		[]byte(`<p>User Created Successfully!</p><a href="/">Login</a>`))
}

// Login verifies credentials, issues a session and redirects to the
// dashboard. Credential failures answer with one generic message.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusUnauthorized, "Invalid username or password")
		return
	}

	u, err := h.Auth.Verify(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			c.String(http.StatusUnauthorized, "Invalid username or password")
			return
		}
		h.Logger.WithError(err).Error("login failed")
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	rec, err := h.Sessions.Create(c.Request.Context(), u.ID)
	if err != nil {
		h.Logger.WithError(err).Error("session creation failed")
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	h.Cookies.SetSession(c, rec.Token, rec.ExpiresAt)
	h.publish(c, "login", u.ID, u.Username)
	c.Redirect(http.StatusFound, middleware.DashboardPath)
}

// Logout destroys the session regardless of authentication state and
// redirects to the landing page. Destroying nothing still succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := h.Cookies.Token(c)
	if err := h.Sessions.Destroy(c.Request.Context(), token); err != nil {
		h.Logger.WithError(err).Error("session destroy failed")
		c.String(http.StatusInternalServerError, "Server error")
		return
	}
	h.Cookies.Clear(c)
	h.publish(c, "logout", "", "")
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

func (h *AuthHandler) publish(c *gin.Context, event, userID, username string) {
	if h.Audit == nil {
		return
	}
	err := h.Audit.PublishJSON(c.Request.Context(), helpers.AuthEvent{
		Type:     event,
		UserID:   userID,
		Username: username,
		IP:       middleware.ClientIP(c),
		At:       time.Now().UTC(),
	})
	if err != nil {
		h.Logger.WithError(err).Warn("audit event publish failed")
	}
}
