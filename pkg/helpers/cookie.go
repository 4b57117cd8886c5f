package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieManager issues and clears the single session cookie. The cookie
// carries only the opaque session token; everything else lives server-side.
type CookieManager struct {
	Name   string
	Domain string
	Secure bool
}

func NewCookie(name, domain string, secure bool) *CookieManager {
	return &CookieManager{Name: name, Domain: domain, Secure: secure}
}

// SetSession writes the session cookie with Max-Age derived from the
// record's absolute expiry. HttpOnly always; SameSite=Lax.
func (m *CookieManager) SetSession(c *gin.Context, token string, expiresAt time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.Name, token, maxAgeFrom(expiresAt), "/", m.Domain, m.Secure, true)
}

// Clear removes the session cookie from the client.
func (m *CookieManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.Name, "", -1, "/", m.Domain, m.Secure, true)
}

// Token reads the session token from the request, "" when absent.
func (m *CookieManager) Token(c *gin.Context) string {
	v, err := c.Cookie(m.Name)
	if err != nil {
		return ""
	}
	return v
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
