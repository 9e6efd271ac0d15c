package interceptors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vuzon/vuzon/config"
	"github.com/vuzon/vuzon/services"
	"github.com/vuzon/vuzon/types"
)

// SessionCookieName is the cookie carrying the signed session id.
const SessionCookieName = "vuzon_session"

// SessionMiddleware gates protected routes behind an authenticated session.
// A browser navigation (request accepting HTML) is redirected to the login
// page; API callers get a structured 401. A server without configured
// credentials answers 500 on every protected route.
func SessionMiddleware(conf config.Config, sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if conf.AuthUser == "" || conf.AuthPass == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": types.ErrCredentialsNotConfigured.Error()})
			return
		}

		token, err := c.Cookie(SessionCookieName)
		if err == nil && sessions.Validate(token) {
			c.Next()
			return
		}

		if acceptsHTML(c) {
			c.Redirect(http.StatusFound, "/login.html")
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}

func acceptsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
