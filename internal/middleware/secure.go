package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

// SecureHeaders sets the standard browser hardening headers. HSTS and the
// HTTPS redirect are only enabled in production.
func SecureHeaders(production bool) gin.HandlerFunc {
	s := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        production,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		STSSeconds:         31536000,
		IsDevelopment:      !production,
	})
	return func(c *gin.Context) {
		// Process has already written the redirect or rejection when it fails.
		if err := s.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	}
}
