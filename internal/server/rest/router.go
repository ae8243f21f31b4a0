package rest

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api"

func (s *HTTPServer) router() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = false

	r.Use(s.requestID(), s.accessLog(), s.recovery(), s.apiCORS())

	api := r.Group(apiPrefix)
	api.GET("/health", s.health)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)
	authGroup.GET("/me", s.requireAuth(), s.me)

	api.GET("/dashboard", s.requireAuth(), s.dashboard)
	api.GET("/profile", s.requireAuth(), s.profile)
	api.GET("/admin", s.requireAuth(), s.requireAdmin(), s.admin)

	r.NoRoute(gzip.Gzip(gzip.DefaultCompression), s.spa)

	return r
}

// apiCORS applies the CORS policy to /api paths only, preflights included.
func (s *HTTPServer) apiCORS() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(s.opts.CORSOrigins) == 0 || slices.Contains(s.opts.CORSOrigins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.opts.CORSOrigins
	}
	handle := cors.New(cfg)

	return func(c *gin.Context) {
		if isAPIPath(c.Request.URL.Path) {
			handle(c)
		}
	}
}

func isAPIPath(p string) bool {
	return p == apiPrefix || strings.HasPrefix(p, apiPrefix+"/")
}
