package web

import (
	"time"

	"github.com/didip/tollbooth"
	"github.com/didip/tollbooth/limiter"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wedding-attendees/internal/board"
	"wedding-attendees/internal/session"
)

// Config holds the web server configuration
type Config struct {
	PageSize int
	Location *time.Location
	// RateLimit is the allowed requests per second per client IP
	RateLimit float64
}

// Server is the read-only attendee dashboard API
type Server struct {
	fetcher  board.Fetcher
	sessions *session.Manager
	cfg      Config
	router   *gin.Engine
	log      zerolog.Logger
}

// NewServer creates a new web server
func NewServer(fetcher board.Fetcher, sessions *session.Manager, cfg Config, logger zerolog.Logger) *Server {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5
	}

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		fetcher:  fetcher,
		sessions: sessions,
		cfg:      cfg,
		router:   router,
		log:      logger.With().Str("component", "web").Logger(),
	}
	router.Use(s.requestLogger())

	lmt := tollbooth.NewLimiter(cfg.RateLimit, nil)

	api := router.Group("/api", rateLimit(lmt))
	{
		api.POST("/admin/login", s.handleLogin)

		pages := api.Group("/pages/:pageId", s.requireSession())
		pages.GET("/summary", s.handleSummary)
		pages.GET("/attendees", s.handleAttendees)
		pages.GET("/export.csv", s.handleExport)
	}

	return s
}

// Handler exposes the router for tests and custom listeners
func (s *Server) Handler() *gin.Engine {
	return s.router
}

// Run starts the web server
func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Msg("Listening")
	return s.router.Run(addr)
}

func rateLimit(lmt *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if httpErr := tollbooth.LimitByRequest(lmt, c.Writer, c.Request); httpErr != nil {
			c.AbortWithStatusJSON(httpErr.StatusCode, gin.H{"error": httpErr.Message})
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("Request")
	}
}
