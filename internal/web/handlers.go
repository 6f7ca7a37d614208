package web

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wedding-attendees/internal/attendees"
	"wedding-attendees/internal/board"
	"wedding-attendees/internal/models"
	"wedding-attendees/internal/session"
)

const claimsKey = "session"

type loginRequest struct {
	Password string `json:"password"`
	PageID   string `json:"pageId"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, err := s.sessions.Login(req.Password, strings.TrimSpace(req.PageID))
	if err != nil {
		s.log.Warn().Str("ip", c.ClientIP()).Msg("Rejected admin login")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// requireSession accepts "Authorization: Bearer <token>". A token bound to
// a page only opens that page.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}

		claims, err := s.sessions.Validate(strings.TrimSpace(token))
		if err != nil {
			msg := "invalid session token"
			if errors.Is(err, session.ErrExpired) {
				msg = "session expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		if claims.PageID != "" && claims.PageID != c.Param("pageId") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "session is not valid for this page"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// load fetches the page's records. Failures are reported in the body next
// to an empty data set rather than as an HTTP error.
func (s *Server) load(c *gin.Context) board.LoadResult {
	res := board.Load(c.Request.Context(), s.fetcher, c.Param("pageId"))
	if !res.OK() {
		event := s.log.Error().Err(res.Err).Str("page_id", c.Param("pageId"))
		if claims, ok := c.Get(claimsKey); ok {
			event = event.Str("session_id", claims.(*session.Claims).SessionID)
		}
		event.Msg("Failed to load attendees")
	}
	return res
}

func (s *Server) handleSummary(c *gin.Context) {
	res := s.load(c)
	c.JSON(http.StatusOK, gin.H{
		"ok":      res.OK(),
		"message": res.Message,
		"summary": attendees.ComputeSummary(res.Records),
	})
}

func (s *Server) handleAttendees(c *gin.Context) {
	category, ok := models.ParseCategory(c.Query("category"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a number"})
			return
		}
		page = n
	}

	res := s.load(c)
	state := attendees.NewFilterState().
		WithSearch(c.Query("q")).
		WithCategory(category).
		WithPage(page)
	view := attendees.Build(res.Records, state, s.cfg.PageSize)

	c.JSON(http.StatusOK, gin.H{
		"ok":       res.OK(),
		"message":  res.Message,
		"summary":  view.Summary,
		"page":     view.Page,
		"state":    view.State,
		"filtered": len(view.Filtered),
	})
}

func (s *Server) handleExport(c *gin.Context) {
	category, ok := models.ParseCategory(c.Query("category"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	// a failed load never produces a CSV
	res := s.load(c)
	if !res.OK() {
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "message": res.Message})
		return
	}
	filtered := attendees.Filter(res.Records, c.Query("q"), category)

	filename := "attendees-" + c.Param("pageId") + "-" + time.Now().In(s.cfg.Location).Format("20060102") + ".csv"
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(attendees.ToCSV(filtered, s.cfg.Location)))
}
