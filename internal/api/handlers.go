package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"github.com/youruser/sitecards/internal/deck"
	imagepkg "github.com/youruser/sitecards/internal/image"
	"github.com/youruser/sitecards/internal/screenshot"
	"github.com/youruser/sitecards/internal/sites"
	"github.com/youruser/sitecards/internal/store"
)

const (
	defaultQRSize = 400
	maxQRSize     = 4096
)

// Server serves card previews. Screenshots are taken one at a time; every
// other handler runs concurrently.
type Server struct {
	Compositor *imagepkg.Compositor
	QR         imagepkg.QREncoder
	Renderer   screenshot.Renderer
	Retry      screenshot.Retry
	Output     store.Store
	WrapWidth  int
	Logger     *log.Logger

	renderMu sync.Mutex
}

// health
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// qr returns a PNG of a QR code for the "text" query parameter
func (s *Server) qr(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing text"})
		return
	}
	size := defaultQRSize
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxQRSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be between 1 and 4096"})
			return
		}
		size = n
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

// wrap shows how a description breaks into card lines
func (s *Server) wrap(c *gin.Context) {
	width := s.WrapWidth
	if v := c.Query("width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "width must be a positive integer"})
			return
		}
		width = n
	}
	c.JSON(http.StatusOK, gin.H{"lines": imagepkg.Wrap(c.Query("text"), width)})
}

type cardRequest struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// card renders a single card for a URL and description
func (s *Server) card(c *gin.Context) {
	var req cardRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec := sites.Record{URL: req.URL, Description: req.Description}
	if err := rec.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.renderMu.Lock()
	shot, err := screenshot.Fetch(c.Request.Context(), s.Renderer, rec.URL, s.Retry)
	s.renderMu.Unlock()
	if err != nil {
		status := http.StatusUnprocessableEntity
		if screenshot.IsTransient(err) {
			status = http.StatusBadGateway
		}
		s.Logger.Warn("card preview failed", "url", rec.URL, "status", status, "err", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	qr, err := s.QR.Encode(rec.URL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out, err := s.Compositor.ComposeCard(shot, qr, rec.URL, rec.Description)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, imagepkg.ErrEmptyImage) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, out, imaging.PNG); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// pages lists the output directory in deck order
func (s *Server) pages(c *gin.Context) {
	names, err := s.Output.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	pages, skipped := deck.Sequence(names)
	ordered := make([]string, len(pages))
	for i, p := range pages {
		ordered[i] = p.Name()
	}
	if skipped == nil {
		skipped = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"pages": ordered, "skipped": skipped})
}
