// Package debugserver runs the structural frame-decode HTTP service: a
// JSON pretty-printer kept external to the core codec, given a concrete
// home here. It never assumes a schema — every route renders wire types
// and tags, not field names.
package debugserver

import (
	"encoding/binary"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/danmuck/extprot/internal/auth"
	"github.com/danmuck/extprot/internal/metrics"
	"github.com/danmuck/extprot/ioreader"
)

var startedAt = time.Now()

// Server is a gin HTTP service exposing an unauthenticated /health route
// and a versioned-frame decoder guarded by the configured auth.Validator.
type Server struct {
	engine    *gin.Engine
	validator auth.Validator
}

// New builds the server with logging and metrics middleware already
// attached, keeping it lean.
func New(logger zerolog.Logger, validator auth.Validator, allowOrigins []string) *Server {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.RequestLogger(logger))
	r.Use(metrics.RequestMetricsMiddleware("debugserver"))
	r.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	s := &Server{engine: r, validator: validator}
	r.GET("/health", s.handleHealth)
	r.POST("/v1/frames/decode", s.requireAuth, s.handleDecode)
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) Run(addr string) error { return s.engine.Run(addr) }

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"uptime":  time.Since(startedAt).String(),
		"service": "extprot-debugserver",
	})
}

// clientNamer is satisfied by auth.ClientTokens; a validator that only
// checks a single shared secret (auth.StaticToken) has no per-caller
// identity to report.
type clientNamer interface {
	ClientFor(token string) (string, bool)
}

func (s *Server) requireAuth(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if err := s.validator.Validate(token); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if named, ok := s.validator.(clientNamer); ok {
		if client, ok := named.ClientFor(token); ok {
			c.Set("client", client)
		}
	}
}

// decodeResponse is the JSON body handleDecode renders: the versioned
// frame's tag plus a schema-free structural walk of its message body.
type decodeResponse struct {
	Version int    `json:"version"`
	Client  string `json:"client,omitempty"`
	Message Node   `json:"message"`
}

// handleDecode expects the raw bytes of one versioned frame
// (version_lo; version_hi; message_frame) as the request body, and
// returns its structural decode.
func (s *Server) handleDecode(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(body) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "frame shorter than the 2-byte version tag"})
		return
	}

	version := int(binary.LittleEndian.Uint16(body[:2]))
	r := ioreader.NewStringReader(body[2:])
	node, err := decodeValue(r)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, _ := c.Get("client")
	clientName, _ := client.(string)
	c.JSON(http.StatusOK, decodeResponse{Version: version, Client: clientName, Message: node})
}
