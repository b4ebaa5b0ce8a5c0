// Package server implements a local sandbox that mimics the FNE signing
// service: bearer-token auth, the sign endpoint and the refund endpoint with
// canned responses. It exists so the CLI and integration tests can run
// without the real tax authority.
package server

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/fne-client/internal/model"
)

// Config holds sandbox configuration
type Config struct {
	Address      string
	Token        string // expected bearer token; empty accepts any non-empty token
	StickerStock int64  // initial balance_sticker value
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server is the sandbox HTTP server
type Server struct {
	config   *Config
	router   *gin.Engine
	sequence atomic.Int64
	stickers atomic.Int64
}

// NewServer creates a sandbox server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	s := &Server{
		config: config,
		router: router,
	}
	if config.StickerStock > 0 {
		s.stickers.Store(config.StickerStock)
	} else {
		s.stickers.Store(1000)
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	external := s.router.Group("/external")
	external.Use(s.requireBearer)
	{
		external.POST("/invoices/sign", s.handleSign)
		external.POST("/invoices/:id/refund", s.handleRefund)
	}
}

// Handler returns the underlying handler, used by tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

func (s *Server) requireBearer(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{Message: "missing bearer token"})
		return
	}
	if s.config.Token != "" && token != s.config.Token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{Message: "invalid bearer token"})
		return
	}
	c.Next()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleSign(c *gin.Context) {
	var payload model.InvoicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorBody{Message: "invalid invoice payload", Details: err.Error()})
		return
	}

	if payload.InvoiceType == "" || payload.PaymentMethod == "" || payload.Template == "" {
		c.JSON(http.StatusBadRequest, ErrorBody{Message: "missing classification fields"})
		return
	}
	if len(payload.Items) == 0 {
		c.JSON(http.StatusBadRequest, ErrorBody{Message: "invoice has no items"})
		return
	}

	seq := s.sequence.Add(1)
	remaining := s.stickers.Add(-1)

	c.JSON(http.StatusOK, SignBody{
		Ncc:            payload.ClientNcc,
		Reference:      fmt.Sprintf("FNE-%s-%06d", time.Now().UTC().Format("20060102"), seq),
		Token:          newStickerToken(),
		Warning:        remaining < 50,
		BalanceSticker: remaining,
		Invoice:        payload,
	})
}

func (s *Server) handleRefund(c *gin.Context) {
	invoiceID := c.Param("id")

	var payload model.RefundPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorBody{Message: "invalid refund payload", Details: err.Error()})
		return
	}
	if len(payload.Items) == 0 {
		c.JSON(http.StatusBadRequest, ErrorBody{Message: "refund has no items"})
		return
	}

	seq := s.sequence.Add(1)
	remaining := s.stickers.Add(-1)

	c.JSON(http.StatusOK, RefundBody{
		Reference:      fmt.Sprintf("RNE-%s-%06d", time.Now().UTC().Format("20060102"), seq),
		Refunded:       invoiceID,
		Token:          newStickerToken(),
		Warning:        remaining < 50,
		BalanceSticker: remaining,
	})
}

// newStickerToken fabricates an opaque signing token
func newStickerToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
