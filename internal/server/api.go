package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/postfactum/internal/draft"
	"github.com/ppiankov/postfactum/internal/finalize"
	"github.com/ppiankov/postfactum/internal/model"
	"github.com/ppiankov/postfactum/internal/publish"
)

type draftRequest struct {
	Topic      model.Topic `json:"topic" binding:"required"`
	Platform   string      `json:"platform"`
	Variants   int         `json:"variants"`
	Mode       string      `json:"mode"`
	Background string      `json:"background"`
	Length     string      `json:"length"`
}

type factcheckRequest struct {
	Text string `json:"text" binding:"required"`
}

type finalizeRequest struct {
	Text     string `json:"text" binding:"required"`
	Platform string `json:"platform" binding:"required"`
	Sources  string `json:"sources"`
}

type publishRequest struct {
	Platform string `json:"platform" binding:"required"`
	Text     string `json:"text" binding:"required"`
}

func (s *Server) apiDraft(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Platform == "" {
		req.Platform = "linkedin"
	}

	variants, err := s.drafter.Generate(c.Request.Context(), draft.Request{
		Topic:      req.Topic,
		Platform:   req.Platform,
		N:          req.Variants,
		Mode:       req.Mode,
		Background: req.Background,
		Length:     req.Length,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"variants": variants})
}

func (s *Server) apiFactcheck(c *gin.Context) {
	var req factcheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := s.auditor.Audit(c.Request.Context(), req.Text)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "audits": []model.AuditRecord{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"audits": records})
}

func (s *Server) apiFinalize(c *gin.Context) {
	var req finalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"final_text": finalize.Finalize(req.Text, req.Platform, req.Sources),
	})
}

func (s *Server) apiPublish(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var result model.PublishResult
	switch req.Platform {
	case "bluesky":
		result = s.publisher.Publish(c.Request.Context(), req.Text)
	case "linkedin":
		result = publish.ExportLinkedIn(req.Text)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported platform: " + req.Platform})
		return
	}

	c.JSON(http.StatusOK, result)
}
