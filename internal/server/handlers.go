package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/postfactum/internal/draft"
	"github.com/ppiankov/postfactum/internal/finalize"
	"github.com/ppiankov/postfactum/internal/model"
)

const researchResultCount = 5

func (s *Server) home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

// uiGenerate handles the draft form: optional research search, then
// variant generation. Errors render inline rather than failing the page.
func (s *Server) uiGenerate(c *gin.Context) {
	topic := c.PostForm("topic")
	angle := c.PostForm("angle")
	platform := c.DefaultPostForm("platform", "linkedin")
	postType := c.DefaultPostForm("post_type", "topical")
	background := c.PostForm("background")
	length := c.DefaultPostForm("length", "medium")
	useResearch := c.PostForm("use_research")

	var (
		errMsg         string
		variants       []model.DraftVariant
		sourcesUsed    []model.SearchResult
		sourcesDomains string
	)

	if useResearch == "1" {
		query := strings.TrimSpace(topic + " " + angle)
		results, err := s.searcher.Search(c.Request.Context(), query, researchResultCount)
		if err != nil {
			errMsg = err.Error()
		} else {
			sourcesUsed = results
			sourcesDomains = domainsLine(results)
		}
	}

	if errMsg == "" {
		var err error
		variants, err = s.drafter.Generate(c.Request.Context(), draft.Request{
			Topic:           model.Topic{Title: topic, Angle: angle},
			Platform:        platform,
			N:               3,
			Mode:            postType,
			Background:      background,
			Length:          length,
			ResearchSources: sourcesUsed,
		})
		if err != nil {
			s.logger.Warn("draft generation failed", zap.Error(err))
			errMsg = err.Error()
		}
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"variants":        variants,
		"topic":           topic,
		"angle":           angle,
		"platform":        platform,
		"post_type":       postType,
		"background":      background,
		"length":          length,
		"sources_used":    sourcesUsed,
		"sources_domains": sourcesDomains,
		"error":           errMsg,
	})
}

// uiFactcheck audits a draft. On any pipeline error the page shows the
// error text and an empty audit list, never a partial result.
func (s *Server) uiFactcheck(c *gin.Context) {
	text := c.PostForm("text")
	platform := c.PostForm("platform")

	audits := []model.AuditRecord{}
	var errMsg string

	records, err := s.auditor.Audit(c.Request.Context(), text)
	if err != nil {
		s.logger.Warn("fact check failed", zap.Error(err))
		errMsg = err.Error()
	} else {
		audits = records
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"audits":       audits,
		"audit_count":  len(audits),
		"fact_checked": true,
		"final_text":   text,
		"platform":     platform,
		"error":        errMsg,
	})
}

func (s *Server) uiFinalize(c *gin.Context) {
	text := c.PostForm("text")
	platform := c.PostForm("platform")
	sources := c.PostForm("sources")

	c.HTML(http.StatusOK, "index.html", gin.H{
		"final_text": finalize.Finalize(text, platform, sources),
		"platform":   platform,
	})
}

func (s *Server) uiPublishBluesky(c *gin.Context) {
	text := c.PostForm("text")
	result := s.publisher.Publish(c.Request.Context(), text)

	c.HTML(http.StatusOK, "index.html", gin.H{
		"publish":    result,
		"final_text": text,
		"platform":   "bluesky",
	})
}

// domainsLine builds the de-duped "domain; domain; domain" string the
// finalizer consumes, capped at 3
func domainsLine(results []model.SearchResult) string {
	var domains []string
	seen := make(map[string]struct{})
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		parsed, err := url.Parse(r.URL)
		if err != nil {
			continue
		}
		domain := strings.TrimPrefix(parsed.Host, "www.")
		if domain == "" {
			continue
		}
		if _, dup := seen[domain]; dup {
			continue
		}
		seen[domain] = struct{}{}
		domains = append(domains, domain)
	}
	if len(domains) > 3 {
		domains = domains[:3]
	}
	return strings.Join(domains, "; ")
}
