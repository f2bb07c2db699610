// Package audit orchestrates the fact-check pipeline:
// extract claims, search per claim, score, assemble audit records.
package audit

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/ppiankov/postfactum/internal/extract"
	"github.com/ppiankov/postfactum/internal/model"
	"github.com/ppiankov/postfactum/internal/worker"
)

const (
	// resultsPerClaim is the fixed search limit for each claim
	resultsPerClaim = 5

	// maxSources caps the supporting results kept on each record
	maxSources = 3
)

// ClaimSource extracts verifiable claims from free text
type ClaimSource interface {
	Extract(ctx context.Context, text string, maxClaims int) ([]string, error)
}

// Searcher runs one web search query
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error)
}

// Grader scores a claim against its search results
type Grader interface {
	Score(claim string, results []model.SearchResult) float64
}

// Auditor drives the fact-check pipeline
type Auditor struct {
	claims   ClaimSource
	searcher Searcher
	grader   Grader
	pool     *worker.Pool
	logger   *zap.Logger
}

// NewAuditor creates a new auditor. workers bounds the per-claim search
// fan-out; logger may be nil.
func NewAuditor(claims ClaimSource, searcher Searcher, grader Grader, workers int, logger *zap.Logger) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{
		claims:   claims,
		searcher: searcher,
		grader:   grader,
		pool:     worker.NewPool(workers),
		logger:   logger,
	}
}

// claimJob searches and scores one claim
type claimJob struct {
	auditor *Auditor
	claim   string
}

// claimResult carries the assembled record or the failure for one claim
type claimResult struct {
	record model.AuditRecord
	err    error
}

func (r claimResult) GetError() error { return r.err }

func (j claimJob) Execute(ctx context.Context) worker.Result {
	results, err := j.auditor.searcher.Search(ctx, j.claim, resultsPerClaim)
	if err != nil {
		return claimResult{err: fmt.Errorf("search %q: %w", j.claim, err)}
	}

	confidence := j.auditor.grader.Score(j.claim, results)

	sources := results
	if len(sources) > maxSources {
		sources = sources[:maxSources]
	}

	return claimResult{record: model.AuditRecord{
		Claim:      j.claim,
		Confidence: round2(confidence),
		Sources:    sources,
	}}
}

// Audit fact-checks a text and returns one record per extracted claim,
// in extraction order.
//
// Claims are searched and scored concurrently, but a failed search for any
// claim fails the whole audit; the error returned is the one for the
// lowest-indexed failing claim, so concurrent runs stay deterministic.
// No partial result set is ever returned.
func (a *Auditor) Audit(ctx context.Context, text string) ([]model.AuditRecord, error) {
	claims, err := a.claims.Extract(ctx, text, extract.DefaultMaxClaims)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("claims extracted", zap.Int("count", len(claims)))

	if len(claims) == 0 {
		return []model.AuditRecord{}, nil
	}

	jobs := make([]worker.Job, len(claims))
	for i, claim := range claims {
		jobs[i] = claimJob{auditor: a, claim: claim}
	}

	results := a.pool.Run(ctx, jobs)

	records := make([]model.AuditRecord, 0, len(claims))
	for i, res := range results {
		if res == nil {
			// Job never ran; the context was canceled mid-fan-out
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("audit %q: no result", claims[i])
		}
		cr := res.(claimResult)
		if cr.err != nil {
			a.logger.Warn("audit aborted", zap.String("claim", claims[i]), zap.Error(cr.err))
			return nil, cr.err
		}
		records = append(records, cr.record)
	}

	return records, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
