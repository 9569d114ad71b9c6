// internal/api/handler.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"career-workers/internal/catalog"
	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/metrics"
	"career-workers/internal/criteria"
	"career-workers/internal/export"
	"career-workers/internal/matcher"
	"career-workers/internal/models"
	"career-workers/internal/search"

	"github.com/ecodeclub/ekit/slice"
	"github.com/gin-gonic/gin"
)

// Searcher runs ranked full-text queries against the career index.
type Searcher interface {
	Search(ctx context.Context, q search.Query) (*search.Result, error)
}

// Reloader re-reads the catalog source and publishes the result.
type Reloader interface {
	Reload(ctx context.Context) (*catalog.Catalog, error)
}

// Options wires the handler. Searcher and Reloader are optional; their
// routes answer 503 when unset.
type Options struct {
	Catalog      catalog.Provider
	Matcher      *matcher.Matcher
	Parser       *criteria.Parser
	Searcher     Searcher
	Reloader     Reloader
	ExportPrefix string
	Timeout      time.Duration
}

type Handler struct {
	catalog      catalog.Provider
	matcher      *matcher.Matcher
	parser       *criteria.Parser
	searcher     Searcher
	reloader     Reloader
	exportPrefix string
	timeout      time.Duration
	now          func() time.Time
	logger       logger.Logger
}

func NewHandler(opts Options, log logger.Logger) *Handler {
	if opts.ExportPrefix == "" {
		opts.ExportPrefix = "career_recommendations"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Handler{
		catalog:      opts.Catalog,
		matcher:      opts.Matcher,
		parser:       opts.Parser,
		searcher:     opts.Searcher,
		reloader:     opts.Reloader,
		exportPrefix: opts.ExportPrefix,
		timeout:      opts.Timeout,
		now:          time.Now,
		logger:       log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	careers := server.Group("/api/careers")
	careers.GET("", h.ListCareers)
	careers.GET("/streams", h.Streams)
	careers.GET("/export", h.Export)
	careers.GET("/search", h.Search)
	careers.GET("/:name/gap", h.SkillGap)

	server.POST("/api/catalog/reload", h.Reload)
}

// CareersResponse is one page of filter results.
type CareersResponse struct {
	Careers         []models.CareerRecord `json:"careers"`
	TotalMatches    int                   `json:"totalMatches"`
	CriteriaApplied bool                  `json:"criteriaApplied"`
	Page            int                   `json:"page"`
	Size            int                   `json:"size"`
	RequestID       string                `json:"requestId"`
}

func (h *Handler) ListCareers(c *gin.Context) {
	parsed, err := h.parser.Parse(criteriaFromQuery(c))
	if err != nil {
		fail(c, err)
		return
	}

	result := h.matcher.Filter(h.catalog.Current(), parsed.Criteria)
	metrics.FilterQueries.WithLabelValues("api", metrics.BoolLabel(result.CriteriaApplied)).Inc()
	metrics.FilterMatches.WithLabelValues("api").Observe(float64(result.TotalMatches))

	page := matcher.Paginate(result, parsed.Pagination)
	ok(c, CareersResponse{
		Careers:         page.Careers,
		TotalMatches:    page.TotalMatches,
		CriteriaApplied: page.CriteriaApplied,
		Page:            parsed.Pagination.Page,
		Size:            parsed.Pagination.Size,
		RequestID:       requestID(c),
	})
}

func (h *Handler) Streams(c *gin.Context) {
	ok(c, gin.H{"streams": h.catalog.Current().Streams()})
}

// SkillGapResponse lists the target's required skills the user still lacks.
type SkillGapResponse struct {
	Career        models.CareerRecord `json:"career"`
	MissingSkills []string            `json:"missingSkills"`
	IsQualified   bool                `json:"isQualified"`
}

func (h *Handler) SkillGap(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	target, found := h.catalog.Current().Lookup(name)
	if !found {
		fail(c, errors.NewCareerNotFoundError(name))
		return
	}

	userSkills := slice.Map(criteria.ParseStringArray(c.Query("skills")), func(_ int, s string) string {
		return models.CleanSkillLabel(s)
	})
	missing := matcher.SkillGap(target, userSkills)
	ok(c, SkillGapResponse{
		Career:        target,
		MissingSkills: missing,
		IsQualified:   len(missing) == 0,
	})
}

// Export streams the full filter result, unpaginated, as a CSV attachment.
func (h *Handler) Export(c *gin.Context) {
	parsed, err := h.parser.Parse(criteriaFromQuery(c))
	if err != nil {
		fail(c, err)
		return
	}

	result := h.matcher.Filter(h.catalog.Current(), parsed.Criteria)
	metrics.FilterQueries.WithLabelValues("api", metrics.BoolLabel(result.CriteriaApplied)).Inc()

	body, err := export.RenderCSV(result.Careers)
	if err != nil {
		fail(c, errors.NewExportFailedError(err))
		return
	}

	name := export.FileName(h.exportPrefix, h.now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, export.ContentTypeCSV, body)
}

func (h *Handler) Search(c *gin.Context) {
	if h.searcher == nil {
		fail(c, errors.NewElasticsearchConnectionFailedError(fmt.Errorf("search index not configured")))
		return
	}

	q := search.Query{
		Text:   strings.TrimSpace(c.Query("q")),
		Stream: c.Query("stream"),
	}
	if q.Text == "" {
		fail(c, errors.NewInvalidCriteriaError("q: is required"))
		return
	}
	var err error
	if q.From, err = intQuery(c, "from"); err != nil {
		fail(c, err)
		return
	}
	if q.Size, err = intQuery(c, "size"); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result, err := h.searcher.Search(ctx, q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, result)
}

func (h *Handler) Reload(c *gin.Context) {
	if h.reloader == nil {
		fail(c, errors.NewCatalogLoadFailedError("api", fmt.Errorf("catalog reload not configured")))
		return
	}

	cat, err := h.reloader.Reload(c.Request.Context())
	if err != nil {
		h.logger.Error("catalog reload failed", map[string]interface{}{"error": err.Error()})
		fail(c, err)
		return
	}

	h.logger.Info("catalog reloaded", map[string]interface{}{"records": cat.Len()})
	ok(c, gin.H{"records": cat.Len(), "streams": cat.Streams()})
}

// criteriaFromQuery maps query parameters onto the raw criteria document the
// parser accepts from workflow variables.
func criteriaFromQuery(c *gin.Context) map[string]interface{} {
	raw := map[string]interface{}{}
	set := func(param, key string) {
		if v, found := c.GetQuery(param); found {
			raw[key] = v
		}
	}
	set("stream", "stream")
	set("skills", "skills")
	set("q", "freeText")
	set("exam", "examKeyword")
	set("skill", "skillKeyword")
	set("trait", "traitKeyword")
	set("mode", "skillMatchMode")

	pagination := map[string]interface{}{}
	if v, found := c.GetQuery("page"); found {
		pagination["page"] = v
	}
	if v, found := c.GetQuery("size"); found {
		pagination["size"] = v
	}
	if len(pagination) > 0 {
		raw["pagination"] = pagination
	}
	return raw
}

func intQuery(c *gin.Context, name string) (int, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.NewInvalidCriteriaError(fmt.Sprintf("%s: must be a non-negative integer", name))
	}
	return n, nil
}
