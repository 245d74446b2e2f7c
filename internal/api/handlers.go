package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/patrickmn/go-cache"

	"residents/internal/engine"
	"residents/internal/models"
)

const defaultPageSize = 20

// Handler serves the current dataset snapshot. Until SetData is called every
// data route answers 503.
type Handler struct {
	mu    sync.RWMutex
	table *engine.Table
	data  *models.DashboardData
	gen   uint64

	opts   engine.ViewOptions
	cache  *cache.Cache
	logger *slog.Logger
}

func NewHandler(opts engine.ViewOptions, ttl time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		opts:   opts,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// SetData installs a new snapshot and drops every cached response.
func (h *Handler) SetData(t *engine.Table) {
	data := t.Aggregate(h.opts)

	h.mu.Lock()
	h.table = t
	h.data = data
	h.gen++
	h.mu.Unlock()

	h.cache.Flush()
	h.logger.Info("dataset snapshot installed", "records", t.Len())
}

// Ready reports whether a snapshot is installed.
func (h *Handler) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.table != nil
}

func (h *Handler) snapshot() (*engine.Table, *models.DashboardData) {
	t, data, _ := h.current()
	return t, data
}

func (h *Handler) current() (*engine.Table, *models.DashboardData, uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.table, h.data, h.gen
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.GetHealth)

	api := e.Group("/api", h.requireData)
	api.GET("/dashboard", h.GetDashboard)
	api.GET("/overview", h.GetOverview)
	api.GET("/records", h.GetRecords)
	api.GET("/categories", h.GetCategories)
	api.GET("/series", h.GetSeries)
	api.GET("/pair", h.GetPair)
	api.GET("/ratio", h.GetRatio)
	api.GET("/growth", h.GetGrowth)
}

// requireData answers 503 while the dataset is still loading.
func (h *Handler) requireData(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !h.Ready() {
			return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "dataset loading"})
		}
		return next(c)
	}
}

// cached returns the response stored under key for snapshot gen, computing
// it on a miss. Keys carry the generation so a response computed from an old
// snapshot is never served for a new one.
func (h *Handler) cached(gen uint64, key string, compute func() any) any {
	key = cacheKey(key, gen)
	if v, ok := h.cache.Get(key); ok {
		return v
	}
	v := compute()
	h.cache.SetDefault(key, v)
	return v
}

// cacheKey joins a route with its quoted parameters, e.g. `ratio:"A":"B"`.
func cacheKey(prefix string, params ...interface{}) string {
	key := prefix
	for _, p := range params {
		key += ":" + strconv.Quote(fmt.Sprintf("%v", p))
	}
	return key
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// parseYears reads "2000,2003". An empty string means no filter (nil).
func parseYears(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	years := make([]int, 0, len(parts))
	for _, p := range parts {
		y, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", p)
		}
		years = append(years, y)
	}
	return years, nil
}

func requiredParam(c echo.Context, name string) (string, error) {
	v := c.QueryParam(name)
	if v == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("query parameter %q is required", name))
	}
	return v, nil
}

func noMatch(what string) string {
	return "no rows matched " + what
}

func (h *Handler) GetHealth(c echo.Context) error {
	t, _ := h.snapshot()
	resp := models.Health{Status: "ok", Ready: t != nil, Records: t.Len()}
	if t == nil {
		resp.Status = "loading"
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetDashboard(c echo.Context) error {
	_, data := h.snapshot()
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) GetOverview(c echo.Context) error {
	_, data := h.snapshot()
	return c.JSON(http.StatusOK, data.Overview)
}

// returns a page of raw records, 20 by default
func (h *Handler) GetRecords(c echo.Context) error {
	t, _ := h.snapshot()
	total := t.Len()
	limit, offset := getPaginationParams(c, defaultPageSize)

	recs := t.Records(offset, limit)
	page := models.Page{Data: make([]models.Record, len(recs)), Total: total, Limit: limit, Offset: offset}
	for i, r := range recs {
		page.Data[i] = models.Record(r)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *Handler) GetCategories(c echo.Context) error {
	t, _ := h.snapshot()
	labels := t.Categories()
	out := make([]models.CategoryInfo, len(labels))
	for i, l := range labels {
		out[i] = models.CategoryInfo{Label: l, Known: engine.Raw(l).IsKnown()}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetSeries(c echo.Context) error {
	label, err := requiredParam(c, "category")
	if err != nil {
		return err
	}
	t, _, gen := h.current()

	resp := h.cached(gen, cacheKey("series", label), func() any {
		r := models.SeriesResponse{
			Category: label,
			Rows:     engine.SeriesPoints(engine.SelectCategory(t, engine.Raw(label))),
		}
		if len(r.Rows) == 0 {
			r.Warning = noMatch("category " + strconv.Quote(label))
		}
		return r
	})
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetPair(c echo.Context) error {
	a, err := requiredParam(c, "a")
	if err != nil {
		return err
	}
	b, err := requiredParam(c, "b")
	if err != nil {
		return err
	}
	t, _, gen := h.current()

	resp := h.cached(gen, cacheKey("pair", a, b), func() any {
		pairs := engine.PairCategories(t, engine.Raw(a), engine.Raw(b))
		r := models.PairResponse{CategoryA: a, CategoryB: b, Rows: make([]models.PairPoint, len(pairs))}
		for i, p := range pairs {
			r.Rows[i] = models.PairPoint(p)
		}
		if len(r.Rows) == 0 {
			r.Warning = noMatch(fmt.Sprintf("both %q and %q", a, b))
		}
		return r
	})
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetRatio(c echo.Context) error {
	num, err := requiredParam(c, "numerator")
	if err != nil {
		return err
	}
	den, err := requiredParam(c, "denominator")
	if err != nil {
		return err
	}
	years, err := parseYears(c.QueryParam("years"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t, _, gen := h.current()

	resp := h.cached(gen, cacheKey("ratio", num, den, c.QueryParam("years")), func() any {
		rows := engine.Ratio(t, engine.Raw(num), engine.Raw(den), years)
		r := models.RatioResponse{
			Numerator:   num,
			Denominator: den,
			Years:       years,
			Rows:        engine.RatioPoints(rows, h.opts.RatioPrecision),
			Summary:     engine.SummaryModel(engine.Summarize(engine.RatioValues(rows)), h.opts.RatioPrecision),
		}
		if len(r.Rows) == 0 {
			r.Warning = noMatch(fmt.Sprintf("ratio %q / %q", num, den))
		}
		return r
	})
	return c.JSON(http.StatusOK, resp)
}

// growth of ?category=, defaulting to the configured category
func (h *Handler) GetGrowth(c echo.Context) error {
	cat := h.opts.GrowthCategory
	if label := c.QueryParam("category"); label != "" {
		cat = engine.Raw(label)
	}
	t, _, gen := h.current()

	resp := h.cached(gen, cacheKey("growth", cat.Label()), func() any {
		r := models.GrowthResponse{Growth: engine.GrowthView(t, cat, h.opts.GrowthPrecision)}
		if len(r.Rows) == 0 {
			r.Warning = noMatch("growth of " + strconv.Quote(cat.Label()))
		}
		return r
	})
	return c.JSON(http.StatusOK, resp)
}
