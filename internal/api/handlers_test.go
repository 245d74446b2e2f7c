package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"residents/internal/engine"
	"residents/internal/models"
	"residents/internal/testutil"
)

func sampleTable(t *testing.T) *engine.Table {
	t.Helper()
	tbl, err := engine.NewTable([]engine.Record{
		{Year: 2000, Category: "Total Residents", Count: 100},
		{Year: 2001, Category: "Total Residents", Count: 110},
		{Year: 2000, Category: "Total Male Chinese", Count: 100},
		{Year: 2000, Category: "Total Female Chinese", Count: 90},
		{Year: 2001, Category: "Total Male Chinese", Count: 110},
		{Year: 2001, Category: "Total Female Chinese", Count: 99},
		{Year: 2001, Category: "Other Ethnic Groups (Males)", Count: 0},
		{Year: 2001, Category: "Other Ethnic Groups (Females)", Count: 3},
	})
	require.NoError(t, err)
	return tbl
}

func newTestServer(t *testing.T, loaded bool) (*echo.Echo, *Handler) {
	t.Helper()
	h := NewHandler(engine.DefaultViewOptions(), time.Minute, testutil.NewTestLogger(t))
	if loaded {
		h.SetData(sampleTable(t))
	}
	return NewEcho(h, testutil.NewTestLogger(t)), h
}

func get(t *testing.T, e *echo.Echo, path string, query url.Values) *httptest.ResponseRecorder {
	t.Helper()
	if query != nil {
		path += "?" + query.Encode()
	}
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestLoading(t *testing.T) {
	e, _ := newTestServer(t, false)

	rec := get(t, e, "/api/dashboard", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = get(t, e, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[models.Health](t, rec)
	assert.False(t, health.Ready)
	assert.Equal(t, "loading", health.Status)
}

func TestGetHealth(t *testing.T) {
	e, _ := newTestServer(t, true)

	health := decode[models.Health](t, get(t, e, "/healthz", nil))
	assert.True(t, health.Ready)
	assert.Equal(t, 8, health.Records)
}

func TestGetDashboard(t *testing.T) {
	e, _ := newTestServer(t, true)

	rec := get(t, e, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode[models.DashboardData](t, rec)
	assert.Equal(t, 8, data.Overview.Records)
	require.Len(t, data.Growth.Rows, 1)
	assert.Equal(t, 10.0, *data.Growth.Rows[0].GrowthRate)
	require.Len(t, data.GenderRatios, 4)
	assert.Len(t, data.GenderRatios[1].Rows, 1, "only 2000 is a ratio year")
}

func TestGetRecords(t *testing.T) {
	e, _ := newTestServer(t, true)

	page := decode[models.Page](t, get(t, e, "/api/records", url.Values{"limit": {"3"}, "offset": {"6"}}))
	assert.Equal(t, 8, page.Total)
	assert.Equal(t, 3, page.Limit)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "Other Ethnic Groups (Males)", page.Data[0].Category)

	page = decode[models.Page](t, get(t, e, "/api/records", url.Values{"offset": {"100"}}))
	assert.Empty(t, page.Data)
	assert.Equal(t, defaultPageSize, page.Limit)
}

func TestGetCategories(t *testing.T) {
	e, _ := newTestServer(t, true)

	cats := decode[[]models.CategoryInfo](t, get(t, e, "/api/categories", nil))
	require.Len(t, cats, 5)
	assert.Equal(t, models.CategoryInfo{Label: "Total Residents", Known: true}, cats[0])
}

func TestGetSeries(t *testing.T) {
	e, _ := newTestServer(t, true)

	resp := decode[models.SeriesResponse](t, get(t, e, "/api/series", url.Values{"category": {"Total Residents"}}))
	assert.Equal(t, []models.SeriesPoint{{Year: 2000, Count: 100}, {Year: 2001, Count: 110}}, resp.Rows)
	assert.Empty(t, resp.Warning)

	resp = decode[models.SeriesResponse](t, get(t, e, "/api/series", url.Values{"category": {"Total Martians"}}))
	assert.Empty(t, resp.Rows)
	assert.Contains(t, resp.Warning, "Total Martians")

	rec := get(t, e, "/api/series", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPair(t *testing.T) {
	e, _ := newTestServer(t, true)

	resp := decode[models.PairResponse](t, get(t, e, "/api/pair", url.Values{
		"a": {"Total Residents"},
		"b": {"Other Ethnic Groups (Males)"},
	}))
	assert.Equal(t, []models.PairPoint{{Year: 2001, CountA: 110, CountB: 0}}, resp.Rows)
}

func TestGetRatio(t *testing.T) {
	e, _ := newTestServer(t, true)

	q := url.Values{"numerator": {"Total Female Chinese"}, "denominator": {"Total Male Chinese"}}
	resp := decode[models.RatioResponse](t, get(t, e, "/api/ratio", q))
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, 0.9, *resp.Rows[0].Ratio)
	assert.Equal(t, 0.9, *resp.Rows[1].Ratio)
	assert.Equal(t, 2, resp.Summary.Count)

	q.Set("years", "2001, 2005")
	resp = decode[models.RatioResponse](t, get(t, e, "/api/ratio", q))
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, 2001, resp.Rows[0].Year)
	assert.Equal(t, []int{2001, 2005}, resp.Years)

	q.Set("years", "20x1")
	assert.Equal(t, http.StatusBadRequest, get(t, e, "/api/ratio", q).Code)
}

func TestGetRatio_ZeroDenominator(t *testing.T) {
	e, _ := newTestServer(t, true)

	rec := get(t, e, "/api/ratio", url.Values{
		"numerator":   {"Other Ethnic Groups (Females)"},
		"denominator": {"Other Ethnic Groups (Males)"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ratio":null`)

	resp := decode[models.RatioResponse](t, rec)
	require.Len(t, resp.Rows, 1)
	assert.Nil(t, resp.Rows[0].Ratio)
	assert.Nil(t, resp.Summary.Mean)
}

func TestGetGrowth(t *testing.T) {
	e, _ := newTestServer(t, true)

	resp := decode[models.GrowthResponse](t, get(t, e, "/api/growth", nil))
	assert.Equal(t, "Total Residents", resp.Category)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, 2001, resp.Rows[0].Year)
	assert.Equal(t, int64(100), resp.Rows[0].PreviousCount)

	resp = decode[models.GrowthResponse](t, get(t, e, "/api/growth", url.Values{"category": {"Total Male Chinese"}}))
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, 10.0, *resp.Rows[0].GrowthRate)

	resp = decode[models.GrowthResponse](t, get(t, e, "/api/growth", url.Values{"category": {"nope"}}))
	assert.Empty(t, resp.Rows)
	assert.NotEmpty(t, resp.Warning)
}

func TestCacheInvalidatedOnSetData(t *testing.T) {
	e, h := newTestServer(t, true)
	q := url.Values{"category": {"Total Residents"}}

	first := decode[models.SeriesResponse](t, get(t, e, "/api/series", q))
	require.Len(t, first.Rows, 2)
	assert.Equal(t, 1, h.cache.ItemCount())

	tbl, err := engine.NewTable([]engine.Record{{Year: 2010, Category: "Total Residents", Count: 5}})
	require.NoError(t, err)
	h.SetData(tbl)
	assert.Zero(t, h.cache.ItemCount())

	second := decode[models.SeriesResponse](t, get(t, e, "/api/series", q))
	assert.Equal(t, []models.SeriesPoint{{Year: 2010, Count: 5}}, second.Rows)
}

func TestParseYears(t *testing.T) {
	ys, err := parseYears("")
	require.NoError(t, err)
	assert.Nil(t, ys)

	ys, err = parseYears("2000,2003 , 2006")
	require.NoError(t, err)
	assert.Equal(t, []int{2000, 2003, 2006}, ys)

	_, err = parseYears("2000,,2003")
	assert.Error(t, err)
}

func TestCacheKey(t *testing.T) {
	assert.NotEqual(t, cacheKey("pair", "a:b", "c"), cacheKey("pair", "a", "b:c"))
}
