package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/haneulgyeol/cloud-atlas/internal/adapter/http"
	"github.com/haneulgyeol/cloud-atlas/internal/assets"
	"github.com/haneulgyeol/cloud-atlas/internal/catalog"
	"github.com/haneulgyeol/cloud-atlas/internal/config"
	"github.com/haneulgyeol/cloud-atlas/internal/domain"
	"github.com/haneulgyeol/cloud-atlas/internal/observability"
	"github.com/haneulgyeol/cloud-atlas/internal/view"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type stubClassifier struct {
	result domain.ClassifyResult
	err    error
	calls  atomic.Int32
}

func (s *stubClassifier) Classify(_ context.Context, _ domain.Upload) (domain.ClassifyResult, error) {
	s.calls.Add(1)
	return s.result, s.err
}

func cumulusResult() domain.ClassifyResult {
	return domain.ClassifyResult{
		Predictions: []domain.Prediction{
			{Code: "Cu", Name: "적운", Confidence: 0.92},
			{Code: "Sc", NativeName: "층적운", Confidence: 0.05},
		},
		ConfidenceLevel: "high",
		ConfidenceText:  "높은 확신도",
	}
}

type failingStore struct {
	assets.Store
}

func (failingStore) List(context.Context, string) ([]assets.Info, error) {
	return nil, errors.New("bucket unreachable")
}

func (failingStore) Get(context.Context, string) (assets.Info, io.ReadCloser, error) {
	return assets.Info{}, nil, errors.New("bucket unreachable")
}

func testConfig() *config.Config {
	return &config.Config{
		HTTPAddr:          ":0",
		ClassifierTimeout: time.Second,
		ClassifyRate:      100,
		ClassifyBurst:     100,
		UploadMaxBytes:    1 << 20,
		SessionCacheSize:  8,
		SearchDebounce:    200 * time.Millisecond,
	}
}

func memoryStore(t *testing.T) *assets.MemoryStore {
	t.Helper()
	s := assets.NewMemoryStore()
	require.NoError(t, s.Put("clouds/ci/gallery/01.jpg", []byte("jpg"), ""))
	require.NoError(t, s.Put("clouds/ns/gallery/01.jpg", []byte("ns1"), ""))
	require.NoError(t, s.Put("clouds/ns/gallery/02.webp", []byte("ns2"), ""))
	require.NoError(t, s.Put("clouds/ns/gallery/notes.txt", []byte("x"), ""))
	return s
}

func newTestServer(t *testing.T, cfg *config.Config, store assets.Store, cls domain.Classifier) *httpadapter.Server {
	t.Helper()
	srv, err := httpadapter.NewServer(cfg, catalog.Default(), store, cls, observability.NewMetricsForTesting(), slog.Default())
	require.NoError(t, err)
	return srv
}

func get(srv http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, target, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == httpadapter.SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

// --- ops ---

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(t, testConfig(), memoryStore(t), &stubClassifier{})
	rec := get(srv, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]string](t, rec)["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(t, testConfig(), memoryStore(t), &stubClassifier{})
	rec := get(srv, "/readyz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decode[map[string]string](t, rec)["status"])
}

func TestReadyzReturns503WhenStoreFails(t *testing.T) {
	srv := newTestServer(t, testConfig(), failingStore{assets.NewMemoryStore()}, &stubClassifier{})
	rec := get(srv, "/readyz")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Contains(t, body["error"], "bucket unreachable")
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, testConfig(), memoryStore(t), &stubClassifier{})
	rec := get(srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// --- JSON API ---

type generaBody struct {
	Count  int            `json:"count"`
	Genera []domain.Genus `json:"genera"`
}

func symbols(genera []domain.Genus) []string {
	out := make([]string, 0, len(genera))
	for _, g := range genera {
		out = append(out, g.Symbol)
	}
	return out
}

func TestAPIGenera(t *testing.T) {
	srv := newTestServer(t, testConfig(), memoryStore(t), &stubClassifier{})

	body := decode[generaBody](t, get(srv, "/api/genera"))
	assert.Equal(t, 10, body.Count)

	body = decode[generaBody](t, get(srv, "/api/genera?q=Cumulus&level=low"))
	assert.Equal(t, []string{"Cu", "Sc"}, symbols(body.Genera))

	body = decode[generaBody](t, get(srv, "/api/genera?q=nothing"))
	assert.Zero(t, body.Count)
	assert.NotNil(t, body.Genera)

	rec := get(srv, "/api/genera?level=stratosphere")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIGenus(t *testing.T) {
	srv := newTestServer(t, testConfig(), memoryStore(t), &stubClassifier{})

	rec := get(srv, "/api/genera/ci")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ci", decode[domain.Genus](t, rec).Symbol)

	rec = get(srv, "/api/genera/CI")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/api/genera/ci", rec.Header().Get("Location"))

	rec = get(srv, "/api/genera/xx")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "genus not found", decode[map[string]string](t, rec)["error"])
}

func TestAPIGenus_DiscoversGalleryFromStore(t *testing.T) {
	srv := newTestServer(t, testConfig(), memoryStore(t), &stubClassifier{})

	g := decode[domain.Genus](t, get(srv, "/api/genera/ns"))
	assert.Equal(t, []domain.Image{
		{Src: "/clouds/ns/gallery/01.jpg"},
		{Src: "/clouds/ns/gallery/02.webp"},
	}, g.Gallery)
}

type taxonomyBody struct {
	Total   int                 `json:"total"`
	Count   int                 `json:"count"`
	Entries []domain.IndexEntry `json:"entries"`
}

func TestAPITaxonomy(t *testing.T) {
	srv := newTestServer(t, testConfig(), memoryStore(t), &stubClassifier{})

	body := decode[taxonomyBody](t, get(srv, "/api/taxonomy/supplementary"))
	assert.Equal(t, body.Total, body.Count)
	require.NotEmpty(t, body.Entries)
	assert.Equal(t, "virga", body.Entries[0].RomanizedName)

	body = decode[taxonomyBody](t, get(srv, "/api/taxonomy/species?q=fib"))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "fibratus", body.Entries[0].RomanizedName)

	assert.Equal(t, http.StatusNotFound, get(srv, "/api/taxonomy/genera").Code)
	assert.Equal(t, http.StatusBadRequest, get(srv, "/api/taxonomy/species?level=x").Code)
}

func TestAPISubItem(t *testing.T) {
	srv := newTestServer(t, testConfig(), memoryStore(t), &stubClassifier{})

	rec := get(srv, "/api/sub/species/fibratus")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Item        domain.SubItem      `json:"item"`
		Occurrences []domain.Occurrence `json:"occurrences"`
		Images      []domain.Image      `json:"images"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "섬유상", body.Item.NativeName)
	assert.Len(t, body.Occurrences, 2)
	assert.Len(t, body.Images, 4)

	assert.Equal(t, http.StatusNotFound, get(srv, "/api/sub/species/Fibratus").Code)
	assert.Equal(t, http.StatusNotFound, get(srv, "/api/sub/bogus/fibratus").Code)
}

// --- classification ---

func TestClassify_Success(t *testing.T) {
	cls := &stubClassifier{result: cumulusResult()}
	srv := newTestServer(t, testConfig(), memoryStore(t), cls)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "/api/classify", "file", "sky.png", "image/png", pngHeader))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	snap := decode[view.Snapshot](t, rec)
	assert.Equal(t, view.StateResult, snap.State)
	require.NotNil(t, snap.Top)
	assert.Equal(t, "Cu", snap.Top.Code)
	assert.Equal(t, "92.0%", snap.Top.Percent)
	require.Len(t, snap.Others, 1)
	assert.Equal(t, "층적운", snap.Others[0].Name)

	cookie := sessionCookie(t, rec)
	latest := decode[view.Snapshot](t, get(srv, "/api/classify/latest", cookie))
	assert.Equal(t, view.StateResult, latest.State)
	assert.Equal(t, snap.Token, latest.Token)

	anon := decode[view.Snapshot](t, get(srv, "/api/classify/latest"))
	assert.Equal(t, view.StateIdle, anon.State)
}

func TestClassify_RejectsNonImageWithoutCallingClassifier(t *testing.T) {
	cls := &stubClassifier{result: cumulusResult()}
	srv := newTestServer(t, testConfig(), memoryStore(t), cls)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "/api/classify", "file", "notes.txt", "text/plain", []byte("hello")))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	snap := decode[view.Snapshot](t, rec)
	assert.Equal(t, view.StateRejected, snap.State)
	assert.Equal(t, view.MsgNotImage, snap.Error)
	assert.Zero(t, cls.calls.Load())
}

func TestClassify_ClassifierFailure(t *testing.T) {
	cls := &stubClassifier{err: errors.New("connection refused")}
	srv := newTestServer(t, testConfig(), memoryStore(t), cls)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "/api/classify", "file", "sky.png", "image/png", pngHeader))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	snap := decode[view.Snapshot](t, rec)
	assert.Equal(t, view.StateFailed, snap.State)
	assert.False(t, snap.Loading)
	assert.Equal(t, view.MsgFailed, snap.Error)
	assert.Equal(t, view.MsgReupload, snap.Guidance)
}

func TestClassify_BadRequests(t *testing.T) {
	srv := newTestServer(t, testConfig(), memoryStore(t), &stubClassifier{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "/api/classify", "image", "sky.png", "image/png", pngHeader))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/classify", bytes.NewReader(pngHeader))
	req.Header.Set("Content-Type", "image/png")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassify_FileTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.UploadMaxBytes = 1024
	cls := &stubClassifier{result: cumulusResult()}
	srv := newTestServer(t, cfg, memoryStore(t), cls)

	big := append(append([]byte{}, pngHeader...), make([]byte, 256<<10)...)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "/api/classify", "file", "sky.png", "image/png", big))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[view.Snapshot](t, rec).Error, "파일이 너무 큽니다")
	assert.Zero(t, cls.calls.Load())
}

func TestClassify_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.ClassifyRate = 0.001
	cfg.ClassifyBurst = 1
	srv := newTestServer(t, cfg, memoryStore(t), &stubClassifier{result: cumulusResult()})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "/api/classify", "file", "sky.png", "image/png", pngHeader))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "/api/classify", "file", "sky.png", "image/png", pngHeader))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestIdentifyForm_RedirectsAndShowsResult(t *testing.T) {
	srv := newTestServer(t, testConfig(), memoryStore(t), &stubClassifier{result: cumulusResult()})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, uploadRequest(t, "/identify", "file", "sky.png", "image/png", pngHeader))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#ai", rec.Header().Get("Location"))

	home := get(srv, "/", sessionCookie(t, rec))
	assert.Equal(t, http.StatusOK, home.Code)
	assert.Contains(t, home.Body.String(), "92.0%")
}

// --- HTML ---

func TestPages(t *testing.T) {
	srv := newTestServer(t, testConfig(), memoryStore(t), &stubClassifier{})

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/", http.StatusOK, "하늘결"},
		{"/atlas", http.StatusOK, "권운"},
		{"/atlas?q=zzzz", http.StatusOK, "검색 결과가 없습니다"},
		{"/atlas?level=bogus", http.StatusOK, "적운"},
		{"/atlas/ci", http.StatusOK, "종 · 변종 · 부속 구름"},
		{"/atlas/cs", http.StatusOK, "권층운"},
		{"/atlas/ns", http.StatusOK, "/clouds/ns/gallery/01.jpg"},
		{"/atlas/xx", http.StatusNotFound, "요청하신 구름(xx)이 존재하지 않습니다."},
		{"/atlas/taxonomy", http.StatusOK, `id="supplementary"`},
		{"/atlas/taxonomy?q=fib", http.StatusOK, `data-debounce-ms="200"`},
		{"/atlas/sub/species/fibratus", http.StatusOK, "Cirrostratus fibratus (Cs fib)"},
		{"/atlas/sub/species/nothing", http.StatusNotFound, "요청하신 항목(nothing)이 존재하지 않습니다."},
		{"/atlas/sub/bogus/fibratus", http.StatusNotFound, "항목을 찾을 수 없습니다"},
		{"/nope", http.StatusNotFound, "페이지를 찾을 수 없습니다"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(srv, tt.path)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestGenusPage_RedirectsToCanonicalCode(t *testing.T) {
	srv := newTestServer(t, testConfig(), memoryStore(t), &stubClassifier{})

	tests := []struct {
		path     string
		location string
	}{
		{"/atlas/CS", "/atlas/cs"},
		{"/atlas/Ci?lb=2", "/atlas/ci?lb=2"},
		{"/atlas/%20ns", "/atlas/ns"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(srv, tt.path)
			assert.Equal(t, http.StatusMovedPermanently, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}

	rec := get(srv, "/atlas/XX")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "요청하신 구름(XX)이 존재하지 않습니다.")
}

// --- assets ---

func TestAssets(t *testing.T) {
	srv := newTestServer(t, testConfig(), memoryStore(t), &stubClassifier{})

	rec := get(srv, "/clouds/ci/gallery/01.jpg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "3", rec.Header().Get("Content-Length"))
	assert.Equal(t, "jpg", rec.Body.String())

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	req := httptest.NewRequest(http.MethodGet, "/clouds/ci/gallery/01.jpg", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	assert.Equal(t, http.StatusNotFound, get(srv, "/clouds/ci/gallery/99.jpg").Code)
	assert.Equal(t, http.StatusNotFound, get(srv, "/clouds/ci/gallery/*.jpg").Code)
}

func TestAssets_BackendFailure(t *testing.T) {
	srv := newTestServer(t, testConfig(), failingStore{assets.NewMemoryStore()}, &stubClassifier{})
	assert.Equal(t, http.StatusBadGateway, get(srv, "/clouds/ci/gallery/01.jpg").Code)
}
