package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	testReqID   = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testActorID = "creator-1"
	testRoute   = "/rfqs/:id/publish"
	testPath    = "/rfqs/7/publish"
)

func setupEcho(rdb redis.Cmdable, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(Idempotency(rdb, ttl, zap.NewNop()))
	e.POST(testRoute, handler)
	e.GET(testRoute, handler)
	return e
}

func mkJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func validHeaders() map[string]string {
	return map[string]string{
		HeaderRequestID: testReqID,
		HeaderRequestAt: time.Now().UTC().Format(time.RFC3339),
		HeaderActorID:   testActorID,
	}
}

func without(h map[string]string, key string) map[string]string {
	out := map[string]string{}
	for k, v := range h {
		if k != key {
			out[k] = v
		}
	}
	return out
}

func with(h map[string]string, key, value string) map[string]string {
	out := without(h, key)
	out[key] = value
	return out
}

func okCreatedHandler(c echo.Context) error {
	return c.JSON(http.StatusCreated, map[string]any{"ok": true})
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "get ok"})
	})
	rec := doReq(t, e, http.MethodGet, testPath, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_ValidationFailures(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	e := setupEcho(rdb, 30*time.Second, okCreatedHandler)
	valid := validHeaders()

	cases := []struct {
		name string
		hdr  map[string]string
	}{
		{"missing request id", without(valid, HeaderRequestID)},
		{"invalid request id", with(valid, HeaderRequestID, "NOT-VALID")},
		{"invalid request at", with(valid, HeaderRequestAt, "not-a-time")},
		{"request at too old", with(valid, HeaderRequestAt, time.Now().UTC().Add(-maxClockSkew-time.Minute).Format(time.RFC3339))},
		{"missing actor", without(valid, HeaderActorID)},
		{"invalid actor", with(valid, HeaderActorID, "has spaces in it")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doReq(t, e, http.MethodPost, testPath, mkJSONBody(t, map[string]int{"x": 1}), tc.hdr)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var calls int32
	e := setupEcho(rdb, 2*time.Minute, func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return okCreatedHandler(c)
	})
	h := validHeaders()

	rec1 := doReq(t, e, http.MethodPost, testPath, mkJSONBody(t, map[string]any{"reason": "done"}), h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d, body: %s", rec1.Code, rec1.Body.String())
	}
	rec2 := doReq(t, e, http.MethodPost, testPath, mkJSONBody(t, map[string]any{"reason": "done"}), h)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d, body: %s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("handler ran %d times, want 1", n)
	}
}

func Test_KeyIsScopedByActor(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var calls int32
	e := setupEcho(rdb, 2*time.Minute, func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return okCreatedHandler(c)
	})

	doReq(t, e, http.MethodPost, testPath, mkJSONBody(t, map[string]int{"x": 1}), validHeaders())
	rec := doReq(t, e, http.MethodPost, testPath, mkJSONBody(t, map[string]int{"x": 1}),
		with(validHeaders(), HeaderActorID, "director-1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("second actor => want 201, got %d", rec.Code)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("handler ran %d times, want 2", n)
	}
}

func Test_ServerErrorIsNotStored(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	var calls int32
	e := setupEcho(rdb, 2*time.Minute, func(c echo.Context) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "boom"})
		}
		return okCreatedHandler(c)
	})

	rec1 := doReq(t, e, http.MethodPost, testPath, mkJSONBody(t, map[string]int{"x": 1}), validHeaders())
	if rec1.Code != http.StatusInternalServerError {
		t.Fatalf("first => want 500, got %d", rec1.Code)
	}
	rec2 := doReq(t, e, http.MethodPost, testPath, mkJSONBody(t, map[string]int{"x": 1}), validHeaders())
	if rec2.Code != http.StatusCreated {
		t.Fatalf("retry => want 201, got %d", rec2.Code)
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	e := setupEcho(rdb, 2*time.Minute, okCreatedHandler)
	body := []byte(`{"x":1}`)

	key := buildKey(http.MethodPost, testRoute, testActorID, testReqID)
	entry := idempEntry{
		InProgress:  true,
		BodySHA256:  bodyHash(body),
		RequestID:   testReqID,
		RequestAtMS: time.Now().UnixMilli(),
		CreatedAt:   time.Now().UTC(),
	}
	if ok, err := provisionalSet(context.Background(), rdb, key, entry); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, testPath, bytes.NewReader(body), validHeaders())
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_Conflict_When_SameReqID_DifferentBody(t *testing.T) {
	_, rdb := newMiniredisClient(t)
	e := setupEcho(rdb, 2*time.Minute, okCreatedHandler)

	key := buildKey(http.MethodPost, testRoute, testActorID, testReqID)
	final := idempEntry{
		Code:        http.StatusCreated,
		Body:        []byte(`{"ok":true}`),
		BodySHA256:  bodyHash([]byte(`{"x":1}`)),
		RequestID:   testReqID,
		RequestAtMS: time.Now().UnixMilli(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := saveFinal(context.Background(), rdb, key, final, 5*time.Minute); err != nil {
		t.Fatalf("seed final failed: %v", err)
	}

	rec := doReq(t, e, http.MethodPost, testPath, bytes.NewReader([]byte(`{"x":2}`)), validHeaders())
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body same reqID => want 409, got %d", rec.Code)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()
	e := setupEcho(rdb, time.Minute, okCreatedHandler)

	rec := doReq(t, e, http.MethodPost, testPath, bytes.NewReader([]byte(`{}`)), validHeaders())
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
}
