package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"simplynourished/internal/ai"
	"simplynourished/internal/config"
	"simplynourished/internal/session"
)

var baseTestConfig config.Config

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	baseTestConfig = newTestConfig()
	os.Exit(m.Run())
}

func newTestConfig() config.Config {
	cfg := config.Config{
		AppEnv:            "test",
		AppName:           "SimplyNourished API Test",
		APIPrefix:         "/api/v1",
		AppPort:           "0",
		JWTSecret:         "test-secret-1234567890",
		JWTAlgorithm:      "HS256",
		SessionTTLMinutes: 60,
		CORSAllowOrigins: []string{
			"http://localhost:5173",
			"http://localhost:3000",
		},
		AIProvider:        config.ProviderMock,
		OpenAIModel:       "gpt-3.5-turbo",
		AIMaxOutputTokens: 300,
		AITemperature:     0.7,
		AITimeoutSeconds:  5,
	}
	if v := strings.TrimSpace(os.Getenv("TEST_JWT_SECRET")); v != "" {
		cfg.JWTSecret = v
	}
	return cfg
}

// fakeProvider answers with a fixed text or error. When gate is set each
// call blocks until the gate is closed or the call is canceled.
type fakeProvider struct {
	mu    sync.Mutex
	text  string
	err   error
	gate  chan struct{}
	calls int
}

func (p *fakeProvider) Complete(ctx context.Context, req ai.Request) (ai.Response, error) {
	p.mu.Lock()
	p.calls++
	gate, text, err := p.gate, p.text, p.err
	p.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ai.Response{}, &ai.ProviderError{Err: ctx.Err()}
		}
	}
	if err != nil {
		return ai.Response{}, err
	}
	return ai.Response{Text: text, Model: req.Model}, nil
}

type testEnv struct {
	cfg    config.Config
	store  *session.Store
	router *gin.Engine
}

func newTestEnv(t *testing.T, provider ai.Client) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, baseTestConfig, provider)
}

func newTestEnvWithConfig(t *testing.T, cfg config.Config, provider ai.Client) *testEnv {
	t.Helper()
	if provider == nil {
		provider = ai.New(cfg)
	}
	ttl := time.Duration(cfg.SessionTTLMinutes) * time.Minute
	store := session.NewStore(session.NewFetcher(provider, cfg), ttl)
	t.Cleanup(store.Close)
	return &testEnv{
		cfg:    cfg,
		store:  store,
		router: New(cfg, store).Router(),
	}
}

// startSession creates a session through the API and returns its token.
func (e *testEnv) startSession(t *testing.T) (string, string) {
	t.Helper()
	rec := performRequest(t, e.router, http.MethodPost, "/api/v1/sessions", "", nil, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeJSONMap(t, rec)
	id, _ := body["session_id"].(string)
	token, _ := body["token"].(string)
	if id == "" || token == "" {
		t.Fatalf("expected session_id and token, got %v", body)
	}
	return id, token
}

func validPlanBody() map[string]any {
	return map[string]any{
		"weight_lbs":        150,
		"height_ft":         5,
		"height_in_partial": 6,
		"age":               30,
		"gender":            "male",
		"goal_weight_lbs":   140,
	}
}

func signToken(t *testing.T, sub string, overrides map[string]any) string {
	t.Helper()
	return signTokenWithConfig(t, baseTestConfig, sub, overrides)
}

func signTokenWithConfig(t *testing.T, cfg config.Config, sub string, overrides map[string]any) string {
	t.Helper()

	claims := jwt.MapClaims{
		"exp": time.Now().UTC().Add(1 * time.Hour).Unix(),
		"iat": time.Now().UTC().Add(-1 * time.Minute).Unix(),
	}
	if strings.TrimSpace(sub) != "" {
		claims["sub"] = sub
	}
	if strings.TrimSpace(cfg.JWTIssuer) != "" {
		claims["iss"] = cfg.JWTIssuer
	}
	for key, value := range overrides {
		if value == nil {
			delete(claims, key)
			continue
		}
		claims[key] = value
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func performRequest(
	t *testing.T,
	router http.Handler,
	method, targetPath, token string,
	body any,
	headers map[string]string,
) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, targetPath, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSONMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response JSON: %v; body=%s", err, rec.Body.String())
	}
	return payload
}

func decodeState(t *testing.T, raw any) session.State {
	t.Helper()
	encoded, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("re-encode state: %v", err)
	}
	var st session.State
	if err := json.Unmarshal(encoded, &st); err != nil {
		t.Fatalf("decode state: %v; raw=%s", err, encoded)
	}
	return st
}

func responseDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeJSONMap(t, rec)
	detail, _ := body["detail"].(string)
	return detail
}
