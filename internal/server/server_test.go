package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/TaddsTechnology/piggy-risk/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testConfig returns a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Port:           "0",
		Env:            "development",
		LogLevel:       "error",
		LogFormat:      "text",
		SigningSecret:  "test-secret",
		AlertThreshold: 3,
		RateLimitRPS:   100,
	}
}

// newTestServer creates a server with in-memory stores
func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(testConfig())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	return s
}

// ---------------------------------------------------------------------------
// Health endpoint tests
// ---------------------------------------------------------------------------

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", resp["status"])
	}
}

func TestLivenessEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health/live", nil)
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestReadinessEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health/ready", nil)
	s.router.ServeHTTP(w, req)

	// Server hasn't called Run() so ready is false
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 (not ready), got %d", w.Code)
	}
}

// ---------------------------------------------------------------------------
// Route registration tests
// ---------------------------------------------------------------------------

func TestCoreRoutesRegistered(t *testing.T) {
	s := newTestServer(t)

	routes := s.router.Routes()
	expected := []string{
		"GET:/health",
		"GET:/health/live",
		"GET:/health/ready",
		"GET:/metrics",
		"GET:/ws/alerts",
		"POST:/v1/fraud/score",
		"GET:/v1/fraud/users/:userId/assessments",
		"POST:/v1/aml/analyze",
		"GET:/v1/aml/users/:userId/reports",
		"POST:/v1/integrity/hash",
		"POST:/v1/integrity/sign",
		"POST:/v1/integrity/verify-hash",
		"POST:/v1/integrity/verify-signature",
		"POST:/v1/monitor/report",
		"GET:/v1/monitor/activity",
		"GET:/v1/monitor/users/:userId/activity",
		"GET:/v1/monitor/users/:userId/alerts",
		"DELETE:/v1/monitor/users/:userId/activity",
	}

	routeSet := make(map[string]bool)
	for _, route := range routes {
		routeSet[route.Method+":"+route.Path] = true
	}

	for _, e := range expected {
		if !routeSet[e] {
			t.Errorf("Core route %s not registered", e)
		}
	}
}

// ---------------------------------------------------------------------------
// End-to-end request tests
// ---------------------------------------------------------------------------

func TestFraudScoreEndpoint(t *testing.T) {
	s := newTestServer(t)

	body := `{
		"transaction": {
			"id": "txn_1",
			"userId": "user_1",
			"amount": 250000,
			"merchant": "Unknown Crypto Exchange",
			"timestamp": "2026-03-10T03:00:00Z"
		}
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/fraud/score", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Assessment struct {
			Score   int    `json:"score"`
			Level   string `json:"riskLevel"`
			Blocked bool   `json:"blocked"`
		} `json:"assessment"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if resp.Assessment.Level != "CRITICAL" || !resp.Assessment.Blocked {
		t.Errorf("Expected blocked CRITICAL assessment, got %+v", resp.Assessment)
	}
}

func TestFraudScoreEndpoint_InvalidTransaction(t *testing.T) {
	s := newTestServer(t)

	// Missing userId
	body := `{"transaction": {"id": "txn_1", "amount": 10, "timestamp": "2026-03-10T03:00:00Z"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/fraud/score", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestIntegrityRoundTrip(t *testing.T) {
	s := newTestServer(t)

	txJSON := `{
		"id": "txn_9",
		"userId": "user_1",
		"amount": 199.99,
		"merchant": "Corner Shop",
		"timestamp": "2026-03-10T12:00:00Z"
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/integrity/sign", strings.NewReader(`{"transaction":`+txJSON+`}`))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("sign: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var signResp struct {
		Signature string `json:"signature"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &signResp); err != nil || signResp.Signature == "" {
		t.Fatalf("sign: bad response %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	verifyBody := `{"transaction":` + txJSON + `,"signature":"` + signResp.Signature + `"}`
	req = httptest.NewRequest("POST", "/v1/integrity/verify-signature", strings.NewReader(verifyBody))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var verifyResp struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &verifyResp); err != nil || !verifyResp.Valid {
		t.Fatalf("verify: expected valid signature, got %s", w.Body.String())
	}
}

func TestMonitorReportEndpoint(t *testing.T) {
	s := newTestServer(t)

	body := `{"userId": "user_1", "activityType": "failed_login"}`
	var lastResp struct {
		Count   int  `json:"count"`
		Alerted bool `json:"alerted"`
	}

	for i := 1; i <= 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/v1/monitor/report", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		s.router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("report %d: expected 200, got %d: %s", i, w.Code, w.Body.String())
		}
		if err := json.Unmarshal(w.Body.Bytes(), &lastResp); err != nil {
			t.Fatalf("report %d: bad response: %v", i, err)
		}
		if lastResp.Count != i {
			t.Errorf("report %d: expected count %d, got %d", i, i, lastResp.Count)
		}
	}

	if !lastResp.Alerted {
		t.Error("third report should alert")
	}
}

func TestUserIDParamValidation(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/monitor/users/bad%20id/activity", nil)
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed userId, got %d", w.Code)
	}
}

// ---------------------------------------------------------------------------
// 404 test
// ---------------------------------------------------------------------------

func TestNotFoundRoute(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/nonexistent", nil)
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}
