package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/PhumPatananiti/schooldesk/internal/config"
	"github.com/PhumPatananiti/schooldesk/internal/gateway"
	"github.com/PhumPatananiti/schooldesk/internal/registration"
	"github.com/PhumPatananiti/schooldesk/internal/schoolapi"
	"github.com/PhumPatananiti/schooldesk/internal/session"
)

// fakeAPI stands in for the remote school server. It speaks the
// {success, message} envelope and tracks the one token it issued.
type fakeAPI struct {
	mu         sync.Mutex
	firstLogin bool
	revoked    bool
	token      string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Phone    string `json:"phone"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "pass-1" {
			writeEnvelope(w, http.StatusUnauthorized, map[string]interface{}{
				"success": false,
				"message": "รหัสผ่านไม่ถูกต้อง",
			})
			return
		}
		f.mu.Lock()
		f.token = "tok-1"
		first := f.firstLogin
		f.mu.Unlock()
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"token":   "tok-1",
			"user": map[string]interface{}{
				"id":           "stu-1",
				"phone":        req.Phone,
				"name":         "สมชาย ใจดี",
				"role":         req.Role,
				"isFirstLogin": first,
			},
		})
	})

	mux.HandleFunc("/auth/send-otp", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"otp":     "123456",
		})
	})

	mux.HandleFunc("/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			OTP string `json:"otp"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.OTP != "123456" {
			writeEnvelope(w, http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"message": "รหัส OTP ไม่ถูกต้อง",
			})
			return
		}
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"success": true})
	})

	mux.HandleFunc("/auth/change-password", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(r) {
			writeEnvelope(w, http.StatusUnauthorized, map[string]interface{}{"success": false})
			return
		}
		f.mu.Lock()
		f.firstLogin = false
		f.mu.Unlock()
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"success": true})
	})

	mux.HandleFunc("/student/grades", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(r) {
			writeEnvelope(w, http.StatusUnauthorized, map[string]interface{}{"success": false})
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"studentId": "stu-1", "subjectId": "sub-1", "gradePoint": 4.0},
			{"studentId": "stu-1", "subjectId": "sub-2", "gradePoint": 3.0},
		})
	})

	mux.HandleFunc("/student/profile", func(w http.ResponseWriter, r *http.Request) {
		if !f.authorized(r) {
			writeEnvelope(w, http.StatusUnauthorized, map[string]interface{}{"success": false})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "stu-1"})
	})

	return mux
}

func (f *fakeAPI) authorized(r *http.Request) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revoked || f.token == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+f.token
}

func (f *fakeAPI) revoke() {
	f.mu.Lock()
	f.revoked = true
	f.mu.Unlock()
}

func writeEnvelope(w http.ResponseWriter, status int, payload map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type testEnv struct {
	router      http.Handler
	api         *fakeAPI
	sessionFile string
}

func newTestEnv(t *testing.T, firstLogin bool) *testEnv {
	t.Helper()

	api := &fakeAPI{firstLogin: firstLogin}
	upstream := httptest.NewServer(api.handler())
	t.Cleanup(upstream.Close)

	sessionFile := filepath.Join(t.TempDir(), "session.json")
	cfg := config.Config{
		APIBaseURL:     upstream.URL,
		SessionFile:    sessionFile,
		OTPTTL:         5 * time.Minute,
		RequestTimeout: 5 * time.Second,
		DevMode:        true,
	}

	store := session.NewFileStore(sessionFile)
	gw := gateway.New(cfg.APIBaseURL, cfg.RequestTimeout)
	manager := session.NewManager(store, gw)
	flow := registration.NewFlow(gw, cfg.OTPTTL)
	apiClient := schoolapi.New(cfg.APIBaseURL, cfg.RequestTimeout, manager)

	srv := NewServer(cfg, manager, flow, apiClient)
	return &testEnv{router: srv.Router(), api: api, sessionFile: sessionFile}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec.Code, decoded
}

func loginBody(role string) map[string]string {
	return map[string]string{"phone": "0812345678", "password": "pass-1", "role": role}
}

func TestFirstLoginForcesPasswordChange(t *testing.T) {
	env := newTestEnv(t, true)

	status, resp := env.do(t, http.MethodPost, "/auth/login", loginBody("student"))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "/change-password", resp["redirect"])

	// Every guarded route is off limits until the password rotates.
	status, resp = env.do(t, http.MethodGet, "/student/profile", nil)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "password_change_required", resp["error"])
	require.Equal(t, "/change-password", resp["redirect"])

	status, resp = env.do(t, http.MethodPost, "/auth/change-password", map[string]string{
		"newPassword":     "brand-new",
		"confirmPassword": "brand-new",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "/student", resp["redirect"])

	status, resp = env.do(t, http.MethodGet, "/student/grades", nil)
	require.Equal(t, http.StatusOK, status)
	require.InDelta(t, 3.5, resp["gpa"], 0.001)

	// The rotated flag must survive a restart.
	raw, err := os.ReadFile(env.sessionFile)
	require.NoError(t, err)
	var saved struct {
		Identity struct {
			IsFirstLogin bool `json:"isFirstLogin"`
		} `json:"identity"`
	}
	require.NoError(t, json.Unmarshal(raw, &saved))
	require.False(t, saved.Identity.IsFirstLogin)
}

func TestGuardWithoutSession(t *testing.T) {
	env := newTestEnv(t, false)

	status, resp := env.do(t, http.MethodGet, "/admin/teachers", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "/login", resp["redirect"])
}

func TestGuardRoleMismatch(t *testing.T) {
	env := newTestEnv(t, false)

	status, _ := env.do(t, http.MethodPost, "/auth/login", loginBody("student"))
	require.Equal(t, http.StatusOK, status)

	status, resp := env.do(t, http.MethodGet, "/admin/teachers", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "unauthorized", resp["error"])
	require.Equal(t, "/login", resp["redirect"])
}

func TestLoginRejectedShowsServerMessage(t *testing.T) {
	env := newTestEnv(t, false)

	status, resp := env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"phone": "0812345678", "password": "wrong", "role": "student",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "request_rejected", resp["error"])
	require.Equal(t, "รหัสผ่านไม่ถูกต้อง", resp["message"])
}

func TestLoginValidationFailsLocally(t *testing.T) {
	env := newTestEnv(t, false)

	status, resp := env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"phone": "123", "password": "pass-1", "role": "student",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "validation_failed", resp["error"])
	fields := resp["fields"].(map[string]interface{})
	require.Contains(t, fields, "phone")
}

func TestUpstreamRejectionEvictsSession(t *testing.T) {
	env := newTestEnv(t, false)

	status, _ := env.do(t, http.MethodPost, "/auth/login", loginBody("student"))
	require.Equal(t, http.StatusOK, status)

	env.api.revoke()

	status, resp := env.do(t, http.MethodGet, "/student/grades", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "session_expired", resp["error"])
	require.Equal(t, "/login", resp["redirect"])

	// The eviction is global: identity is gone too, and the store is
	// empty so a restart starts anonymous.
	status, _ = env.do(t, http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	_, err := os.Stat(env.sessionFile)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRegistrationFlow(t *testing.T) {
	env := newTestEnv(t, false)

	status, resp := env.do(t, http.MethodPost, "/auth/send-otp", map[string]string{
		"phone": "0899999999", "role": "teacher",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "otp_sent", resp["status"])
	require.Equal(t, "123456", resp["otp"])
	require.InDelta(t, 300, resp["expiresIn"], 1)

	status, resp = env.do(t, http.MethodPost, "/auth/verify-otp", map[string]string{
		"otp": "123456", "newPassword": "secret1", "confirmPassword": "secret1",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "/login", resp["redirect"])

	// Verifying consumed the attempt; registration never logs in.
	status, _ = env.do(t, http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t, false)

	status, _ := env.do(t, http.MethodPost, "/auth/login", loginBody("student"))
	require.Equal(t, http.StatusOK, status)

	status, resp := env.do(t, http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "stu-1", resp["id"])

	status, resp = env.do(t, http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "/login", resp["redirect"])

	status, _ = env.do(t, http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusUnauthorized, status)
}
