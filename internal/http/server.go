package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PhumPatananiti/schooldesk/internal/config"
	"github.com/PhumPatananiti/schooldesk/internal/gateway"
	"github.com/PhumPatananiti/schooldesk/internal/guard"
	"github.com/PhumPatananiti/schooldesk/internal/model"
	"github.com/PhumPatananiti/schooldesk/internal/registration"
	"github.com/PhumPatananiti/schooldesk/internal/schoolapi"
	"github.com/PhumPatananiti/schooldesk/internal/session"
	"github.com/PhumPatananiti/schooldesk/internal/validate"
)

// genericFailure is shown when the server rejected a request without
// saying why.
const genericFailure = "เกิดข้อผิดพลาด กรุณาลองใหม่อีกครั้ง"

type Server struct {
	cfg     config.Config
	manager *session.Manager
	flow    *registration.Flow
	api     *schoolapi.Client
}

func NewServer(cfg config.Config, manager *session.Manager, flow *registration.Flow, api *schoolapi.Client) *Server {
	s := &Server{cfg: cfg, manager: manager, flow: flow, api: api}
	manager.OnInvalidated(func() {
		invalidationsTotal.Inc()
		log.Printf("session invalidated, next navigation redirects to %s", guard.LoginPath)
	})
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/send-otp", s.handleSendOTP)
	r.Post("/auth/verify-otp", s.handleVerifyOTP)
	r.Post("/auth/cancel-registration", s.handleCancelRegistration)
	r.Post("/auth/change-password", s.handleChangePassword)
	r.With(s.requireSession).Post("/auth/logout", s.handleLogout)
	r.With(s.requireSession).Get("/auth/me", s.handleMe)

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireRole(model.RoleAdmin))
		s.mountAdminRoutes(r)
	})
	r.Route("/teacher", func(r chi.Router) {
		r.Use(s.requireRole(model.RoleTeacher))
		s.mountTeacherRoutes(r)
	})
	r.Route("/student", func(r chi.Router) {
		r.Use(s.requireRole(model.RoleStudent))
		s.mountStudentRoutes(r)
	})

	return r
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form validate.Login
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	identity, err := s.manager.Login(r.Context(), form)
	if err != nil {
		loginsTotal.WithLabelValues("failure").Inc()
		s.writeDomainError(w, err)
		return
	}
	loginsTotal.WithLabelValues("success").Inc()

	redirect := identity.Role.HomePath()
	if identity.IsFirstLogin {
		redirect = guard.ChangePasswordPath
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":     identity,
		"redirect": redirect,
	})
}

func (s *Server) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var form validate.Registration
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	attempt, otp, err := s.flow.RequestOTP(r.Context(), form)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	resp := map[string]interface{}{
		"status":    "otp_sent",
		"expiresIn": attempt.Remaining(),
	}
	if s.cfg.DevMode && otp != "" {
		resp["otp"] = otp
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var form validate.OTPVerification
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	if err := s.flow.VerifyOTP(r.Context(), form); err != nil {
		s.writeDomainError(w, err)
		return
	}

	// Registration never auto-authenticates.
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "registered",
		"redirect": guard.LoginPath,
	})
}

func (s *Server) handleCancelRegistration(w http.ResponseWriter, _ *http.Request) {
	s.flow.Cancel()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var form validate.ChangePassword
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	if err := s.manager.ChangePassword(r.Context(), form); err != nil {
		s.writeDomainError(w, err)
		return
	}

	// The forced flow interrupted whatever the user wanted; land on
	// the role home, not the originally requested route.
	sess := s.manager.Session()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"redirect": sess.Identity.Role.HomePath(),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Logout(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "logout_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"redirect": guard.LoginPath,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, _ *http.Request) {
	sess := s.manager.Session()
	if sess == nil {
		writeRedirect(w, http.StatusUnauthorized, "unauthorized", guard.LoginPath)
		return
	}
	writeJSON(w, http.StatusOK, sess.Identity)
}

// requireRole consults the session manager on every navigation and
// enforces the guard's decision. The guard itself stays pure.
func (s *Server) requireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := guard.Decide(s.manager.Session(), guard.Route{
				Path:         r.URL.Path,
				RequiredRole: role,
			})
			switch decision {
			case guard.Allow:
				next.ServeHTTP(w, r)
			case guard.RedirectChangePassword:
				writeRedirect(w, http.StatusForbidden, "password_change_required", decision.RedirectPath())
			default:
				writeRedirect(w, http.StatusUnauthorized, "unauthorized", decision.RedirectPath())
			}
		})
	}
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return s.requireRole("")(next)
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	verr := &validate.Error{}
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation_failed",
			"fields": verr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, session.ErrOperationInFlight):
		writeError(w, http.StatusConflict, "operation_in_flight")
		return
	case errors.Is(err, session.ErrNoSession):
		writeRedirect(w, http.StatusUnauthorized, "unauthorized", guard.LoginPath)
		return
	case errors.Is(err, registration.ErrAttemptExpired):
		writeError(w, http.StatusGone, "otp_expired")
		return
	case errors.Is(err, gateway.ErrCredentialInvalidated):
		writeRedirect(w, http.StatusUnauthorized, "session_expired", guard.LoginPath)
		return
	}

	rerr := &gateway.RemoteError{}
	if errors.As(err, &rerr) {
		message := rerr.Message
		if message == "" {
			message = genericFailure
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "request_rejected",
			"message": message,
		})
		return
	}

	terr := &gateway.TransportError{}
	if errors.As(err, &terr) {
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":   "api_unreachable",
			"message": genericFailure,
		})
		return
	}

	writeError(w, http.StatusInternalServerError, "server_error")
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func writeRedirect(w http.ResponseWriter, status int, code, redirect string) {
	writeJSON(w, status, map[string]string{"error": code, "redirect": redirect})
}
