package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/obeddx/notarichCafe-sub002/internal/user/domain"
	"github.com/obeddx/notarichCafe-sub002/internal/user/usecase/command"
	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
	"github.com/obeddx/notarichCafe-sub002/pkg/auth"
	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
)

// UserHandler handles HTTP requests for staff accounts.
type UserHandler struct {
	registerHandler *command.RegisterUserHandler
	loginHandler    *command.LoginUserHandler

	repo domain.UserRepository

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	activeStaff    prometheus.Gauge
}

// NewUserHandler creates a new user handler.
func NewUserHandler(repo domain.UserRepository) *UserHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cafe_user_requests_total",
			Help: "Total number of staff account API requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cafe_user_request_duration_seconds",
			Help:    "Duration of staff account API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	activeStaff := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cafe_active_staff",
		Help: "Number of active staff accounts",
	})
	prometheus.MustRegister(requestCounter, requestLatency, activeStaff)

	return &UserHandler{
		registerHandler: command.NewRegisterUserHandler(repo),
		loginHandler:    command.NewLoginUserHandler(repo),
		repo:            repo,
		requestCounter:  requestCounter,
		requestLatency:  requestLatency,
		activeStaff:     activeStaff,
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *UserHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// Register handles POST /api/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
		Role     string `json:"role"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.registerHandler.Handle(command.RegisterUserCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	h.refreshActiveStaffGauge()

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Account created successfully",
		Data:    user,
	})
}

// Login handles POST /api/auth/login. On success the session token is set
// as the role's HTTP-only cookie and also returned in the body.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	resp, err := h.loginHandler.Handle(command.LoginUserCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		logger.Warn(r.Context()).Str("username", req.Username).Msg("Login failed")
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "Invalid credentials",
		})
		return
	}

	auth.SetRoleCookie(w, resp.User.Role, resp.Token)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Login successful",
		Data:    resp,
	})
}

// Logout handles POST /api/auth/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearRoleCookies(w)
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Logged out"})
}

// Me handles GET /api/auth/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "Authentication required",
		})
		return
	}

	user, err := h.repo.FindByID(userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: user})
}

// ListUsers handles GET /api/user
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 50
	}

	users, err := h.repo.FindAll(limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: users})
}

// DeactivateUser handles DELETE /api/user/{id}
func (h *UserHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.repo.Deactivate(id); err != nil {
		respondError(w, err)
		return
	}

	h.refreshActiveStaffGauge()

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "Account deactivated"})
}

// RegisterRoutes registers all auth and staff routes.
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/register",
		h.metricsMiddleware("/api/auth/register", RequireRoles(h.Register, domain.RoleOwner, domain.RoleManager))).Methods("POST")
	router.HandleFunc("/api/auth/login",
		h.metricsMiddleware("/api/auth/login", h.Login)).Methods("POST")
	router.HandleFunc("/api/auth/logout",
		h.metricsMiddleware("/api/auth/logout", h.Logout)).Methods("POST")
	router.HandleFunc("/api/auth/me",
		h.metricsMiddleware("/api/auth/me", AuthMiddleware(h.Me))).Methods("GET")

	router.HandleFunc("/api/user",
		h.metricsMiddleware("/api/user", RequireRoles(h.ListUsers, domain.RoleOwner, domain.RoleManager))).Methods("GET")
	router.HandleFunc("/api/user/{id}",
		h.metricsMiddleware("/api/user/{id}", RequireRoles(h.DeactivateUser, domain.RoleOwner))).Methods("DELETE")
}

func (h *UserHandler) refreshActiveStaffGauge() {
	count, err := h.repo.Count()
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to refresh active staff gauge")
		return
	}
	h.activeStaff.Set(float64(count))
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil {
		return 0, apperr.Validation("invalid %s", name)
	}
	return uint(id), nil
}
