package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MCASE28/planb-tier/internal/api/apierr"
	"github.com/MCASE28/planb-tier/internal/api/handler"
	apimw "github.com/MCASE28/planb-tier/internal/api/middleware"
	mw "github.com/MCASE28/planb-tier/internal/middleware"
	"github.com/MCASE28/planb-tier/internal/services/auth"
	"github.com/MCASE28/planb-tier/internal/services/room"
	"github.com/MCASE28/planb-tier/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	RoomController room.ControllerInterface
	Hub            *sse.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	roomHandler := handler.NewRoomHandler(cfg.RoomController)
	playerHandler := handler.NewPlayerHandler(cfg.RoomController)
	eventsHandler := handler.NewEventsHandler(cfg.Hub)

	// Create middleware
	hostAuth := apimw.HostAuth(cfg.AuthService)
	optionalHostAuth := apimw.OptionalHostAuth(cfg.AuthService)
	logging := mw.Logging(cfg.Logger)
	recovery := mw.Recovery(cfg.Logger, func(w http.ResponseWriter, _ *http.Request, _ any) {
		apierr.WriteError(w, apierr.NewInternalError())
	})

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recovery)
	api.Use(logging)

	// Public routes
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.Handle("/room", optionalHostAuth(http.HandlerFunc(roomHandler.Get))).Methods(http.MethodGet)
	api.HandleFunc("/host/login", roomHandler.HostLogin).Methods(http.MethodPost)
	api.HandleFunc("/players", playerHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Host routes
	host := api.NewRoute().Subrouter()
	host.Use(hostAuth)
	host.HandleFunc("/host/logout", roomHandler.HostLogout).Methods(http.MethodPost)
	host.HandleFunc("/room/code", roomHandler.RegenerateCode).Methods(http.MethodPost)
	host.HandleFunc("/room/active", roomHandler.SetActive).Methods(http.MethodPatch)
	host.HandleFunc("/room/capacity", roomHandler.SetCapacity).Methods(http.MethodPatch)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
