package handler

import (
	"net/http"

	"document-portal/internal/domain"
	"document-portal/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// HealthResponse is the payload of the health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health reports that the service is up
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Message: "Document Portal is running",
	})
}

// MethodNotAllowed rejects a known path requested with the wrong method
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// NewRouter creates a new HTTP router with all routes configured. m may be
// nil, in which case /metrics is not served.
func NewRouter(
	documentHandler *DocumentHandler,
	modelHandler *ModelHandler,
	m *metrics.Metrics,
	logger domain.Logger,
	allowedOrigins []string,
) http.Handler {
	router := mux.NewRouter()
	router.Use(RequestLogger(logger, m))
	router.MethodNotAllowedHandler = http.HandlerFunc(MethodNotAllowed)

	router.HandleFunc("/", Health).Methods("GET")
	router.HandleFunc("/health", Health).Methods("GET")
	if m != nil {
		router.Handle("/metrics", m.Handler()).Methods("GET")
	}

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()
	api.MethodNotAllowedHandler = http.HandlerFunc(MethodNotAllowed)

	// Session routes
	api.HandleFunc("/sessions", documentHandler.CreateSession).Methods("POST")
	api.HandleFunc("/sessions", documentHandler.ListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}/documents", documentHandler.ListDocuments).Methods("GET")
	api.HandleFunc("/sessions/{id}/documents", documentHandler.UploadDocument).Methods("POST")
	api.HandleFunc("/sessions/{id}/documents/{name}", documentHandler.ReadDocument).Methods("GET")

	// Text routes
	api.HandleFunc("/analyze", documentHandler.Analyze).Methods("POST")
	api.HandleFunc("/compare", documentHandler.Compare).Methods("POST")
	api.HandleFunc("/retrieve", documentHandler.Retrieve).Methods("POST")

	// Model routes
	api.HandleFunc("/models", modelHandler.GetModels).Methods("GET")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			requestIDHeader,
		},
		ExposedHeaders: []string{
			requestIDHeader,
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
