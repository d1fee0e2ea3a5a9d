package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/siatlabs/siat/api"
	"github.com/siatlabs/siat/logger"
	"github.com/siatlabs/siat/persistence"
	"github.com/siatlabs/siat/service"
	"go.uber.org/zap"
)

type Server struct {
	http.Server
	Port         int
	flowService  *service.FlowService
	tenantHeader string
	userHeader   string
}

func NewServer(httpPort int, flowService *service.FlowService, tenantHeader string, userHeader string) (*Server, error) {
	if tenantHeader == "" {
		tenantHeader = "X-Tenant-Id"
	}
	if userHeader == "" {
		userHeader = "X-User-Id"
	}
	s := &Server{
		Server: http.Server{
			Addr:        fmt.Sprintf(":%d", httpPort),
			IdleTimeout: 2 * time.Second,
		},
		flowService:  flowService,
		Port:         httpPort,
		tenantHeader: tenantHeader,
		userHeader:   userHeader,
	}

	router := mux.NewRouter()
	router.HandleFunc("/siat/flows", s.HandleCreateFlow).Methods(http.MethodPost)
	router.HandleFunc("/siat/flows", s.HandleListFlows).Methods(http.MethodGet)
	router.HandleFunc("/siat/flows/{id}", s.HandleGetFlow).Methods(http.MethodGet)
	router.HandleFunc("/siat/flows/{id}", s.HandleUpdateFlow).Methods(http.MethodPatch)
	router.HandleFunc("/siat/flows/{id}", s.HandleDeleteFlow).Methods(http.MethodDelete)

	router.HandleFunc("/siat/flows/{id}/generate", s.HandleGenerateFlow).Methods(http.MethodPost)
	router.HandleFunc("/siat/flows/{id}/deploy", s.HandleDeployFlow).Methods(http.MethodPost)
	router.HandleFunc("/siat/flows/{id}/execute", s.HandleExecuteFlow).Methods(http.MethodPost)
	router.HandleFunc("/siat/flows/{id}/executions", s.HandleListExecutions).Methods(http.MethodGet)

	router.HandleFunc("/siat/templates", s.HandleListTemplates).Methods(http.MethodGet)
	router.HandleFunc("/siat/deployments", s.HandleListDeployments).Methods(http.MethodGet)
	router.HandleFunc("/siat/deployments/{id}", s.HandleGetDeployment).Methods(http.MethodGet)
	router.HandleFunc("/siat/deployments/{id}", s.HandleDeleteDeployment).Methods(http.MethodDelete)

	router.Use(loggingMiddleware)
	s.Handler = router
	return s, nil
}

func (s *Server) Start() error {
	logger.Info("starting http server on", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	if err != nil {
		logger.Error("error shutting down http server")
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI, zap.String("method", r.Method))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) caller(r *http.Request) (string, string) {
	tenantId := r.Header.Get(s.tenantHeader)
	if tenantId == "" {
		tenantId = "default"
	}
	userId := r.Header.Get(s.userHeader)
	if userId == "" {
		userId = "anonymous"
	}
	return tenantId, userId
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps the service error taxonomy onto HTTP statuses.
func respondWithServiceError(w http.ResponseWriter, err error) {
	var validationErr api.ValidationError
	if errors.As(err, &validationErr) {
		respondWithJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "details": validationErr.Errors})
		return
	}
	var preconditionErr api.PreconditionError
	if errors.As(err, &preconditionErr) {
		respondWithError(w, http.StatusBadRequest, preconditionErr.Message)
		return
	}
	var notFoundErr api.NotFoundError
	if errors.As(err, &notFoundErr) {
		respondWithError(w, http.StatusNotFound, notFoundErr.Error())
		return
	}
	var storageNotFound persistence.NotFoundError
	if errors.As(err, &storageNotFound) {
		respondWithError(w, http.StatusNotFound, storageNotFound.Error())
		return
	}
	respondWithError(w, http.StatusInternalServerError, err.Error())
}
