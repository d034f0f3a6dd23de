package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/facturaIA/paytext-invoice-service/internal/export"
	"github.com/facturaIA/paytext-invoice-service/internal/models"
	"github.com/facturaIA/paytext-invoice-service/internal/numbering"
	"github.com/facturaIA/paytext-invoice-service/internal/services"
	"github.com/facturaIA/paytext-invoice-service/internal/storage"
	"github.com/facturaIA/paytext-invoice-service/internal/validation"
)

const (
	MaxBodySize = 1 * 1024 * 1024 // 1MB, logos included
	Version     = "1.0.0"
)

// Handler handles HTTP requests for invoice extraction
type Handler struct {
	config     *models.Config
	extraction *services.ExtractionService
	numbering  *numbering.Service
	profiles   *services.ProfileStore
	validator  *validation.InvoiceValidator
	store      storage.Store
	logger     *zap.Logger
}

// Deps are the collaborators a Handler serves
type Deps struct {
	Extraction *services.ExtractionService
	Numbering  *numbering.Service
	Profiles   *services.ProfileStore
	Store      storage.Store
	Logger     *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(config *models.Config, deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		config:     config,
		extraction: deps.Extraction,
		numbering:  deps.Numbering,
		profiles:   deps.Profiles,
		validator:  validation.NewInvoiceValidator(),
		store:      deps.Store,
		logger:     logger,
	}
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()
	router.Use(h.requestID)

	// Extraction
	router.HandleFunc("/api/extract", h.Extract).Methods("POST")
	router.HandleFunc("/api/validate", h.Validate).Methods("POST")
	router.HandleFunc("/api/export/xlsx", h.ExportXLSX).Methods("POST")

	// Invoice numbers
	router.HandleFunc("/api/invoice-number/next", h.NextInvoiceNumber).Methods("POST")
	router.HandleFunc("/api/invoice-number/parse", h.ParseInvoiceNumber).Methods("GET")

	// Vendor profile and logo
	router.HandleFunc("/api/profile", h.GetProfile).Methods("GET")
	router.HandleFunc("/api/profile", h.SaveProfile).Methods("PUT")
	router.HandleFunc("/api/profile", h.ClearProfile).Methods("DELETE")
	router.HandleFunc("/api/logo", h.GetLogo).Methods("GET")
	router.HandleFunc("/api/logo", h.SaveLogo).Methods("PUT")
	router.HandleFunc("/api/logo", h.ClearLogo).Methods("DELETE")

	// Health check
	router.HandleFunc("/health", h.Health).Methods("GET")

	return router
}

// requestID tags every request with an id and logs its outcome
func (h *Handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		h.logger.Info("http.request",
			zap.String("requestId", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Memory    MemoryStats       `json:"memory"`
	Storage   ServiceStatus     `json:"storage"`
	AI        map[string]string `json:"ai"`
}

// MemoryStats represents memory usage statistics
type MemoryStats struct {
	Allocated string `json:"allocated"`
	Total     string `json:"total"`
	System    string `json:"system"`
}

// ServiceStatus represents the status of a service dependency
type ServiceStatus struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

var startTime = time.Now()

// Health endpoint - enhanced for monitoring
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Memory statistics
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	storageStatus := h.checkStorage(r.Context())

	aiProvider := h.extraction.AIProvider()
	aiStatus := "unavailable"
	if aiProvider != "" {
		aiStatus = "configured"
	}

	response := HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(startTime).String(),
		Memory: MemoryStats{
			Allocated: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
			Total:     fmt.Sprintf("%.2f MB", float64(m.TotalAlloc)/1024/1024),
			System:    fmt.Sprintf("%.2f MB", float64(m.Sys)/1024/1024),
		},
		Storage: storageStatus,
		AI: map[string]string{
			"defaultProvider": h.config.AI.DefaultProvider,
			"provider":        aiProvider,
			"status":          aiStatus,
		},
	}

	// AI is optional; storage is not
	if !storageStatus.Available {
		response.Status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	json.NewEncoder(w).Encode(response)
}

// checkStorage pings the key-value backend
func (h *Handler) checkStorage(ctx context.Context) ServiceStatus {
	if h.store == nil {
		return ServiceStatus{
			Available: false,
			Error:     "storage not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		return ServiceStatus{
			Available: false,
			Error:     err.Error(),
		}
	}

	backend := h.config.Storage.Backend
	if backend == "" {
		backend = storage.BackendMemory
	}
	return ServiceStatus{
		Available: true,
		Version:   backend,
	}
}

// Extract turns payment text into an invoice. AI is allowed unless useAI is false.
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	req := models.ExtractRequest{UseAI: true}
	if err := decodeJSON(w, r, &req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		h.sendError(w, http.StatusBadRequest, "text is required")
		return
	}

	resp := h.extraction.Extract(r.Context(), req)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Validate gates an edited invoice before it is issued
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var inv models.InvoiceData
	if err := decodeJSON(w, r, &inv); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid invoice: "+err.Error())
		return
	}

	result := h.validator.Validate(&inv)
	if !result.Valid {
		w.WriteHeader(http.StatusUnprocessableEntity)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(result)
}

// NextInvoiceNumber allocates the next invoice number
func (h *Handler) NextInvoiceNumber(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	number, err := h.numbering.GenerateNext(r.Context())
	if err != nil {
		if errors.Is(err, numbering.ErrMalformedSequence) {
			h.logger.Error("numbering.corrupted", zap.Error(err))
		}
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"invoiceNumber": number})
}

// ParseInvoiceNumber splits a number into year and sequence
func (h *Handler) ParseInvoiceNumber(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	value := r.URL.Query().Get("value")
	if value == "" {
		h.sendError(w, http.StatusBadRequest, "value is required")
		return
	}

	n, err := h.numbering.Parse(value)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(n)
}

// GetProfile returns the vendor profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	profile, err := h.profiles.GetProfile(r.Context())
	if err != nil {
		h.sendStoreError(w, err, "profile")
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(profile)
}

// SaveProfile replaces the vendor profile
func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "request body too large")
		return
	}

	if err := h.profiles.SaveProfile(r.Context(), json.RawMessage(body)); err != nil {
		if errors.Is(err, services.ErrInvalidProfile) {
			h.sendError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// ClearProfile removes the vendor profile
func (h *Handler) ClearProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.ClearProfile(r.Context()); err != nil {
		w.Header().Set("Content-Type", "application/json")
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type logoBody struct {
	DataURL string `json:"dataUrl"`
}

// GetLogo returns the logo data URL
func (h *Handler) GetLogo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	logo, err := h.profiles.GetLogo(r.Context())
	if err != nil {
		h.sendStoreError(w, err, "logo")
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(logoBody{DataURL: logo})
}

// SaveLogo replaces the logo
func (h *Handler) SaveLogo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var body logoBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.profiles.SaveLogo(r.Context(), body.DataURL); err != nil {
		if errors.Is(err, services.ErrInvalidLogo) {
			h.sendError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ClearLogo removes the logo
func (h *Handler) ClearLogo(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.ClearLogo(r.Context()); err != nil {
		w.Header().Set("Content-Type", "application/json")
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportRequest is the body of the XLSX export endpoint
type ExportRequest struct {
	Invoice       *models.InvoiceData `json:"invoice"`
	InvoiceNumber string              `json:"invoiceNumber"`
}

// ExportXLSX renders an invoice as a workbook download
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Invoice == nil {
		w.Header().Set("Content-Type", "application/json")
		h.sendError(w, http.StatusBadRequest, "invoice is required")
		return
	}

	b, err := export.InvoiceXLSX(req.Invoice, req.InvoiceNumber)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		h.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := "invoice.xlsx"
	if req.InvoiceNumber != "" {
		filename = req.InvoiceNumber + ".xlsx"
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// decodeJSON reads a size-limited JSON body
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodySize)).Decode(v)
}

// sendStoreError maps storage.ErrNotFound to 404
func (h *Handler) sendStoreError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, storage.ErrNotFound) {
		h.sendError(w, http.StatusNotFound, what+" not set")
		return
	}
	h.logger.Error("storage.read.failed", zap.String("key", what), zap.Error(err))
	h.sendError(w, http.StatusInternalServerError, err.Error())
}

// sendError sends an error response
func (h *Handler) sendError(w http.ResponseWriter, statusCode int, message string) {
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}
