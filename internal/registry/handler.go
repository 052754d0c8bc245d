package registry

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler exposes the registry over HTTP: record lookups, registration and a
// generic reverse-proxy relay.
type Handler struct {
	store      *Store
	httpClient *http.Client
}

func NewHandler(store *Store, clientTimeout time.Duration) *Handler {
	return &Handler{
		store: store,
		httpClient: &http.Client{
			Timeout: clientTimeout,
		},
	}
}

// GET /service/:name
func (h *Handler) GetService(c *gin.Context) {
	name := c.Param("name")

	record, ok := h.store.Lookup(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// GET /services
func (h *Handler) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.All())
}

type registerRequest struct {
	Name      string            `json:"name"`
	URL       string            `json:"url"`
	Endpoints map[string]string `json:"endpoints"`
}

// POST /register
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Name == "" || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Service name and URL are required"})
		return
	}

	record := ServiceRecord{URL: req.URL, Endpoints: req.Endpoints}
	h.store.Register(req.Name, record)

	logrus.WithFields(logrus.Fields{
		"service": req.Name,
		"url":     req.URL,
	}).Info("Service registered")

	c.JSON(http.StatusOK, gin.H{
		"message": "Service " + req.Name + " registered successfully",
		"service": record,
	})
}

type proxyRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Data    json.RawMessage   `json:"data"`
	Headers map[string]string `json:"headers"`
}

// POST /proxy/:service/:endpoint
//
// Resolves the target service and forwards the described request to it,
// relaying the downstream status and body verbatim. No retry, no caching.
func (h *Handler) Proxy(c *gin.Context) {
	serviceName := c.Param("service")
	endpoint := c.Param("endpoint")

	record, ok := h.store.Lookup(serviceName)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	var req proxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	targetURL := record.URL + "/" + endpoint
	if req.URL != "" {
		targetURL = record.URL + req.URL
	}

	var body io.Reader
	if len(req.Data) > 0 {
		body = bytes.NewReader(req.Data)
	}

	outbound, err := http.NewRequestWithContext(c.Request.Context(), method, targetURL, body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	outbound.Header.Set("Content-Type", "application/json")
	for key, value := range req.Headers {
		outbound.Header.Set(key, value)
	}

	resp, err := h.httpClient.Do(outbound)
	if err != nil {
		logrus.WithError(err).WithField("service", serviceName).Error("Proxy error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var details interface{}
		if json.Unmarshal(respBody, &details) != nil {
			details = string(respBody)
		}
		c.JSON(resp.StatusCode, gin.H{
			"error":   http.StatusText(resp.StatusCode),
			"details": details,
		})
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, respBody)
}

// GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Service registry is running"})
}
