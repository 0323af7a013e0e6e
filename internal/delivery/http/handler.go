package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
	"github.com/sakhi383/Walmart-Cost-Splitter/internal/infrastructure/dom"
	"github.com/sakhi383/Walmart-Cost-Splitter/internal/usecase"
)

// LiveSources opens a document source on an already open browser tab
type LiveSources interface {
	Source(req domain.LiveExtractRequest) domain.DocumentSource
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	extraction  *usecase.ExtractionService
	split       *usecase.SplitService
	live        LiveSources // nil when no debugger URL is configured
	maxDocBytes int64
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(extraction *usecase.ExtractionService, split *usecase.SplitService, live LiveSources, maxDocBytes int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		extraction:  extraction,
		split:       split,
		live:        live,
		maxDocBytes: maxDocBytes,
		logger:      logger,
	}
}

type toggleBody struct {
	Person   domain.Person `json:"person"`
	Assigned *bool         `json:"assigned,omitempty"`
}

type assignBody struct {
	Person domain.Person `json:"person"`
}

type taxBody struct {
	TaxRate *decimal.Decimal `json:"taxRate"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "splitcart-backend",
		"version": "1.0.0",
		"live":    h.live != nil,
	})
}

// Extract runs an extraction over a snapshot posted by the extension
func (h *Handler) Extract(c *gin.Context) {
	var req domain.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	src := dom.StaticSource{HTML: req.HTML, URL: req.URL, MaxBytes: h.maxDocBytes}
	result, err := h.extraction.Extract(c.Request.Context(), src)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExtractLive snapshots an open tab through the DevTools connection
func (h *Handler) ExtractLive(c *gin.Context) {
	if h.live == nil {
		h.respondError(c, domain.ErrBrowserNotConfigured)
		return
	}

	var req domain.LiveExtractRequest
	// An empty body selects the default tab
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badRequest(c, err)
			return
		}
	}

	result, err := h.extraction.Extract(c.Request.Context(), h.live.Source(req))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Split computes an allocation without creating a session
func (h *Handler) Split(c *gin.Context) {
	var req domain.SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	alloc, err := h.split.Split(&req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alloc)
}

// CreateSession starts a split session
func (h *Handler) CreateSession(c *gin.Context) {
	var req domain.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	view, err := h.split.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetSession returns a session and its allocation
func (h *Handler) GetSession(c *gin.Context) {
	view, err := h.split.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeleteSession drops a session
func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.split.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetTaxRate changes the session tax rate
func (h *Handler) SetTaxRate(c *gin.Context) {
	var body taxBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, err)
		return
	}
	if body.TaxRate == nil {
		h.badRequest(c, errors.New("taxRate is required"))
		return
	}

	view, err := h.split.SetTaxRate(c.Request.Context(), c.Param("id"), *body.TaxRate)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// TogglePerson flips one person's checkbox on an item
func (h *Handler) TogglePerson(c *gin.Context) {
	index, ok := h.itemIndex(c)
	if !ok {
		return
	}
	var body toggleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, err)
		return
	}

	view, err := h.split.Toggle(c.Request.Context(), c.Param("id"), index, body.Person, body.Assigned)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AssignOnly gives an item to a single person, the first one when none is named
func (h *Handler) AssignOnly(c *gin.Context) {
	index, ok := h.itemIndex(c)
	if !ok {
		return
	}
	var body assignBody
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.badRequest(c, err)
			return
		}
	}

	view, err := h.split.AssignOnly(c.Request.Context(), c.Param("id"), index, body.Person)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AssignEveryone splits an item across all people
func (h *Handler) AssignEveryone(c *gin.Context) {
	index, ok := h.itemIndex(c)
	if !ok {
		return
	}

	view, err := h.split.AssignEveryone(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) itemIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		h.respondError(c, domain.ErrItemNotFound)
		return 0, false
	}
	return index, true
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   domain.ErrInvalidRequest.Error(),
		"details": err.Error(),
	})
}

// respondError maps domain errors to status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrNoPeople),
		errors.Is(err, domain.ErrDuplicatePerson),
		errors.Is(err, domain.ErrUnknownPerson),
		errors.Is(err, domain.ErrNegativeTaxRate):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrDocumentUnavailable),
		errors.Is(err, domain.ErrBrowserNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
