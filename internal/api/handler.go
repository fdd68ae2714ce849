package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/Johay90/HighlightedItems/internal/optimizer"
	"github.com/Johay90/HighlightedItems/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires optimizer and storage dependencies into HTTP handlers.
type Handler struct {
	optimizer optimizer.Optimizer
	storage   storage.Storage

	clock       func() time.Time
	resultCache *cache.Cache

	mu              sync.RWMutex
	layoutUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithResultCache enables caching of optimize responses. The key covers the
// effective grid as well as the request payload, so a layout update produces
// a different key rather than a stale hit.
func WithResultCache(c *cache.Cache) HandlerOption {
	return func(h *Handler) {
		h.resultCache = c
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(opt optimizer.Optimizer, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		optimizer: opt,
		storage:   store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, o := range opts {
		o(h)
	}
	h.layoutUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	_ = r
	layout, err := h.storage.GetLayout()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := layoutResponse{
		Width:     layout.Width,
		Height:    layout.Height,
		Reserved:  cellsToPayload(layout.Reserved),
		UpdatedAt: h.currentLayoutUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if req.Width < 1 || req.Height < 1 {
		writeError(w, http.StatusBadRequest, "Invalid layout", "width and height must be positive integers")
		return
	}

	layout := storage.Layout{
		Width:    req.Width,
		Height:   req.Height,
		Reserved: cellsFromPayload(req.Reserved),
	}

	if err := h.storage.SetLayout(layout); err != nil {
		if errors.Is(err, storage.ErrInvalidLayout) {
			writeError(w, http.StatusBadRequest, "Invalid layout", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markLayoutUpdated()

	stored, err := h.storage.GetLayout()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := layoutResponse{
		Width:     stored.Width,
		Height:    stored.Height,
		Reserved:  cellsToPayload(stored.Reserved),
		UpdatedAt: h.currentLayoutUpdatedAt(),
		Message:   "Layout updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	layout, err := h.storage.GetLayout()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	// A reserved list in the request, including an empty one, replaces the
	// stored reservations for this call only.
	reserved := layout.Reserved
	if req.Reserved != nil {
		reserved = cellsFromPayload(req.Reserved)
	}

	mask, err := optimizer.MaskFromCells(layout.Width, layout.Height, reserved)
	if err != nil {
		if errors.Is(err, optimizer.ErrInvalidCell) {
			writeError(w, http.StatusBadRequest, "Invalid reserved cells", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	grid := optimizer.Layout{Width: layout.Width, Height: layout.Height, Ignored: mask}

	var key string
	if h.resultCache != nil {
		if digest, ok := optimizeCacheKey(layout.Width, layout.Height, reserved, req); ok {
			key = digest
			if hit, found := h.resultCache.Get(key); found {
				if resp, ok := hit.(optimizeResponse); ok {
					resp.Cached = true
					writeJSON(w, http.StatusOK, resp)
					return
				}
			}
		}
	}

	candidates := make([]optimizer.Item, 0, len(req.Items))
	for _, item := range req.Items {
		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}
		candidates = append(candidates, optimizer.Item{
			ID:        id,
			Width:     item.Width,
			Height:    item.Height,
			StackSize: item.StackSize,
		})
	}

	existing := make([]optimizer.Placement, 0, len(req.Occupied))
	for _, p := range req.Occupied {
		existing = append(existing, optimizer.Placement{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height})
	}

	start := time.Now()
	selected, optErr := h.optimizer.Optimize(grid, candidates, existing)
	elapsed := time.Since(start)

	if optErr != nil {
		switch {
		case errors.Is(optErr, optimizer.ErrInvalidPlacement):
			writeError(w, http.StatusBadRequest, "Invalid placements", optErr.Error())
		case errors.Is(optErr, optimizer.ErrInvalidLayout):
			writeError(w, http.StatusInternalServerError, "Internal error", optErr.Error())
		default:
			writeInternalError(w, optErr)
		}
		return
	}

	cellsUsed := 0
	selectedPayload := make([]itemPayload, 0, len(selected))
	for _, item := range selected {
		cellsUsed += item.Width * item.Height
		selectedPayload = append(selectedPayload, itemPayload{
			ID:        item.ID,
			Width:     item.Width,
			Height:    item.Height,
			StackSize: item.StackSize,
		})
	}

	resp := optimizeResponse{
		Selected:          selectedPayload,
		SelectedCount:     len(selected),
		CandidateCount:    len(req.Items),
		CellsUsed:         cellsUsed,
		GridCells:         layout.Cells(),
		Score:             optimizer.Score(selected, layout.Cells()),
		CalculationTimeMs: elapsed.Milliseconds(),
	}

	if h.resultCache != nil && key != "" {
		h.resultCache.Set(key, resp, cache.DefaultExpiration)
	}

	writeJSON(w, http.StatusOK, resp)
}

// optimizeCacheKey digests the effective grid and the request payload. The
// optimizer is deterministic, so identical digests always describe identical
// responses.
func optimizeCacheKey(width, height int, reserved []optimizer.Cell, req optimizeRequest) (string, bool) {
	payload := struct {
		Width    int                `json:"w"`
		Height   int                `json:"h"`
		Reserved []optimizer.Cell   `json:"r"`
		Items    []itemPayload      `json:"i"`
		Occupied []placementPayload `json:"o"`
	}{width, height, reserved, req.Items, req.Occupied}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", false
	}
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:]), true
}

func (h *Handler) currentLayoutUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.layoutUpdatedAt
}

func (h *Handler) markLayoutUpdated() {
	h.mu.Lock()
	h.layoutUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func cellsFromPayload(cells []cellPayload) []optimizer.Cell {
	out := make([]optimizer.Cell, 0, len(cells))
	for _, c := range cells {
		out = append(out, optimizer.Cell{X: c.X, Y: c.Y})
	}
	return out
}

func cellsToPayload(cells []optimizer.Cell) []cellPayload {
	out := make([]cellPayload, 0, len(cells))
	for _, c := range cells {
		out = append(out, cellPayload{X: c.X, Y: c.Y})
	}
	return out
}

type itemPayload struct {
	ID        string `json:"id,omitempty"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	StackSize int    `json:"stackSize,omitempty"`
}

type placementPayload struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type cellPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type optimizeRequest struct {
	Items    []itemPayload      `json:"items"`
	Occupied []placementPayload `json:"occupied"`
	Reserved []cellPayload      `json:"reserved"`
}

type optimizeResponse struct {
	Selected          []itemPayload `json:"selected"`
	SelectedCount     int           `json:"selectedCount"`
	CandidateCount    int           `json:"candidateCount"`
	CellsUsed         int           `json:"cellsUsed"`
	GridCells         int           `json:"gridCells"`
	Score             float64       `json:"score"`
	Cached            bool          `json:"cached"`
	CalculationTimeMs int64         `json:"calculationTimeMs"`
}

type layoutRequest struct {
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Reserved []cellPayload `json:"reserved"`
}

type layoutResponse struct {
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Reserved  []cellPayload `json:"reserved"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Message   string        `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
