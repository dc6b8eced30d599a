package vehicle

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusRecomputer 由 vehiclestatus 引擎实现；后台“重算状态”按钮走这里。
type StatusRecomputer interface {
	Synchronize(ctx context.Context, vehicleID string) error
}

type HTTPHandler struct {
	repo       *Repo
	recomputer StatusRecomputer
}

func NewHTTPHandler(db *gorm.DB, recomputer StatusRecomputer) *HTTPHandler {
	return &HTTPHandler{repo: NewRepo(db), recomputer: recomputer}
}

func (h *HTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/vehicles", h.create)
	rg.GET("/vehicles", h.list)
	rg.GET("/vehicles/:id", h.get)
	rg.POST("/vehicles/:id/recompute-status", h.recomputeStatus)
}

type createVehicleRequest struct {
	PlateNumber string `json:"plate_number" binding:"required"`
	VIN         string `json:"vin"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        int    `json:"year"`
	DailyRate   int64  `json:"daily_rate"`
	Currency    string `json:"currency"`
	Status      string `json:"status"` // 仅作为种子值；之后由引擎接管
}

func (h *HTTPHandler) create(c *gin.Context) {
	var req createVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st := Status(strings.TrimSpace(req.Status))
	if st == "" {
		st = StatusAvailable
	}
	if !st.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	v := &Vehicle{
		ID:          uuid.NewString(),
		PlateNumber: strings.TrimSpace(req.PlateNumber),
		VIN:         strings.TrimSpace(req.VIN),
		Make:        strings.TrimSpace(req.Make),
		Model:       strings.TrimSpace(req.Model),
		Year:        req.Year,
		Status:      st,
		DailyRate:   req.DailyRate,
		Currency:    defaultCurrency(req.Currency),
	}
	if err := h.repo.Create(c.Request.Context(), v); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *HTTPHandler) get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	v, err := h.repo.FindByID(c.Request.Context(), id)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *HTTPHandler) list(c *gin.Context) {
	status := Status(strings.TrimSpace(c.Query("status")))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 20
	}

	vs, total, err := h.repo.List(c.Request.Context(), status, (page-1)*size, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vs, "total": total})
}

// recomputeStatus 后台手动触发一次状态推导（等价于任一上游写入后的 post-commit 同步）。
func (h *HTTPHandler) recomputeStatus(c *gin.Context) {
	if h.recomputer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "status engine not configured"})
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	if err := h.recomputer.Synchronize(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	v, err := h.repo.FindByID(c.Request.Context(), id)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, v)
}

func defaultCurrency(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return "MAD"
	}
	return strings.ToUpper(c)
}
