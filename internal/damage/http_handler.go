package damage

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func (h *HTTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/damage-reports", h.create)
	rg.GET("/damage-reports", h.list)
	rg.GET("/damage-reports/:id", h.get)
	rg.POST("/damage-reports/:id/status", h.updateStatus)
}

type createReportRequest struct {
	BookingID   string     `json:"booking_id" binding:"required"`
	Description string     `json:"description"`
	ReportedAt  *time.Time `json:"reported_at"`
	RepairCost  int64      `json:"repair_cost"`
	Currency    string     `json:"currency"`
}

func (h *HTTPHandler) create(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := CreateInput{
		BookingID:   req.BookingID,
		Description: req.Description,
		RepairCost:  req.RepairCost,
		Currency:    req.Currency,
	}
	if req.ReportedAt != nil {
		in.ReportedAt = *req.ReportedAt
	}
	rep, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rep)
}

type updateReportStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *HTTPHandler) updateStatus(c *gin.Context) {
	var req updateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rep, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), Status(strings.TrimSpace(req.Status)))
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "damage report not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *HTTPHandler) get(c *gin.Context) {
	rep, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "damage report not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *HTTPHandler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 20
	}

	reports, total, err := h.svc.ListByBooking(c.Request.Context(),
		strings.TrimSpace(c.Query("booking_id")), (page-1)*size, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"damage_reports": reports, "total": total})
}
