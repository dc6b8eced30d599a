package booking

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
	rg.POST("/bookings", h.create)
	rg.GET("/bookings", h.list)
	rg.GET("/bookings/:id", h.get)
	rg.POST("/bookings/:id/status", h.updateStatus)
	rg.POST("/bookings/:id/reassign", h.reassign)
}

type createBookingRequest struct {
	VehicleID  string    `json:"vehicle_id" binding:"required"`
	CustomerID string    `json:"customer_id" binding:"required"`
	Channel    string    `json:"channel"`
	StartDate  time.Time `json:"start_date" binding:"required"`
	EndDate    time.Time `json:"end_date" binding:"required"`
	TotalPrice int64     `json:"total_price"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
}

func (h *HTTPHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.svc.Create(c.Request.Context(), CreateInput{
		VehicleID:  req.VehicleID,
		CustomerID: req.CustomerID,
		Channel:    req.Channel,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		TotalPrice: req.TotalPrice,
		Currency:   req.Currency,
		Status:     Status(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, b)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *HTTPHandler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), Status(strings.TrimSpace(req.Status)), time.Now())
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

type reassignRequest struct {
	VehicleID string `json:"vehicle_id" binding:"required"`
}

func (h *HTTPHandler) reassign(c *gin.Context) {
	var req reassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.svc.ReassignVehicle(c.Request.Context(), c.Param("id"), req.VehicleID)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *HTTPHandler) get(c *gin.Context) {
	b, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
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

	bs, total, err := h.svc.List(c.Request.Context(), ListFilter{
		VehicleID:  strings.TrimSpace(c.Query("vehicle_id")),
		CustomerID: strings.TrimSpace(c.Query("customer_id")),
		Status:     Status(strings.TrimSpace(c.Query("status"))),
		Offset:     (page - 1) * size,
		Limit:      size,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bs, "total": total})
}
