package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FreightLink/FreightLink/internal/bid"
	"github.com/FreightLink/FreightLink/internal/load"
)

type LoadHandler struct {
	Loads *load.Service
	Bids  *bid.Service
}

type createLoadPayload struct {
	ShipperID      string  `json:"shipperId" binding:"required"`
	LoadingCity    string  `json:"loadingCity" binding:"required"`
	UnloadingCity  string  `json:"unloadingCity" binding:"required"`
	LoadingDate    string  `json:"loadingDate" binding:"required"`
	ProductType    string  `json:"productType" binding:"required"`
	Weight         float64 `json:"weight" binding:"required"`
	WeightUnit     string  `json:"weightUnit" binding:"required"`
	TruckType      string  `json:"truckType" binding:"required"`
	RequiredTrucks int     `json:"requiredTrucks" binding:"required"`
}

func (h *LoadHandler) Create(c *gin.Context) {
	var payload createLoadPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse(time.RFC3339, payload.LoadingDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "loadingDate must be RFC 3339"})
		return
	}

	l, err := h.Loads.Create(c.Request.Context(), load.CreateInput{
		ShipperID:      payload.ShipperID,
		LoadingCity:    payload.LoadingCity,
		UnloadingCity:  payload.UnloadingCity,
		LoadingDate:    date,
		ProductType:    payload.ProductType,
		Weight:         payload.Weight,
		WeightUnit:     load.WeightUnit(payload.WeightUnit),
		TruckType:      payload.TruckType,
		RequiredTrucks: payload.RequiredTrucks,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

type loadResponse struct {
	load.View
	Bids []bid.Bid `json:"bids"`
}

func (h *LoadHandler) Get(c *gin.Context) {
	v, err := h.Loads.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	pending, err := h.Bids.List(c.Request.Context(), bid.Filter{LoadID: v.ID, Status: bid.StatusPending})
	if err != nil {
		fail(c, err)
		return
	}
	if pending == nil {
		pending = []bid.Bid{}
	}
	c.JSON(http.StatusOK, loadResponse{View: *v, Bids: pending})
}

func (h *LoadHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if page < 0 {
		page = 0
	}
	if size < 1 || size > 100 {
		size = 20
	}

	views, total, err := h.Loads.List(c.Request.Context(), load.Filter{
		ShipperID: c.Query("shipperId"),
		Status:    load.Status(c.Query("status")),
		Offset:    page * size,
		Limit:     size,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": views,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

func (h *LoadHandler) Cancel(c *gin.Context) {
	l, err := h.Loads.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// BestBids returns the load's pending bids scored best-first.
func (h *LoadHandler) BestBids(c *gin.Context) {
	ranked, err := h.Bids.Rank(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ranked)
}
