package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FreightLink/FreightLink/internal/booking"
)

type BookingHandler struct {
	Bookings *booking.Service
}

type createBookingPayload struct {
	BidID            string `json:"bidId" binding:"required"`
	TrucksToAllocate int    `json:"trucksToAllocate"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	var payload createBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bk, err := h.Bookings.Create(c.Request.Context(), booking.CreateInput{
		BidID:            payload.BidID,
		TrucksToAllocate: payload.TrucksToAllocate,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, bk)
}

func (h *BookingHandler) Get(c *gin.Context) {
	bk, err := h.Bookings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bk)
}

func (h *BookingHandler) List(c *gin.Context) {
	bookings, err := h.Bookings.List(c.Request.Context(), booking.Filter{
		LoadID:        c.Query("loadId"),
		TransporterID: c.Query("transporterId"),
		Status:        booking.Status(c.Query("status")),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	bk, err := h.Bookings.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bk)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	bk, err := h.Bookings.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bk)
}
