package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FreightLink/FreightLink/internal/bid"
)

type BidHandler struct {
	Bids *bid.Service
}

type submitBidPayload struct {
	LoadID        string  `json:"loadId" binding:"required"`
	TransporterID string  `json:"transporterId" binding:"required"`
	ProposedRate  float64 `json:"proposedRate" binding:"required"`
	TrucksOffered int     `json:"trucksOffered" binding:"required"`
}

func (h *BidHandler) Submit(c *gin.Context) {
	var payload submitBidPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.Bids.Submit(c.Request.Context(), bid.SubmitInput{
		LoadID:        payload.LoadID,
		TransporterID: payload.TransporterID,
		ProposedRate:  payload.ProposedRate,
		TrucksOffered: payload.TrucksOffered,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *BidHandler) Get(c *gin.Context) {
	b, err := h.Bids.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BidHandler) List(c *gin.Context) {
	bids, err := h.Bids.List(c.Request.Context(), bid.Filter{
		LoadID:        c.Query("loadId"),
		TransporterID: c.Query("transporterId"),
		Status:        bid.Status(c.Query("status")),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bids)
}

func (h *BidHandler) Reject(c *gin.Context) {
	b, err := h.Bids.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
