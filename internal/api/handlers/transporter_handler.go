package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FreightLink/FreightLink/internal/transporter"
)

type TransporterHandler struct {
	Transporters *transporter.Service
}

type poolPayload struct {
	TruckType string `json:"truckType" binding:"required"`
	Count     int    `json:"count"`
}

type registerTransporterPayload struct {
	CompanyName string        `json:"companyName" binding:"required"`
	Rating      *float64      `json:"rating"`
	Trucks      []poolPayload `json:"trucks"`
}

type transporterResponse struct {
	transporter.Transporter
	Trucks []transporter.CapacityPool `json:"trucks"`
}

func (h *TransporterHandler) Register(c *gin.Context) {
	var payload registerTransporterPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := transporter.RegisterInput{
		CompanyName: payload.CompanyName,
		Rating:      payload.Rating,
	}
	for _, p := range payload.Trucks {
		in.Pools = append(in.Pools, transporter.PoolInput{TruckType: p.TruckType, Count: p.Count})
	}

	t, pools, err := h.Transporters.Register(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, transporterResponse{Transporter: *t, Trucks: pools})
}

func (h *TransporterHandler) Get(c *gin.Context) {
	t, pools, err := h.Transporters.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, transporterResponse{Transporter: *t, Trucks: pools})
}

type updateTrucksPayload struct {
	Trucks []poolPayload `json:"trucks" binding:"required"`
}

// UpdateTrucks replaces the transporter's declared fleet counts. The counts
// are absolute availability, not deltas.
func (h *TransporterHandler) UpdateTrucks(c *gin.Context) {
	var payload updateTrucksPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make([]transporter.PoolInput, 0, len(payload.Trucks))
	for _, p := range payload.Trucks {
		updates = append(updates, transporter.PoolInput{TruckType: p.TruckType, Count: p.Count})
	}

	t, pools, err := h.Transporters.UpdatePools(c.Request.Context(), c.Param("id"), updates)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, transporterResponse{Transporter: *t, Trucks: pools})
}
