package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/FreightLink/FreightLink/internal/api/handlers"
	"github.com/FreightLink/FreightLink/internal/bid"
	"github.com/FreightLink/FreightLink/internal/booking"
	"github.com/FreightLink/FreightLink/internal/common/config"
	"github.com/FreightLink/FreightLink/internal/common/logger"
	"github.com/FreightLink/FreightLink/internal/common/middleware"
	"github.com/FreightLink/FreightLink/internal/load"
	"github.com/FreightLink/FreightLink/internal/transporter"
)

// SetupRouter wires the handlers and shared middleware into the gin engine.
func SetupRouter(
	cfg *config.Config,
	log logger.Logger,
	loads *load.Service,
	bids *bid.Service,
	bookings *booking.Service,
	transporters *transporter.Service,
) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.AccessLog(log))
	router.Use(middleware.Tracing(cfg.Server.Name))
	router.Use(cors.Default())
	if cfg.Server.RateLimit > 0 {
		limit := int64(cfg.Server.RateLimit)
		router.Use(middleware.RateLimit(middleware.NewTokenBucket(limit, limit)))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	loadHandler := &handlers.LoadHandler{Loads: loads, Bids: bids}
	bidHandler := &handlers.BidHandler{Bids: bids}
	bookingHandler := &handlers.BookingHandler{Bookings: bookings}
	transporterHandler := &handlers.TransporterHandler{Transporters: transporters}

	apiV1 := router.Group("/api/v1")
	{
		lg := apiV1.Group("/loads")
		{
			lg.POST("", loadHandler.Create)
			lg.GET("", loadHandler.List)
			lg.GET("/:id", loadHandler.Get)
			lg.PATCH("/:id/cancel", loadHandler.Cancel)
			lg.GET("/:id/best-bids", loadHandler.BestBids)
		}

		bg := apiV1.Group("/bids")
		{
			bg.POST("", bidHandler.Submit)
			bg.GET("", bidHandler.List)
			bg.GET("/:id", bidHandler.Get)
			bg.PATCH("/:id/reject", bidHandler.Reject)
		}

		kg := apiV1.Group("/bookings")
		{
			kg.POST("", bookingHandler.Create)
			kg.GET("", bookingHandler.List)
			kg.GET("/:id", bookingHandler.Get)
			kg.PATCH("/:id/cancel", bookingHandler.Cancel)
			kg.PATCH("/:id/complete", bookingHandler.Complete)
		}

		tg := apiV1.Group("/transporters")
		{
			tg.POST("", transporterHandler.Register)
			tg.GET("/:id", transporterHandler.Get)
			tg.PUT("/:id/trucks", transporterHandler.UpdateTrucks)
		}
	}

	return router
}
