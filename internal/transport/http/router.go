package http

import "github.com/gin-gonic/gin"

// NewRouter wires all hotel routes under /v1.
func NewRouter(h *Handlers) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		v1.POST("/reservations", h.CreateReservation)
		v1.GET("/reservations", h.ListReservations)
		v1.GET("/reservations/active", h.ActiveReservations)
		v1.GET("/reservations/code/:code", h.GetReservationByCode)
		v1.GET("/reservations/:id", h.GetReservation)
		v1.PUT("/reservations/:id", h.UpdateReservation)
		v1.DELETE("/reservations/:id", h.DeleteReservation)
		v1.POST("/reservations/:id/confirm", h.ConfirmReservation)
		v1.POST("/reservations/:id/cancel", h.CancelReservation)
		v1.POST("/reservations/:id/checkin", h.CheckIn)
		v1.POST("/reservations/:id/checkout", h.CheckOut)
		v1.POST("/reservations/:id/consumptions", h.RecordConsumption)
		v1.POST("/reservations/:id/payments", h.RecordPayment)

		v1.GET("/rooms", h.ListRooms)
		v1.GET("/rooms/available", h.AvailableRooms)
		v1.POST("/rooms", h.CreateRoom)
		v1.PUT("/rooms/:id/status", h.SetRoomStatus)

		v1.GET("/room-types", h.ListRoomTypes)
		v1.POST("/room-types", h.CreateRoomType)

		v1.GET("/guests", h.ListGuests)
		v1.POST("/guests", h.CreateGuest)

		v1.GET("/services", h.ListServices)
		v1.POST("/services", h.CreateService)

		v1.GET("/reports/occupancy", h.OccupancyReport)
		v1.GET("/reports/financial", h.FinancialReport)
		v1.GET("/reports/guests", h.GuestReport)
	}

	return r
}
