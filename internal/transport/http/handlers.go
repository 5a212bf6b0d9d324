package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/you/hotel-manager/internal/domain"
	"github.com/you/hotel-manager/internal/service"
)

const dateLayout = "2006-01-02"

// Handlers exposes the hotel engine over HTTP. Each method maps service
// errors to status codes with writeError; everything else is plain
// bind-call-respond.
type Handlers struct {
	reservations *service.ReservationSvc
	stays        *service.CheckInOutSvc
	inventory    *service.InventorySvc
	reports      *service.ReportSvc
}

func NewHandlers(
	reservations *service.ReservationSvc,
	stays *service.CheckInOutSvc,
	inventory *service.InventorySvc,
	reports *service.ReportSvc,
) *Handlers {
	return &Handlers{
		reservations: reservations,
		stays:        stays,
		inventory:    inventory,
		reports:      reports,
	}
}

func writeError(c *gin.Context, err error) {
	switch service.KindOf(err) {
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, errBody(err))
	case service.KindConflict:
		c.JSON(http.StatusConflict, errBody(err))
	case service.KindInvalidState, service.KindInvalid:
		c.JSON(http.StatusBadRequest, errBody(err))
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func errBody(err error) gin.H {
	if e, ok := err.(*service.Error); ok {
		return gin.H{"code": e.Code, "error": e.Message}
	}
	return gin.H{"error": err.Error()}
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	return t, err == nil
}

// POST /v1/reservations
func (h *Handlers) CreateReservation(c *gin.Context) {
	var in struct {
		GuestID     string  `json:"guest_id" binding:"required"`
		RoomID      string  `json:"room_id" binding:"required"`
		CheckIn     string  `json:"check_in" binding:"required"`
		CheckOut    string  `json:"check_out" binding:"required"`
		State       string  `json:"state"`
		Notes       string  `json:"notes"`
		TotalAmount float64 `json:"total_amount"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, ok := parseDate(in.CheckIn)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be YYYY-MM-DD"})
		return
	}
	checkOut, ok := parseDate(in.CheckOut)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be YYYY-MM-DD"})
		return
	}
	res, err := h.reservations.Create(c.Request.Context(), service.CreateReservationInput{
		GuestID:     in.GuestID,
		RoomID:      in.RoomID,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		State:       domain.ReservationState(in.State),
		Notes:       in.Notes,
		TotalAmount: in.TotalAmount,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /v1/reservations?state=&guest_id=&from=&to=&page=1&page_size=20
func (h *Handlers) ListReservations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	f := service.ReservationFilter{
		State:    domain.ReservationState(c.Query("state")),
		GuestID:  c.Query("guest_id"),
		Page:     page - 1,
		PageSize: size,
	}
	if s := c.Query("from"); s != "" {
		t, ok := parseDate(s)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		f.CheckInFrom = &t
	}
	if s := c.Query("to"); s != "" {
		t, ok := parseDate(s)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		f.CheckOutTo = &t
	}
	items, total, err := h.reservations.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "page": page, "page_size": size})
}

// GET /v1/reservations/:id
func (h *Handlers) GetReservation(c *gin.Context) {
	res, err := h.reservations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /v1/reservations/code/:code
func (h *Handlers) GetReservationByCode(c *gin.Context) {
	res, err := h.reservations.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// PUT /v1/reservations/:id
func (h *Handlers) UpdateReservation(c *gin.Context) {
	var in struct {
		CheckIn  string `json:"check_in" binding:"required"`
		CheckOut string `json:"check_out" binding:"required"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, ok := parseDate(in.CheckIn)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be YYYY-MM-DD"})
		return
	}
	checkOut, ok := parseDate(in.CheckOut)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be YYYY-MM-DD"})
		return
	}
	res, err := h.reservations.Update(c.Request.Context(), c.Param("id"), service.UpdateReservationInput{
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Notes:    in.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /v1/reservations/:id/confirm
func (h *Handlers) ConfirmReservation(c *gin.Context) {
	res, err := h.reservations.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /v1/reservations/:id/cancel
func (h *Handlers) CancelReservation(c *gin.Context) {
	res, err := h.reservations.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /v1/reservations/:id
func (h *Handlers) DeleteReservation(c *gin.Context) {
	if err := h.reservations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /v1/reservations/:id/checkin
func (h *Handlers) CheckIn(c *gin.Context) {
	res, err := h.stays.CheckIn(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /v1/reservations/:id/checkout
func (h *Handlers) CheckOut(c *gin.Context) {
	res, err := h.stays.CheckOut(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /v1/reservations/active
func (h *Handlers) ActiveReservations(c *gin.Context) {
	items, err := h.stays.Active(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// POST /v1/reservations/:id/consumptions
func (h *Handlers) RecordConsumption(c *gin.Context) {
	var in struct {
		ServiceID string `json:"service_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sc, err := h.inventory.RecordConsumption(c.Request.Context(), c.Param("id"), in.ServiceID, in.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sc)
}

// POST /v1/reservations/:id/payments
func (h *Handlers) RecordPayment(c *gin.Context) {
	var in struct {
		Amount    float64 `json:"amount" binding:"required"`
		Method    string  `json:"method"`
		Reference string  `json:"reference"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.inventory.RecordPayment(c.Request.Context(), c.Param("id"), in.Amount, in.Method, in.Reference)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GET /v1/rooms?active_only=true
func (h *Handlers) ListRooms(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "true") == "true"
	rooms, err := h.inventory.ListRooms(c.Request.Context(), activeOnly)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rooms})
}

// GET /v1/rooms/available?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handlers) AvailableRooms(c *gin.Context) {
	from, ok := parseDate(c.Query("from"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return
	}
	to, ok := parseDate(c.Query("to"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return
	}
	rooms, err := h.stays.AvailableRooms(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rooms})
}

// POST /v1/rooms
func (h *Handlers) CreateRoom(c *gin.Context) {
	var in struct {
		RoomTypeID string `json:"room_type_id" binding:"required"`
		Number     string `json:"number" binding:"required"`
		Floor      int    `json:"floor"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, err := h.inventory.CreateRoom(c.Request.Context(), domain.Room{
		RoomTypeID: in.RoomTypeID,
		Number:     in.Number,
		Floor:      in.Floor,
		Active:     true,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// PUT /v1/rooms/:id/status
func (h *Handlers) SetRoomStatus(c *gin.Context) {
	var in struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, err := h.inventory.SetRoomStatus(c.Request.Context(), c.Param("id"), domain.RoomStatus(in.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// POST /v1/room-types
func (h *Handlers) CreateRoomType(c *gin.Context) {
	var in struct {
		Name          string  `json:"name" binding:"required"`
		Capacity      int     `json:"capacity" binding:"required"`
		PricePerNight float64 `json:"price_per_night" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := h.inventory.CreateRoomType(c.Request.Context(), domain.RoomType{
		Name:          in.Name,
		Capacity:      in.Capacity,
		PricePerNight: in.PricePerNight,
		Active:        true,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rt)
}

// GET /v1/room-types
func (h *Handlers) ListRoomTypes(c *gin.Context) {
	types, err := h.inventory.ListRoomTypes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": types})
}

// POST /v1/guests
func (h *Handlers) CreateGuest(c *gin.Context) {
	var in struct {
		FirstName    string `json:"first_name" binding:"required"`
		LastName     string `json:"last_name" binding:"required"`
		Email        string `json:"email"`
		Phone        string `json:"phone"`
		Document     string `json:"document"`
		DocumentType string `json:"document_type"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := h.inventory.CreateGuest(c.Request.Context(), domain.Guest{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		Document:     in.Document,
		DocumentType: in.DocumentType,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// GET /v1/guests
func (h *Handlers) ListGuests(c *gin.Context) {
	guests, err := h.inventory.ListGuests(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": guests})
}

// POST /v1/services
func (h *Handlers) CreateService(c *gin.Context) {
	var in struct {
		Name  string  `json:"name" binding:"required"`
		Price float64 `json:"price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sv, err := h.inventory.CreateService(c.Request.Context(), domain.Service{
		Name:   in.Name,
		Price:  in.Price,
		Active: true,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sv)
}

// GET /v1/services
func (h *Handlers) ListServices(c *gin.Context) {
	services, err := h.inventory.ListServices(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": services})
}

// GET /v1/reports/occupancy?from=&to=
func (h *Handlers) OccupancyReport(c *gin.Context) {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, ok := parseDate(s)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, ok := parseDate(s)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		to = &t
	}
	rep, err := h.reports.Occupancy(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GET /v1/reports/financial?from=&to= (defaults to the current month)
func (h *Handlers) FinancialReport(c *gin.Context) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	if s := c.Query("from"); s != "" {
		t, ok := parseDate(s)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, ok := parseDate(s)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		to = t
	}
	rep, err := h.reports.Financial(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GET /v1/reports/guests
func (h *Handlers) GuestReport(c *gin.Context) {
	rep, err := h.reports.Guests(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
