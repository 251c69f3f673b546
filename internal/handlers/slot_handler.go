package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	ucSlot "github.com/BruksfildServices01/salon-scheduler/internal/usecase/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type SlotHandler struct {
	availability *ucSlot.Availability
	blocking     *ucSlot.Blocking
	booking      *ucSlot.Booking
	log          *zap.Logger
}

func NewSlotHandler(
	availability *ucSlot.Availability,
	blocking *ucSlot.Blocking,
	booking *ucSlot.Booking,
	log *zap.Logger,
) *SlotHandler {
	return &SlotHandler{
		availability: availability,
		blocking:     blocking,
		booking:      booking,
		log:          log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BlockSlotRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type BookSlotRequest struct {
	AppointmentID          uint  `json:"appointment_id" binding:"required"`
	ServiceID              *uint `json:"service_id"`
	ServiceDurationMinutes int   `json:"service_duration_minutes"`
}

type ReleaseSlotRequest struct {
	AppointmentID uint `json:"appointment_id" binding:"required"`
}

type BulkBlockRequest struct {
	SlotIDs []uint `json:"slot_ids" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
}

type BlockRangeRequest struct {
	SpecialistID *uint     `json:"specialist_id"`
	Start        time.Time `json:"start" binding:"required"`
	End          time.Time `json:"end" binding:"required"`
	Reason       string    `json:"reason" binding:"required"`
}

type dayResponse struct {
	Date        string                       `json:"date"`
	Specialists []dto.SpecialistAvailability `json:"specialists"`
}

// ======================================================
// QUERIES
// ======================================================

// availabilityInput reads the shared query string of the availability
// endpoints; businessID comes from the token or the public path.
func availabilityInput(c *gin.Context, business uint) (ucSlot.AvailabilityInput, error) {
	in := ucSlot.AvailabilityInput{BusinessID: business}

	var err error
	if in.From, err = dateQuery(c, "from"); err != nil {
		return in, err
	}
	if in.To, err = dateQuery(c, "to"); err != nil {
		return in, err
	}
	if in.SpecialistID, err = optionalUintQuery(c, "specialist_id"); err != nil {
		return in, err
	}
	if in.MinDuration, err = intQuery(c, "min_duration"); err != nil {
		return in, err
	}
	if in.Period, err = validators.ParsePeriod(c.Query("period")); err != nil {
		return in, err
	}
	for _, s := range csv(c.Query("status")) {
		st, err := domain.ParseStatus(s)
		if err != nil {
			return in, err
		}
		in.Statuses = append(in.Statuses, st)
	}
	return in, nil
}

func nextAvailableInput(c *gin.Context, business uint) (ucSlot.NextAvailableInput, error) {
	in := ucSlot.NextAvailableInput{BusinessID: business}

	var err error
	if in.SpecialistID, err = optionalUintQuery(c, "specialist_id"); err != nil {
		return in, err
	}
	if in.MinDuration, err = intQuery(c, "min_duration"); err != nil {
		return in, err
	}
	if in.MaxDays, err = intQuery(c, "max_days"); err != nil {
		return in, err
	}
	if in.From, err = optionalInstant(c.Query("from")); err != nil {
		return in, err
	}
	return in, nil
}

func (h *SlotHandler) Availability(c *gin.Context) {
	in, err := availabilityInput(c, businessID(c))
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}
	in.SpecialistID = ownSpecialist(c, in.SpecialistID)

	days, err := h.availability.Get(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.List(c, nonNilDays(days))
}

func (h *SlotHandler) NextAvailable(c *gin.Context) {
	in, err := nextAvailableInput(c, businessID(c))
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}
	in.SpecialistID = ownSpecialist(c, in.SpecialistID)

	s, err := h.availability.NextAvailable(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, nextResponse(s))
}

func (h *SlotHandler) BusinessDay(c *gin.Context) {
	date, err := dateQuery(c, "date")
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}
	minDuration, err := intQuery(c, "min_duration")
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}
	period, err := validators.ParsePeriod(c.Query("period"))
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	specialists, err := h.availability.BusinessDay(c.Request.Context(), ucSlot.BusinessDayInput{
		BusinessID:  businessID(c),
		Date:        date,
		MinDuration: minDuration,
		Period:      period,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}
	if specialists == nil {
		specialists = []dto.SpecialistAvailability{}
	}

	httpresp.OK(c, dayResponse{Date: date.String(), Specialists: specialists})
}

func nonNilDays(days []dto.DayAvailability) []dto.DayAvailability {
	if days == nil {
		return []dto.DayAvailability{}
	}
	return days
}

func nextResponse(s *models.TimeSlot) gin.H {
	if s == nil {
		return gin.H{"found": false, "slot": nil}
	}
	return gin.H{"found": true, "slot": dto.SlotFromModel(s)}
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *SlotHandler) Block(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	var req BlockSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "block_reason_required", "Informe o motivo do bloqueio.")
		return
	}

	s, err := h.blocking.Block(c.Request.Context(), ucSlot.BlockInput{
		BusinessID: businessID(c),
		SlotID:     id,
		ActorID:    actorID(c),
		Reason:     req.Reason,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.SlotFromModel(s))
}

func (h *SlotHandler) Unblock(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	s, err := h.blocking.Unblock(c.Request.Context(), ucSlot.BlockInput{
		BusinessID: businessID(c),
		SlotID:     id,
		ActorID:    actorID(c),
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.SlotFromModel(s))
}

func (h *SlotHandler) Book(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	var req BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	s, err := h.booking.Book(c.Request.Context(), ucSlot.BookInput{
		BusinessID:             businessID(c),
		SlotID:                 id,
		ActorID:                actorID(c),
		AppointmentID:          req.AppointmentID,
		ServiceID:              req.ServiceID,
		ServiceDurationMinutes: req.ServiceDurationMinutes,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.SlotFromModel(s))
}

func (h *SlotHandler) Release(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	var req ReleaseSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	s, err := h.booking.Release(c.Request.Context(), ucSlot.ReleaseInput{
		BusinessID:    businessID(c),
		SlotID:        id,
		ActorID:       actorID(c),
		AppointmentID: req.AppointmentID,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, dto.SlotFromModel(s))
}

func (h *SlotHandler) BulkBlock(c *gin.Context) {
	var req BulkBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	res, err := h.blocking.BulkBlock(c.Request.Context(), ucSlot.BulkBlockInput{
		BusinessID: businessID(c),
		ActorID:    actorID(c),
		SlotIDs:    req.SlotIDs,
		Reason:     req.Reason,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *SlotHandler) BlockRange(c *gin.Context) {
	var req BlockRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	res, err := h.blocking.BlockRange(c.Request.Context(), ucSlot.BlockRangeInput{
		BusinessID:   businessID(c),
		SpecialistID: req.SpecialistID,
		ActorID:      actorID(c),
		Start:        req.Start,
		End:          req.End,
		Reason:       req.Reason,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, res)
}
