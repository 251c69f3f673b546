package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/clock"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	ucSchedule "github.com/BruksfildServices01/salon-scheduler/internal/usecase/schedule"
	ucSlot "github.com/BruksfildServices01/salon-scheduler/internal/usecase/slot"
)

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	create       *ucSchedule.CreateSchedule
	update       *ucSchedule.UpdateSchedule
	remove       *ucSchedule.DeleteSchedule
	get          *ucSchedule.GetSchedule
	list         *ucSchedule.ListSchedules
	generate     *ucSlot.GenerateSlots
	bulkGenerate *ucSlot.BulkGenerateSlots
	log          *zap.Logger
}

func NewScheduleHandler(
	create *ucSchedule.CreateSchedule,
	update *ucSchedule.UpdateSchedule,
	remove *ucSchedule.DeleteSchedule,
	get *ucSchedule.GetSchedule,
	list *ucSchedule.ListSchedules,
	generate *ucSlot.GenerateSlots,
	bulkGenerate *ucSlot.BulkGenerateSlots,
	log *zap.Logger,
) *ScheduleHandler {
	return &ScheduleHandler{
		create:       create,
		update:       update,
		remove:       remove,
		get:          get,
		list:         list,
		generate:     generate,
		bulkGenerate: bulkGenerate,
		log:          log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateScheduleRequest struct {
	SpecialistID *uint  `json:"specialist_id"`
	LocationID   *uint  `json:"location_id"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`

	WeeklyPattern models.WeeklyPattern       `json:"weekly_pattern" binding:"required"`
	Exceptions    []models.ScheduleException `json:"exceptions"`

	SlotDurationMinutes int    `json:"slot_duration_minutes"`
	BufferMinutes       int    `json:"buffer_minutes"`
	Timezone            string `json:"timezone"`
	SlotCapacity        int    `json:"slot_capacity"`

	EffectiveFrom *clock.Date `json:"effective_from"`
	EffectiveTo   *clock.Date `json:"effective_to"`

	IsDefault bool `json:"is_default"`
	Priority  int  `json:"priority"`
}

type UpdateScheduleRequest struct {
	Name *string `json:"name"`
	Kind *string `json:"kind"`

	WeeklyPattern *models.WeeklyPattern       `json:"weekly_pattern"`
	Exceptions    *[]models.ScheduleException `json:"exceptions"`

	SlotDurationMinutes *int    `json:"slot_duration_minutes"`
	BufferMinutes       *int    `json:"buffer_minutes"`
	Timezone            *string `json:"timezone"`
	SlotCapacity        *int    `json:"slot_capacity"`

	EffectiveFrom        *clock.Date `json:"effective_from"`
	EffectiveTo          *clock.Date `json:"effective_to"`
	ClearEffectiveWindow bool        `json:"clear_effective_window"`

	IsDefault *bool `json:"is_default"`
	Priority  *int  `json:"priority"`
	IsActive  *bool `json:"is_active"`
}

type GenerateSlotsRequest struct {
	From              string `json:"from"`
	To                string `json:"to"`
	GenerateBreaks    *bool  `json:"generate_breaks"`
	OverwriteExisting bool   `json:"overwrite_existing"`
}

type BulkGenerateRequest struct {
	ScheduleIDs []uint `json:"schedule_ids" binding:"required"`
	GenerateSlotsRequest
}

// ======================================================
// CRUD
// ======================================================

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	def, err := h.create.Execute(c.Request.Context(), ucSchedule.CreateInput{
		BusinessID:          businessID(c),
		ActorID:             actorID(c),
		SpecialistID:        req.SpecialistID,
		LocationID:          req.LocationID,
		Name:                req.Name,
		Kind:                req.Kind,
		WeeklyPattern:       req.WeeklyPattern,
		Exceptions:          req.Exceptions,
		SlotDurationMinutes: req.SlotDurationMinutes,
		BufferMinutes:       req.BufferMinutes,
		Timezone:            req.Timezone,
		SlotCapacity:        req.SlotCapacity,
		EffectiveFrom:       req.EffectiveFrom,
		EffectiveTo:         req.EffectiveTo,
		IsDefault:           req.IsDefault,
		Priority:            req.Priority,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.Created(c, def)
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	res, err := h.update.Execute(c.Request.Context(), ucSchedule.UpdateInput{
		BusinessID:           businessID(c),
		ScheduleID:           id,
		ActorID:              actorID(c),
		Name:                 req.Name,
		Kind:                 req.Kind,
		WeeklyPattern:        req.WeeklyPattern,
		Exceptions:           req.Exceptions,
		SlotDurationMinutes:  req.SlotDurationMinutes,
		BufferMinutes:        req.BufferMinutes,
		Timezone:             req.Timezone,
		SlotCapacity:         req.SlotCapacity,
		EffectiveFrom:        req.EffectiveFrom,
		EffectiveTo:          req.EffectiveTo,
		ClearEffectiveWindow: req.ClearEffectiveWindow,
		IsDefault:            req.IsDefault,
		Priority:             req.Priority,
		IsActive:             req.IsActive,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	res, err := h.remove.Execute(c.Request.Context(), businessID(c), actorID(c), id)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	def, err := h.get.Execute(c.Request.Context(), businessID(c), id)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, def)
}

func (h *ScheduleHandler) List(c *gin.Context) {
	specialistID, err := optionalUintQuery(c, "specialist_id")
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	out, err := h.list.Execute(c.Request.Context(), domain.ListFilter{
		BusinessID:   businessID(c),
		SpecialistID: specialistID,
		ActiveOnly:   c.Query("active") == "true",
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.List(c, out)
}

// ======================================================
// GENERATION
// ======================================================

func (r GenerateSlotsRequest) dates() (clock.Date, clock.Date, error) {
	from, err := optionalDate(r.From)
	if err != nil {
		return clock.Date{}, clock.Date{}, err
	}
	to, err := optionalDate(r.To)
	if err != nil {
		return clock.Date{}, clock.Date{}, err
	}
	return from, to, nil
}

func (r GenerateSlotsRequest) breaks() bool {
	return r.GenerateBreaks == nil || *r.GenerateBreaks
}

func (h *ScheduleHandler) Generate(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	var req GenerateSlotsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
	}

	from, to, err := req.dates()
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	res, err := h.generate.Execute(c.Request.Context(), ucSlot.GenerateInput{
		BusinessID:        businessID(c),
		ScheduleID:        id,
		ActorID:           actorID(c),
		From:              from,
		To:                to,
		GenerateBreaks:    req.breaks(),
		OverwriteExisting: req.OverwriteExisting,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.Created(c, res)
}

func (h *ScheduleHandler) BulkGenerate(c *gin.Context) {
	var req BulkGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	from, to, err := req.dates()
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	res, err := h.bulkGenerate.Execute(c.Request.Context(), ucSlot.BulkGenerateInput{
		BusinessID:        businessID(c),
		ActorID:           actorID(c),
		ScheduleIDs:       req.ScheduleIDs,
		From:              from,
		To:                to,
		GenerateBreaks:    req.breaks(),
		OverwriteExisting: req.OverwriteExisting,
	})
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, res)
}
