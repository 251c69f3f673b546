package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	ucSlot "github.com/BruksfildServices01/salon-scheduler/internal/usecase/slot"
)

// PublicHandler answers unauthenticated availability lookups. Only free
// slots are ever shown.
type PublicHandler struct {
	availability *ucSlot.Availability
	log          *zap.Logger
}

func NewPublicHandler(availability *ucSlot.Availability, log *zap.Logger) *PublicHandler {
	return &PublicHandler{availability: availability, log: log}
}

func (h *PublicHandler) Availability(c *gin.Context) {
	business, err := uintParam(c, "businessId")
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	in, err := availabilityInput(c, business)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}
	in.Statuses = []domain.Status{domain.StatusAvailable}

	days, err := h.availability.Get(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.List(c, nonNilDays(days))
}

func (h *PublicHandler) NextAvailable(c *gin.Context) {
	business, err := uintParam(c, "businessId")
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	in, err := nextAvailableInput(c, business)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	s, err := h.availability.NextAvailable(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, nextResponse(s))
}
