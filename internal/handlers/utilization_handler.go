package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/salon-scheduler/internal/report"
	ucSlot "github.com/BruksfildServices01/salon-scheduler/internal/usecase/slot"
)

const HeaderArchiveKey = "X-Archive-Key"

type UtilizationHandler struct {
	utilization *ucSlot.Utilization
	exporter    *report.Exporter
	log         *zap.Logger
}

func NewUtilizationHandler(
	utilization *ucSlot.Utilization,
	exporter *report.Exporter,
	log *zap.Logger,
) *UtilizationHandler {
	return &UtilizationHandler{
		utilization: utilization,
		exporter:    exporter,
		log:         log,
	}
}

func utilizationInput(c *gin.Context) (ucSlot.UtilizationInput, error) {
	in := ucSlot.UtilizationInput{BusinessID: businessID(c)}

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
	in.SpecialistID = ownSpecialist(c, in.SpecialistID)
	if in.GroupBy, err = domain.ParseGroupBy(c.Query("group_by")); err != nil {
		return in, err
	}
	return in, nil
}

func (h *UtilizationHandler) Stats(c *gin.Context) {
	in, err := utilizationInput(c)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	res, err := h.utilization.Stats(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *UtilizationHandler) Report(c *gin.Context) {
	in, err := utilizationInput(c)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	res, err := h.utilization.Report(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *UtilizationHandler) Export(c *gin.Context) {
	in, err := utilizationInput(c)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	out, err := h.exporter.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, h.log, err)
		return
	}

	if out.ArchiveKey != "" {
		c.Header(HeaderArchiveKey, out.ArchiveKey)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, out.Filename))
	c.Data(http.StatusOK, report.ContentType, out.Content)
}
