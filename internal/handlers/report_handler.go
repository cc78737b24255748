package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-citas/internal/httperr"
	"github.com/BruksfildServices01/agenda-citas/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/agenda-citas/internal/usecase/appointment"
)

type ReportHandler struct {
	reportUC *ucAppointment.GetReport
}

func NewReportHandler(reportUC *ucAppointment.GetReport) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// Appointments serves GET /api/reports/appointments?from=&to=
func (h *ReportHandler) Appointments(c *gin.Context) {
	out, err := h.reportUC.Execute(c.Request.Context(), ucAppointment.ReportInput{
		From: c.Query("from"),
		To:   c.Query("to"),
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_build_report")
		return
	}

	httpresp.OK(c, out)
}
