package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/agenda-citas/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-citas/internal/httperr"
	"github.com/BruksfildServices01/agenda-citas/internal/httpresp"
	"github.com/BruksfildServices01/agenda-citas/internal/models"
	ucAppointment "github.com/BruksfildServices01/agenda-citas/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC   *ucAppointment.CreateAppointment
	updateUC   *ucAppointment.UpdateAppointment
	statusUC   *ucAppointment.ChangeAppointmentStatus
	deleteUC   *ucAppointment.DeleteAppointment
	getUC      *ucAppointment.GetAppointment
	listUC     *ucAppointment.ListAppointments
	calendarUC *ucAppointment.GetCalendar
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	updateUC *ucAppointment.UpdateAppointment,
	statusUC *ucAppointment.ChangeAppointmentStatus,
	deleteUC *ucAppointment.DeleteAppointment,
	getUC *ucAppointment.GetAppointment,
	listUC *ucAppointment.ListAppointments,
	calendarUC *ucAppointment.GetCalendar,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:   createUC,
		updateUC:   updateUC,
		statusUC:   statusUC,
		deleteUC:   deleteUC,
		getUC:      getUC,
		listUC:     listUC,
		calendarUC: calendarUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientID  uint   `json:"client_id" binding:"required"`
	ServiceID uint   `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Comment   string `json:"comment" binding:"max=250"`
}

type UpdateAppointmentRequest struct {
	Date    string `json:"date" binding:"required"`
	Time    string `json:"time" binding:"required"`
	Status  string `json:"status"`
	Comment string `json:"comment" binding:"max=250"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func parseStatus(c *gin.Context, raw string) (domain.Status, bool) {
	st, err := models.ParseAppointmentStatus(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_status", "Unknown appointment status.")
		return 0, false
	}
	return st, true
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindingError(c, err)
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		ClientID:  req.ClientID,
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Time:      req.Time,
		Comment:   req.Comment,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_appointment")
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// READ
// ======================================================

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ap, err := h.getUC.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_appointment")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	clientID, ok := optionalUintQuery(c, "client_id")
	if !ok {
		return
	}
	serviceID, ok := optionalUintQuery(c, "service_id")
	if !ok {
		return
	}

	f := domain.Filter{
		Date:      c.Query("date"),
		From:      c.Query("from"),
		To:        c.Query("to"),
		ClientID:  clientID,
		ServiceID: serviceID,
	}

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		st, ok := parseStatus(c, raw)
		if !ok {
			return
		}
		f.Status = &st
	}

	out, err := h.listUC.Execute(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_appointments")
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) Calendar(c *gin.Context) {
	events, err := h.calendarUC.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err, "failed_to_load_calendar")
		return
	}

	httpresp.OK(c, events)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindingError(c, err)
		return
	}

	in := ucAppointment.UpdateAppointmentInput{
		Date:    req.Date,
		Time:    req.Time,
		Comment: req.Comment,
	}
	if strings.TrimSpace(req.Status) != "" {
		st, ok := parseStatus(c, req.Status)
		if !ok {
			return
		}
		in.Status = &st
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), id, in)
	if err != nil {
		httperr.Respond(c, err, "failed_to_update_appointment")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindingError(c, err)
		return
	}

	st, ok := parseStatus(c, req.Status)
	if !ok {
		return
	}

	ap, err := h.statusUC.Execute(c.Request.Context(), id, st)
	if err != nil {
		httperr.Respond(c, err, "failed_to_change_status")
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), id); err != nil {
		httperr.Respond(c, err, "failed_to_delete_appointment")
		return
	}

	httpresp.NoContent(c)
}
