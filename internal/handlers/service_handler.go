package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/agenda-citas/internal/domain/catalog"
	"github.com/BruksfildServices01/agenda-citas/internal/httperr"
	"github.com/BruksfildServices01/agenda-citas/internal/httpresp"
	ucCatalog "github.com/BruksfildServices01/agenda-citas/internal/usecase/catalog"
)

type ServiceHandler struct {
	createUC     *ucCatalog.CreateService
	updateUC     *ucCatalog.UpdateService
	deactivateUC *ucCatalog.DeactivateService
	getUC        *ucCatalog.GetService
	listUC       *ucCatalog.ListServices
}

func NewServiceHandler(
	createUC *ucCatalog.CreateService,
	updateUC *ucCatalog.UpdateService,
	deactivateUC *ucCatalog.DeactivateService,
	getUC *ucCatalog.GetService,
	listUC *ucCatalog.ListServices,
) *ServiceHandler {
	return &ServiceHandler{
		createUC:     createUC,
		updateUC:     updateUC,
		deactivateUC: deactivateUC,
		getUC:        getUC,
		listUC:       listUC,
	}
}

// --------- Requests ---------

type ServiceRequest struct {
	Name        string          `json:"name" binding:"required,min=3,max=100"`
	Description string          `json:"description" binding:"required,max=100"`
	DurationMin int             `json:"duration_min" binding:"required,min=1"`
	Price       decimal.Decimal `json:"price"`
	Active      *bool           `json:"active"`
}

func (r ServiceRequest) fields() domain.Fields {
	return domain.Fields{
		Name:        r.Name,
		Description: r.Description,
		DurationMin: r.DurationMin,
		Price:       r.Price,
	}
}

// --------- Handlers ---------

// List serves GET /api/services?status=active|inactive
func (h *ServiceHandler) List(c *gin.Context) {
	services, err := h.listUC.Execute(c.Request.Context(), domain.ParseActiveFilter(c.Query("status")))
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_services")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindingError(c, err)
		return
	}

	service, err := h.createUC.Execute(c.Request.Context(), req.fields(), req.Active)
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_service")
		return
	}

	httpresp.Created(c, service)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	service, err := h.getUC.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_service")
		return
	}

	httpresp.OK(c, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindingError(c, err)
		return
	}

	service, err := h.updateUC.Execute(c.Request.Context(), id, req.fields(), req.Active)
	if err != nil {
		httperr.Respond(c, err, "failed_to_update_service")
		return
	}

	httpresp.OK(c, service)
}

// Delete deactivates; services are never removed.
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	service, err := h.deactivateUC.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_deactivate_service")
		return
	}

	httpresp.OK(c, service)
}
