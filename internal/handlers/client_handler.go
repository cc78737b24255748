package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/agenda-citas/internal/domain/client"
	"github.com/BruksfildServices01/agenda-citas/internal/httperr"
	"github.com/BruksfildServices01/agenda-citas/internal/httpresp"
	ucClient "github.com/BruksfildServices01/agenda-citas/internal/usecase/client"
)

type ClientHandler struct {
	registerUC *ucClient.RegisterClient
	updateUC   *ucClient.UpdateClient
	deleteUC   *ucClient.DeleteClient
	getUC      *ucClient.GetClient
	listUC     *ucClient.ListClients
}

func NewClientHandler(
	registerUC *ucClient.RegisterClient,
	updateUC *ucClient.UpdateClient,
	deleteUC *ucClient.DeleteClient,
	getUC *ucClient.GetClient,
	listUC *ucClient.ListClients,
) *ClientHandler {
	return &ClientHandler{
		registerUC: registerUC,
		updateUC:   updateUC,
		deleteUC:   deleteUC,
		getUC:      getUC,
		listUC:     listUC,
	}
}

// --------- Requests ---------

type ClientRequest struct {
	FirstName string `json:"first_name" binding:"required,min=2,max=50"`
	LastName  string `json:"last_name" binding:"required,min=2,max=50"`
	Email     string `json:"email" binding:"required,email,max=100"`
	Phone     string `json:"phone" binding:"required,max=20"`
}

func (r ClientRequest) fields() domain.Fields {
	return domain.Fields{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
	}
}

// --------- Handlers ---------

// List serves GET /api/clients?order=&page=&page_size=
func (h *ClientHandler) List(c *gin.Context) {
	res, err := h.listUC.Execute(c.Request.Context(), domain.ListQuery{
		Order:    domain.ParseOrder(c.Query("order")),
		Page:     intQuery(c, "page", 1),
		PageSize: intQuery(c, "page_size", 0),
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_clients")
		return
	}

	httpresp.Page(c, res.Clients, res.Page, res.PageSize, res.Total, res.TotalPages)
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindingError(c, err)
		return
	}

	client, err := h.registerUC.Execute(c.Request.Context(), req.fields())
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_client")
		return
	}

	httpresp.Created(c, client)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	client, err := h.getUC.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_client")
		return
	}

	httpresp.OK(c, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindingError(c, err)
		return
	}

	client, err := h.updateUC.Execute(c.Request.Context(), id, req.fields())
	if err != nil {
		httperr.Respond(c, err, "failed_to_update_client")
		return
	}

	httpresp.OK(c, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), id); err != nil {
		httperr.Respond(c, err, "failed_to_delete_client")
		return
	}

	httpresp.NoContent(c)
}
