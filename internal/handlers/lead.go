package handlers

import (
	"errors"
	"net/http"
	"strings"

	"mini-crm/internal/models"
	"mini-crm/internal/store"

	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	Store store.Store
}

type leadCreateRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Value       float64 `json:"value"`
}

type leadUpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
	Value       *float64 `json:"value"`
}

// Create handles POST /api/customers/:customerId/leads. The lead's owner
// is the parent customer's owner, not the acting identity — an admin
// creating a lead for a user's customer produces a user-owned lead.
func (h *LeadHandler) Create(c *gin.Context) {
	customer, ok := h.parentCustomer(c)
	if !ok {
		return
	}

	var req leadCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status == "" {
		req.Status = string(models.LeadNew)
	}

	if msg := firstError(
		validateLeadTitle(req.Title),
		validateLeadDescription(req.Description),
		validateLeadStatus(req.Status),
		validateLeadValue(req.Value),
	); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	lead := &models.Lead{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      models.LeadStatus(req.Status),
		Value:       req.Value,
		CustomerID:  customer.ID,
		OwnerID:     customer.OwnerID,
	}
	if err := h.Store.CreateLead(lead); err != nil {
		respondError(c, http.StatusInternalServerError, "Server Error")
		return
	}
	respondData(c, http.StatusCreated, lead)
}

// List handles GET /api/customers/:customerId/leads with an optional
// exact status filter.
func (h *LeadHandler) List(c *gin.Context) {
	customer, ok := h.parentCustomer(c)
	if !ok {
		return
	}

	page, limit := pageParams(c)
	leads, total, err := h.Store.Leads(customer.ID, store.LeadFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server Error")
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}

	respondList(c, leads, Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pageCount(total, limit),
	})
}

// Get handles GET /api/customers/:customerId/leads/:leadId.
func (h *LeadHandler) Get(c *gin.Context) {
	customer, ok := h.parentCustomer(c)
	if !ok {
		return
	}
	lead, ok := h.leadOf(c, customer)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, lead)
}

// Update handles PUT /api/customers/:customerId/leads/:leadId with
// partial-field semantics.
func (h *LeadHandler) Update(c *gin.Context) {
	customer, ok := h.parentCustomer(c)
	if !ok {
		return
	}
	lead, ok := h.leadOf(c, customer)
	if !ok {
		return
	}

	var req leadUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title != nil {
		if msg := validateLeadTitle(*req.Title); msg != "" {
			respondError(c, http.StatusBadRequest, msg)
			return
		}
		lead.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		if msg := validateLeadDescription(*req.Description); msg != "" {
			respondError(c, http.StatusBadRequest, msg)
			return
		}
		lead.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		if msg := validateLeadStatus(*req.Status); msg != "" {
			respondError(c, http.StatusBadRequest, msg)
			return
		}
		lead.Status = models.LeadStatus(*req.Status)
	}
	if req.Value != nil {
		if msg := validateLeadValue(*req.Value); msg != "" {
			respondError(c, http.StatusBadRequest, msg)
			return
		}
		lead.Value = *req.Value
	}

	if err := h.Store.UpdateLead(lead); err != nil {
		respondError(c, http.StatusInternalServerError, "Server Error")
		return
	}
	respondData(c, http.StatusOK, lead)
}

// Delete handles DELETE /api/customers/:customerId/leads/:leadId.
func (h *LeadHandler) Delete(c *gin.Context) {
	customer, ok := h.parentCustomer(c)
	if !ok {
		return
	}
	lead, ok := h.leadOf(c, customer)
	if !ok {
		return
	}

	if err := h.Store.DeleteLead(lead); err != nil {
		respondError(c, http.StatusInternalServerError, "Server Error")
		return
	}
	respondMessage(c, http.StatusOK, "Lead deleted successfully")
}

// parentCustomer re-resolves the caller's scope against the parent
// customer; every lead operation goes through here first. An invisible
// parent reads as 404.
func (h *LeadHandler) parentCustomer(c *gin.Context) (*models.Customer, bool) {
	ch := CustomerHandler{Store: h.Store}
	return ch.scopedCustomer(c, "customerId")
}

func (h *LeadHandler) leadOf(c *gin.Context, customer *models.Customer) (*models.Lead, bool) {
	leadID, ok := idParam(c, "leadId")
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid lead ID")
		return nil, false
	}

	lead, err := h.Store.LeadByID(customer.ID, leadID)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Lead not found")
		return nil, false
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server Error")
		return nil, false
	}
	return lead, true
}
