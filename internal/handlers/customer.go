package handlers

import (
	"errors"
	"net/http"
	"strings"

	"mini-crm/internal/access"
	"mini-crm/internal/middleware"
	"mini-crm/internal/models"
	"mini-crm/internal/store"

	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	Store store.Store
}

type customerCreateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

// Pointer fields so a partial update only touches what the client sent.
type customerUpdateRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Company *string `json:"company"`
}

type customerDetail struct {
	models.Customer
	Leads []models.Lead `json:"leads"`
}

// Create handles POST /api/customers. The acting identity becomes the
// owner, admins included.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := firstError(
		validateCustomerName(req.Name),
		validateCustomerEmail(req.Email),
		validatePhone(req.Phone),
		validateCompany(req.Company),
	); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	user := middleware.CurrentUser(c)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	taken, err := h.Store.CustomerEmailTaken(user.ID, email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server Error")
		return
	}
	if taken {
		respondError(c, http.StatusBadRequest, "Customer with this email already exists")
		return
	}

	customer := &models.Customer{
		Name:    strings.TrimSpace(req.Name),
		Email:   email,
		Phone:   strings.TrimSpace(req.Phone),
		Company: strings.TrimSpace(req.Company),
		OwnerID: user.ID,
	}
	if err := h.Store.CreateCustomer(customer); err != nil {
		respondError(c, http.StatusInternalServerError, "Server Error")
		return
	}
	respondData(c, http.StatusCreated, customer)
}

// List handles GET /api/customers with search and pagination.
func (h *CustomerHandler) List(c *gin.Context) {
	scope := access.ScopeFor(middleware.CurrentUser(c))
	page, limit := pageParams(c)

	customers, total, err := h.Store.Customers(scope, store.CustomerFilter{
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server Error")
		return
	}
	if customers == nil {
		customers = []models.Customer{}
	}

	respondList(c, customers, Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pageCount(total, limit),
	})
}

// Get handles GET /api/customers/:id and embeds the customer's leads.
// Records outside the caller's scope look exactly like missing ones.
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, ok := h.scopedCustomer(c, "customerId")
	if !ok {
		return
	}

	leads, err := h.Store.LeadsForCustomer(customer.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server Error")
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	respondData(c, http.StatusOK, customerDetail{Customer: *customer, Leads: leads})
}

// Update handles PUT /api/customers/:id. Only supplied fields are
// validated and replaced; the owner never changes.
func (h *CustomerHandler) Update(c *gin.Context) {
	customer, ok := h.scopedCustomer(c, "customerId")
	if !ok {
		return
	}

	var req customerUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != nil {
		if msg := validateCustomerName(*req.Name); msg != "" {
			respondError(c, http.StatusBadRequest, msg)
			return
		}
		customer.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		if msg := validateCustomerEmail(*req.Email); msg != "" {
			respondError(c, http.StatusBadRequest, msg)
			return
		}
		customer.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		if msg := validatePhone(*req.Phone); msg != "" {
			respondError(c, http.StatusBadRequest, msg)
			return
		}
		customer.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Company != nil {
		if msg := validateCompany(*req.Company); msg != "" {
			respondError(c, http.StatusBadRequest, msg)
			return
		}
		customer.Company = strings.TrimSpace(*req.Company)
	}

	if err := h.Store.UpdateCustomer(customer); err != nil {
		respondError(c, http.StatusInternalServerError, "Server Error")
		return
	}
	respondData(c, http.StatusOK, customer)
}

// Delete handles DELETE /api/customers/:id, cascading to the customer's
// leads.
func (h *CustomerHandler) Delete(c *gin.Context) {
	customer, ok := h.scopedCustomer(c, "customerId")
	if !ok {
		return
	}

	if err := h.Store.DeleteCustomerCascade(customer); err != nil {
		respondError(c, http.StatusInternalServerError, "Server Error")
		return
	}
	respondMessage(c, http.StatusOK, "Customer and associated leads deleted successfully")
}

// scopedCustomer loads the customer named by the path parameter under the
// caller's scope, writing the error response itself on failure.
func (h *CustomerHandler) scopedCustomer(c *gin.Context, param string) (*models.Customer, bool) {
	id, ok := idParam(c, param)
	if !ok {
		respondError(c, http.StatusBadRequest, "Invalid customer ID")
		return nil, false
	}

	scope := access.ScopeFor(middleware.CurrentUser(c))
	customer, err := h.Store.CustomerByID(scope, id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Customer not found")
		return nil, false
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server Error")
		return nil, false
	}
	return customer, true
}

func firstError(msgs ...string) string {
	for _, m := range msgs {
		if m != "" {
			return m
		}
	}
	return ""
}
