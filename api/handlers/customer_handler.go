package handlers

import (
	"net/http"
	"strconv"

	"github.com/creativehub205/ladies-tailor-shop/internal/models"
	"github.com/creativehub205/ladies-tailor-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CustomerHandler handles customer-related requests
type CustomerHandler struct {
	service service.Service
	log     *logrus.Logger
}

// NewCustomerHandler creates a new CustomerHandler instance
func NewCustomerHandler(svc service.Service, log *logrus.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: svc,
		log:     log,
	}
}

type customerUpdated struct {
	*models.Customer
	Message string `json:"message"`
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// CreateCustomer registers a customer under the next customer number
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var in service.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, ErrInvalidRequest, h.log)
		return
	}

	customer, err := h.service.CreateCustomer(c.Request.Context(), in)
	if err != nil {
		RespondError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// ListCustomers lists customers, optionally filtered by ?search=
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.service.ListCustomers(c.Request.Context(), c.Query("search"))
	if err != nil {
		RespondError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, customers)
}

// GetCustomer returns one customer
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		RespondError(c, ErrInvalidID, h.log)
		return
	}

	customer, err := h.service.GetCustomer(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer replaces the editable customer fields
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		RespondError(c, ErrInvalidID, h.log)
		return
	}

	var in service.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, ErrInvalidRequest, h.log)
		return
	}

	customer, err := h.service.UpdateCustomer(c.Request.Context(), id, in)
	if err != nil {
		RespondError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, customerUpdated{
		Customer: customer,
		Message:  "Customer updated successfully",
	})
}

// DeleteCustomer removes a customer without orders
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		RespondError(c, ErrInvalidID, h.log)
		return
	}

	if err := h.service.DeleteCustomer(c.Request.Context(), id); err != nil {
		RespondError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

// ListCustomerOrders returns the orders of one customer, newest first
func (h *CustomerHandler) ListCustomerOrders(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		RespondError(c, ErrInvalidID, h.log)
		return
	}

	orders, err := h.service.ListCustomerOrders(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, orders)
}
