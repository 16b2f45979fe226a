package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/creativehub205/ladies-tailor-shop/internal/models"
	"github.com/creativehub205/ladies-tailor-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	designImageField = "design_image"
	multipartMemory  = 8 << 20
)

// OrderHandler handles order-related requests
type OrderHandler struct {
	service      service.Service
	log          *logrus.Logger
	maxBodyBytes int64
}

// NewOrderHandler creates a new OrderHandler instance. maxUploadMB bounds
// the request body, design image included.
func NewOrderHandler(svc service.Service, log *logrus.Logger, maxUploadMB int64) *OrderHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &OrderHandler{
		service:      svc,
		log:          log,
		maxBodyBytes: maxUploadMB << 20,
	}
}

// orderView always carries a measurements array
type orderView struct {
	*models.OrderDetail
	Measurements []models.Measurement `json:"measurements"`
}

type orderUpdated struct {
	orderView
	Message string `json:"message"`
}

func newOrderView(o *models.OrderDetail) orderView {
	measurements := o.Measurements
	if measurements == nil {
		measurements = []models.Measurement{}
	}
	return orderView{OrderDetail: o, Measurements: measurements}
}

// readOrderForm collects the submitted fields from a multipart, urlencoded or
// JSON body. The returned cleanup releases the upload and must be called.
func (h *OrderHandler) readOrderForm(c *gin.Context) (service.FormValues, *service.ImageUpload, func(), error) {
	noop := func() {}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)

	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
			return nil, nil, noop, bodyError(err)
		}
		form := c.Request.MultipartForm
		cleanup := func() { _ = form.RemoveAll() }

		values := service.FormValues{}
		for key, vs := range form.Value {
			if len(vs) > 0 {
				values.Set(key, vs[0])
			}
		}

		files := form.File[designImageField]
		if len(files) == 0 {
			return values, nil, cleanup, nil
		}
		image, closeImage, err := openUpload(files[0])
		if err != nil {
			cleanup()
			return nil, nil, noop, err
		}
		return values, image, func() { closeImage(); cleanup() }, nil

	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, nil, noop, bodyError(err)
		}
		values := service.FormValues{}
		for key, vs := range c.Request.PostForm {
			if len(vs) > 0 {
				values.Set(key, vs[0])
			}
		}
		return values, nil, noop, nil

	default:
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, nil, noop, bodyError(err)
		}
		values, err := service.FormValuesFromJSON(body)
		return values, nil, noop, err
	}
}

func openUpload(fh *multipart.FileHeader) (*service.ImageUpload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open uploaded design image")
	}
	return &service.ImageUpload{Name: fh.Filename, Reader: f}, func() { _ = f.Close() }, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return ErrUploadTooLarge
	}
	return ErrInvalidRequest
}

// CreateOrder creates an order with optional design image and measurements
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	values, image, cleanup, err := h.readOrderForm(c)
	defer cleanup()
	if err != nil {
		RespondError(c, err, h.log)
		return
	}

	in, err := service.ParseOrderCreate(values)
	if err != nil {
		RespondError(c, err, h.log)
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), in, image)
	if err != nil {
		RespondError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, newOrderView(order))
}

// ListOrders lists orders, optionally filtered by ?search=
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.service.ListOrders(c.Request.Context(), c.Query("search"))
	if err != nil {
		RespondError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order with customer details and measurements
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		RespondError(c, ErrInvalidID, h.log)
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, newOrderView(order))
}

// UpdateOrder applies a partial update. The full order is returned only
// when customer, garments and both amounts were submitted.
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		RespondError(c, ErrInvalidID, h.log)
		return
	}

	values, image, cleanup, err := h.readOrderForm(c)
	defer cleanup()
	if err != nil {
		RespondError(c, err, h.log)
		return
	}

	patch, err := service.ParseOrderPatch(values)
	if err != nil {
		RespondError(c, err, h.log)
		return
	}

	order, err := h.service.UpdateOrder(c.Request.Context(), id, patch, image)
	if err != nil {
		RespondError(c, err, h.log)
		return
	}

	if order == nil {
		c.JSON(http.StatusOK, gin.H{
			"id":      id,
			"message": "Order updated successfully",
		})
		return
	}
	c.JSON(http.StatusOK, orderUpdated{
		orderView: newOrderView(order),
		Message:   "Order updated successfully",
	})
}

// DeleteOrder removes an order, its measurements and its design image
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		RespondError(c, ErrInvalidID, h.log)
		return
	}

	if err := h.service.DeleteOrder(c.Request.Context(), id); err != nil {
		RespondError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

// ReplaceMeasurements swaps the measurement set of an order. The body is
// either {"measurements": [...]} or the bare array.
func (h *OrderHandler) ReplaceMeasurements(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		RespondError(c, ErrInvalidID, h.log)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		RespondError(c, ErrInvalidRequest, h.log)
		return
	}

	raw, err := measurementsPayload(body)
	if err != nil {
		RespondError(c, err, h.log)
		return
	}
	measurements, err := service.ParseMeasurements(raw)
	if err != nil {
		RespondError(c, err, h.log)
		return
	}

	saved, err := h.service.ReplaceMeasurements(c.Request.Context(), id, measurements)
	if err != nil {
		RespondError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Measurements saved successfully",
		"measurements": saved,
	})
}

// measurementsPayload extracts the measurement array text from the body.
// The array may also arrive JSON-encoded as a string.
func measurementsPayload(body []byte) (string, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		return string(body), nil
	}

	var envelope struct {
		Measurements json.RawMessage `json:"measurements"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Measurements) == 0 {
		return "", ErrInvalidRequest
	}

	raw := bytes.TrimSpace(envelope.Measurements)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", ErrInvalidRequest
		}
		return s, nil
	}
	return string(raw), nil
}
