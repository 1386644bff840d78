package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"pizza-paradise/internal/model"
	"pizza-paradise/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// maxImageSize bounds uploaded pizza images at 5 MiB.
const maxImageSize = 5 << 20

// CatalogHandler handles pizza and topping catalogue requests.
type CatalogHandler struct {
	catalog service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalogue handler.
func NewCatalogHandler(catalog service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// ListPizzas handles GET /api/pizzas requests.
func (h *CatalogHandler) ListPizzas(w http.ResponseWriter, r *http.Request) {
	pizzas, err := h.catalog.GetPizzas(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, pizzas)
}

// GetPizza handles GET /api/pizzas/{id} requests.
func (h *CatalogHandler) GetPizza(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid pizza ID"), h.logger)
		return
	}

	pizza, err := h.catalog.GetPizza(r.Context(), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, pizza)
}

// CreatePizza handles POST /api/pizzas requests. The body is multipart
// form data so an image can be uploaded alongside the fields.
func (h *CatalogHandler) CreatePizza(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid multipart form"), h.logger)
		return
	}

	name := r.FormValue("name")
	description := r.FormValue("description")
	price, err := decimal.NewFromString(r.FormValue("price"))
	if err != nil || name == "" {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Name and a valid price are required"), h.logger)
		return
	}

	var image io.Reader
	var imageName string
	if file, header, fileErr := r.FormFile("image"); fileErr == nil {
		defer file.Close()
		image = file
		imageName = header.Filename
	}

	pizza, err := h.catalog.CreatePizza(r.Context(), name, description, price, image, imageName)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{
		Message: "Pizza created successfully",
		Data:    pizza,
	})
}

// UpdatePizza handles PUT /api/pizzas/{id} requests.
func (h *CatalogHandler) UpdatePizza(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid pizza ID"), h.logger)
		return
	}

	var req model.PizzaUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid request body"), h.logger)
		return
	}

	pizza, err := h.catalog.UpdatePizza(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "Pizza updated successfully",
		Data:    pizza,
	})
}

// DeletePizza handles DELETE /api/pizzas/{id} requests.
func (h *CatalogHandler) DeletePizza(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid pizza ID"), h.logger)
		return
	}

	if err := h.catalog.DeletePizza(r.Context(), id); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Pizza deleted successfully"})
}

// ListToppings handles GET /api/toppings requests.
func (h *CatalogHandler) ListToppings(w http.ResponseWriter, r *http.Request) {
	toppings, err := h.catalog.GetToppings(r.Context())
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, toppings)
}

// GetTopping handles GET /api/toppings/{id} requests.
func (h *CatalogHandler) GetTopping(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid topping ID"), h.logger)
		return
	}

	topping, err := h.catalog.GetTopping(r.Context(), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, topping)
}

// CreateTopping handles POST /api/toppings requests.
func (h *CatalogHandler) CreateTopping(w http.ResponseWriter, r *http.Request) {
	var req model.ToppingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Name and price are required"), h.logger)
		return
	}

	topping, err := h.catalog.CreateTopping(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{
		Message: "Topping created successfully",
		Data:    topping,
	})
}

// UpdateTopping handles PUT /api/toppings/{id} requests.
func (h *CatalogHandler) UpdateTopping(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid topping ID"), h.logger)
		return
	}

	var req model.ToppingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid request body"), h.logger)
		return
	}

	topping, err := h.catalog.UpdateTopping(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{
		Message: "Topping updated successfully",
		Data:    topping,
	})
}

// DeleteTopping handles DELETE /api/toppings/{id} requests.
func (h *CatalogHandler) DeleteTopping(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeInvalidRequest, "Invalid topping ID"), h.logger)
		return
	}

	if err := h.catalog.DeleteTopping(r.Context(), id); err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Topping deleted successfully"})
}
