package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"memories/models"
	"memories/services"

	"github.com/gorilla/mux"
	"github.com/invopop/jsonschema"
)

const maxBodyBytes = 1 << 20

type MemoryHandler struct {
	service *services.MemoryService
	schema  *jsonschema.Schema
}

func NewMemoryHandler(service *services.MemoryService) *MemoryHandler {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}

	return &MemoryHandler{
		service: service,
		schema:  reflector.Reflect(&models.MemoryRequest{}),
	}
}

func (h *MemoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/memories", h.ListMemories).Methods("GET")
	router.HandleFunc("/memories", h.CreateMemory).Methods("POST")
	router.HandleFunc("/memories/schema", h.GetMemorySchema).Methods("GET")
	router.HandleFunc("/memories/{id}", h.GetMemoryByID).Methods("GET")
	router.HandleFunc("/memories/{id}", h.UpdateMemory).Methods("PUT")
	router.HandleFunc("/memories/{id}", h.DeleteMemory).Methods("DELETE")
}

func (h *MemoryHandler) ListMemories(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListMemories(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, err, "Failed to retrieve memories")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, summaries)
}

func (h *MemoryHandler) GetMemoryByID(w http.ResponseWriter, r *http.Request) {
	memory, err := h.service.GetMemoryByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err, "Failed to retrieve memory")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, memory)
}

func (h *MemoryHandler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		log.Printf("[ERROR] No caller identity on create memory request")
		h.writeErrorResponse(w, http.StatusInternalServerError, "Caller identity unavailable")
		return
	}

	body, err := decodeBody(w, r)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	memory, err := h.service.CreateMemory(r.Context(), userID, body)
	if err != nil {
		h.writeServiceError(w, err, "Failed to create memory")
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, memory)
}

func (h *MemoryHandler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := h.service.UpdateMemory(r.Context(), mux.Vars(r)["id"], body); err != nil {
		h.writeServiceError(w, err, "Failed to update memory")
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *MemoryHandler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMemory(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, err, "Failed to delete memory")
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *MemoryHandler) GetMemorySchema(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, h.schema)
}

// decodeBody returns the decoded JSON value of the request body, or nil
// when the body is empty.
func decodeBody(w http.ResponseWriter, r *http.Request) (any, error) {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.UseNumber()

	var body any
	if err := decoder.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		log.Printf("[ERROR] Failed to decode memory request JSON: %v", err)
		return nil, err
	}

	if decoder.More() {
		log.Printf("[ERROR] Trailing data after memory request JSON")
		return nil, errors.New("unexpected data after JSON body")
	}

	return body, nil
}

func (h *MemoryHandler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		response := map[string]any{"error": validationErr.Message}
		if len(validationErr.Fields) > 0 {
			response["fields"] = validationErr.Fields
		}
		h.writeJSONResponse(w, http.StatusBadRequest, response)
	case errors.As(err, &notFoundErr):
		h.writeErrorResponse(w, http.StatusNotFound, notFoundErr.Error())
	default:
		log.Printf("[ERROR] %s: %v", fallback, err)
		h.writeErrorResponse(w, http.StatusInternalServerError, fallback)
	}
}

func (h *MemoryHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *MemoryHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
