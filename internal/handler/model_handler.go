package handler

import (
	"net/http"

	"document-portal/internal/domain"
)

// ModelHandler exposes the configured model settings
type ModelHandler struct {
	catalog domain.ModelCatalog
	logger  domain.Logger
}

func NewModelHandler(catalog domain.ModelCatalog, logger domain.Logger) *ModelHandler {
	return &ModelHandler{
		catalog: catalog,
		logger:  logger.Named("model_handler"),
	}
}

// GetModels describes the LLM and embedding models without credentials
func (h *ModelHandler) GetModels(w http.ResponseWriter, r *http.Request) {
	info, err := h.catalog.Describe()
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}
