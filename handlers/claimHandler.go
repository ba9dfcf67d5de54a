package handlers

import (
	"ClaimProcess/middlewares"
	"ClaimProcess/services"
	"ClaimProcess/utils"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ClaimHandler struct {
	service *services.ClaimService
	log     zerolog.Logger
}

func NewClaimHandler(service *services.ClaimService, log zerolog.Logger) *ClaimHandler {
	return &ClaimHandler{service: service, log: log}
}

// CreateClaim decodes a claim whose keys were already lower-cased by
// middlewares.LowercaseJSONKeys, processes it and returns the stored record.
func (h *ClaimHandler) CreateClaim(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		middlewares.HttpError(c, h.log, "failed to read request body", middlewares.BodyReadStatus(err), err)
		return
	}

	input, err := utils.DecodeClaimInput(body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	claim, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, claim, http.StatusOK)
}

func (h *ClaimHandler) GetTopNetFees(c *gin.Context) {
	claims, err := h.service.TopNetFees(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, claims, http.StatusOK)
}

func (h *ClaimHandler) respondError(c *gin.Context, err error) {
	var structural *utils.StructuralError
	var business *utils.BusinessRuleError
	switch {
	case errors.As(err, &structural):
		middlewares.HttpError(c, h.log, structural.Fields, http.StatusUnprocessableEntity, err)
	case errors.As(err, &business):
		middlewares.HttpError(c, h.log, business.Message, http.StatusBadRequest, err)
	default:
		middlewares.HttpError(c, h.log, "Internal server error", http.StatusInternalServerError, err)
	}
}
