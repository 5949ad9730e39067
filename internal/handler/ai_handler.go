package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type ScanRequest struct {
	ImageData string `json:"imageData" validate:"required"`
	MimeType  string `json:"mimeType" validate:"required"`
}

type SymptomsRequest struct {
	Symptoms string `json:"symptoms" validate:"required"`
}

func (h *Handler) ScanPrescription(c echo.Context) error {
	var req ScanRequest
	if err := bind(c, &req, "Image data and mime type are required."); err != nil {
		return respondError(c, err)
	}

	text, err := h.AI.ScanPrescription(c.Request().Context(), req.ImageData, req.MimeType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"detectedText": text})
}

func (h *Handler) SuggestRemedies(c echo.Context) error {
	var req SymptomsRequest
	if err := bind(c, &req, "Symptom description is required."); err != nil {
		return respondError(c, err)
	}

	text, err := h.AI.SuggestRemedies(c.Request().Context(), req.Symptoms)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"suggestionText": text})
}
