package handlers

import (
	"net/http"

	"github.com/Dosada05/cricket-fixtures/models"
	"github.com/Dosada05/cricket-fixtures/services"
)

type StageHandler struct {
	stageService services.StageService
}

func NewStageHandler(ss services.StageService) *StageHandler {
	return &StageHandler{stageService: ss}
}

// GetPointsConfigHandler обрабатывает GET /tournaments/{tournamentID}/stages/{stageID}/points-config
func (h *StageHandler) GetPointsConfigHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cfg, err := h.stageService.GetPointsConfig(r.Context(), tournamentID, stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"points_config": cfg}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetPointsConfigHandler обрабатывает PUT /tournaments/{tournamentID}/stages/{stageID}/points-config
func (h *StageHandler) SetPointsConfigHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	stageID, err := getIDFromURL(r, "stageID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var cfg models.StagePointsConfig
	if err := readJSON(w, r, &cfg); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updated, err := h.stageService.SetPointsConfig(r.Context(), tournamentID, stageID, cfg)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"points_config": updated}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
