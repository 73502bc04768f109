package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Dosada05/cricket-fixtures/services"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(ss services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: ss}
}

// GetHandler обрабатывает GET /tournaments/{tournamentID}/standings
func (h *StandingsHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := services.StandingsInput{TournamentID: tournamentID}
	query := r.URL.Query()

	if stageIDStr := query.Get("stage_id"); stageIDStr != "" {
		if id, err := strconv.Atoi(stageIDStr); err == nil && id > 0 {
			input.StageID = &id
		} else {
			badRequestResponse(w, r, errors.New("invalid stage_id query parameter"))
			return
		}
	}
	if groupIDStr := query.Get("stage_group_id"); groupIDStr != "" {
		if id, err := strconv.Atoi(groupIDStr); err == nil && id > 0 {
			input.StageGroupID = &id
		} else {
			badRequestResponse(w, r, errors.New("invalid stage_group_id query parameter"))
			return
		}
	}
	if includeDraftStr := query.Get("include_draft"); includeDraftStr != "" {
		includeDraft, err := strconv.ParseBool(includeDraftStr)
		if err != nil {
			badRequestResponse(w, r, errors.New("invalid include_draft query parameter"))
			return
		}
		input.IncludeDraft = includeDraft
	}

	result, err := h.standingsService.GetStandings(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
