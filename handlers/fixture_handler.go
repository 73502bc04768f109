package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Dosada05/cricket-fixtures/models"
	"github.com/Dosada05/cricket-fixtures/services"
)

type FixtureHandler struct {
	fixtureService services.FixtureService
	publishService services.PublishService
}

func NewFixtureHandler(fs services.FixtureService, ps services.PublishService) *FixtureHandler {
	return &FixtureHandler{
		fixtureService: fs,
		publishService: ps,
	}
}

// ListHandler обрабатывает GET /tournaments/{tournamentID}/fixtures
func (h *FixtureHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	input := services.ListFixturesInput{TournamentID: tournamentID}
	query := r.URL.Query()

	if stageIDStr := query.Get("stage_id"); stageIDStr != "" {
		if id, err := strconv.Atoi(stageIDStr); err == nil && id > 0 {
			input.StageID = &id
		} else {
			badRequestResponse(w, r, errors.New("invalid stage_id query parameter"))
			return
		}
	}
	if statusStr := query.Get("status"); statusStr != "" {
		status := models.FixtureStatus(statusStr)
		if status != models.FixtureStatusDraft && status != models.FixtureStatusPublished {
			badRequestResponse(w, r, errors.New("invalid status query parameter"))
			return
		}
		input.Status = &status
	}
	if includeDraftStr := query.Get("include_draft"); includeDraftStr != "" {
		includeDraft, err := strconv.ParseBool(includeDraftStr)
		if err != nil {
			badRequestResponse(w, r, errors.New("invalid include_draft query parameter"))
			return
		}
		input.IncludeDraft = includeDraft
	}

	matches, err := h.fixtureService.ListFixtures(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"fixtures": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateDraftHandler обрабатывает POST /tournaments/{tournamentID}/fixtures
func (h *FixtureHandler) CreateDraftHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CreateDraftMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = tournamentID

	match, err := h.fixtureService.CreateDraftMatch(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateDraftHandler обрабатывает PUT /tournaments/{tournamentID}/fixtures/{matchID}
func (h *FixtureHandler) UpdateDraftHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateDraftMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.TournamentID = tournamentID
	input.MatchID = matchID

	match, err := h.fixtureService.UpdateDraftMatch(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteDraftHandler обрабатывает DELETE /tournaments/{tournamentID}/fixtures/{matchID}
func (h *FixtureHandler) DeleteDraftHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.fixtureService.DeleteDraftMatch(r.Context(), tournamentID, matchID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type autoGenerateRequest struct {
	StageID               int        `json:"stage_id"`
	StageGroupID          *int       `json:"stage_group_id,omitempty"`
	StartDate             *time.Time `json:"start_date,omitempty"`
	VenueIDs              []int      `json:"venue_ids,omitempty"`
	OverwriteDrafts       bool       `json:"overwrite_drafts"`
	RespectExistingDrafts bool       `json:"respect_existing_drafts"`
}

// AutoGenerateHandler обрабатывает POST /tournaments/{tournamentID}/fixtures/generate
func (h *FixtureHandler) AutoGenerateHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req autoGenerateRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if req.StageID <= 0 {
		badRequestResponse(w, r, errors.New("stage_id is required"))
		return
	}

	result, err := h.fixtureService.AutoGenerateFixtures(r.Context(), services.AutoGenerateInput{
		TournamentID:          tournamentID,
		StageID:               req.StageID,
		StageGroupID:          req.StageGroupID,
		StartDate:             req.StartDate,
		VenueIDs:              req.VenueIDs,
		OverwriteDrafts:       req.OverwriteDrafts,
		RespectExistingDrafts: req.RespectExistingDrafts,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Skipped {
		status = http.StatusOK
	}
	if err := writeJSON(w, status, jsonResponse{"generation": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SwissRoundHandler обрабатывает POST /tournaments/{tournamentID}/stages/{stageID}/swiss-round
func (h *FixtureHandler) SwissRoundHandler(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.fixtureService.AutoGenerateNextSwissRound(r.Context(), tournamentID, stageID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"generation": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type publishRequest struct {
	StageID  *int    `json:"stage_id,omitempty"`
	MatchIDs []int   `json:"match_ids"`
	Reason   *string `json:"reason,omitempty"`
}

// PublishHandler обрабатывает POST /tournaments/{tournamentID}/fixtures/publish
func (h *FixtureHandler) PublishHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req publishRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.publishService.PublishFixtureMatches(r.Context(), services.PublishInput{
		TournamentID: tournamentID,
		StageID:      req.StageID,
		MatchIDs:     req.MatchIDs,
		Reason:       req.Reason,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"publication": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
