package main

import (
	"net/http"

	"github.com/AdamBeresnev/bracket-picks/internal/bracket"
	"github.com/AdamBeresnev/bracket-picks/internal/httputil"
	"github.com/AdamBeresnev/bracket-picks/internal/service"
	users "github.com/AdamBeresnev/bracket-picks/internal/user"
)

func (app *application) createTournament(w http.ResponseWriter, r *http.Request) {
	var input service.CreateTournamentInput
	if err := httputil.DecodeJSON(w, r, &input); err != nil {
		httputil.Error(w, r, err)
		return
	}
	tournament, err := app.tournaments.CreateTournament(r.Context(), input)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tournament)
}

func (app *application) activateTournament(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	tournament, err := app.tournaments.Activate(r.Context(), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tournament)
}

func (app *application) setLock(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	var input service.LockInput
	if err := httputil.DecodeJSON(w, r, &input); err != nil {
		httputil.Error(w, r, err)
		return
	}
	status, err := app.tournaments.SetLock(r.Context(), id, input)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

type addTeamsRequest struct {
	Teams []service.TeamInput `json:"teams"`
}

func (app *application) addTeams(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	var req addTeamsRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}
	teams, err := app.tournaments.AddTeams(r.Context(), id, req.Teams)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, teams)
}

type deletedResponse struct {
	Deleted int64 `json:"deleted"`
}

func (app *application) wipeTeams(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	deleted, err := app.tournaments.WipeTeams(r.Context(), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, deletedResponse{Deleted: deleted})
}

type generateResponse struct {
	Matchups []bracket.Matchup `json:"matchups"`
}

func (app *application) generateBracket(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	var input service.GenerateInput
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(w, r, &input); err != nil {
			httputil.Error(w, r, err)
			return
		}
	}
	matchups, err := app.tournaments.GenerateBracket(r.Context(), id, input)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, generateResponse{Matchups: matchups})
}

func (app *application) resetPicks(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	deleted, err := app.picks.ResetPicks(r.Context(), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, deletedResponse{Deleted: deleted})
}

type outcomeRequest struct {
	Winner bracket.Slot `json:"winner"`
}

func (app *application) setOutcome(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	var req outcomeRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}
	m, err := app.matches.SetOutcome(r.Context(), id, req.Winner)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

func (app *application) clearOutcome(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	m, err := app.matches.ClearOutcome(r.Context(), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

func (app *application) patchMatchup(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	var input service.MatchupPatchInput
	if err := httputil.DecodeJSON(w, r, &input); err != nil {
		httputil.Error(w, r, err)
		return
	}
	m, err := app.matches.PatchMatchup(r.Context(), id, input)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

func (app *application) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := app.users.ListUsers(r.Context())
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

type roleRequest struct {
	Role users.Role `json:"role"`
}

func (app *application) setRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	var req roleRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}
	user, err := app.users.SetRole(r.Context(), id, req.Role)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}
