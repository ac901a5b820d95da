package main

import (
	"context"
	"net/http"
	"slices"
	"time"

	apperrors "github.com/AdamBeresnev/bracket-picks/internal/errors"
	"github.com/AdamBeresnev/bracket-picks/internal/httputil"
	"github.com/AdamBeresnev/bracket-picks/internal/middleware"
	"github.com/AdamBeresnev/bracket-picks/internal/service"
	"github.com/AdamBeresnev/bracket-picks/internal/share"
	"github.com/AdamBeresnev/bracket-picks/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/markbates/goth/gothic"
)

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperrors.Validationf("invalid %s", name)
	}
	return id, nil
}

func (app *application) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (app *application) listProviders(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string][]string{"providers": utils.NonNil(app.providers)})
}

func (app *application) beginAuth(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if !slices.Contains(app.providers, provider) {
		httputil.NotFound(w, "Unknown sign-in provider", nil)
		return
	}
	gothic.BeginAuthHandler(w, gothic.GetContextWithProvider(r, provider))
}

func (app *application) completeAuth(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if !slices.Contains(app.providers, provider) {
		httputil.NotFound(w, "Unknown sign-in provider", nil)
		return
	}

	gothUser, err := gothic.CompleteUserAuth(w, gothic.GetContextWithProvider(r, provider))
	if err != nil {
		httputil.BadRequest(w, "Authentication failure", err)
		return
	}

	user, err := app.users.FindOrCreateUserByProvider(r.Context(), gothUser)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	if err := app.sessionManager.RenewToken(r.Context()); err != nil {
		httputil.InternalServerError(w, "Failed to renew session", err)
		return
	}
	app.sessionManager.Put(r.Context(), middleware.SessionUserKey, user.ID.String())

	http.Redirect(w, r, app.cfg.BaseURL+"/", http.StatusFound)
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if err := app.sessionManager.Destroy(r.Context()); err != nil {
		httputil.InternalServerError(w, "Failed to end session", err)
		return
	}
	_ = gothic.Logout(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) getMe(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, middleware.GetAuthenticatedUser(r.Context()))
}

type updateMeRequest struct {
	DisplayName string `json:"displayName"`
}

func (app *application) updateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	updated, err := app.users.UpdateDisplayName(r.Context(), userID, req.DisplayName)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (app *application) listTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := app.tournaments.ListTournaments(r.Context())
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tournaments)
}

func (app *application) activeTournament(w http.ResponseWriter, r *http.Request) {
	tournament, err := app.tournaments.ActiveTournament(r.Context())
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tournament)
}

func (app *application) getTournament(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	tournament, err := app.tournaments.GetTournament(r.Context(), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tournament)
}

func (app *application) listTeams(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	teams, err := app.tournaments.ListTeams(r.Context(), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, teams)
}

func (app *application) officialBracket(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	view, err := app.brackets.OfficialBracket(r.Context(), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (app *application) lockStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	status, err := app.tournaments.LockStatus(r.Context(), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (app *application) leaderboard(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	rows, err := app.leaderboards.Leaderboard(r.Context(), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rows)
}

func (app *application) userBracket(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	userID, err := uuidParam(r, "userID")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	app.writeUserBracket(w, r, id, userID)
}

func (app *application) writeUserBracket(w http.ResponseWriter, r *http.Request, tournamentID, userID uuid.UUID) {
	if _, err := app.users.GetUser(r.Context(), userID); err != nil {
		httputil.Error(w, r, err)
		return
	}
	view, err := app.brackets.UserBracket(r.Context(), tournamentID, userID)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// sharedTarget resolves /brackets/{slug}?u={user}.
func (app *application) sharedTarget(r *http.Request) (tournamentID uuid.UUID, slug string, userID uuid.UUID, err error) {
	userID, err = uuid.Parse(r.URL.Query().Get("u"))
	if err != nil {
		return uuid.Nil, "", uuid.Nil, apperrors.Validation("missing or invalid u parameter")
	}
	tournament, err := app.tournaments.GetTournamentBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		return uuid.Nil, "", uuid.Nil, err
	}
	return tournament.ID, tournament.Slug, userID, nil
}

func (app *application) sharedBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, _, userID, err := app.sharedTarget(r)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	app.writeUserBracket(w, r, tournamentID, userID)
}

func (app *application) sharedBracketQR(w http.ResponseWriter, r *http.Request) {
	_, slug, userID, err := app.sharedTarget(r)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	png, err := share.QRCode(share.Link(app.cfg.BaseURL, slug, userID))
	if err != nil {
		httputil.InternalServerError(w, "Failed to render QR code", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (app *application) myPicks(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	picks, err := app.picks.ListPicks(r.Context(), userID, id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, picks)
}

type submitPicksRequest struct {
	Picks []service.PickInput `json:"picks"`
}

func (app *application) submitPicks(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	var req submitPicksRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.Error(w, r, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	saved, err := app.picks.SubmitPicks(r.Context(), userID, id, req.Picks)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, saved)
}

func (app *application) myBracket(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	view, err := app.brackets.UserBracket(r.Context(), id, userID)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

type shareLinkResponse struct {
	URL   string `json:"url"`
	QRURL string `json:"qrUrl"`
}

func (app *application) myShareLink(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	tournament, err := app.tournaments.GetTournament(r.Context(), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())
	link := share.Link(app.cfg.BaseURL, tournament.Slug, userID)
	qr := share.QRLink(app.cfg.BaseURL, tournament.Slug, userID)
	httputil.WriteJSON(w, http.StatusOK, shareLinkResponse{URL: link, QRURL: qr})
}
