package briefing_api

import (
	"log/slog"
	"net/http"

	"github.com/BearBump/VesselBrief/internal/models"
	"github.com/BearBump/VesselBrief/internal/services/accounts"
	"github.com/pkg/errors"
)

const (
	msgRegistered          = "¡Registro exitoso!"
	msgEmailTaken          = "El correo ya está registrado."
	msgInvalidRegistration = "Datos de registro inválidos."
	msgLoggedIn            = "Inicio de sesión exitoso."
	msgInvalidCredentials  = "Credenciales inválidas."
	msgLoggedOut           = "Sesión cerrada."
)

type userBody struct {
	Country    string `json:"pais"`
	GivenNames string `json:"nombres"`
}

type authResponse struct {
	Message string   `json:"message"`
	User    userBody `json:"user"`
}

type sessionResponse struct {
	LoggedIn bool      `json:"logged_in"`
	User     *userBody `json:"user,omitempty"`
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var in accounts.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, messageBody{Message: msgInvalidRegistration})
		return
	}

	acc, err := a.deps.Accounts.Register(r.Context(), in)
	switch {
	case errors.Is(err, accounts.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, messageBody{Message: msgInvalidRegistration})
		return
	case errors.Is(err, accounts.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, messageBody{Message: msgEmailTaken})
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "register failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, messageBody{Message: msgInternal})
		return
	}

	if !a.startSession(w, r, acc) {
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Message: msgRegistered, User: toUserBody(acc)})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var in accounts.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeJSON(w, http.StatusUnauthorized, messageBody{Message: msgInvalidCredentials})
		return
	}

	acc, err := a.deps.Accounts.Login(r.Context(), in)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, messageBody{Message: msgInvalidCredentials})
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "login failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, messageBody{Message: msgInternal})
		return
	}

	if !a.startSession(w, r, acc) {
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Message: msgLoggedIn, User: toUserBody(acc)})
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	if claims, err := a.deps.Sessions.FromRequest(r); err == nil {
		if err := a.deps.Sessions.Revoke(r.Context(), claims); err != nil {
			slog.WarnContext(r.Context(), "session revoke failed", "error", err)
		}
	}
	a.deps.Sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, messageBody{Message: msgLoggedOut})
}

func (a *API) session(w http.ResponseWriter, r *http.Request) {
	claims, err := a.deps.Sessions.FromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusOK, sessionResponse{LoggedIn: false})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		LoggedIn: true,
		User:     &userBody{Country: claims.Country, GivenNames: claims.GivenNames},
	})
}

func (a *API) startSession(w http.ResponseWriter, r *http.Request, acc *models.Account) bool {
	token, err := a.deps.Sessions.Issue(acc.ID, acc.GivenNames, acc.Country)
	if err != nil {
		slog.ErrorContext(r.Context(), "issue session failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, messageBody{Message: msgInternal})
		return false
	}
	a.deps.Sessions.SetCookie(w, token)
	return true
}

func toUserBody(acc *models.Account) userBody {
	return userBody{Country: acc.Country, GivenNames: acc.GivenNames}
}
