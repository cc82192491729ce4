package auth

import (
	"net/http"

	"casino_rounds/internal/api/apierr"
	dto "casino_rounds/internal/api/dto/auth"
	"casino_rounds/internal/converter"
	"casino_rounds/internal/model"
	"casino_rounds/internal/service"
	"casino_rounds/pkg/req"
	"casino_rounds/pkg/resp"

	"go.uber.org/zap"
)

const (
	sessionCookie = "session_id"
	refreshCookie = "refresh_token"
	cookieMaxAge  = 60 * 60 * 24 * 30 // 30 дней
)

type HandlerDeps struct {
	Serv service.AuthService
	Log  *zap.Logger
}

type Handler struct {
	serv service.AuthService
	log  *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, log: deps.Log}
}

// Register создаёт пользователя, открывает сессию
// и возвращает access_token, а session_id и refresh_token через cookies
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	requestBody, err := req.Decode[dto.RegisterRequest](r.Body)
	if err != nil {
		apierr.BadRequest(w, err)
		return
	}
	if requestBody.Login == "" || requestBody.Password == "" {
		resp.WriteError(w, http.StatusBadRequest, "login and password are required")
		return
	}

	data, err := h.serv.Register(r.Context(), converter.RegisterRequestToUserModel(&requestBody))
	if err != nil {
		apierr.Write(w, h.log, "register", err)
		return
	}

	setSessionCookies(w, data)

	resp.WriteJSONResponse(w, http.StatusCreated, dto.TokenResponse{AccessToken: data.AccessToken})
}

// Login создаёт сессию, как Register
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	requestBody, err := req.Decode[dto.LoginRequest](r.Body)
	if err != nil {
		apierr.BadRequest(w, err)
		return
	}

	data, err := h.serv.Login(r.Context(), converter.LoginRequestToUserModel(&requestBody))
	if err != nil {
		apierr.Write(w, h.log, "login", err)
		return
	}

	setSessionCookies(w, data)

	resp.WriteJSONResponse(w, http.StatusOK, dto.TokenResponse{AccessToken: data.AccessToken})
}

// Refresh выдает новый access_token по session_id и refresh_token
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	session, err := r.Cookie(sessionCookie)
	if err != nil {
		resp.WriteError(w, http.StatusUnauthorized, "no session_id cookie")
		return
	}
	refresh, err := r.Cookie(refreshCookie)
	if err != nil {
		resp.WriteError(w, http.StatusUnauthorized, "no refresh_token cookie")
		return
	}

	accessToken, err := h.serv.Refresh(r.Context(), &model.AuthData{
		SessionID:    session.Value,
		RefreshToken: refresh.Value,
	})
	if err != nil {
		apierr.Write(w, h.log, "refresh", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, dto.TokenResponse{AccessToken: accessToken})
}

// Logout закрывает сессию по session_id
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		resp.WriteError(w, http.StatusUnauthorized, "no session_id cookie")
		return
	}

	if err := h.serv.Logout(r.Context(), c.Value); err != nil {
		apierr.Write(w, h.log, "logout", err)
		return
	}

	deleteCookie(w, sessionCookie, "/")
	deleteCookie(w, refreshCookie, "/auth")

	w.WriteHeader(http.StatusNoContent)
}

func setSessionCookies(w http.ResponseWriter, data *model.AuthData) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    data.SessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   cookieMaxAge,
	})
	// refresh_token нужен только ручкам /auth
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    data.RefreshToken,
		Path:     "/auth",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   cookieMaxAge,
	})
}

func deleteCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
