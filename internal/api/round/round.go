package round

import (
	"net/http"
	"strconv"

	"casino_rounds/internal/api/apierr"
	dto "casino_rounds/internal/api/dto/round"
	"casino_rounds/internal/converter"
	"casino_rounds/internal/middleware"
	"casino_rounds/internal/model"
	"casino_rounds/internal/service"
	"casino_rounds/pkg/req"
	"casino_rounds/pkg/resp"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type HandlerDeps struct {
	Serv service.RoundService
	Log  *zap.Logger
}

type Handler struct {
	serv service.RoundService
	log  *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, log: deps.Log}
}

func game(r *http.Request) model.GameKind {
	return model.GameKind(chi.URLParam(r, "game"))
}

func slotParam(r *http.Request) (int, error) {
	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		return 0, model.ErrInvalidSlot
	}
	return slot, nil
}

func userID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
	}
	return id, ok
}

// Snapshot текущее состояние стола
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	snap, err := h.serv.Snapshot(uid, game(r))
	if err != nil {
		apierr.Write(w, h.log, "snapshot", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSnapshotResponse(*snap))
}

// PlaceBet ставка в слот. Сумма списывается сразу.
func (h *Handler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	body, err := req.Decode[dto.PlaceBetRequest](r.Body)
	if err != nil {
		apierr.BadRequest(w, err)
		return
	}

	slot, err := h.serv.Place(r.Context(), uid, converter.ToPlaceBet(game(r), body))
	if err != nil {
		apierr.Write(w, h.log, "place bet", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusCreated, converter.ToSlotResponse(*slot))
}

// CancelBet снимает ставку до старта раунда и возвращает сумму
func (h *Handler) CancelBet(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	slotID, err := slotParam(r)
	if err != nil {
		apierr.Write(w, h.log, "cancel bet", err)
		return
	}

	slot, err := h.serv.Cancel(r.Context(), uid, game(r), slotID)
	if err != nil {
		apierr.Write(w, h.log, "cancel bet", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSlotResponse(*slot))
}

// CashOut забирает ставку по текущему множителю
func (h *Handler) CashOut(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	slotID, err := slotParam(r)
	if err != nil {
		apierr.Write(w, h.log, "cash out", err)
		return
	}

	slot, err := h.serv.CashOut(r.Context(), uid, game(r), slotID)
	if err != nil {
		apierr.Write(w, h.log, "cash out", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSlotResponse(*slot))
}

// Steer смена полосы в гонке
func (h *Handler) Steer(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	body, err := req.Decode[dto.SteerRequest](r.Body)
	if err != nil {
		apierr.BadRequest(w, err)
		return
	}

	if err := h.serv.Steer(r.Context(), uid, body.Lane); err != nil {
		apierr.Write(w, h.log, "steer", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// History последние исходы игры
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.serv.History(r.Context(), game(r))
	if err != nil {
		apierr.Write(w, h.log, "history", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToHistoryResponse(entries))
}

// Matches линия матчей для ставок на спорт
func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToMatchesResponse(h.serv.Matches()))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.serv.Stats(r.Context(), game(r))
	if err != nil {
		apierr.Write(w, h.log, "stats", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStatsResponse(*stats))
}
