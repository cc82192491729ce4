// Package apierr переводит ошибки сервисов в HTTP статусы.
package apierr

import (
	"errors"
	"net/http"

	"casino_rounds/internal/model"
	"casino_rounds/pkg/req"
	"casino_rounds/pkg/resp"

	"go.uber.org/zap"
)

var statuses = []struct {
	err    error
	status int
}{
	{req.ErrEmptyBody, http.StatusBadRequest},
	{model.ErrInvalidStake, http.StatusBadRequest},
	{model.ErrInvalidSlot, http.StatusBadRequest},
	{model.ErrInvalidLane, http.StatusBadRequest},
	{model.ErrInvalidAmount, http.StatusBadRequest},
	{model.ErrWithdrawTooSmall, http.StatusBadRequest},
	{model.ErrSteerNotSupported, http.StatusBadRequest},
	{model.ErrInvalidSelection, http.StatusBadRequest},
	{model.ErrUnknownGame, http.StatusNotFound},
	{model.ErrInsufficientFunds, http.StatusPaymentRequired},
	{model.ErrWrongPhase, http.StatusConflict},
	{model.ErrAlreadySettled, http.StatusConflict},
	{model.ErrSlotOccupied, http.StatusConflict},
	{model.ErrSlotEmpty, http.StatusConflict},
	{model.ErrLoginTaken, http.StatusConflict},
	{model.ErrInvalidCredentials, http.StatusUnauthorized},
	{model.ErrUnauthorized, http.StatusUnauthorized},
	{model.ErrSessionNotFound, http.StatusUnauthorized},
	{model.ErrUserNotFound, http.StatusNotFound},
	{model.ErrRoundHalted, http.StatusServiceUnavailable},
	{model.ErrTableClosed, http.StatusServiceUnavailable},
	{model.ErrLedgerUnavailable, http.StatusServiceUnavailable},
}

// Status 500 для всего, что не распознано
func Status(err error) int {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

// Write пишет ошибку клиенту. Текст внутренних ошибок не раскрывается.
func Write(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		log.Error(op, zap.Error(err))
	} else {
		log.Info(op+" rejected", zap.Error(err))
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	resp.WriteError(w, status, msg)
}

// BadRequest ошибка разбора тела запроса
func BadRequest(w http.ResponseWriter, err error) {
	resp.WriteError(w, http.StatusBadRequest, "invalid request: "+err.Error())
}
