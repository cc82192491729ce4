package wallet

import (
	"context"
	"net/http"
	"strconv"

	"casino_rounds/internal/api/apierr"
	dto "casino_rounds/internal/api/dto/wallet"
	"casino_rounds/internal/converter"
	"casino_rounds/internal/middleware"
	"casino_rounds/internal/model"
	"casino_rounds/internal/service"
	"casino_rounds/pkg/req"
	"casino_rounds/pkg/resp"

	"go.uber.org/zap"
)

type HandlerDeps struct {
	Serv service.WalletService
	Log  *zap.Logger
}

type Handler struct {
	serv service.WalletService
	log  *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, log: deps.Log}
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	balance, err := h.serv.Balance(r.Context(), uid)
	if err != nil {
		apierr.Write(w, h.log, "balance", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, dto.BalanceResponse{Balance: balance})
}

// Deposit зачисление за вычетом налога
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.payment(w, r, "deposit", h.serv.Deposit)
}

// Withdraw вывод, минимальная сумма задается в сервисе
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.payment(w, r, "withdraw", h.serv.Withdraw)
}

func (h *Handler) payment(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	fn func(ctx context.Context, tx *model.Transaction) (*model.Transaction, error),
) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	body, err := req.Decode[dto.PaymentRequest](r.Body)
	if err != nil {
		apierr.BadRequest(w, err)
		return
	}

	tx, err := fn(r.Context(), converter.ToTransaction(uid, body))
	if err != nil {
		apierr.Write(w, h.log, op, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToTransactionResponse(*tx))
}

// History история ставок, ?limit=N
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	bets, err := h.serv.BetHistory(r.Context(), uid, limit(r))
	if err != nil {
		apierr.Write(w, h.log, "bet history", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToBetsResponse(bets))
}

// Transactions пополнения и выводы, ?limit=N
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	txs, err := h.serv.Transactions(r.Context(), uid, limit(r))
	if err != nil {
		apierr.Write(w, h.log, "transactions", err)
		return
	}

	out := make([]dto.TransactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = converter.ToTransactionResponse(tx)
	}
	resp.WriteJSONResponse(w, http.StatusOK, out)
}

// limit 0 при отсутствии параметра, сервис подставит значение по умолчанию
func limit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
