package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dto "casino_rounds/internal/api/dto/wallet"
	"casino_rounds/internal/middleware"
	"casino_rounds/internal/model"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type walletServiceMock struct {
	mock.Mock
}

func (m *walletServiceMock) Balance(ctx context.Context, userID int) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *walletServiceMock) Deposit(ctx context.Context, tx *model.Transaction) (*model.Transaction, error) {
	args := m.Called(ctx, tx)
	out, _ := args.Get(0).(*model.Transaction)
	return out, args.Error(1)
}

func (m *walletServiceMock) Withdraw(ctx context.Context, tx *model.Transaction) (*model.Transaction, error) {
	args := m.Called(ctx, tx)
	out, _ := args.Get(0).(*model.Transaction)
	return out, args.Error(1)
}

func (m *walletServiceMock) BetHistory(ctx context.Context, userID int, limit int) ([]model.BetRecord, error) {
	args := m.Called(ctx, userID, limit)
	out, _ := args.Get(0).([]model.BetRecord)
	return out, args.Error(1)
}

func (m *walletServiceMock) Transactions(ctx context.Context, userID int, limit int) ([]model.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	out, _ := args.Get(0).([]model.Transaction)
	return out, args.Error(1)
}

func authed(r *http.Request, userID int) *http.Request {
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}

func TestBalance(t *testing.T) {
	serv := &walletServiceMock{}
	serv.On("Balance", mock.Anything, 9).Return(int64(1500), nil)
	h := NewHandler(HandlerDeps{Serv: serv, Log: zap.NewNop()})

	w := httptest.NewRecorder()
	h.Balance(w, authed(httptest.NewRequest(http.MethodGet, "/wallet/balance", nil), 9))

	require.Equal(t, http.StatusOK, w.Code)
	var got dto.BalanceResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Equal(t, int64(1500), got.Balance)
}

func TestBalance_Unauthorized(t *testing.T) {
	h := NewHandler(HandlerDeps{Serv: &walletServiceMock{}, Log: zap.NewNop()})

	w := httptest.NewRecorder()
	h.Balance(w, httptest.NewRequest(http.MethodGet, "/wallet/balance", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeposit(t *testing.T) {
	serv := &walletServiceMock{}
	serv.On("Deposit", mock.Anything, mock.MatchedBy(func(tx *model.Transaction) bool {
		return tx.UserID == 9 && tx.Amount == 1000 && tx.Method == "mtn"
	})).Return(&model.Transaction{ID: "t1", Type: model.TxDeposit, Amount: 1000, Tax: 120, NetAmount: 880}, nil)
	h := NewHandler(HandlerDeps{Serv: serv, Log: zap.NewNop()})

	body := strings.NewReader(`{"amount":1000,"method":"mtn","phone":"0700000000"}`)
	w := httptest.NewRecorder()
	h.Deposit(w, authed(httptest.NewRequest(http.MethodPost, "/wallet/deposit", body), 9))

	require.Equal(t, http.StatusOK, w.Code)
	var got dto.TransactionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Equal(t, int64(880), got.NetAmount)
	serv.AssertExpectations(t)
}

func TestWithdraw_Errors(t *testing.T) {
	cases := map[error]int{
		model.ErrWithdrawTooSmall:  http.StatusBadRequest,
		model.ErrInsufficientFunds: http.StatusPaymentRequired,
	}
	for err, status := range cases {
		serv := &walletServiceMock{}
		serv.On("Withdraw", mock.Anything, mock.Anything).Return(nil, err)
		h := NewHandler(HandlerDeps{Serv: serv, Log: zap.NewNop()})

		body := strings.NewReader(`{"amount":100,"method":"airtel"}`)
		w := httptest.NewRecorder()
		h.Withdraw(w, authed(httptest.NewRequest(http.MethodPost, "/wallet/withdraw", body), 9))
		require.Equal(t, status, w.Code, err.Error())
	}
}

func TestHistory_Limit(t *testing.T) {
	serv := &walletServiceMock{}
	serv.On("BetHistory", mock.Anything, 9, 5).Return([]model.BetRecord{{ID: "b1", Game: model.GameWheel, Won: true}}, nil)
	serv.On("BetHistory", mock.Anything, 9, 0).Return([]model.BetRecord{}, nil)
	h := NewHandler(HandlerDeps{Serv: serv, Log: zap.NewNop()})

	w := httptest.NewRecorder()
	h.History(w, authed(httptest.NewRequest(http.MethodGet, "/wallet/history?limit=5", nil), 9))
	require.Equal(t, http.StatusOK, w.Code)
	var got []dto.BetResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got, 1)
	require.Equal(t, "wheel", got[0].Game)

	w = httptest.NewRecorder()
	h.History(w, authed(httptest.NewRequest(http.MethodGet, "/wallet/history?limit=abc", nil), 9))
	require.Equal(t, http.StatusOK, w.Code)
	serv.AssertExpectations(t)
}
