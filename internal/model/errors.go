package model

import "errors"

// Ошибки команд над раундом
var (
	ErrInvalidStake      = errors.New("invalid stake")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrWrongPhase        = errors.New("command not allowed in current phase")
	ErrSlotEmpty         = errors.New("bet slot is empty")
	ErrSlotOccupied      = errors.New("bet slot is occupied")
	ErrInvalidSlot       = errors.New("invalid bet slot")
	ErrAlreadySettled    = errors.New("bet already settled")
	ErrLedgerUnavailable = errors.New("ledger unavailable")
	ErrRoundHalted       = errors.New("round engine halted")
	ErrUnknownGame       = errors.New("unknown game")
	ErrSteerNotSupported = errors.New("game does not support steering")
	ErrInvalidLane       = errors.New("invalid lane")
	ErrTableClosed       = errors.New("table closed")
	ErrInvalidSelection  = errors.New("invalid selection")
)

// Ошибки кошелька и авторизации
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrLoginTaken         = errors.New("login already taken")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrWithdrawTooSmall   = errors.New("withdrawal below minimum")
	ErrUnauthorized       = errors.New("unauthorized")
)
