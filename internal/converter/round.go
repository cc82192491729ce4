package converter

import (
	"casino_rounds/internal/api/dto/round"
	"casino_rounds/internal/model"
)

func ToPlaceBet(game model.GameKind, req round.PlaceBetRequest) model.PlaceBet {
	bet := model.PlaceBet{
		Game:        game,
		SlotID:      req.Slot,
		Stake:       req.Stake,
		AutoCashout: req.AutoCashout,
	}
	if req.MatchID != "" || req.Pick != "" {
		bet.Selection = &model.Selection{MatchID: req.MatchID, Pick: model.Pick(req.Pick)}
	}
	return bet
}

func ToSlotResponse(slot model.BetSlot) round.SlotResponse {
	out := round.SlotResponse{
		UserID:           slot.UserID,
		Slot:             slot.SlotID,
		Stake:            slot.Stake,
		AutoCashout:      slot.AutoCashout,
		Status:           string(slot.Status),
		ResultMultiplier: slot.ResultMultiplier,
		Payout:           slot.Payout,
		BetID:            slot.BetID,
	}
	if slot.Selection != nil {
		out.Selection = &round.SelectionResponse{
			MatchID: slot.Selection.MatchID,
			Pick:    string(slot.Selection.Pick),
		}
	}
	return out
}

func ToSnapshotResponse(s model.Snapshot) round.SnapshotResponse {
	out := round.SnapshotResponse{
		RoundID:     s.RoundID,
		Game:        string(s.Game),
		Phase:       string(s.Phase),
		Observable:  s.Observable,
		Multiplier:  s.Multiplier,
		CountdownMs: s.CountdownMs,
		Slots:       make([]round.SlotResponse, len(s.Slots)),
		Halted:      s.Halted,
		Fault:       s.Fault,
		Closed:      s.Closed,
		At:          s.At,
	}
	for i, slot := range s.Slots {
		out.Slots[i] = ToSlotResponse(slot)
	}
	if s.Outcome != nil {
		out.Outcome = &round.OutcomeResponse{
			Multiplier: s.Outcome.Multiplier,
			Hit:        s.Outcome.Hit,
			Index:      s.Outcome.Index,
			Angle:      s.Outcome.Angle,
			Seed:       s.Outcome.Seed,
		}
	}
	if s.Race != nil {
		out.Race = toRaceResponse(*s.Race)
	}
	return out
}

func toRaceResponse(r model.RaceView) *round.RaceResponse {
	obstacles := make([]round.ObstacleResponse, len(r.Obstacles))
	for i, o := range r.Obstacles {
		obstacles[i] = round.ObstacleResponse{
			ID:       o.ID,
			Lane:     o.Lane,
			Position: o.Position,
			Bonus:    o.Bonus,
			Passed:   o.Passed,
		}
	}
	return &round.RaceResponse{
		Lane:      r.Lane,
		Position:  r.Position,
		Obstacles: obstacles,
	}
}

func ToHistoryResponse(entries []model.OutcomeEntry) []round.OutcomeEntryResponse {
	out := make([]round.OutcomeEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = round.OutcomeEntryResponse{
			RoundID:    e.RoundID,
			Multiplier: e.Multiplier,
			Band:       e.Band,
			At:         e.At,
		}
	}
	return out
}

func ToStatsResponse(s model.GameStats) round.StatsResponse {
	return round.StatsResponse{
		Game:        string(s.Game),
		TotalBets:   s.TotalBets,
		TotalStake:  s.TotalStake,
		TotalPayout: s.TotalPayout,
		CurrentRTP:  s.CurrentRTP,
		WindowRTP:   s.WindowRTP,
		WindowSize:  s.WindowSize,
	}
}

func ToMatchesResponse(matches []model.Match) []round.MatchResponse {
	out := make([]round.MatchResponse, len(matches))
	for i, m := range matches {
		out[i] = round.MatchResponse{
			ID:       m.ID,
			Sport:    m.Sport,
			Team1:    m.Team1,
			Team2:    m.Team2,
			Odds1:    m.Odds1,
			Odds2:    m.Odds2,
			OddsDraw: m.OddsDraw,
		}
	}
	return out
}
