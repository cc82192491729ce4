package round

import (
	"sync"
	"time"

	"casino_rounds/internal/model"
)

// Размер буфера подписчика. Медленный клиент пропускает кадры.
const subscriberBuffer = 16

type subscriber struct {
	userID int
	ch     chan model.Snapshot
}

// Snapshot полный снимок со ставками всех игроков
func (e *Engine) Snapshot() model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(e.now())
}

// SnapshotFor снимок для игрока: чужие ставки не показываются
func (e *Engine) SnapshotFor(userID int) model.Snapshot {
	return e.Snapshot().VisibleTo(userID)
}

func (e *Engine) snapshotLocked(now time.Time) model.Snapshot {
	s := model.Snapshot{
		RoundID:    e.round.ID,
		Game:       e.round.Game,
		Phase:      e.round.Phase,
		Observable: e.round.Observable,
		Multiplier: e.round.Multiplier,
		Race:       e.round.Race,
		Slots:      e.slotList(),
		Halted:     e.fault != nil,
		Closed:     e.closed,
		At:         now,
	}
	if e.fault != nil {
		s.Fault = e.fault.Error()
	}
	if !e.round.Deadline.IsZero() && now.Before(e.round.Deadline) {
		s.CountdownMs = e.round.Deadline.Sub(now).Milliseconds()
	}
	// Исход раскрывается только после завершения
	if e.round.Phase == model.PhaseResolved && e.round.Outcome != nil {
		outcome := *e.round.Outcome
		s.Outcome = &outcome
	}
	return s
}

// Subscribe поток снимков игрока userID после каждого тика. cancel можно вызывать повторно.
func (e *Engine) Subscribe(userID int) (<-chan model.Snapshot, func()) {
	ch := make(chan model.Snapshot, subscriberBuffer)

	e.subMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = subscriber{userID: userID, ch: ch}
	e.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			e.subMu.Lock()
			defer e.subMu.Unlock()
			if sub, ok := e.subs[id]; ok {
				delete(e.subs, id)
				close(sub.ch)
			}
		})
	}
	return ch, cancel
}

func (e *Engine) broadcast(s model.Snapshot) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for _, sub := range e.subs {
		select {
		case sub.ch <- s.VisibleTo(sub.userID):
		default:
		}
	}
}

func (e *Engine) closeSubscribers() {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for id, sub := range e.subs {
		delete(e.subs, id)
		close(sub.ch)
	}
}
