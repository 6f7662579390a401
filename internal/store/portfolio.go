package store

import (
	"log/slog"
	"sync"

	"github.com/freemarket-app/freemarket_client/internal/model"
)

// PortfolioEvent mutates the portfolio state when applied.
type PortfolioEvent interface {
	isPortfolioEvent()
}

// PortfolioReplaced installs a server-provided snapshot verbatim, discarding
// prior state. Used right after sign-in to establish ground truth.
type PortfolioReplaced struct {
	Portfolio model.Portfolio
}

// TradeApplied reconciles one confirmed trade into the portfolio.
type TradeApplied struct {
	Confirmation model.TradeConfirmation
}

func (PortfolioReplaced) isPortfolioEvent() {}
func (TradeApplied) isPortfolioEvent()      {}

// ReducePortfolio is the pure reconciliation function. For TradeApplied the
// confirmation's position snapshot replaces the matching row in place, or is
// appended when the symbol is new; rows are never merged field by field. The
// balance moves by executedPrice*executedShares, down on a buy and up on a
// sell. No non-negative floor is enforced locally, that is the backend's job.
func ReducePortfolio(state model.Portfolio, event PortfolioEvent) model.Portfolio {
	switch e := event.(type) {
	case PortfolioReplaced:
		return e.Portfolio
	case TradeApplied:
		c := e.Confirmation

		positions := make([]model.Position, len(state.Positions))
		copy(positions, state.Positions)

		found := false
		for i := range positions {
			if positions[i].Symbol == c.Symbol {
				positions[i] = c.Position
				found = true
				break
			}
		}
		if !found {
			positions = append(positions, c.Position)
		}

		total := c.ExecutedPrice.Mul(c.ExecutedShares)
		balance := state.Balance
		if c.Direction == model.Buy {
			balance = balance.Sub(total)
		} else {
			balance = balance.Add(total)
		}

		return model.Portfolio{Balance: balance, Positions: positions}
	default:
		return state
	}
}

// PortfolioStore owns the portfolio state. Apply is the only mutation path;
// confirmations for the same symbol apply in arrival order, last one wins.
type PortfolioStore struct {
	mu    sync.RWMutex
	state model.Portfolio
	subs  []chan model.Portfolio
}

func NewPortfolioStore() *PortfolioStore {
	return &PortfolioStore{}
}

func (s *PortfolioStore) Apply(event PortfolioEvent) model.Portfolio {
	s.mu.Lock()
	s.state = ReducePortfolio(s.state, event)
	snapshot := s.state
	subs := make([]chan model.Portfolio, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	slog.Debug(
		"portfolio event applied",
		slog.String("balance", snapshot.Balance.String()),
		slog.Int("positions", len(snapshot.Positions)),
	)

	for _, sub := range subs {
		select {
		case sub <- snapshot:
		default:
		}
	}

	return snapshot
}

func (s *PortfolioStore) Current() model.Portfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *PortfolioStore) Subscribe() <-chan model.Portfolio {
	ch := make(chan model.Portfolio, 16)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}
