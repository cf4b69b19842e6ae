package analytics

import (
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/vinstock/internal/service/state"
)

// Service computes dashboards from the live store.
type Service struct {
	store  *state.Store
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewService wires an analytics service. Calendar months are read in loc.
func NewService(store *state.Store, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, loc: loc, now: time.Now, logger: logger}
}

// SetClock overrides the evaluation clock.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Dashboard builds the dashboard at the current instant.
func (s *Service) Dashboard() Dashboard {
	snap := s.store.Snapshot()
	d := BuildDashboard(snap.Wines, snap.Transactions, s.now().In(s.loc))
	s.logger.Debug("dashboard computed",
		zap.Int("wines", len(snap.Wines)),
		zap.Int("transactions", len(snap.Transactions)))
	return d
}
