package alerts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/vinstock/internal/domain/models"
	"github.com/mamadbah2/vinstock/internal/service/state"
	"github.com/mamadbah2/vinstock/internal/validation"
)

var (
	// ErrRuleNotFound is returned when deleting an unknown rule.
	ErrRuleNotFound = errors.New("alert rule not found")
	// ErrInvalidRule wraps every rejected rule input.
	ErrInvalidRule = errors.New("invalid alert rule")
)

// RuleInput is the rule creation form.
type RuleInput struct {
	Name     string           `json:"name" validate:"required"`
	Field    string           `json:"field" validate:"required,rulefield"`
	Operator string           `json:"operator" validate:"required,ruleoperator"`
	Value    models.RuleValue `json:"value"`
	Message  string           `json:"message" validate:"required"`
	Color    string           `json:"color"`
}

// Service manages custom rules and evaluates alerts against the store.
type Service struct {
	store  *state.Store
	newID  func() string
	logger *zap.Logger
}

// NewService wires an alert service.
func NewService(store *state.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		newID:  uuid.NewString,
		logger: logger,
	}
}

// Current evaluates the alert sets on the current inventory.
func (s *Service) Current() Result {
	snap := s.store.Snapshot()
	return Evaluate(snap.Wines, snap.Rules)
}

// Rules lists the custom rules in creation order.
func (s *Service) Rules() []models.AlertRule {
	return s.store.Rules()
}

// CreateRule validates and stores a new rule.
func (s *Service) CreateRule(ctx context.Context, in RuleInput) (models.AlertRule, error) {
	if err := validation.Check(in); err != nil {
		return models.AlertRule{}, fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}
	if in.Value.Empty() {
		return models.AlertRule{}, fmt.Errorf("%w: %w", ErrInvalidRule, validation.Single("value", "required", "value is required"))
	}

	rule := models.AlertRule{
		ID:       s.newID(),
		Name:     in.Name,
		Field:    models.RuleField(in.Field),
		Operator: models.RuleOperator(in.Operator),
		Value:    in.Value,
		Message:  in.Message,
		Color:    in.Color,
	}
	if rule.Color == "" {
		rule.Color = models.DefaultRuleColor
	}

	err := s.store.Mutate(ctx, func(d *state.Draft) error {
		d.Rules = append(d.Rules, rule)
		d.Mark(state.CollectionRules)
		return nil
	})
	if err != nil {
		return models.AlertRule{}, fmt.Errorf("create rule: %w", err)
	}

	s.logger.Info("alert rule created",
		zap.String("rule_id", rule.ID),
		zap.String("field", string(rule.Field)),
		zap.String("operator", string(rule.Operator)))
	return rule, nil
}

// DeleteRule removes a rule by id.
func (s *Service) DeleteRule(ctx context.Context, id string) error {
	err := s.store.Mutate(ctx, func(d *state.Draft) error {
		for i, rule := range d.Rules {
			if rule.ID == id {
				d.Rules = append(d.Rules[:i], d.Rules[i+1:]...)
				d.Mark(state.CollectionRules)
				return nil
			}
		}
		return ErrRuleNotFound
	})
	if err != nil {
		return fmt.Errorf("delete rule %s: %w", id, err)
	}

	s.logger.Info("alert rule deleted", zap.String("rule_id", id))
	return nil
}
