package compare

import (
	"context"
	"fmt"

	"github.com/csg33k/paycalc/internal/batch"
	"github.com/csg33k/paycalc/internal/contract"
	"github.com/csg33k/paycalc/internal/domain"
	"github.com/csg33k/paycalc/internal/paycheck"
)

// Service runs the engines over many inputs and feeds the results to
// Compare and FindOptimal.
type Service struct {
	contracts *contract.Engine
	paychecks *paycheck.Engine
	limit     int
}

// NewService returns a service that scores at most limit inputs at once
// (GOMAXPROCS when limit <= 0).
func NewService(contracts *contract.Engine, paychecks *paycheck.Engine, limit int) *Service {
	return &Service{contracts: contracts, paychecks: paychecks, limit: limit}
}

// ScoreContracts calculates every contract in parallel. A failing input is
// reported in its outcome and does not affect the others.
func (s *Service) ScoreContracts(ctx context.Context, inputs []domain.ContractInput) *batch.Report[Offer] {
	return batch.Run(ctx, inputs, s.limit, func(_ context.Context, in domain.ContractInput) (Offer, error) {
		res, err := s.contracts.Calculate(in)
		if err != nil {
			return Offer{}, err
		}
		return FromContract(in, res), nil
	})
}

// ScorePaychecks is ScoreContracts for paychecks.
func (s *Service) ScorePaychecks(ctx context.Context, inputs []domain.PaycheckInput) *batch.Report[Offer] {
	return batch.Run(ctx, inputs, s.limit, func(_ context.Context, in domain.PaycheckInput) (Offer, error) {
		res, err := s.paychecks.Calculate(in)
		if err != nil {
			return Offer{}, err
		}
		return FromPaycheck(in, res), nil
	})
}

// CompareContracts fails on the first invalid input; use ScoreContracts
// for a per-item report instead.
func (s *Service) CompareContracts(ctx context.Context, inputs []domain.ContractInput) (*Result, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("compare contracts: %w", domain.ErrEmptyInputSet)
	}
	r := s.ScoreContracts(ctx, inputs)
	if err := r.FirstError(); err != nil {
		return nil, fmt.Errorf("compare contracts: %w", err)
	}
	return Compare(r.Values())
}

func (s *Service) ComparePaychecks(ctx context.Context, inputs []domain.PaycheckInput) (*Result, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("compare paychecks: %w", domain.ErrEmptyInputSet)
	}
	r := s.ScorePaychecks(ctx, inputs)
	if err := r.FirstError(); err != nil {
		return nil, fmt.Errorf("compare paychecks: %w", err)
	}
	return Compare(r.Values())
}

// OptimalContract calculates inputs and applies FindOptimal.
func (s *Service) OptimalContract(ctx context.Context, inputs []domain.ContractInput, c Constraints) (*Optimal, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("optimal contract: %w", domain.ErrEmptyInputSet)
	}
	r := s.ScoreContracts(ctx, inputs)
	if err := r.FirstError(); err != nil {
		return nil, fmt.Errorf("optimal contract: %w", err)
	}
	return FindOptimal(r.Values(), c)
}
