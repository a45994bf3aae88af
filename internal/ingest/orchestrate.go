package ingest

import (
	apperrors "rectcli/internal/errors"
	"rectcli/pkg/contracts/domain"
)

// orchestratorState is the state of the fallback state machine.
type orchestratorState int

const (
	stateAttempting orchestratorState = iota
	stateSucceeded
	stateExhausted
)

// fallbackResult carries the rows of the first successful strategy together
// with the full ordered audit trail of attempts.
type fallbackResult struct {
	rows     [][]string
	strategy string
	attempts []domain.ParseAttempt
}

// orchestrator drives the ordered tokenization strategies. Each strategy
// returns a result value rather than panicking, so the transition logic is
// a plain loop over outcomes with no hidden control flow.
type orchestrator struct {
	chain     []strategy
	delimiter rune
	modalCols int
}

// newOrchestrator builds an orchestrator over the default strategy chain.
// modalCols is the sample diagnostic embedded in the exhaustion error.
func newOrchestrator(delimiter rune, modalCols int) *orchestrator {
	return &orchestrator{
		chain:     strategies,
		delimiter: delimiter,
		modalCols: modalCols,
	}
}

// run executes the state machine: Attempting(k) moves to Succeeded on the
// first strategy that parses, otherwise to Attempting(k+1), and to
// ExhaustedFailed after the last strategy fails. Exhaustion returns an
// ExhaustedError embedding every recorded attempt; a partial or empty table
// is never returned.
func (o *orchestrator) run(text string) (*fallbackResult, error) {
	attempts := make([]domain.ParseAttempt, 0, len(o.chain))

	state := stateAttempting
	index := 0
	var rows [][]string

	for state == stateAttempting {
		s := o.chain[index]
		parsed, err := s.fn(text, o.delimiter)
		if err == nil {
			rows = parsed
			attempts = append(attempts, domain.ParseAttempt{Strategy: s.name, Success: true})
			state = stateSucceeded
			continue
		}

		strategyErr := &apperrors.StrategyError{Strategy: s.name, Cause: err}
		attempts = append(attempts, domain.ParseAttempt{
			Strategy: s.name,
			Success:  false,
			Error:    strategyErr.Error(),
		})

		index++
		if index >= len(o.chain) {
			state = stateExhausted
		}
	}

	if state == stateExhausted {
		return nil, &apperrors.ExhaustedError{
			Delimiter: string(o.delimiter),
			ModalCols: o.modalCols,
			Attempts:  attempts,
		}
	}

	return &fallbackResult{
		rows:     rows,
		strategy: o.chain[index].name,
		attempts: attempts,
	}, nil
}
