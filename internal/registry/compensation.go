package registry

import "fmt"

// PaymentNote is attached to transfers made by CompensateWithNote.
const PaymentNote = "payment for consumed content"

// CompensationService pays creators for consumed content through the token
// ledger. The ledger is authoritative for balances.
type CompensationService struct {
	ledger Ledger
	logger Logger
}

// NewCompensationService creates a CompensationService using ledger.
func NewCompensationService(ledger Ledger, logger Logger) *CompensationService {
	return &CompensationService{ledger: ledger, logger: logger}
}

// Compensate transfers amount from consumer to creator after checking that
// the consumer can cover it. A zero amount always passes the check and is
// handed to the ledger; negative amounts never reach it.
func (s *CompensationService) Compensate(consumer, creator string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("compensating %s: %w", creator, ErrInvalidAmount)
	}

	balance, err := s.ledger.BalanceOf(consumer)
	if err != nil {
		return fmt.Errorf("reading balance of %s: %w", consumer, err)
	}
	if balance < amount {
		return fmt.Errorf("compensating %s with %d (balance %d): %w", creator, amount, balance, ErrInsufficientFunds)
	}

	if err := s.ledger.Transfer(consumer, creator, amount); err != nil {
		return fmt.Errorf("transferring %d from %s to %s: %w", amount, consumer, creator, err)
	}

	s.logger.Info("creator compensated", "consumer", consumer, "creator", creator, "amount", amount)
	return nil
}

// CompensateWithNote behaves like Compensate and then, if the ledger supports
// it, records PaymentNote against the transfer. A failure to record the note
// is logged and does not fail the payment.
func (s *CompensationService) CompensateWithNote(consumer, creator string, amount int64) error {
	if err := s.Compensate(consumer, creator, amount); err != nil {
		return err
	}

	recorder, ok := s.ledger.(TransactionRecorder)
	if !ok {
		return nil
	}
	if err := recorder.RecordTransaction(consumer, creator, amount, PaymentNote); err != nil {
		s.logger.Warn("recording payment note failed", "consumer", consumer, "creator", creator, "error", err)
	}
	return nil
}
