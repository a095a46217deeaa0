// Package settlement implements the financial core of the committee manager:
// the minimum-interest projection schedule, bid validation, winner
// eligibility, and the computation of every posting a hand settlement
// produces. All functions are pure over explicitly passed data; persistence
// and locking live in the service and storage layers.
package settlement

import "errors"

// Domain errors. These are expected outcomes of user input, not operational
// failures; callers surface them directly and never retry or override them.
var (
	// ErrInvalidInput covers malformed requests: empty winner list,
	// non-positive bid, a roster that does not match the tenure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means a referenced pool, hand or person does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadySettled rejects a second distribution for a settled hand.
	ErrAlreadySettled = errors.New("hand already settled")

	// ErrIneligibleWinner rejects a winner who already won a hand in the
	// pool; each member may win at most once over a pool's lifetime.
	ErrIneligibleWinner = errors.New("member already won a hand in this pool")

	// ErrBidTooHigh rejects a bid that leaves the pool less than the minimum
	// interest required for the hand.
	ErrBidTooHigh = errors.New("bid price does not cover the minimum interest")
)
