package registry

import "errors"

// ErrorKind identifies an expected, recoverable failure of a registry
// operation. Kinds are errors themselves so they can be wrapped with context
// and matched with errors.Is.
type ErrorKind uint8

const (
	DuplicateCreator ErrorKind = iota + 1
	Unconfirmed
	CreatorNotFound
	InvalidURL
	ContentNotFound
	InsufficientFunds
	// InvalidAmount is a ledger precondition: negative transfers and
	// non-positive credits.
	InvalidAmount
)

// Sentinel aliases for errors.Is call sites.
var (
	ErrDuplicateCreator  error = DuplicateCreator
	ErrUnconfirmed       error = Unconfirmed
	ErrCreatorNotFound   error = CreatorNotFound
	ErrInvalidURL        error = InvalidURL
	ErrContentNotFound   error = ContentNotFound
	ErrInsufficientFunds error = InsufficientFunds
	ErrInvalidAmount     error = InvalidAmount
)

var kindNames = map[ErrorKind]string{
	DuplicateCreator:  "DuplicateCreator",
	Unconfirmed:       "Unconfirmed",
	CreatorNotFound:   "CreatorNotFound",
	InvalidURL:        "InvalidUrl",
	ContentNotFound:   "ContentNotFound",
	InsufficientFunds: "InsufficientFunds",
	InvalidAmount:     "InvalidAmount",
}

var kindMessages = map[ErrorKind]string{
	DuplicateCreator:  "creator already registered",
	Unconfirmed:       "operation not confirmed",
	CreatorNotFound:   "creator not found",
	InvalidURL:        "file url too short",
	ContentNotFound:   "content not found",
	InsufficientFunds: "insufficient funds",
	InvalidAmount:     "invalid amount",
}

// String returns the stable identifier of the kind, e.g. "CreatorNotFound".
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

func (k ErrorKind) Error() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return "unknown registry error"
}

// KindOf returns the ErrorKind wrapped in err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var kind ErrorKind
	if errors.As(err, &kind) {
		return kind, true
	}
	return 0, false
}
