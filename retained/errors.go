package retained

import "github.com/pkg/errors"

// Configuration errors. These indicate a caller mistake and abort the
// operation that detected them; they are always wrapped with the offending
// value, so match them with errors.Is.
var (
	ErrInvalidAxis      = errors.New("invalid axis")
	ErrInvalidPolicy    = errors.New("invalid size policy")
	ErrInvalidSizeRange = errors.New("invalid size range")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrSpanOutOfBounds  = errors.New("span exceeds grid bounds")
	ErrCellOccupied     = errors.New("grid cell already occupied")
	ErrInvalidGrid      = errors.New("invalid grid dimensions")
	ErrItemNotFound     = errors.New("item not in layout")
	ErrDuplicateItem    = errors.New("item already in layout")
	ErrGridFull         = errors.New("no free grid cell")
)

// ErrInvalidDirection is raised when the negotiation state machine meets a
// direction or state it does not know. It signals a corrupted pass, not a
// cramped layout.
var ErrInvalidDirection = errors.New("invalid negotiation direction")
