package table

import "errors"

// Error taxonomy for table and registry operations. All failures are
// reported to the immediate caller; nothing at this layer panics.
var (
	// ErrInvalidName indicates a table name that is not a simple identifier.
	ErrInvalidName = errors.New("invalid table name")

	// ErrNameConflict indicates the name is already registered.
	ErrNameConflict = errors.New("table name already registered")

	// ErrTableNotFound indicates a stale handle or an unregistered name.
	ErrTableNotFound = errors.New("table not found")

	// ErrPrivacyViolation indicates an access the table's privacy level forbids.
	ErrPrivacyViolation = errors.New("privacy violation")

	// ErrNotFound indicates a lookup miss on an existing table.
	ErrNotFound = errors.New("key not found")
)
