package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Collection errors
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrVideoNotFound    = fmt.Errorf("video not found")
	ErrDuplicateVideo   = fmt.Errorf("video already in playlist")
	ErrNothingToUndo    = fmt.Errorf("nothing to undo")
	ErrNothingToRedo    = fmt.Errorf("nothing to redo")

	// Persistence and import errors
	ErrMalformedPersistedState = fmt.Errorf("malformed persisted state")
	ErrMalformedImportToken    = fmt.Errorf("cannot interpret link data")
	ErrUnsupportedTokenFormat  = fmt.Errorf("unsupported share token format")
	ErrEmptyImport             = fmt.Errorf("share token contains no playlists")
	ErrNoSharePayload          = fmt.Errorf("no share payload found")
	ErrFileImport              = fmt.Errorf("file is not a valid collection export")

	// API and service errors
	ErrMetadataLookup     = fmt.Errorf("metadata lookup failed")
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
