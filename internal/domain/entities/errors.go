package entities

import "errors"

// Domain errors
var (
	// Comment errors
	ErrPlaceholderRef  = errors.New("comment reference is not a server id")
	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyComment    = errors.New("comment text is empty")

	// Asset errors
	ErrNoAsset          = errors.New("no asset selected")
	ErrUnsupportedAsset = errors.New("unsupported file type")
	ErrUnknownMediaType = errors.New("unknown media type")

	// Playback errors
	ErrPlayerNotReady = errors.New("player not ready")
)
