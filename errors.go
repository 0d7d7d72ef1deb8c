package ewahgo

import "errors"

var (
	// ErrTruncated is returned when a compact stream ends before the
	// header or the announced word count is complete.
	ErrTruncated = errors.New("ewahgo: truncated compact stream")

	// ErrCorrupt is returned when a compact stream decodes into a buffer
	// that does not partition into well-formed marker blocks, or whose
	// active marker position is not the last block.
	ErrCorrupt = errors.New("ewahgo: malformed bitmap buffer")

	// ErrTooLarge is returned when a bitmap exceeds the 32-bit header
	// fields of the compact format.
	ErrTooLarge = errors.New("ewahgo: bitmap exceeds compact format limits")

	// ErrPositionOverflow is returned when converting a bitmap holding
	// positions beyond the 32-bit range into a roaring bitmap.
	ErrPositionOverflow = errors.New("ewahgo: position exceeds 32-bit range")
)
