package segment

import (
	"github.com/pkg/errors"
)

var (
	ErrSlotOutOfRange  = errors.New("segment slot out of range")
	ErrSegmentTooLarge = errors.New("segment value exceeds capacity")
	ErrDirEmpty        = errors.New("segment directory is empty")
)
