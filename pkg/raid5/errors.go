package raid5

import "errors"

// Common errors returned by volume operations.
var (
	ErrInvalidDeviceCount = errors.New("raid5: device count out of range")
	ErrInvalidSectorCount = errors.New("raid5: sector count out of range")
	ErrDeviceSizeMismatch = errors.New("raid5: devices report different sector counts")
	ErrOutOfRange         = errors.New("raid5: sector number out of range")
	ErrNotStarted         = errors.New("raid5: volume is not started")
	ErrVolumeFailed       = errors.New("raid5: volume is in FAILED state")
	ErrCannotResync       = errors.New("raid5: resync only valid from DEGRADED state")
	ErrCreateFailed       = errors.New("raid5: more than one device rejected the initial metadata write")
)
