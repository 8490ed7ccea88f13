package rdb

import "errors"

var (
	// ErrNoBaseline is returned by history queries when no contributing
	// rows exist yet for a (device, channel) pair.
	ErrNoBaseline = errors.New("rdb: no baseline history")
)
