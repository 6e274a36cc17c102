package domain

import "time"

// PlatformSettings is the single versioned configuration record holding
// runtime-adjustable values. Updates are conditioned on the version to
// prevent lost writes from concurrent admin changes.
type PlatformSettings struct {
	ID          int
	BonusAmount int64
	Version     int64
	UpdatedAt   time.Time
}
