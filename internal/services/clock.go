package services

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies timestamps; tests replace it to get deterministic ids.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

func newID() string {
	return uuid.NewString()
}
