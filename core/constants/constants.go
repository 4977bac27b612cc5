package constants

// Echo context keys
const (
	ContextTokenData = "token_data"
)

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Redis key prefixes
const (
	RedisKeyCalendarSyncLock = "calendar:sync:lock:"
	RedisKeyWorkloadSnapshot = "scheduling:workload:"
)

// CalendarSyncLockTTLSeconds bounds how long a stuck reconciliation can
// keep other runs for the same enabler locked out.
const CalendarSyncLockTTLSeconds = 60

// Scheduling defaults
const (
	// DefaultBookingDurationMinutes is used when the source booking has no
	// explicit end time.
	DefaultBookingDurationMinutes = 240

	// TimelineShiftBufferMinutes is added on top of the exact overlap when
	// suggesting how far to push a timeline item.
	TimelineShiftBufferMinutes = 15

	// InsightTTLDays is how long a generated insight stays actionable.
	InsightTTLDays = 7
)
