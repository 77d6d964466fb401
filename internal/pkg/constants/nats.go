package constants

// NATS Subjects
const (
	// SubjectTripRequested carries every trip entering REQUESTED state.
	// Every connected driver subscribes to it directly; there is no
	// geographic filtering on the fan-out.
	SubjectTripRequested = "trip.requested"

	// SubjectTripUpdated is the per-passenger update subject. Format:
	// trip.updated.{passenger_id}
	SubjectTripUpdated = "trip.updated.%s"
)
