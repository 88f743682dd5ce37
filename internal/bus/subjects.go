package bus

const (
	SubjectEventAny           = "curator.event.>"
	SubjectPreferencesUpdated = "curator.preferences.updated"
	SubjectRecommendations    = "curator.recommendation.refreshed"

	StreamName   = "CURATOR_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectEventCreated(eventID string) string  { return "curator.event." + eventID + ".created" }
func SubjectEventUpdated(eventID string) string  { return "curator.event." + eventID + ".updated" }
func SubjectEventDeleted(eventID string) string  { return "curator.event." + eventID + ".deleted" }
func SubjectEventAttended(eventID string) string { return "curator.event." + eventID + ".attended" }
