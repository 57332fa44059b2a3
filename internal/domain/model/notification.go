package model

import "time"

// NotificationKind tells the dispatcher which sink call to make.
type NotificationKind string

// Notification kinds.
const (
	KindEvent         NotificationKind = "event"
	KindProfileUpsert NotificationKind = "profile_upsert"
)

// Marketing event names.
const (
	EventRecommendationGenerated = "Recommendation Generated"
	EventDealViewed              = "Deal Viewed"
	EventDealClicked             = "Deal Clicked"
	EventBagUpdated              = "Bag Updated"
	EventGapDetected             = "Gap Detected"
)

// Notification is a fire-and-forget message for the marketing sink.
type Notification struct {
	ID         string           // unique id, used for logging and sink idempotency
	Kind       NotificationKind // event or profile upsert
	Name       string           // event name; empty for profile upserts
	UserID     string
	Email      string
	Properties map[string]any
	Value      *float64 // monetary value attached to the event, if any
	Time       time.Time

	// Then is delivered after this notification, in order, by the same
	// dispatcher. A failed step does not stop the ones after it.
	Then []Notification
}

// Steps flattens n and its follow-ups into delivery order.
func (n Notification) Steps() []Notification {
	head := n
	head.Then = nil
	steps := []Notification{head}
	for _, next := range n.Then {
		steps = append(steps, next.Steps()...)
	}
	return steps
}

// Label returns a short metric label for the notification.
func (n Notification) Label() string {
	if n.Kind == KindProfileUpsert {
		return "Profile Upsert"
	}
	return n.Name
}
