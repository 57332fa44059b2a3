package klaviyo

import "time"

type document[T any] struct {
	Data T `json:"data"`
}

type profileData struct {
	Type       string            `json:"type"`
	Attributes profileAttributes `json:"attributes"`
}

type profileAttributes struct {
	Email      string         `json:"email,omitempty"`
	ExternalID string         `json:"external_id,omitempty"`
	FirstName  string         `json:"first_name,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

type metricData struct {
	Type       string           `json:"type"`
	Attributes metricAttributes `json:"attributes"`
}

type metricAttributes struct {
	Name string `json:"name"`
}

type eventData struct {
	Type       string          `json:"type"`
	Attributes eventAttributes `json:"attributes"`
}

type eventAttributes struct {
	Metric     document[metricData]  `json:"metric"`
	Profile    document[profileData] `json:"profile"`
	Properties map[string]any        `json:"properties"`
	Time       string                `json:"time"`
	Value      *float64              `json:"value,omitempty"`
	UniqueID   string                `json:"unique_id,omitempty"`
}

// Profile is a profile upsert request.
type Profile struct {
	UserID     string
	Email      string
	FirstName  string
	Properties map[string]any
}

// Event is a custom metric event.
type Event struct {
	Name       string
	UserID     string
	Email      string
	Properties map[string]any
	Value      *float64
	Time       time.Time
	UniqueID   string
}

func profilePayload(p Profile) document[profileData] {
	props := make(map[string]any, len(p.Properties)+1)
	for k, v := range p.Properties {
		props[k] = v
	}
	props["birdiedeals_user_id"] = p.UserID

	return document[profileData]{Data: profileData{
		Type: "profile",
		Attributes: profileAttributes{
			Email:      p.Email,
			ExternalID: p.UserID,
			FirstName:  p.FirstName,
			Properties: props,
		},
	}}
}

func eventPayload(e Event) document[eventData] {
	props := e.Properties
	if props == nil {
		props = map[string]any{}
	}
	ts := e.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	return document[eventData]{Data: eventData{
		Type: "event",
		Attributes: eventAttributes{
			Metric: document[metricData]{Data: metricData{
				Type:       "metric",
				Attributes: metricAttributes{Name: e.Name},
			}},
			Profile: document[profileData]{Data: profileData{
				Type:       "profile",
				Attributes: profileAttributes{Email: e.Email, ExternalID: e.UserID},
			}},
			Properties: props,
			Time:       ts.UTC().Format(time.RFC3339Nano),
			Value:      e.Value,
			UniqueID:   e.UniqueID,
		},
	}}
}
