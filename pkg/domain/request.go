package domain

import (
	"encoding/json"
	"fmt"
)

// CreationRequest is the payload for one entity-creation call.
// It is built fresh per cell and consumed once by a Dispatcher.
type CreationRequest struct {
	CandidateID string
	Coordinate
	Route     Route
	Attribute AttributeKind // empty for simple entities
	Value     string
}

// NewCreationRequest builds the request for an intent at the given cell.
// It returns false for NoEntity.
func NewCreationRequest(candidateID string, at Coordinate, intent Intent) (CreationRequest, bool) {
	switch v := intent.(type) {
	case SimpleEntity:
		return CreationRequest{CandidateID: candidateID, Coordinate: at, Route: v.Route}, true
	case AttributedEntity:
		return CreationRequest{
			CandidateID: candidateID,
			Coordinate:  at,
			Route:       v.Route,
			Attribute:   v.Attribute,
			Value:       v.Value,
		}, true
	case NoEntity:
		return CreationRequest{}, false
	default:
		panic(fmt.Sprintf("domain: unhandled intent %T", intent))
	}
}

// Body returns the JSON object sent on the wire.
func (r CreationRequest) Body() map[string]any {
	body := map[string]any{
		"candidateId": r.CandidateID,
		"row":         r.Row,
		"column":      r.Column,
	}
	if r.Attribute != "" {
		body[string(r.Attribute)] = r.Value
	}
	return body
}

// MarshalJSON encodes the request as its wire body.
func (r CreationRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Body())
}

func (r CreationRequest) String() string {
	if r.Attribute == "" {
		return fmt.Sprintf("%s%s", r.Route, r.Coordinate)
	}
	return fmt.Sprintf("%s%s %s=%s", r.Route, r.Coordinate, r.Attribute, r.Value)
}

// Receipt describes a successful delivery.
type Receipt struct {
	Request    CreationRequest
	Attempts   int
	StatusCode int
	Body       json.RawMessage
}
