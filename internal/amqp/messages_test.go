package amqp

import "testing"

func TestMirrorEventRoundTrip(t *testing.T) {
	event := NewMirrorEvent(EventExpenseUpsert, "exp-1", "uid-1")

	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}

	got, err := MirrorEventFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if got.Kind != EventExpenseUpsert || got.ID != "exp-1" || got.UID != "uid-1" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestMirrorEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := MirrorEventFromJSON([]byte("{not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
