package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecisionStateText(t *testing.T) {
	for _, s := range []DecisionState{StateDestinationReachable, StateNearestStationReachable, StateSpeedReductionRequired} {
		got, err := ParseDecisionState(s.String())
		if err != nil || got != s {
			t.Fatalf("parse %s: got %v err %v", s, got, err)
		}
	}
	if _, err := ParseDecisionState("teleport"); err == nil {
		t.Fatal("expected error for unknown state")
	}
}

func TestRouteDecisionJSON(t *testing.T) {
	speed := 42.0
	d := RouteDecision{State: StateSpeedReductionRequired, RecommendedSpeedKmh: &speed}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"state":"speed_reduction_required"`) {
		t.Fatalf("state not encoded as text: %s", b)
	}
	var back RouteDecision
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.State != StateSpeedReductionRequired || !back.HasRecommendation() || *back.RecommendedSpeedKmh != 42 {
		t.Fatalf("unexpected decision %+v", back)
	}

	b, _ = json.Marshal(RouteDecision{State: StateDestinationReachable})
	if strings.Contains(string(b), "recommended_speed_kmh") {
		t.Fatalf("recommendation should be omitted: %s", b)
	}
}
