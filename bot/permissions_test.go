package bot

import "testing"

func TestEvaluatePermissions(t *testing.T) {
	trusted := map[string]bool{"trustymod": true, "owner": true}
	tests := []struct {
		name         string
		ev           Event
		wantElevated bool
		wantOwner    bool
	}{
		{"plain viewer", Event{User: "viewer"}, false, false},
		{"mod badge", Event{User: "somemod", Mod: true}, true, false},
		{"trusted without badge", Event{User: "trustymod"}, true, false},
		{"owner", Event{User: "owner"}, true, true},
		{"subscriber is not elevated", Event{User: "sub", Subscriber: true}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := EvaluatePermissions(tt.ev, trusted, "owner")
			if p.Elevated != tt.wantElevated || p.Owner != tt.wantOwner {
				t.Errorf("EvaluatePermissions(%+v) = %+v, want elevated=%v owner=%v", tt.ev, p, tt.wantElevated, tt.wantOwner)
			}
		})
	}
}

func TestIsSubscriberFoldsFounder(t *testing.T) {
	if !(Event{Founder: true}).IsSubscriber() {
		t.Errorf("founder not treated as subscriber")
	}
	if !(Event{Subscriber: true}).IsSubscriber() {
		t.Errorf("subscriber flag ignored")
	}
	if (Event{}).IsSubscriber() {
		t.Errorf("plain viewer treated as subscriber")
	}
}
