package genex

import "testing"

func TestBuildSimulation(t *testing.T) {
	sim, err := BuildSimulation(validTestConfig(), nil)
	if err != nil {
		t.Fatalf("Expected build to succeed, got %v", err)
	}

	tracker := sim.Tracker()
	if got := tracker.Species("ecolipol"); got != 2 {
		t.Errorf("Expected 2 free polymerases, got %d", got)
	}
	if got := tracker.Species("ribosome"); got != 100 {
		t.Errorf("Expected 100 free ribosomes, got %d", got)
	}
	// The promoter sits ahead of the mask, so it starts exposed.
	if got := tracker.Species("p1"); got != 1 {
		t.Errorf("Expected 1 exposed promoter, got %d", got)
	}
	if sim.AlphaSum() <= 0 {
		t.Errorf("Expected positive initial propensity, got %g", sim.AlphaSum())
	}
}

func TestBuildSimulationRejectsInvalidConfig(t *testing.T) {
	cfg := validTestConfig()
	cfg.StopTime = 0

	if _, err := BuildSimulation(cfg, nil); err == nil {
		t.Error("Expected invalid config to be rejected")
	}
	if _, ok := ValidateConfig(cfg).(*ValidationError); !ok {
		t.Error("Expected a ValidationError")
	}
}

func TestBuildSimulationFromParsedYAML(t *testing.T) {
	cfg, err := ParseConfig([]byte(testConfigYAML))
	if err != nil {
		t.Fatalf("Expected parse to succeed, got %v", err)
	}

	sim, err := BuildSimulation(cfg, nil)
	if err != nil {
		t.Fatalf("Expected build to succeed, got %v", err)
	}
	if got := sim.Tracker().Species("substrate"); got != 100 {
		t.Errorf("Expected 100 substrate, got %d", got)
	}
}
