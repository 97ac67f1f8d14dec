package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestBuildLogger_RejectsBadLevel(t *testing.T) {
	if _, err := BuildLogger("loud", "dev"); err == nil {
		t.Error("BuildLogger accepted an unknown level")
	}
}

func TestBuildLogger_HonorsLevel(t *testing.T) {
	for _, env := range []string{"dev", "prod"} {
		logger, err := BuildLogger("WARN", env)
		if err != nil {
			t.Fatalf("BuildLogger(%s): %v", env, err)
		}
		if logger.Core().Enabled(zap.InfoLevel) || !logger.Core().Enabled(zap.WarnLevel) {
			t.Errorf("%s: level not applied", env)
		}
	}
}
