package pkg

import (
	"strings"
	"testing"
)

func TestVersionEmbedded(t *testing.T) {
	if strings.TrimSpace(Version) == "" {
		t.Fatal("embedded VERSION is empty")
	}
}

func TestName(t *testing.T) {
	if Name == "" || strings.ContainsAny(Name, " \t\n") {
		t.Errorf("Name = %q, want a single token", Name)
	}
}
