package version

import "testing"

func TestVersionHasDefaultValue(t *testing.T) {
	if Version == "" {
		t.Fatal("Version should have a default value")
	}
}

func TestVersionCanBeOverridden(t *testing.T) {
	origVersion, origCommit, origMessage := Version, GitCommit, GitMessage
	defer func() { Version, GitCommit, GitMessage = origVersion, origCommit, origMessage }()

	Version = "1.2.3"
	GitCommit = "abc123"
	GitMessage = "fix bound_up witness formatting"

	if Version != "1.2.3" || GitCommit != "abc123" || GitMessage != "fix bound_up witness formatting" {
		t.Fatalf("overrides did not take effect: %+v", []string{Version, GitCommit, GitMessage})
	}
}

func TestOptionalFieldsCanBeEmpty(t *testing.T) {
	origCommit, origMessage, origDate := GitCommit, GitMessage, BuildDate
	defer func() { GitCommit, GitMessage, BuildDate = origCommit, origMessage, origDate }()

	GitCommit, GitMessage, BuildDate = "", "", ""
	if GitCommit != "" || GitMessage != "" || BuildDate != "" {
		t.Fatal("expected optional fields to accept empty values")
	}
}
