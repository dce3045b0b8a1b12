package version

import "testing"

func TestUserAgent(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "1.2.0"
	if got := UserAgent("server"); got != "edsapi-server/1.2.0" {
		t.Errorf("UserAgent() = %q", got)
	}
}

func TestString(t *testing.T) {
	if got := String(); got != "dev (unknown, unknown)" {
		t.Errorf("String() = %q", got)
	}
}
