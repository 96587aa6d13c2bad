package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerAddr != ":3000" {
		t.Errorf("ServerAddr = %q, want %q", cfg.ServerAddr, ":3000")
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, want 587", cfg.SMTPPort)
	}
	if !cfg.IsDev() {
		t.Error("default env should be development")
	}
	if cfg.IsEmailEnabled() {
		t.Error("email should be disabled without SMTP config")
	}
	if cfg.IsStorageEnabled() {
		t.Error("storage should be disabled without S3 config")
	}
}

func TestIsBootstrapAdmin(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", "root@stively.com, editor@stively.com")
	cfg := Load()

	if !cfg.IsBootstrapAdmin("root@stively.com") {
		t.Error("root@stively.com should be a bootstrap admin")
	}
	if !cfg.IsBootstrapAdmin("Editor@Stively.com") {
		t.Error("bootstrap admin check should be case-insensitive")
	}
	if cfg.IsBootstrapAdmin("reader@stively.com") {
		t.Error("reader@stively.com should not be a bootstrap admin")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList("a@x.com, b@y.com,, c@z.com ")
	want := []string{"a@x.com", "b@y.com", "c@z.com"}

	if len(got) != len(want) {
		t.Fatalf("splitList() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitList()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
