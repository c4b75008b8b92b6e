package repo

import (
	"os"
	"strings"
	"testing"
)

func TestConfigRoundTrip(t *testing.T) {
	r := initRepo(t)

	in := &Config{
		Author: "Grace Hopper",
		Peers:  map[string]string{"origin": "/srv/repos/gnew"},
	}
	if err := r.WriteConfig(in); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	out, err := r.ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if out.Author != in.Author {
		t.Errorf("author = %q, want %q", out.Author, in.Author)
	}
	if out.Peers["origin"] != "/srv/repos/gnew" {
		t.Errorf("peers = %v", out.Peers)
	}
}

func TestConfigMissingFile(t *testing.T) {
	r := initRepo(t)
	cfg, err := r.ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.Author != "" || len(cfg.Peers) != 0 {
		t.Errorf("fresh config = %+v, want empty", cfg)
	}
}

func TestAuthorResolutionOrder(t *testing.T) {
	r := initRepo(t)

	t.Setenv("USER", "envuser")
	if got := r.Author(); got != "envuser" {
		t.Errorf("author = %q, want envuser", got)
	}

	if err := r.WriteConfig(&Config{Author: "configured"}); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if got := r.Author(); got != "configured" {
		t.Errorf("author = %q, want configured (config wins)", got)
	}
}

func TestAuthorDefaultsToUnknown(t *testing.T) {
	r := initRepo(t)
	t.Setenv("USER", "")
	if got := r.Author(); got != "unknown" {
		t.Errorf("author = %q, want unknown", got)
	}
}

func TestResolvePeer(t *testing.T) {
	r := initRepo(t)
	if err := r.WriteConfig(&Config{Peers: map[string]string{"origin": "/elsewhere"}}); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	if got := r.ResolvePeer("origin"); got != "/elsewhere" {
		t.Errorf("ResolvePeer(origin) = %q", got)
	}
	if got := r.ResolvePeer("/some/path"); got != "/some/path" {
		t.Errorf("ResolvePeer(path) = %q", got)
	}
}

func TestWriteConfigIsAtomic(t *testing.T) {
	r := initRepo(t)
	if err := r.WriteConfig(&Config{Author: "a"}); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	// No temp files left behind in .gnew/.
	entries, err := os.ReadDir(r.GnewDir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".config-tmp-") {
			t.Errorf("leftover temp file %q", e.Name())
		}
	}
}
