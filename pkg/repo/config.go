package repo

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config stores repository-local settings: an author override and named
// peer repositories for sync commands.
type Config struct {
	Author string            `toml:"author,omitempty"`
	Peers  map[string]string `toml:"peers,omitempty"`
}

func (r *Repo) configPath() string {
	return filepath.Join(r.GnewDir, "config.toml")
}

// ReadConfig reads .gnew/config.toml. A missing file yields an empty
// config.
func (r *Repo) ReadConfig() (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(r.configPath(), &cfg); err != nil {
		if os.IsNotExist(err) {
			return &Config{Peers: make(map[string]string)}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if cfg.Peers == nil {
		cfg.Peers = make(map[string]string)
	}
	return &cfg, nil
}

// WriteConfig atomically writes .gnew/config.toml.
func (r *Repo) WriteConfig(cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}

	tmp, err := os.CreateTemp(r.GnewDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, r.configPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}

// Author resolves the commit author display name: the config override
// first, then $USER, then "unknown".
func (r *Repo) Author() string {
	if cfg, err := r.ReadConfig(); err == nil && strings.TrimSpace(cfg.Author) != "" {
		return strings.TrimSpace(cfg.Author)
	}
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "unknown"
}

// ResolvePeer maps a peer name from config to its path. An argument that
// is not a configured name is returned unchanged and treated as a path.
func (r *Repo) ResolvePeer(nameOrPath string) string {
	cfg, err := r.ReadConfig()
	if err != nil {
		return nameOrPath
	}
	if p, ok := cfg.Peers[nameOrPath]; ok {
		return p
	}
	return nameOrPath
}
