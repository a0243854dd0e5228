package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iglikes/pkg/auth"
	"iglikes/pkg/config"
	"iglikes/pkg/logger"
	"iglikes/pkg/ratelimit"
	"iglikes/pkg/ui"
)

func prompter(input string) *ui.Prompter {
	return ui.NewPrompter(strings.NewReader(input), &bytes.Buffer{})
}

func TestResolveCredentials(t *testing.T) {
	manager, _ := auth.NewMockManager()
	require.NoError(t, manager.Store(&auth.Account{Username: "keyed", Password: "from-store"}))

	tests := []struct {
		name      string
		stored    config.Config
		input     string
		assumeYes bool
		wantUser  string
		wantPass  string
		wantSaved bool
	}{
		{
			name:     "reuse stored credentials",
			stored:   config.Config{Username: "alice", Password: "pw"},
			input:    "y\n",
			wantUser: "alice",
			wantPass: "pw",
		},
		{
			name:      "assume yes skips the question",
			stored:    config.Config{Username: "alice", Password: "pw"},
			assumeYes: true,
			wantUser:  "alice",
			wantPass:  "pw",
		},
		{
			name:      "decline and enter new ones",
			stored:    config.Config{Username: "alice", Password: "pw"},
			input:     "n\nbob\nsecret\n",
			wantUser:  "bob",
			wantPass:  "secret",
			wantSaved: true,
		},
		{
			name:      "no stored credentials",
			input:     "carol\nhunter2\n",
			wantUser:  "carol",
			wantPass:  "hunter2",
			wantSaved: true,
		},
		{
			name:     "password from secure store",
			stored:   config.Config{Username: "keyed"},
			input:    "y\n",
			wantUser: "keyed",
			wantPass: "from-store",
		},
		{
			name:     "password prompted when nowhere else",
			stored:   config.Config{Username: "dave"},
			input:    "y\ntyped\n",
			wantUser: "dave",
			wantPass: "typed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			cfg := config.DefaultConfig()
			cfg.Username, cfg.Password = tt.stored.Username, tt.stored.Password

			user, pass, err := resolveCredentials(prompter(tt.input), cfg, path, manager, tt.assumeYes)
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, user)
			assert.Equal(t, tt.wantPass, pass)

			saved := config.DefaultConfig()
			err = saved.LoadFromFile(path)
			if !tt.wantSaved {
				assert.Error(t, err, "config file should not be written")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, saved.Username)
			assert.Equal(t, tt.wantPass, saved.Password)
		})
	}
}

func TestSaveCredentialsKeepsOtherSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := config.DefaultConfig()
	cfg.PDFEnabled = true
	cfg.LogRetentionDays = 30
	require.NoError(t, cfg.Save(path))

	require.NoError(t, saveCredentials(path, "alice", "pw"))

	saved := config.DefaultConfig()
	require.NoError(t, saved.LoadFromFile(path))
	assert.Equal(t, "alice", saved.Username)
	assert.True(t, saved.PDFEnabled)
	assert.Equal(t, 30, saved.LogRetentionDays)
}

func newScrapeTestCommand(opts *scrapeOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	addScrapeFlags(cmd, opts)
	return cmd
}

func TestScrapeFlagsOnlyChanged(t *testing.T) {
	var opts scrapeOptions
	cmd := newScrapeTestCommand(&opts)
	require.NoError(t, cmd.ParseFlags([]string{"--limit", "5", "--pdf", "-o", "out"}))

	assert.Equal(t, map[string]interface{}{
		"limit":  5,
		"pdf":    true,
		"output": "out",
	}, scrapeFlags(cmd, &opts))
}

func TestAskRunOptions(t *testing.T) {
	var opts scrapeOptions
	cmd := newScrapeTestCommand(&opts)
	require.NoError(t, cmd.ParseFlags([]string{"--sleep", "3"}))

	cfg := config.DefaultConfig()
	cfg.SleepInterval = 3
	account := ""

	err := askRunOptions(cmd, prompter("@alice\ny\n25\n"), cfg, &account, false)
	require.NoError(t, err)
	assert.Equal(t, "alice", account)
	assert.True(t, cfg.Overwrite)
	assert.Equal(t, 25, cfg.PostLimit)
	assert.Equal(t, 3, cfg.SleepInterval)
}

func TestAskRunOptionsAssumeYes(t *testing.T) {
	var opts scrapeOptions
	cmd := newScrapeTestCommand(&opts)
	cfg := config.DefaultConfig()
	account := "alice"

	require.NoError(t, askRunOptions(cmd, prompter(""), cfg, &account, true))
	assert.False(t, cfg.Overwrite)
	assert.Equal(t, 10, cfg.SleepInterval)
}

func TestAskRunOptionsInvalidAccount(t *testing.T) {
	var opts scrapeOptions
	cmd := newScrapeTestCommand(&opts)
	account := "not valid!"

	err := askRunOptions(cmd, prompter(""), config.DefaultConfig(), &account, true)
	assert.Error(t, err)
}

func TestRenderConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	out, err := renderConfig(cfg, "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "debug_level: ERROR")

	out, err = renderConfig(cfg, "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"log_retention_days": 7`)

	_, err = renderConfig(cfg, "toml")
	assert.Error(t, err)
}

func TestRequestLimiter(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RequestBurst = 2
	cfg.RequestsPerHour = 3

	l := requestLimiter(cfg)
	chain, ok := l.(ratelimit.Chain)
	require.True(t, ok)
	assert.Len(t, chain, 2)

	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow(), "burst exhausted")
}

func TestKeepExisting(t *testing.T) {
	tests := []struct {
		name      string
		existing  bool
		overwrite bool
		want      bool
	}{
		{name: "existing folder without overwrite stops", existing: true, overwrite: false, want: true},
		{name: "existing folder with overwrite runs", existing: true, overwrite: true, want: false},
		{name: "new account runs", existing: false, overwrite: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.OutputDir = t.TempDir()
			cfg.Overwrite = tt.overwrite
			if tt.existing {
				require.NoError(t, os.MkdirAll(filepath.Join(cfg.OutputDir, "alice", "Posts"), 0755))
			}

			log := logger.NewTestLogger()
			assert.Equal(t, tt.want, keepExisting(cfg, "alice", log))
			assert.Equal(t, tt.want, log.HasMessage("Using existing folder. Files will not be overwritten."))
		})
	}
}
