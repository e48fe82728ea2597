package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/reelforge/reelforge-agent/internal/api"
	"github.com/reelforge/reelforge-agent/internal/client"
	"github.com/reelforge/reelforge-agent/internal/config"
	"github.com/reelforge/reelforge-agent/internal/db"
	"github.com/reelforge/reelforge-agent/internal/logging"
	"github.com/reelforge/reelforge-agent/internal/tui"
)

// EnvAuthToken overrides the token read from the agent database.
const EnvAuthToken = "REEL_AUTH_TOKEN"

func main() {
	if err := run(); err != nil {
		log.Fatalf("reelctl: %v", err)
	}
}

func run() error {
	if err := config.LoadEnvFile(".env"); err != nil {
		return err
	}
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	agentURL := flag.String("agent", fmt.Sprintf("http://127.0.0.1:%d", cfg.Port()), "agent base URL")
	token := flag.String("token", os.Getenv(EnvAuthToken), "agent auth token (default: read from the agent database)")
	scriptPath := flag.String("script", "", "narration script to generate with 'g'")
	voice := flag.String("voice", "", "speech provider voice id")
	speed := flag.Float64("speed", 1.0, "narration speed")
	flag.Parse()

	if *token == "" {
		t, err := readToken(cfg)
		if err != nil {
			return fmt.Errorf("no auth token given and none readable from %s: %w", cfg.DBPath(), err)
		}
		*token = t
	}

	script := api.NarrationRequest{VoiceID: *voice, Speed: *speed}
	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}
		script.Text = strings.TrimSpace(string(data))
	}

	agent := client.New(strings.TrimRight(*agentURL, "/"), *token, logging.Discard())
	if _, err := agent.Health(context.Background()); err != nil {
		return fmt.Errorf("agent not reachable at %s: %w", agent.BaseURL(), err)
	}

	p := tea.NewProgram(tui.NewModel(agent, script), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func readToken(cfg config.Config) (string, error) {
	if _, err := os.Stat(cfg.DBPath()); err != nil {
		return "", err
	}
	database, err := db.New(cfg.DBPath(), nil)
	if err != nil {
		return "", err
	}
	defer database.Close()

	token, err := db.NewConfigStore(database.Conn()).GetConfig(context.Background(), api.AuthTokenKey)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", fmt.Errorf("agent has not been started yet")
	}
	return token, nil
}
