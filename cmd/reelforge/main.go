package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/reelforge/reelforge-agent/internal/api"
	"github.com/reelforge/reelforge-agent/internal/captions"
	"github.com/reelforge/reelforge-agent/internal/config"
	"github.com/reelforge/reelforge-agent/internal/db"
	"github.com/reelforge/reelforge-agent/internal/logging"
	"github.com/reelforge/reelforge-agent/internal/media"
	"github.com/reelforge/reelforge-agent/internal/playback"
	"github.com/reelforge/reelforge-agent/internal/style"
	"github.com/reelforge/reelforge-agent/internal/tts"
	"github.com/reelforge/reelforge-agent/internal/ui"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	if err := config.LoadEnvFile(".env"); err != nil {
		return err
	}
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting reelforge agent", "version", config.Version, "data_dir", logging.SanitizePath(cfg.DataDir()))

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	store := db.NewConfigStore(database.Conn())

	instanceID, err := ensureSecret(store, "instance_id", 16)
	if err != nil {
		return fmt.Errorf("failed to ensure instance ID: %w", err)
	}

	authToken, err := ensureSecret(store, api.AuthTokenKey, 32)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Printf("║                  REELFORGE AGENT v%-24s║\n", config.Version)
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:    http://127.0.0.1:%-27d ║\n", cfg.Port())
	fmt.Printf("║  Auth Token: %-45s ║\n", authToken)
	fmt.Printf("║  Audio Mode: %-45s ║\n", cfg.AudioMode())
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	synth, synthName := newSynthesizer(cfg, logger)

	styles, err := style.LoadCatalog(cfg.StylePresetsPath())
	if err != nil {
		return fmt.Errorf("failed to load style presets: %w", err)
	}

	resources := playback.VirtualResources
	if cfg.AudioMode() == config.AudioRemote {
		resources = playback.RemoteResources
	}

	alloc := captions.DefaultAllocatorConfig()
	alloc.Strategy = cfg.TimingStrategy()

	controller := playback.NewController(synth, playback.Options{
		Builder:          captions.NewBuilder(captions.SegmentOptions{SentenceAware: cfg.SentenceAware()}, alloc),
		MediaItemSeconds: cfg.MediaItemSeconds(),
		FrameInterval:    cfg.FrameInterval(),
		NewResource:      resources,
		Logger:           logging.WithComponent(logger, "playback"),
	})

	mediaSvc := media.NewService(
		media.NewRepository(database.Conn()),
		cfg.MediaItemSeconds(),
		logging.WithComponent(logger, "media"),
	)
	mediaSvc.OnChange(controller.SetMedia)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	items, err := mediaSvc.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load media: %w", err)
	}
	controller.SetMedia(items)
	logger.Info("media loaded", "count", len(items))

	go controller.Run(ctx)

	apiServer := api.NewServer(api.ServerConfig{
		Port:             cfg.Port(),
		Version:          config.Version,
		Controller:       controller,
		MediaService:     mediaSvc,
		Styles:           styles,
		AudioServer:      playback.NewAudioServer(logger),
		Tokens:           store,
		ExportDir:        cfg.ExportDir(),
		MediaItemSeconds: cfg.MediaItemSeconds(),
		Synthesizer:      synthName,
		AudioMode:        string(cfg.AudioMode()),
		Logger:           logger,
		StartTime:        startTime,
		InstanceID:       instanceID,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})
	var quitOnce sync.Once
	quit := func() { quitOnce.Do(func() { close(quitCh) }) }

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			quit()
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Player: controller,
			Logger: logging.WithComponent(logger, "tray"),
			OnQuit: quit,
		})
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}

func newSynthesizer(cfg config.Config, logger *slog.Logger) (tts.Synthesizer, string) {
	svc := tts.NewService(tts.Config{
		APIKey:  cfg.TTSAPIKey(),
		BaseURL: cfg.TTSBaseURL(),
		Model:   cfg.TTSModel(),
		Timeout: cfg.TTSTimeout(),
	})
	if svc == nil {
		logger.Warn("no speech provider key configured, narration will be silent", "env", config.EnvTTSAPIKey)
		return tts.NewStubSynthesizer(), "stub"
	}
	logger.Info("speech provider configured",
		"base_url", cfg.TTSBaseURL(),
		"api_key", logging.SanitizeToken(cfg.TTSAPIKey()),
	)
	return svc, "elevenlabs"
}

// ensureSecret returns the stored value for key, generating n random bytes
// of hex on first run.
func ensureSecret(store *db.ConfigStore, key string, n int) (string, error) {
	ctx := context.Background()

	existing, err := store.GetConfig(ctx, key)
	if err == nil && existing != "" {
		return existing, nil
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	value := hex.EncodeToString(b)

	if err := store.SetConfig(ctx, key, value); err != nil {
		return "", err
	}
	return value, nil
}
