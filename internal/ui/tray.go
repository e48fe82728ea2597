package ui

import (
	"log/slog"
	"sync"

	"github.com/getlantern/systray"

	"github.com/reelforge/reelforge-agent/internal/playback"
)

const maxCaptionTitle = 48

// Player is the transport surface the tray drives.
type Player interface {
	Toggle() (playback.State, error)
	Stop() playback.State
	Subscribe(fn func(playback.State)) (unsubscribe func())
}

type Tray struct {
	player Player
	logger *slog.Logger

	statusItem  *systray.MenuItem
	captionItem *systray.MenuItem
	toggleItem  *systray.MenuItem

	mu          sync.Mutex
	updates     chan playback.State
	unsubscribe func()

	onQuit func()
}

type TrayConfig struct {
	Player Player
	Logger *slog.Logger
	OnQuit func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		player:  cfg.Player,
		logger:  cfg.Logger,
		onQuit:  cfg.OnQuit,
		updates: make(chan playback.State, 8),
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Reelforge")
	systray.SetTooltip("Reelforge Agent")

	labels := menuLabels(playback.State{Mode: playback.ModeIdle})

	t.statusItem = systray.AddMenuItem(labels.status, "Current playback status")
	t.statusItem.Disable()

	t.captionItem = systray.AddMenuItem(labels.caption, "Caption on screen")
	t.captionItem.Disable()

	systray.AddSeparator()

	t.toggleItem = systray.AddMenuItem(labels.toggle, "Play or pause the narration")
	stopItem := systray.AddMenuItem("Stop", "Stop and rewind the narration")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Reelforge Agent")

	// observers run under the controller lock, so the menu is updated
	// from this goroutine instead
	t.mu.Lock()
	t.unsubscribe = t.player.Subscribe(func(st playback.State) {
		select {
		case t.updates <- st:
		default:
		}
	})
	t.mu.Unlock()

	go func() {
		for {
			select {
			case st := <-t.updates:
				t.apply(st)
			case <-t.toggleItem.ClickedCh:
				if _, err := t.player.Toggle(); err != nil {
					t.logger.Warn("toggle from tray failed", "error", err)
				}
			case <-stopItem.ClickedCh:
				t.player.Stop()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
	t.logger.Info("system tray exiting")
}

func (t *Tray) apply(st playback.State) {
	labels := menuLabels(st)
	t.statusItem.SetTitle(labels.status)
	t.captionItem.SetTitle(labels.caption)
	t.toggleItem.SetTitle(labels.toggle)
}

func (t *Tray) Quit() {
	systray.Quit()
}

type trayLabels struct {
	status  string
	caption string
	toggle  string
}

func menuLabels(st playback.State) trayLabels {
	l := trayLabels{status: "Status: Stopped", caption: "No caption", toggle: "Play"}

	switch {
	case st.LastError != "":
		l.status = "Status: " + st.LastError
	case st.IsPlaying:
		l.status = "Status: Playing"
		l.toggle = "Pause"
	case st.ClockState == "paused":
		l.status = "Status: Paused"
	case st.Mode == playback.ModeIdle:
		l.status = "Status: Add media to start"
	}

	if st.ActiveCaption != "" {
		l.caption = truncate(st.ActiveCaption, maxCaptionTitle)
	}
	return l
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
