package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/soraka/internal/tui"
)

// storePollInterval is how often the token file is checked for logins and
// logouts made by another soraka process.
const storePollInterval = time.Second

func (c *cli) runTUI(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := tui.NewApp(tui.Deps{
		Client:  c.client,
		Session: c.session,
		History: c.history,
		Timeout: c.cfg.API.Timeout,
		Logger:  c.log,
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	go app.Pump(ctx, p.Send)
	go c.store.Watch(ctx, storePollInterval, func() {
		if c.session.Sync() {
			c.log.Info("session changed by another process")
		}
	})

	c.log.Info("tui started", "api_url", c.cfg.API.URL)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
