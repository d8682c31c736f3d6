package server

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// StartScheduler runs the daily credential revalidation in the
// background: a cheap probe against each gateway so a revoked key is
// noticed before the next user-initiated analysis. The probe doubles as
// a category-taxonomy fetch, keeping that call path exercised.
func (app *Application) StartScheduler(ctx context.Context) (*cron.Cron, error) {
	// Prevent overlapping runs
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(app.Config.RevalidateSchedule, func() {
		app.revalidateKeys(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add revalidation job: %w", err)
	}

	app.Logger.Printf("Credential revalidation scheduled: %s", app.Config.RevalidateSchedule)
	c.Start()

	go func() {
		<-ctx.Done()
		c.Stop()
	}()

	return c, nil
}

func (app *Application) revalidateKeys(ctx context.Context) {
	start := time.Now()

	youtubeOK, geminiOK := false, false
	if gateway, err := app.videoGateway(ctx); err == nil {
		youtubeOK = gateway.ValidateKey(ctx)
	}
	if adv, err := app.reportAdvisor(ctx); err == nil {
		geminiOK = adv.ValidateKey(ctx)
	}

	summary := fmt.Sprintf("youtube=%t gemini=%t", youtubeOK, geminiOK)
	if youtubeOK && geminiOK {
		app.Monitor.RecordSuccess("key revalidation", summary, time.Since(start))
		return
	}
	app.Monitor.RecordFailure("key revalidation", fmt.Errorf("credential probe: %s", summary), time.Since(start))
}
