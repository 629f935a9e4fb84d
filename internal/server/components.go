package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/condensed-game-notifier/internal/config"
	"github.com/preston-bernstein/condensed-game-notifier/internal/ledger"
	"github.com/preston-bernstein/condensed-game-notifier/internal/locator"
	"github.com/preston-bernstein/condensed-game-notifier/internal/logging"
	"github.com/preston-bernstein/condensed-game-notifier/internal/metrics"
	"github.com/preston-bernstein/condensed-game-notifier/internal/notify"
	"github.com/preston-bernstein/condensed-game-notifier/internal/providers"
	"github.com/preston-bernstein/condensed-game-notifier/internal/providers/fixture"
	"github.com/preston-bernstein/condensed-game-notifier/internal/providers/statsapi"
	"github.com/preston-bernstein/condensed-game-notifier/internal/timeutil"
	"github.com/preston-bernstein/condensed-game-notifier/internal/trigger"
)

// Components is the trigger pipeline shared by the server and the CLI.
type Components struct {
	Controller *trigger.Controller
	Ledger     *ledger.Ledger
	Dispatcher *notify.Dispatcher
	Locator    *locator.Chain
	Resolver   providers.GameResolver
}

// BuildComponents opens the ledger and assembles resolver, locator chain,
// notifiers and controller from configuration.
func BuildComponents(ctx context.Context, cfg config.Config, logger *slog.Logger, rec *metrics.Recorder) (*Components, error) {
	led, err := ledger.Open(ctx, ledger.Config{
		Backend:     cfg.Ledger.Backend,
		Path:        cfg.Ledger.Path,
		RedisURL:    cfg.Ledger.RedisURL,
		RedisKey:    cfg.Ledger.RedisKey,
		DatabaseURL: cfg.Ledger.DatabaseURL,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Providers.HTTPTimeout}
	resolver, strategies := buildUpstream(cfg, httpClient, logger, rec)
	chain := locator.NewChain(logger, rec, strategies...)

	notifiers := buildNotifiers(cfg.Notify, httpClient, cfg.Providers.HTTPTimeout)
	dispatcher := notify.NewDispatcher(logger, rec, notifiers...).WithTimeout(cfg.Providers.HTTPTimeout)
	if len(notifiers) == 0 {
		logging.Warn(logger, "no notifiers configured; runs will report notify_failed")
	}

	loc := cfg.Trigger.Location()
	ctrl := trigger.New(trigger.Config{
		TeamID:       cfg.Team.ID,
		TeamName:     cfg.Team.Name,
		LookbackDays: cfg.Team.LookbackDays,
		Location:     loc,
	}, trigger.Deps{
		Gate: trigger.WindowGate{Window: timeutil.HourWindow{
			Start:    cfg.Trigger.WindowStart,
			End:      cfg.Trigger.WindowEnd,
			Location: loc,
		}},
		Resolver:   resolver,
		Locator:    chain,
		Ledger:     led,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    rec,
	})

	logging.Info(logger, "trigger pipeline ready",
		slog.String("team", cfg.Team.ID),
		slog.String("ledger", led.Backend()),
		slog.Any("strategies", chain.Strategies()),
		slog.Any("notifiers", dispatcher.Names()),
	)

	return &Components{
		Controller: ctrl,
		Ledger:     led,
		Dispatcher: dispatcher,
		Locator:    chain,
		Resolver:   resolver,
	}, nil
}

// Close releases the ledger backend.
func (c *Components) Close() error {
	if c == nil || c.Ledger == nil {
		return nil
	}
	return c.Ledger.Close()
}

// buildUpstream returns the wrapped resolver and the ordered lookup strategies
// for the configured provider. Unknown names fall back to the stats API.
func buildUpstream(cfg config.Config, httpClient *http.Client, logger *slog.Logger, rec *metrics.Recorder) (providers.GameResolver, []providers.VideoStrategy) {
	pc := cfg.Providers
	if strings.EqualFold(strings.TrimSpace(pc.Name), config.ProviderFixture) {
		fx := fixture.New()
		return providers.NewRetryingResolver(fx, logger, rec, fx.Name(), pc.MaxAttempts, 0), []providers.VideoStrategy{fx}
	}

	client := statsapi.NewClient(statsapi.Config{
		BaseURL:    pc.StatsAPIBaseURL,
		HTTPClient: httpClient,
		Timeout:    pc.HTTPTimeout,
	})
	limited := providers.NewRateLimitedResolver(client, pc.MinRequestInterval, logger)
	resolver := providers.NewRetryingResolver(limited, logger, rec, client.Name(), pc.MaxAttempts, 0)

	pages := locator.NewGamedayPages(locator.PageConfig{
		BaseURL:    pc.WebBaseURL,
		HTTPClient: httpClient,
		Timeout:    pc.HTTPTimeout,
	})
	strategies := []providers.VideoStrategy{
		statsapi.NewContentStrategy(client),
		locator.NewRegexStrategy(pages),
		locator.NewAnchorStrategy(pages),
	}
	if gql := locator.NewGraphQLStrategy(locator.GraphQLConfig{
		URL:        pc.GraphQLURL,
		HTTPClient: httpClient,
		Timeout:    pc.HTTPTimeout,
	}); gql != nil {
		strategies = append(strategies, gql)
	}
	return resolver, strategies
}

// buildNotifiers returns every notifier whose credentials are present.
func buildNotifiers(cfg config.NotifyConfig, httpClient *http.Client, timeout time.Duration) []notify.Notifier {
	var out []notify.Notifier
	if tg := notify.NewTelegram(notify.TelegramConfig{
		BaseURL:    cfg.TelegramBaseURL,
		Token:      cfg.TelegramToken,
		ChatID:     cfg.TelegramChatID,
		HTTPClient: httpClient,
	}); tg != nil {
		out = append(out, tg)
	}
	if wh := notify.NewWebhook(notify.WebhookConfig{
		URL:        cfg.WebhookURL,
		HTTPClient: httpClient,
	}); wh != nil {
		out = append(out, wh)
	}
	if em := notify.NewEmail(notify.EmailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
		To:       notify.ParseRecipients(cfg.EmailTo),
		Timeout:  timeout,
	}); em != nil {
		out = append(out, em)
	}
	return out
}
