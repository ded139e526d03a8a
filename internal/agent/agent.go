package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/lockin/internal/analytics"
	"github.com/Veraticus/lockin/internal/blocking"
)

// Config holds agent settings.
type Config struct {
	APIURL          string
	StatePath       string
	SyncInterval    time.Duration
	EnforceInterval time.Duration
}

// Agent wires the state, server client, bus and blocking engine together.
type Agent struct {
	State  *State
	Client *APIClient
	Bus    *Bus
	Engine *blocking.Engine
	Syncer *Syncer
	logger *slog.Logger
}

// logNavigator records redirects; the page side performs them from the decision.
type logNavigator struct {
	logger *slog.Logger
}

func (n logNavigator) Redirect(_ context.Context, tabID int, target string) error {
	n.logger.Info("Redirecting tab", "tab_id", tabID, "target", target)
	return nil
}

// New opens the state file, seeds defaults on first run and builds the agent.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Agent, error) {
	if logger == nil {
		logger = slog.Default()
	}

	kv, err := NewFileKV(cfg.StatePath)
	if err != nil {
		return nil, err
	}
	state, err := NewState(ctx, kv)
	if err != nil {
		return nil, err
	}
	installed, err := state.Install(ctx)
	if err != nil {
		return nil, err
	}
	if installed {
		logger.Info("LockIn agent installed", "state", cfg.StatePath)
	}

	client := NewAPIClient(cfg.APIURL, nil)
	engine := blocking.NewEngine(state, logNavigator{logger: logger}, state, logger)
	engine.SetEnforceInterval(cfg.EnforceInterval)

	return &Agent{
		State:  state,
		Client: client,
		Bus:    NewBus(state, client, logger),
		Engine: engine,
		Syncer: NewSyncer(client, state, cfg.SyncInterval, logger),
		logger: logger,
	}, nil
}

// Navigate evaluates a navigation and, when it is blocked and a session is
// stored, reports it to the server. Reporting failures never change the decision.
func (a *Agent) Navigate(ctx context.Context, nav blocking.Navigation) (blocking.Decision, error) {
	decision, err := a.Engine.HandleNavigation(ctx, nav)
	if err != nil || !decision.Blocked {
		return decision, err
	}

	if session := a.State.SessionToken(); session != "" {
		reportErr := a.Client.LogActivity(ctx, session, analytics.ActivityInput{
			Domain:     decision.Domain,
			BlockedURL: decision.URL,
			WasBlocked: true,
		})
		if reportErr != nil {
			a.logger.Warn("Failed to report blocked navigation", "domain", decision.Domain, "error", reportErr)
		}
	}
	return decision, nil
}
