// -- cmd/engine.go --
package cmd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/formpilot-cli/api/schemas"
	"github.com/xkilldash9x/formpilot-cli/internal/browser"
	"github.com/xkilldash9x/formpilot-cli/internal/classifier"
	"github.com/xkilldash9x/formpilot-cli/internal/executor"
	"github.com/xkilldash9x/formpilot-cli/internal/mapper"
	"github.com/xkilldash9x/formpilot-cli/internal/notify"
	"github.com/xkilldash9x/formpilot-cli/internal/observability"
	"github.com/xkilldash9x/formpilot-cli/internal/orchestrator"
	"github.com/xkilldash9x/formpilot-cli/internal/profile"
	"github.com/xkilldash9x/formpilot-cli/internal/store"
)

// runtimeEngine bundles the engine with the resources it borrows.
type runtimeEngine struct {
	engine  *orchestrator.Engine
	session *browser.Session
	logger  *zap.Logger
}

// newRuntimeEngine assembles the full pipeline, launching a browser.
func newRuntimeEngine(ctx context.Context) (*runtimeEngine, error) {
	logger := observability.GetLogger()

	session, err := browser.NewSession(ctx, browser.Options{
		Headless:           cfg.Browser.Headless,
		ExecPath:           cfg.Browser.ExecPath,
		UserDataDir:        cfg.Browser.UserDataDir,
		Args:               cfg.Browser.Args,
		Headers:            cfg.Browser.Headers,
		NavigationTimeout:  cfg.Browser.NavigationTimeout,
		WaitElementTimeout: cfg.Browser.WaitElementTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	engine, err := assembleEngine(session, logger)
	if err != nil {
		session.Close()
		return nil, err
	}
	return &runtimeEngine{engine: engine, session: session, logger: logger}, nil
}

// newOfflineEngine assembles an engine without a browser for commands that
// only touch the local store (history).
func newOfflineEngine() (*orchestrator.Engine, error) {
	return assembleEngine(nil, observability.GetLogger())
}

func assembleEngine(session *browser.Session, logger *zap.Logger) (*orchestrator.Engine, error) {
	kv, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	cls := classifier.New(nil, classifier.Config{
		EmailWeight:  cfg.Classifier.EmailWeight,
		CommonWeight: cfg.Classifier.CommonWeight,
		JobWeight:    cfg.Classifier.JobWeight,
		Threshold:    cfg.Classifier.Threshold,
	}, logger)

	var b orchestrator.Browser
	var filler orchestrator.Filler
	if session != nil {
		b = session
		filler = executor.New(session, cfg.Timing, logger, nil)
	}

	return orchestrator.New(
		b,
		cls,
		mapper.New(logger),
		filler,
		profile.NewClient(cfg.Profile.BaseURL, cfg.Profile.APIToken, logger),
		kv,
		notify.NewWebhook(cfg.Webhook.URL, logger),
		logger,
		orchestrator.Options{
			DefaultFillOptions: fillOptionsFromConfig(),
			HistoryLimit:       cfg.Fill.HistoryLimit,
			ProfileTTL:         cfg.Profile.CacheTTL,
		},
	), nil
}

func (r *runtimeEngine) Close() {
	if err := r.session.Close(); err != nil {
		r.logger.Debug("browser close failed", zap.Error(err))
	}
}

func fillOptionsFromConfig() schemas.FillOptions {
	return schemas.FillOptions{
		SkipOptional:     cfg.Fill.SkipOptional,
		SkipDemographics: cfg.Fill.SkipDemographics,
		FocusFirst:       cfg.Fill.FocusFirst,
	}
}

func formatTimestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
