package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mj1618/eva/internal/classify"
	"github.com/mj1618/eva/internal/config"
	"github.com/mj1618/eva/internal/oracle"
	"github.com/mj1618/eva/internal/pipeline"
	"github.com/mj1618/eva/internal/platform"
	"github.com/mj1618/eva/internal/policy"
	"github.com/mj1618/eva/internal/router"
	"github.com/mj1618/eva/internal/store"
	"github.com/mj1618/eva/internal/vision"
)

// app bundles everything a command needs to execute voice commands.
type app struct {
	provider *platform.Provider
	recorder *platform.Recorder // set in dry-run mode
	archive  *vision.Archive
	locator  *vision.Locator // nil when vision is disabled
	journal  *store.Journal  // nil when the journal could not be opened
	pipeline *pipeline.Pipeline
}

// Close releases the journal.
func (a *app) Close() error {
	if a.journal == nil {
		return nil
	}
	return a.journal.Close()
}

// newApp builds the pipeline from cfg. Only a missing desktop backend is
// fatal; the oracle, vision and journal degrade with a warning. dryRun
// forces the recording provider on top of the --dry-run flag.
func newApp(dryRun bool) (*app, error) {
	if flag, _ := rootCmd.PersistentFlags().GetBool("dry-run"); flag {
		dryRun = true
	}
	provider, recorder, err := newProvider(dryRun)
	if err != nil {
		return nil, err
	}

	a := &app{
		provider: provider,
		recorder: recorder,
		archive:  vision.NewArchive(cfg.Vision.ArchiveDir, cfg.Vision.Keep, logger),
	}
	a.locator = buildLocator(cfg, provider, a.archive, logger)

	classifier, err := buildClassifier(cfg, logger)
	if err != nil {
		return nil, err
	}
	engine, err := policy.FromRules(cfg.Policy)
	if err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}

	opts := router.Options{
		Archive:     a.archive,
		TypeDelayMs: cfg.TypeDelayMs,
		Logger:      logger,
	}
	if a.locator != nil {
		opts.Locator = a.locator
	}
	r := router.ForFamily(classifier.Family(), provider, opts)

	popts := pipeline.Options{
		Policy:              engine,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		Logger:              logger,
	}
	if j, err := store.Open(cfg.Journal); err != nil {
		logger.Warn("command journal disabled", "path", cfg.Journal, "err", err)
	} else {
		a.journal = j
		popts.Journal = j
	}
	a.pipeline = pipeline.New(classifier, r, popts)
	return a, nil
}

// newProvider returns the desktop backend, or a recording fake when dryRun
// is set.
func newProvider(dryRun bool) (*platform.Provider, *platform.Recorder, error) {
	if dryRun {
		rec := platform.NewRecorder(logger)
		return rec.Provider(), rec, nil
	}
	p, err := platform.NewProvider()
	if err != nil {
		return nil, nil, err
	}
	return p, nil, nil
}

// desktop returns the provider the primitive commands act on, honouring
// --dry-run.
func desktop() (*platform.Provider, error) {
	dryRun, _ := rootCmd.PersistentFlags().GetBool("dry-run")
	p, _, err := newProvider(dryRun)
	return p, err
}

// buildOracle creates the completer described by o, dialing through a SOCKS5
// proxy when one is configured.
func buildOracle(o config.OracleConfig) (oracle.Completer, error) {
	var client *http.Client
	if o.Proxy != "" {
		c, err := oracle.NewSocksClient(o.Proxy, o.Timeout)
		if err != nil {
			return nil, fmt.Errorf("proxy %s: %w", o.Proxy, err)
		}
		client = c
	}
	return oracle.New(oracle.Options{
		Backend:    o.Backend,
		Model:      o.Model,
		BaseURL:    o.BaseURL,
		APIKey:     o.APIKey,
		HTTPClient: client,
		Timeout:    o.Timeout,
	})
}

// buildClassifier returns the classifier named by c.Classifier. A semantic
// classifier whose oracle cannot be built still works: every call fails and
// the keyword fallback answers.
func buildClassifier(c config.Config, logger *slog.Logger) (classify.Classifier, error) {
	family, err := classify.ParseFamily(c.Classifier)
	if err != nil {
		return nil, err
	}
	if family == classify.FamilyPattern {
		return classify.NewPatternClassifier(nil, logger), nil
	}
	completer, err := buildOracle(c.Oracle)
	if err != nil {
		logger.Warn("classifier oracle unavailable, using keyword fallback", "backend", c.Oracle.Backend, "err", err)
		completer = unavailable(err)
	}
	return classify.NewSemanticClassifier(completer, logger), nil
}

func unavailable(err error) oracle.Completer {
	return oracle.CompleterFunc(func(context.Context, oracle.Request) (string, error) {
		return "", err
	})
}

// buildLocator wires capture, detection and resolution for vision-guided
// clicks. It returns nil when vision is disabled or its oracle is
// unavailable, which makes every such click a blind click.
func buildLocator(c config.Config, p *platform.Provider, archive *vision.Archive, logger *slog.Logger) *vision.Locator {
	if !c.Vision.Enabled || p.Screenshotter == nil {
		return nil
	}
	completer, err := buildOracle(c.VisionOracle())
	if err != nil {
		logger.Warn("vision oracle unavailable, clicks will be blind", "err", err)
		return nil
	}
	mode, err := vision.ParseMode(c.Vision.Mode)
	if err != nil {
		logger.Warn("invalid vision mode, using select", "err", err)
		mode = vision.ModeSelect
	}
	return &vision.Locator{
		Screen: p.Screenshotter,
		Detector: vision.NewDetector(completer, vision.DetectorOptions{
			MaxElements: c.Vision.MaxElements,
			MaxWidth:    c.Vision.MaxWidth,
			Logger:      logger,
		}),
		Resolver: vision.NewResolver(completer, mode, logger),
		Archive:  archive,
		Logger:   logger,
	}
}

// Parameter extraction helpers for MCP argument maps

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		// Handle numeric values that JSON may decode as float64
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func intParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}
