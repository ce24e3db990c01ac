package automation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

// State names one step of the supplier portal login sequence
type State string

const (
	StateNavigatePage       State = "navigate_page"
	StateHandleCookieBanner State = "handle_cookie_banner"
	StateFillClientCode     State = "fill_client_code"
	StateFillLogin          State = "fill_login"
	StateFillPassword       State = "fill_password"
	StateFillOptionalField  State = "fill_optional_field"
	StateSubmit             State = "submit"
	StateAwaitCaptcha       State = "await_captcha"
)

// WebConfig holds the per-supplier portal selectors, stored in the
// supplier record's web_config blob. Empty selectors disable their
// state.
type WebConfig struct {
	URL                string        `json:"url" validate:"required,url"`
	CookieSelector     string        `json:"cookie_selector"`
	ClientCodeSelector string        `json:"client_code_selector"`
	LoginSelector      string        `json:"login_selector" validate:"required"`
	PasswordSelector   string        `json:"password_selector" validate:"required"`
	OptionalSelector   string        `json:"optional_selector"`
	OptionalValue      string        `json:"optional_value"`
	SubmitSelector     string        `json:"submit_selector" validate:"required"`
	CaptchaSelector    string        `json:"captcha_selector"`
	StepTimeout        time.Duration `json:"step_timeout"`
	CaptchaTimeout     time.Duration `json:"captcha_timeout"`
}

// Credentials are the login inputs for one supplier portal
type Credentials struct {
	ClientCode string
	Login      string
	Password   string
}

// step couples one state with its chromedp action. Optional steps are
// skipped when their selector is not configured.
type step struct {
	state   State
	action  chromedp.Action
	timeout time.Duration
}

// LoginRunner drives a supplier portal login through a real browser.
// Each state performs exactly one page interaction under its own
// timeout, so a hung portal fails on the state that stalled rather
// than on an opaque whole-run deadline.
type LoginRunner struct {
	cfg      WebConfig
	logger   *slog.Logger
	headless bool
}

// NewLoginRunner creates a runner for one supplier portal
func NewLoginRunner(cfg WebConfig, headless bool, logger *slog.Logger) *LoginRunner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = 20 * time.Second
	}
	if cfg.CaptchaTimeout <= 0 {
		// captcha resolution involves a human, give them time
		cfg.CaptchaTimeout = 3 * time.Minute
	}
	return &LoginRunner{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "automation")),
		headless: headless,
	}
}

// Run executes the login sequence in a fresh browser context. The
// browser stays open on success so the caller can continue driving the
// authenticated session; cancel the returned context to close it.
func (r *LoginRunner) Run(ctx context.Context, creds Credentials) (context.Context, context.CancelFunc, error) {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts, chromedp.Flag("headless", r.headless))

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	if err := r.login(browserCtx, creds); err != nil {
		cancel()
		return nil, nil, err
	}
	return browserCtx, cancel, nil
}

func (r *LoginRunner) login(ctx context.Context, creds Credentials) error {
	for _, s := range r.steps(creds) {
		r.logger.Info("login state",
			slog.String("state", string(s.state)),
			slog.String("url", r.cfg.URL))

		stepCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := chromedp.Run(stepCtx, s.action)
		cancel()
		if err != nil {
			return fmt.Errorf("login state %s: %w", s.state, err)
		}
	}

	r.logger.Info("login sequence complete", slog.String("url", r.cfg.URL))
	return nil
}

// steps assembles the state sequence from the configured selectors.
// Credentials are bound into the fill actions at call time.
func (r *LoginRunner) steps(creds Credentials) []step {
	cfg := r.cfg

	steps := []step{
		{StateNavigatePage, chromedp.Navigate(cfg.URL), cfg.StepTimeout},
	}

	if cfg.CookieSelector != "" {
		// the banner shows up only on the first visit; a missing
		// banner is not a failure
		steps = append(steps, step{StateHandleCookieBanner, dismissIfVisible(cfg.CookieSelector), cfg.StepTimeout})
	}
	if cfg.ClientCodeSelector != "" {
		steps = append(steps, step{StateFillClientCode, fillField(cfg.ClientCodeSelector, creds.ClientCode), cfg.StepTimeout})
	}

	steps = append(steps,
		step{StateFillLogin, fillField(cfg.LoginSelector, creds.Login), cfg.StepTimeout},
		step{StateFillPassword, fillField(cfg.PasswordSelector, creds.Password), cfg.StepTimeout},
	)

	if cfg.OptionalSelector != "" {
		steps = append(steps, step{StateFillOptionalField, fillField(cfg.OptionalSelector, cfg.OptionalValue), cfg.StepTimeout})
	}

	steps = append(steps, step{StateSubmit, chromedp.Click(cfg.SubmitSelector, chromedp.ByQuery), cfg.StepTimeout})

	if cfg.CaptchaSelector != "" {
		steps = append(steps, step{StateAwaitCaptcha,
			chromedp.WaitNotPresent(cfg.CaptchaSelector, chromedp.ByQuery), cfg.CaptchaTimeout})
	}

	return steps
}

func fillField(selector, value string) chromedp.Action {
	return chromedp.Tasks{
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SetValue(selector, value, chromedp.ByQuery),
	}
}

// dismissIfVisible clicks the selector when it shows up quickly and
// silently moves on when it does not.
func dismissIfVisible(selector string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
			return nil
		}
		return chromedp.Run(ctx, chromedp.Click(selector, chromedp.ByQuery))
	})
}
