package automation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func stateSequence(steps []step) []State {
	states := make([]State, len(steps))
	for i, s := range steps {
		states[i] = s.state
	}
	return states
}

func TestLoginRunner_StepSequence(t *testing.T) {
	cfg := WebConfig{
		URL:                "https://portal.example.com/login",
		CookieSelector:     "#accept-cookies",
		ClientCodeSelector: "#client-code",
		LoginSelector:      "#login",
		PasswordSelector:   "#password",
		OptionalSelector:   "#store-id",
		OptionalValue:      "42",
		SubmitSelector:     "#submit",
		CaptchaSelector:    "#captcha",
	}

	runner := NewLoginRunner(cfg, true, nil)
	steps := runner.steps(Credentials{ClientCode: "C1", Login: "u", Password: "p"})

	assert.Equal(t, []State{
		StateNavigatePage,
		StateHandleCookieBanner,
		StateFillClientCode,
		StateFillLogin,
		StateFillPassword,
		StateFillOptionalField,
		StateSubmit,
		StateAwaitCaptcha,
	}, stateSequence(steps))
}

func TestLoginRunner_OptionalStepsSkipped(t *testing.T) {
	cfg := WebConfig{
		URL:              "https://portal.example.com/login",
		LoginSelector:    "#login",
		PasswordSelector: "#password",
		SubmitSelector:   "#submit",
	}

	runner := NewLoginRunner(cfg, true, nil)
	steps := runner.steps(Credentials{Login: "u", Password: "p"})

	assert.Equal(t, []State{
		StateNavigatePage,
		StateFillLogin,
		StateFillPassword,
		StateSubmit,
	}, stateSequence(steps))
}

func TestLoginRunner_Timeouts(t *testing.T) {
	cfg := WebConfig{
		URL:              "https://portal.example.com/login",
		LoginSelector:    "#login",
		PasswordSelector: "#password",
		SubmitSelector:   "#submit",
		CaptchaSelector:  "#captcha",
	}

	runner := NewLoginRunner(cfg, true, nil)
	steps := runner.steps(Credentials{})

	// Defaults applied when the config leaves timeouts unset.
	assert.Equal(t, 20*time.Second, steps[0].timeout)

	captcha := steps[len(steps)-1]
	assert.Equal(t, StateAwaitCaptcha, captcha.state)
	assert.Equal(t, 3*time.Minute, captcha.timeout)
}
