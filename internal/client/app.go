// Package client wires the interactive application together: login flows,
// task selection and the trainer run, all rendered through the display
// engine.
package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qgxf-trainer/internal/api"
	"qgxf-trainer/internal/captcha"
	"qgxf-trainer/internal/config"
	"qgxf-trainer/internal/display"
	"qgxf-trainer/internal/logger"
	"qgxf-trainer/internal/prompt"
	"qgxf-trainer/internal/trainer"
)

var bannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("14")).
	Padding(0, 1)

const (
	defaultMaxJobs   = 5
	maxJobsCeiling   = 20
	defaultPassScore = 60
)

// App is the interactive session.
type App struct {
	api    *api.Client
	cfg    *config.Store
	eng    *display.Engine
	prompt *prompt.Prompter
	log    *logger.Logger
}

// New builds the App from its already-constructed collaborators.
func New(apiClient *api.Client, cfg *config.Store, eng *display.Engine, p *prompt.Prompter, log *logger.Logger) *App {
	return &App{api: apiClient, cfg: cfg, eng: eng, prompt: p, log: log}
}

// Run drives one full interactive session. A top-level failure is rendered
// in red and acknowledged before the error is returned, so the terminal is
// not torn down mid-read.
func (a *App) Run(ctx context.Context) error {
	a.eng.AddLine(display.Text(bannerStyle.Render("QGXF Trainer"), display.StyleDefault))

	if err := a.run(ctx); err != nil {
		a.reportFailure(err)
		return err
	}
	return nil
}

func (a *App) run(ctx context.Context) error {
	ok, err := a.autoLogin(ctx)
	if err != nil {
		return err
	}
	if !ok {
		if err := a.manualLogin(ctx); err != nil {
			return err
		}
	}

	watch, exams, err := a.chooseTasks()
	if err != nil {
		return err
	}

	maxJobs := defaultMaxJobs
	if watch {
		maxJobs, err = a.prompt.Int("Max concurrent playback jobs", defaultMaxJobs, 1, maxJobsCeiling)
		if err != nil {
			return err
		}
	}
	passScore := defaultPassScore
	if exams {
		passScore, err = a.prompt.Int("Exam pass score", defaultPassScore, 0, 100)
		if err != nil {
			return err
		}
	}

	tr := trainer.New(a.api, a.cfg, a.eng, a.log, trainer.Options{
		MaxJobs:        maxJobs,
		ReportInterval: trainer.DefaultReportInterval,
		PassScore:      passScore,
	})
	if watch {
		if err := tr.WatchAll(ctx); err != nil {
			return err
		}
	}
	if exams {
		if err := tr.DoLessonExamAll(ctx); err != nil {
			return err
		}
	}

	a.eng.AddLine(display.Text("All selected tasks are done.", display.StyleGreen))
	return a.prompt.WaitEnter("Press Enter to exit")
}

// autoLogin tries to resume the session stored in the config. It reports
// (false, nil) when the user must log in manually; a stale or declined
// session is cleared from the config on the way out.
func (a *App) autoLogin(ctx context.Context) (bool, error) {
	conn := a.cfg.Connection()
	if conn.BaseURL == "" || conn.Token == "" {
		return false, nil
	}

	if err := a.api.SetBaseURL(conn.BaseURL); err != nil {
		a.eng.AddLinef(display.StyleRed, "Stored platform address is unusable: %v", err)
		a.clearStoredSession()
		return false, nil
	}

	info, err := a.api.GetUserInfo(ctx, conn.Token)
	switch {
	case err == nil:
	case api.IsUnauthorized(err) || api.IsInvalidRequest(err):
		a.eng.AddLinef(display.StyleRed, "Stored session is no longer valid: %v", err)
		a.clearStoredSession()
		return false, nil
	default:
		return false, err
	}

	reuse, err := a.prompt.YesNo(fmt.Sprintf("Continue as `%s`", info.UserName), true)
	if err != nil {
		return false, err
	}
	if !reuse {
		a.clearStoredSession()
		return false, nil
	}
	return true, nil
}

// manualLogin walks platform selection and the captcha login loop.
func (a *App) manualLogin(ctx context.Context) error {
	if err := a.choosePlatform(); err != nil {
		return err
	}
	return a.loginLoop(ctx)
}

// loginLoop prompts for credentials and a captcha until login succeeds.
// Rejected credentials re-prompt; anything else aborts.
func (a *App) loginLoop(ctx context.Context) error {
	for {
		account, err := a.prompt.Line("Account")
		if err != nil {
			return err
		}
		password, err := a.prompt.Secret("Password")
		if err != nil {
			return err
		}
		captchaID, captchaCode, err := a.solveCaptcha(ctx)
		if err != nil {
			return err
		}

		result, err := a.api.Login(ctx, account, password, captchaID, captchaCode)
		if err != nil {
			if api.IsPermissionDenied(err) || api.IsInvalidRequest(err) {
				a.eng.AddLinef(display.StyleRed, "Login failed: %v", err)
				continue
			}
			return err
		}

		a.eng.AddLinef(display.StyleGreen, "Logged in as `%s`", result.UserName)
		return a.rememberSession()
	}
}

func (a *App) choosePlatform() error {
	for _, p := range api.Platforms() {
		a.eng.AddLinef(display.StyleCyan, "  %s  %s", p.Code, p.BaseURL)
	}
	for {
		code, err := a.prompt.Line("Platform code")
		if err != nil {
			return err
		}
		platform, ok := api.PlatformByCode(code)
		if !ok {
			a.eng.AddLinef(display.StyleRed, "Unknown platform `%s`", code)
			continue
		}
		return a.api.SetBaseURL(platform.BaseURL)
	}
}

// solveCaptcha fetches a challenge, writes a readable preview image to the
// temp directory and asks for the code. A preview that cannot be rendered is
// reported but does not abort the login.
func (a *App) solveCaptcha(ctx context.Context) (id, code string, err error) {
	challenge, err := a.api.GetCaptcha(ctx)
	if err != nil {
		return "", "", err
	}

	if img, decErr := captcha.Decode(challenge.Base64Str); decErr != nil {
		a.eng.AddLinef(display.StyleRed, "Could not decode captcha image: %v", decErr)
	} else if path, saveErr := captcha.SavePreview(captcha.SaturationMap(img)); saveErr != nil {
		a.eng.AddLinef(display.StyleRed, "Could not save captcha preview: %v", saveErr)
	} else {
		a.eng.AddLinef(display.StyleCyan, "Captcha preview saved to %s", path)
	}

	code, err = a.prompt.Line("Captcha code")
	if err != nil {
		return "", "", err
	}
	return challenge.CaptchaID, code, nil
}

func (a *App) rememberSession() error {
	remember, err := a.prompt.YesNo("Remember this session", true)
	if err != nil {
		return err
	}
	if remember {
		a.cfg.SetConnection(config.Connection{BaseURL: a.api.BaseURL(), Token: a.api.Token()})
	} else {
		a.cfg.SetConnection(config.Connection{})
	}
	if err := a.cfg.Save(); err != nil {
		a.log.Warn().Err(err).Msg("persist connection")
	}
	return nil
}

func (a *App) clearStoredSession() {
	a.cfg.SetConnection(config.Connection{})
	if err := a.cfg.Save(); err != nil {
		a.log.Warn().Err(err).Msg("persist connection")
	}
}

// reportFailure renders a fatal error in red and waits for acknowledgement
// so the message survives on screen.
func (a *App) reportFailure(err error) {
	if kind, ok := api.KindOf(err); ok {
		a.eng.AddLinef(display.StyleRed, "The platform request failed (%s).", kind)
	} else {
		a.eng.AddLine(display.Text("The run failed.", display.StyleRed))
	}
	a.eng.AddLinef(display.StyleRed, "  %v", err)

	if waitErr := a.prompt.WaitEnter("Press Enter to exit"); waitErr != nil {
		a.log.Debug().Err(waitErr).Msg("failure acknowledgement skipped")
	}
}

// chooseTasks repeats until at least one task is selected. Replies are
// comma- or space-separated option numbers.
func (a *App) chooseTasks() (watch, exams bool, err error) {
	a.eng.AddLine(display.Text("Available tasks:", display.StyleMagenta))
	a.eng.AddLine(display.Text("  1  watch lesson videos", display.StyleCyan))
	a.eng.AddLine(display.Text("  2  take lesson exams", display.StyleCyan))

	for {
		reply, err := a.prompt.Line("Tasks to run (e.g. 1 or 1,2)")
		if err != nil {
			return false, false, err
		}

		watch, exams = false, false
		for _, field := range strings.FieldsFunc(reply, func(r rune) bool { return r == ',' || r == ' ' }) {
			switch field {
			case "1":
				watch = true
			case "2":
				exams = true
			}
		}
		if watch || exams {
			return watch, exams, nil
		}
		a.eng.AddLine(display.Text("Pick at least one task.", display.StyleRed))
	}
}
