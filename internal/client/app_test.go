package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qgxf-trainer/internal/api"
	"qgxf-trainer/internal/config"
	"qgxf-trainer/internal/display"
	"qgxf-trainer/internal/logger"
	"qgxf-trainer/internal/prompt"
)

func envelope(w http.ResponseWriter, code int, data string) {
	fmt.Fprintf(w, `{"code":%d,"data":%s,"msg":""}`, code, data)
}

// newTestApp builds an App against a test server, a throwaway config and a
// scripted input stream.
func newTestApp(t *testing.T, serverURL, input string) (*App, *config.Store) {
	t.Helper()

	cfg, err := config.Load(filepath.Join(t.TempDir(), config.DefaultFileName), logger.Nop())
	require.NoError(t, err)

	apiClient, err := api.New(api.Options{BaseURL: serverURL, MaxRetries: 1}, logger.Nop())
	require.NoError(t, err)

	eng := display.New(io.Discard, logger.Nop())
	t.Cleanup(eng.Close)

	return New(apiClient, cfg, eng, prompt.New(strings.NewReader(input), eng), logger.Nop()), cfg
}

func TestAutoLoginResumesStoredSession(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("Token")
		envelope(w, 99999, `{"userName":"alice"}`)
	}))
	defer srv.Close()

	app, cfg := newTestApp(t, "", "\n")
	cfg.SetConnection(config.Connection{BaseURL: srv.URL, Token: "stored-token"})

	ok, err := app.autoLogin(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "stored-token", gotToken)
}

func TestAutoLoginDeclinedClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		envelope(w, 99999, `{"userName":"alice"}`)
	}))
	defer srv.Close()

	app, cfg := newTestApp(t, "", "n\n")
	cfg.SetConnection(config.Connection{BaseURL: srv.URL, Token: "stored-token"})

	ok, err := app.autoLogin(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, cfg.Connection().Token, "declined session must be forgotten")
}

func TestAutoLoginStaleTokenClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		envelope(w, 10003, "null")
	}))
	defer srv.Close()

	app, cfg := newTestApp(t, "", "")
	cfg.SetConnection(config.Connection{BaseURL: srv.URL, Token: "expired"})

	ok, err := app.autoLogin(context.Background())
	require.NoError(t, err, "a stale token falls through to manual login")
	assert.False(t, ok)
	assert.Empty(t, cfg.Connection().Token)
}

func TestAutoLoginWithoutStoredSession(t *testing.T) {
	app, _ := newTestApp(t, "", "")
	ok, err := app.autoLogin(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSolveCaptchaWritesPreview(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		envelope(w, 99999, fmt.Sprintf(`{"captchaId":"cap-1","base64Str":%q}`, uri))
	}))
	defer srv.Close()

	app, _ := newTestApp(t, srv.URL, "abcd\n")
	id, code, err := app.solveCaptcha(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cap-1", id)
	assert.Equal(t, "abcd", code)
}

func TestLoginLoopRepromptsOnRejectedCredentials(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	logins := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/getCaptcha") {
			envelope(w, 99999, fmt.Sprintf(`{"captchaId":"cap","base64Str":%q}`, uri))
			return
		}
		logins++
		if logins == 1 {
			envelope(w, 10002, "null")
			return
		}
		envelope(w, 99999, `{"token":"tok-2","userName":"alice"}`)
	}))
	defer srv.Close()

	// Wrong credentials once, then a successful login, remembered.
	input := "alice\nwrong\n0000\nalice\nhunter2\n1234\n\n"
	app, cfg := newTestApp(t, srv.URL, input)

	require.NoError(t, app.loginLoop(context.Background()))
	assert.Equal(t, 2, logins)
	assert.Equal(t, "tok-2", app.api.Token())
	assert.Equal(t, "tok-2", cfg.Connection().Token)
}

func TestRememberSessionPersists(t *testing.T) {
	app, cfg := newTestApp(t, "https://gfjy.ustb.edu.cn", "\n")
	app.api.SetToken("fresh-token")

	require.NoError(t, app.rememberSession())
	conn := cfg.Connection()
	assert.Equal(t, "https://gfjy.ustb.edu.cn", conn.BaseURL)
	assert.Equal(t, "fresh-token", conn.Token)
}

func TestRememberSessionDeclined(t *testing.T) {
	app, cfg := newTestApp(t, "https://gfjy.ustb.edu.cn", "n\n")
	app.api.SetToken("fresh-token")

	require.NoError(t, app.rememberSession())
	assert.Empty(t, cfg.Connection().Token)
	assert.Empty(t, cfg.Connection().BaseURL)
}

func TestChooseTasksRetriesUntilValid(t *testing.T) {
	app, _ := newTestApp(t, "", "3\n\n1, 2\n")
	watch, exams, err := app.chooseTasks()
	require.NoError(t, err)
	assert.True(t, watch)
	assert.True(t, exams)
}

func TestChooseTasksSingleOption(t *testing.T) {
	app, _ := newTestApp(t, "", "2\n")
	watch, exams, err := app.chooseTasks()
	require.NoError(t, err)
	assert.False(t, watch)
	assert.True(t, exams)
}
