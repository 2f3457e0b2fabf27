package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/parle/internal/models"
	"github.com/desertthunder/parle/internal/router"
	"github.com/desertthunder/parle/internal/shared"
	tu "github.com/desertthunder/parle/internal/testing"
	"github.com/golang-jwt/jwt/v5"
)

var testCards = []models.Flashcard{
	{ID: "c1", Language: "fr", Front: "bonjour", Back: "hello", Category: "greetings", ReviewCount: 2},
	{ID: "c2", Language: "fr", Front: "merci", Back: "thank you", Category: "greetings"},
}

func TestGuardedCommands(t *testing.T) {
	t.Run("anonymous user is stopped before any request", func(t *testing.T) {
		f := newFixture(t, "", nil)

		for _, args := range [][]string{
			{"flashcards", "list"},
			{"journal", "list"},
			{"schedule", "list"},
			{"progress", "list"},
			{"recordings", "list"},
			{"practice", "analyze", "--text", "salut"},
			{"api", "get", "/flashcards"},
		} {
			err := f.run(args...)
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("%v: expected ErrNotAuthenticated, got %v", args, err)
			}
			if f.runner.navigator.Current().Path != router.LoginPath {
				t.Errorf("%v: expected navigator at login, got %s", args, f.runner.navigator.Current().Path)
			}
		}
		if f.count() != 0 {
			t.Errorf("expected no requests, got %d", f.count())
		}
	})

	t.Run("authenticated user gets a table with the bearer token sent", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/flashcards" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			tu.WriteJSON(t, w, http.StatusOK, testCards)
		})

		if err := f.run("flashcards", "list", "--language", "fr", "--due"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		req := f.requests[0]
		if got := req.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer header, got %q", got)
		}
		if req.URL.Query().Get("language") != "fr" || req.URL.Query().Get("due") != "true" {
			t.Errorf("unexpected query %v", req.URL.Query())
		}
		out := f.output.String()
		for _, want := range []string{"bonjour", "merci", "greetings"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("json flag prints decodable output", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			tu.WriteJSON(t, w, http.StatusOK, testCards)
		})

		if err := f.run("flashcards", "list", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var cards []models.Flashcard
		if err := json.Unmarshal(f.output.Bytes(), &cards); err != nil {
			t.Fatalf("expected JSON output, got %v: %s", err, f.output.String())
		}
		if len(cards) != 2 || cards[0].ID != "c1" {
			t.Errorf("unexpected cards %+v", cards)
		}
	})

	t.Run("401 logs out and returns to login", func(t *testing.T) {
		f := newFixture(t, "stale", func(w http.ResponseWriter, r *http.Request) {
			tu.WriteJSON(t, w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		})

		err := f.run("journal", "list")
		if !errors.Is(err, shared.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
		if f.tokens.Token() != "" {
			t.Error("expected stored token cleared")
		}
		if f.runner.session.IsAuthenticated() {
			t.Error("expected session logged out")
		}
		current := f.runner.navigator.Current()
		if current.Path != router.LoginPath || current.RedirectedFrom != "/journal" {
			t.Errorf("expected login redirected from /journal, got %+v", current)
		}
	})

	t.Run("404 is reported as not found", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			tu.WriteJSON(t, w, http.StatusNotFound, map[string]string{"detail": "Flashcard not found"})
		})

		err := f.run("flashcards", "get", "missing")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if f.tokens.Token() != "tok" {
			t.Error("expected token kept after 404")
		}
	})

	t.Run("public health check needs no session", func(t *testing.T) {
		f := newFixture(t, "", func(w http.ResponseWriter, r *http.Request) {
			tu.WriteJSON(t, w, http.StatusOK, map[string]string{"status": "healthy"})
		})

		if err := f.run("practice", "health"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(f.output.String(), "healthy") {
			t.Errorf("unexpected output %q", f.output.String())
		}
		if f.requests[0].Header.Get("Authorization") != "" {
			t.Error("expected no Authorization header without a token")
		}
	})
}

func TestAuthCommands(t *testing.T) {
	me := models.User{ID: "u1", Email: "ana@example.com", Name: "Ana", IsActive: true}

	loginServer := func(t *testing.T) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/auth/login":
				if err := r.ParseForm(); err != nil {
					t.Errorf("failed to parse form: %v", err)
					return
				}
				if r.PostForm.Get("username") != me.Email || r.PostForm.Get("password") != "secret" {
					tu.WriteJSON(t, w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
					return
				}
				tu.WriteJSON(t, w, http.StatusOK, models.Token{AccessToken: "fresh", TokenType: "bearer"})
			case "/auth/me":
				if r.Header.Get("Authorization") != "Bearer fresh" {
					tu.WriteJSON(t, w, http.StatusUnauthorized, map[string]string{"detail": "nope"})
					return
				}
				tu.WriteJSON(t, w, http.StatusOK, me)
			case "/auth/register":
				var in models.UserCreate
				json.NewDecoder(r.Body).Decode(&in)
				if in.Email == "taken@example.com" {
					tu.WriteJSON(t, w, http.StatusBadRequest, map[string]string{"detail": "Email already registered"})
					return
				}
				tu.WriteJSON(t, w, http.StatusOK, models.User{ID: "u2", Email: in.Email, Name: in.Name})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}
	}

	t.Run("login stores the token and greets the user", func(t *testing.T) {
		f := newFixture(t, "", loginServer(t))

		if err := f.run("auth", "login", "--email", me.Email, "--password", "secret"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if f.tokens.Token() != "fresh" {
			t.Errorf("expected token persisted, got %q", f.tokens.Token())
		}
		if !strings.Contains(f.output.String(), "Logged in as ana@example.com") {
			t.Errorf("unexpected output %q", f.output.String())
		}
		if f.runner.navigator.Current().Path != router.DashboardPath {
			t.Errorf("expected dashboard, got %s", f.runner.navigator.Current().Path)
		}
	})

	t.Run("login reads the password from input", func(t *testing.T) {
		f := newFixture(t, "", loginServer(t))
		f.input = strings.NewReader("secret\n")

		if err := f.run("auth", "login", "-e", me.Email); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(f.output.String(), "Password: ") {
			t.Errorf("expected a prompt, got %q", f.output.String())
		}
		if f.tokens.Token() != "fresh" {
			t.Error("expected token persisted")
		}
	})

	t.Run("wrong password surfaces the server detail", func(t *testing.T) {
		f := newFixture(t, "", loginServer(t))

		err := f.run("auth", "login", "--email", me.Email, "--password", "bad")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}
		if !strings.Contains(err.Error(), "Incorrect email or password") {
			t.Errorf("expected server detail, got %v", err)
		}
		if !errors.Is(err, shared.ErrUnauthorized) {
			t.Errorf("expected the 401 to stay matchable, got %v", err)
		}
		if f.tokens.Saves != 0 {
			t.Error("expected nothing saved")
		}
	})

	t.Run("already logged in is redirected away from login", func(t *testing.T) {
		f := newFixture(t, "fresh", loginServer(t))

		if err := f.run("auth", "login", "--email", me.Email, "--password", "secret"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(f.output.String(), "Already logged in") {
			t.Errorf("unexpected output %q", f.output.String())
		}
		if f.count() != 0 {
			t.Errorf("expected no requests, got %d", f.count())
		}
	})

	t.Run("register does not log in", func(t *testing.T) {
		f := newFixture(t, "", loginServer(t))

		if err := f.run("auth", "register", "--email", "new@example.com", "--name", "New", "--password", "pw"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(f.output.String(), "Account created for new@example.com") {
			t.Errorf("unexpected output %q", f.output.String())
		}
		if f.tokens.Saves != 0 || f.runner.session.IsAuthenticated() {
			t.Error("expected no session after register")
		}
	})

	t.Run("register failure keeps the detail", func(t *testing.T) {
		f := newFixture(t, "", loginServer(t))

		err := f.run("auth", "register", "--email", "taken@example.com", "--password", "pw")
		if err == nil || !strings.Contains(err.Error(), "Email already registered") {
			t.Errorf("expected registration detail, got %v", err)
		}
		if !errors.Is(err, shared.ErrAuthFailed) || !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAuthFailed wrapping the API error, got %v", err)
		}
	})

	t.Run("logout clears without calling the API", func(t *testing.T) {
		f := newFixture(t, "fresh", loginServer(t))

		if err := f.run("auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if f.tokens.Token() != "" || f.tokens.Clears != 1 {
			t.Errorf("expected one clear, got %d", f.tokens.Clears)
		}
		if f.count() != 0 {
			t.Error("expected no requests")
		}

		if err := f.run("auth", "logout"); err != nil {
			t.Fatalf("expected repeat logout to succeed, got %v", err)
		}
		if !strings.Contains(f.output.String(), "Not logged in") {
			t.Errorf("unexpected output %q", f.output.String())
		}
	})

	t.Run("whoami prints the profile", func(t *testing.T) {
		f := newFixture(t, "fresh", loginServer(t))

		if err := f.run("auth", "whoami", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var got models.User
		if err := json.Unmarshal(f.output.Bytes(), &got); err != nil {
			t.Fatalf("expected JSON, got %v", err)
		}
		if got.Email != me.Email {
			t.Errorf("expected %s, got %s", me.Email, got.Email)
		}
	})

	t.Run("whoami with a rejected token logs out", func(t *testing.T) {
		f := newFixture(t, "expired", loginServer(t))

		err := f.run("auth", "whoami")
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if f.tokens.Token() != "" {
			t.Error("expected token cleared")
		}
	})

	t.Run("status reads token claims offline", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   me.Email,
			ExpiresAt: jwt.NewNumericDate(exp),
		}).SignedString([]byte("test-key"))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		f := newFixture(t, token, nil)

		if err := f.run("auth", "status", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var got sessionStatus
		if err := json.Unmarshal(f.output.Bytes(), &got); err != nil {
			t.Fatalf("expected JSON, got %v", err)
		}
		if !got.Authenticated || got.Subject != me.Email || got.Expired {
			t.Errorf("unexpected status %+v", got)
		}
		if got.ExpiresAt == nil || !got.ExpiresAt.Equal(exp) {
			t.Errorf("expected expiry %v, got %v", exp, got.ExpiresAt)
		}
		if f.count() != 0 {
			t.Error("expected no requests")
		}
	})

	t.Run("token survives between runs in the sqlite store", func(t *testing.T) {
		f := newFixture(t, "", loginServer(t))
		dbPath := filepath.Join(t.TempDir(), "parle.db")
		f.config = writeConfig(t, f.server.URL, "[session]\nstorage = \"sqlite\"\n[database]\npath = \""+dbPath+"\"\n")

		run := func(args ...string) error {
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: f.output})
			app := newApp(runner)
			defer runner.Close()
			return app.Run(context.Background(), append([]string{"parle", "--config", f.config}, args...))
		}

		if err := run("auth", "login", "--email", me.Email, "--password", "secret"); err != nil {
			t.Fatalf("expected login to succeed, got %v", err)
		}
		f.output.Reset()
		if err := run("auth", "status", "--json"); err != nil {
			t.Fatalf("expected status to succeed, got %v", err)
		}
		if !strings.Contains(f.output.String(), `"authenticated": true`) {
			t.Errorf("expected persisted session, got %s", f.output.String())
		}
	})
}

func TestNavigationCommands(t *testing.T) {
	t.Run("routes lists guard decisions", func(t *testing.T) {
		f := newFixture(t, "", nil)

		if err := f.run("routes", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var views []routeView
		if err := json.Unmarshal(f.output.Bytes(), &views); err != nil {
			t.Fatalf("expected JSON, got %v", err)
		}
		decisions := map[string]string{}
		for _, v := range views {
			decisions[v.Path] = v.Decision
		}
		if decisions["/flashcards"] != "redirect to /login" {
			t.Errorf("unexpected decision for /flashcards: %q", decisions["/flashcards"])
		}
		if decisions["/login"] != "proceed" {
			t.Errorf("unexpected decision for /login: %q", decisions["/login"])
		}
	})

	t.Run("open reports the redirect and opens the final page", func(t *testing.T) {
		var opened string
		orig := openBrowser
		openBrowser = func(url string) error { opened = url; return nil }
		t.Cleanup(func() { openBrowser = orig })

		f := newFixture(t, "", nil)
		if err := f.run("open", "--browser", "/reading/42"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(f.output.String(), "/reading/42 redirected to /login") {
			t.Errorf("unexpected output %q", f.output.String())
		}
		if opened != "http://localhost:5173/login" {
			t.Errorf("expected login page opened, got %q", opened)
		}
	})

	t.Run("open binds route params", func(t *testing.T) {
		f := newFixture(t, "tok", nil)

		if err := f.run("open", "/summary/abc"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(f.output.String(), "textId = abc") {
			t.Errorf("expected bound param, got %q", f.output.String())
		}
	})

	t.Run("open rejects unknown routes", func(t *testing.T) {
		f := newFixture(t, "tok", nil)

		if err := f.run("open", "/nowhere"); !errors.Is(err, shared.ErrRouteNotFound) {
			t.Errorf("expected ErrRouteNotFound, got %v", err)
		}
	})
}

func TestResourceCommands(t *testing.T) {
	t.Run("review quality out of range sends nothing", func(t *testing.T) {
		f := newFixture(t, "tok", nil)

		err := f.run("flashcards", "review", "--quality", "7", "c1")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if f.count() != 0 {
			t.Error("expected no requests")
		}
	})

	t.Run("update sends only the flags given", func(t *testing.T) {
		var body map[string]any
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut || r.URL.Path != "/flashcards/c1" {
				t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			}
			json.NewDecoder(r.Body).Decode(&body)
			tu.WriteJSON(t, w, http.StatusOK, testCards[0])
		})

		if err := f.run("flashcards", "update", "--back", "hi", "c1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(body) != 1 || body["back"] != "hi" {
			t.Errorf("expected only back, got %v", body)
		}
	})

	t.Run("export writes a markdown file", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			tu.WriteJSON(t, w, http.StatusOK, testCards)
		})
		out := filepath.Join(t.TempDir(), "cards.md")

		if err := f.run("flashcards", "export", "--format", "markdown", "--output", out, "--title", "French"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		content := tu.MustReadFile(t, out)
		if !strings.Contains(content, "# French") || !strings.Contains(content, "bonjour") {
			t.Errorf("unexpected export:\n%s", content)
		}
	})

	t.Run("import creates each csv row", func(t *testing.T) {
		var created sync.Map
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			var in models.FlashcardCreate
			json.NewDecoder(r.Body).Decode(&in)
			created.Store(in.Front, in.Language)
			tu.WriteJSON(t, w, http.StatusOK, models.Flashcard{ID: "new-" + in.Front, Front: in.Front})
		})
		csvPath := filepath.Join(t.TempDir(), "cards.csv")
		if err := os.WriteFile(csvPath, []byte("front,back,language\nun,one,\ndeux,two,es\ntrois,three,\n"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := f.run("flashcards", "import", "--workers", "2", csvPath); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(f.output.String(), "Imported 3 flashcards") {
			t.Errorf("unexpected output %q", f.output.String())
		}
		if lang, _ := created.Load("deux"); lang != "es" {
			t.Errorf("expected row language kept, got %v", lang)
		}
		if lang, _ := created.Load("un"); lang != "fr" {
			t.Errorf("expected default language, got %v", lang)
		}
	})

	t.Run("journal export rejects csv", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			tu.WriteJSON(t, w, http.StatusOK, []models.JournalEntry{})
		})

		if err := f.run("journal", "export", "--format", "csv"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("schedule day is validated locally", func(t *testing.T) {
		f := newFixture(t, "tok", nil)

		if err := f.run("schedule", "list", "--day", "9"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
		if f.count() != 0 {
			t.Error("expected no requests")
		}
	})

	t.Run("schedule list keeps Monday in the query", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("day_of_week") != "0" {
				t.Errorf("expected day_of_week=0, got %v", r.URL.Query())
			}
			tu.WriteJSON(t, w, http.StatusOK, []models.ScheduleBlock{{ID: "s1", ActivityName: "Podcast", Duration: 30}})
		})

		if err := f.run("schedule", "list", "--day", "0"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(f.output.String(), "Monday") || !strings.Contains(f.output.String(), "Podcast") {
			t.Errorf("unexpected output %q", f.output.String())
		}
	})

	t.Run("progress stats validates the period", func(t *testing.T) {
		f := newFixture(t, "tok", nil)

		if err := f.run("progress", "stats", "--period", "decade"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("progress list parses dates", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("start_date") != "2025-01-02T00:00:00Z" {
				t.Errorf("unexpected query %v", r.URL.Query())
			}
			tu.WriteJSON(t, w, http.StatusOK, []models.Progress{})
		})

		if err := f.run("progress", "list", "--from", "2025-01-02"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := f.run("progress", "list", "--from", "02/01/2025"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("recording upload sends the file", func(t *testing.T) {
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/recordings/upload" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			file, header, err := r.FormFile("file")
			if err != nil {
				t.Errorf("expected file part, got %v", err)
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			file.Close()
			tu.WriteJSON(t, w, http.StatusOK, map[string]string{"audio_url": "/uploads/" + header.Filename})
		})
		audio := filepath.Join(t.TempDir(), "take1.wav")
		if err := os.WriteFile(audio, []byte("RIFF"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := f.run("recordings", "upload", audio); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(f.output.String(), "/uploads/take1.wav") {
			t.Errorf("unexpected output %q", f.output.String())
		}
	})

	t.Run("recording update sends only the flags given", func(t *testing.T) {
		var body map[string]any
		f := newFixture(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut || r.URL.Path != "/recordings/r1" {
				t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			}
			json.NewDecoder(r.Body).Decode(&body)
			tu.WriteJSON(t, w, http.StatusOK, models.Recording{ID: "r1", Language: "fr", Duration: 45})
		})

		if err := f.run("recordings", "update", "--duration", "45", "r1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(body) != 1 || body["duration"] != float64(45) {
			t.Errorf("expected only duration, got %v", body)
		}
		if !strings.Contains(f.output.String(), "45s") {
			t.Errorf("unexpected output %q", f.output.String())
		}
	})

	t.Run("missing id is rejected", func(t *testing.T) {
		f := newFixture(t, "tok", nil)

		if err := f.run("journal", "delete"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("api post validates JSON", func(t *testing.T) {
		f := newFixture(t, "tok", nil)

		if err := f.run("api", "post", "--data", "{oops", "/journal"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
