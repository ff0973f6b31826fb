package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blogdesk/internal/config"
	"github.com/blogdesk/internal/db"
	"github.com/blogdesk/internal/handler"
	"github.com/blogdesk/internal/mail"
	"github.com/blogdesk/internal/router"
	"github.com/blogdesk/internal/service"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "s3cret-pass"

var handlerDBCounter atomic.Int64

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.sent...)
}

type testApp struct {
	engine   http.Handler
	db       *gorm.DB
	mailer   *recordingMailer
	posts    *service.PostService
	staff    db.User
	reader   db.User
	category db.Category
}

// localClient drives the engine in-process and keeps cookies between calls.
// Redirects are returned, not followed.
type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d-%d?mode=memory&cache=shared", time.Now().UnixNano(), handlerDBCounter.Add(1))
	gdb, err := db.Open(db.DriverSQLite, dsn, db.Options{Silent: true})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	mailer := &recordingMailer{}
	api := handler.NewAPI(gdb, handler.Dependencies{
		Mailer:    mailer,
		ResetLink: service.ResetLinkConfig{Domain: "blog.example.com", Protocol: "https"},
		HashCost:  bcrypt.MinCost,
	})
	engine, err := router.SetupRouter(config.AppConfig{SessionSecret: "handler-test-secret"}, api)
	if err != nil {
		t.Fatalf("failed to set up router: %v", err)
	}

	app := &testApp{
		engine: engine,
		db:     gdb,
		mailer: mailer,
		posts:  service.NewPostService(gdb),
	}
	app.staff = app.createUser(t, "editor", true)
	app.reader = app.createUser(t, "reader", false)

	app.category = db.Category{Title: "General"}
	if err := gdb.Create(&app.category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return app
}

func (a *testApp) createUser(t *testing.T, username string, staff bool) db.User {
	t.Helper()
	user := db.User{Username: username, Email: username + "@example.com", IsStaff: staff}
	if err := user.SetPassword(testPassword, bcrypt.MinCost); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := a.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

func (a *testApp) createPost(t *testing.T, title string, author db.User, status string, tags ...string) *db.Post {
	t.Helper()
	post, err := a.posts.Create(service.PostInput{
		Title:      title,
		Content:    "Body of " + title,
		CategoryID: a.category.ID,
		AuthorID:   author.ID,
		Tags:       tags,
		Status:     status,
	})
	if err != nil {
		t.Fatalf("failed to seed post %q: %v", title, err)
	}
	return post
}

func (a *testApp) client() *localClient {
	jar, _ := cookiejar.New(nil)
	return &localClient{handler: a.engine, jar: jar}
}

// loggedIn returns a client holding a session for username.
func (a *testApp) loggedIn(t *testing.T, username string) *localClient {
	t.Helper()
	c := a.client()
	resp := c.postForm(t, "/login/", url.Values{"username": {username}, "password": {testPassword}})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("login as %s: expected 302, got %d", username, resp.StatusCode)
	}
	return c
}

func (c *localClient) Do(req *http.Request) *http.Response {
	if req.URL.Host == "" {
		req.URL.Scheme = "http"
		req.URL.Host = "example.com"
	}
	for _, cookie := range c.jar.Cookies(req.URL) {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	c.jar.SetCookies(req.URL, resp.Cookies())
	return resp
}

func (c *localClient) get(t *testing.T, path string) *http.Response {
	t.Helper()
	return c.Do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *localClient) postForm(t *testing.T, path string, values url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.Do(req)
}

func (c *localClient) sendJSON(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return c.Do(req)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return string(data)
}

func decodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode json: %v", err)
	}
}

func postInputFor(app *testApp, title string, categoryID uint) service.PostInput {
	return service.PostInput{
		Title:      title,
		Content:    "Body of " + title,
		CategoryID: categoryID,
		AuthorID:   app.staff.ID,
	}
}
