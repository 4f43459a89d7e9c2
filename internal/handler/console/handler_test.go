package console

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/evcs-console/internal/buildinfo"
	"github.com/dumeirei/evcs-console/internal/middleware"
	"github.com/dumeirei/evcs-console/internal/notify"
	"github.com/dumeirei/evcs-console/internal/session"
	"github.com/dumeirei/evcs-console/pkg/evcs"
)

const (
	cookieName = "evcs_sid"
	testSID    = "sid-1"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRecorder struct {
	mu      sync.Mutex
	proxied []int
	levels  []string
}

func (r *fakeRecorder) RecordProxy(_ string, status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proxied = append(r.proxied, status)
}

func (r *fakeRecorder) RecordNotification(level string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels = append(r.levels, level)
}

type testEnv struct {
	engine    *gin.Engine
	store     *session.MemoryStore
	collector *notify.Collector
	recorder  *fakeRecorder
	distDir   string
	version   string
}

func setupConsole(t *testing.T, backend http.HandlerFunc) *testEnv {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return setupConsoleWithURL(t, srv.URL)
}

func setupConsoleWithURL(t *testing.T, baseURL string) *testEnv {
	t.Helper()

	client, err := evcs.New(evcs.Config{BaseURL: baseURL})
	require.NoError(t, err)

	env := &testEnv{
		store:     session.NewMemoryStore(),
		collector: &notify.Collector{},
		recorder:  &fakeRecorder{},
		distDir:   t.TempDir(),
	}
	env.version = filepath.Join(env.distDir, "version.json")
	require.NoError(t, os.WriteFile(filepath.Join(env.distDir, "index.html"), []byte("<html>console</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(env.distDir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.distDir, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	sessCfg := &middleware.SessionConfig{Store: env.store, CookieName: cookieName}
	h, err := NewHandler(&Config{
		Client:      client,
		Session:     sessCfg,
		Notifier:    env.collector,
		Recorder:    env.recorder,
		DistDir:     env.distDir,
		VersionFile: env.version,
	})
	require.NoError(t, err)

	env.engine = gin.New()
	env.engine.Use(middleware.Session(sessCfg))
	h.RegisterRoutes(env.engine)
	return env
}

// login 直接写入会话，模拟已登录的浏览器
func (e *testEnv) login(t *testing.T) {
	t.Helper()
	sess := session.Scoped(e.store, testSID)
	ctx := t.Context()
	require.NoError(t, sess.Set(ctx, evcs.KeyToken, "tok"))
	require.NoError(t, sess.Set(ctx, evcs.KeyTenantID, "3"))
	require.NoError(t, sess.Set(ctx, evcs.KeyUserID, "7"))
}

func (e *testEnv) token(t *testing.T, sid string) string {
	t.Helper()
	v, err := session.Scoped(e.store, sid).Get(t.Context(), evcs.KeyToken)
	require.NoError(t, err)
	return v
}

// notifyRecorder 反向代理要求 ResponseWriter 实现 http.CloseNotifier
type notifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *notifyRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	w := &notifyRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool, 1)}
	e.engine.ServeHTTP(w, req)
	return w.ResponseRecorder
}

func (e *testEnv) do(method, target, body string, withCookie bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if withCookie {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: testSID})
	}
	return e.serve(req)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}

// ==================== Login 测试 ====================

func TestLogin_Success(t *testing.T) {
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "admin", body["identifier"])
		assert.Equal(t, "secret", body["password"])
		_, _ = w.Write([]byte(`{"code":200,"success":true,"data":{"accessToken":"tok","user":{"id":7,"username":"admin","tenantId":3}}}`))
	})

	w := env.do(http.MethodPost, "/login", `{"username":"admin","password":"secret"}`, false)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "tok", data["accessToken"])

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "tok", env.token(t, cookie.Value))

	tenantID, err := session.Scoped(env.store, cookie.Value).Get(t.Context(), evcs.KeyTenantID)
	require.NoError(t, err)
	assert.Equal(t, "3", tenantID)
}

func TestLogin_MissingIdentifier(t *testing.T) {
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called")
	})

	w := env.do(http.MethodPost, "/login", `{"password":"secret"}`, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/login", `{"identifier":"admin"}`, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_BusinessFailure(t *testing.T) {
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":2010,"success":false,"message":"用户名或密码错误"}`))
	})

	w := env.do(http.MethodPost, "/login", `{"identifier":"admin","password":"bad"}`, false)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, float64(2010), resp["code"])
	assert.Equal(t, "用户名或密码错误", resp["message"])

	last, ok := env.collector.Last()
	require.True(t, ok)
	assert.Equal(t, "用户名或密码错误", last.Message)
	assert.Contains(t, env.recorder.levels, string(evcs.LevelError))
}

// ==================== Logout 测试 ====================

func TestLogout_ClearsSession(t *testing.T) {
	called := false
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, "/api/auth/logout", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get(evcs.HeaderAuthorization))
		_, _ = w.Write([]byte(`{"code":200,"success":true}`))
	})
	env.login(t)

	w := env.do(http.MethodPost, "/logout", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
	assert.Empty(t, env.token(t, testSID))

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.True(t, cookie.MaxAge < 0)
}

func TestLogout_BackendFailureStillClears(t *testing.T) {
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	env.login(t)

	w := env.do(http.MethodPost, "/logout", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.token(t, testSID))
}

// ==================== Session 测试 ====================

func TestSession(t *testing.T) {
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {})

	w := env.do(http.MethodGet, "/session", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	env.login(t)
	w = env.do(http.MethodGet, "/session", "", true)
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "3", data["tenantId"])
	assert.Equal(t, "7", data["userId"])
	assert.NotEmpty(t, data["menu"])
}

func TestRoutes(t *testing.T) {
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {})

	w := env.do(http.MethodGet, "/routes.json", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	menu := decode(t, w)["data"].([]interface{})
	first := menu[0].(map[string]interface{})
	assert.Equal(t, "/dashboard", first["path"])
}

// ==================== Proxy 测试 ====================

func TestProxy_EnrichesHeaders(t *testing.T) {
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tenant/list", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "Bearer tok", r.Header.Get(evcs.HeaderAuthorization))
		assert.Equal(t, "3", r.Header.Get(evcs.HeaderTenantID))
		assert.Equal(t, "7", r.Header.Get(evcs.HeaderUserID))
		assert.Empty(t, r.Header.Get("Cookie"))
		_, _ = w.Write([]byte(`{"code":200,"success":true,"data":[]}`))
	})
	env.login(t)

	w := env.do(http.MethodGet, "/api/tenant/list?page=1", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":200,"success":true,"data":[]}`, w.Body.String())
	assert.Equal(t, []int{http.StatusOK}, env.recorder.proxied)
}

func TestProxy_WithoutSessionPassesBrowserToken(t *testing.T) {
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer browser", r.Header.Get(evcs.HeaderAuthorization))
		assert.Empty(t, r.Header.Get(evcs.HeaderTenantID))
		_, _ = w.Write([]byte(`{}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/station/list", nil)
	req.Header.Set(evcs.HeaderAuthorization, "Bearer browser")
	w := env.serve(req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProxy_UnauthorizedClearsToken(t *testing.T) {
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":401,"message":"token expired"}`))
	})
	env.login(t)

	w := env.do(http.MethodGet, "/api/tenant/3", "", true)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")
	assert.Empty(t, env.token(t, testSID))

	last, ok := env.collector.Last()
	require.True(t, ok)
	assert.Equal(t, evcs.MsgUnauthorized, last.Message)
}

func TestProxy_DevelopingUnauthorizedKeepsToken(t *testing.T) {
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	env.login(t)

	w := env.do(http.MethodGet, "/api/tenant/statistics", "", true)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "tok", env.token(t, testSID))

	last, ok := env.collector.Last()
	require.True(t, ok)
	assert.Equal(t, evcs.LevelWarning, last.Level)
	assert.Equal(t, evcs.MsgDeveloping, last.Message)
}

func TestProxy_ServerErrorUsesServerMessage(t *testing.T) {
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"数据库异常"}`))
	})
	env.login(t)

	w := env.do(http.MethodPost, "/api/station", `{"name":"s1"}`, true)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "tok", env.token(t, testSID))

	last, ok := env.collector.Last()
	require.True(t, ok)
	assert.Equal(t, "数据库异常", last.Message)
}

func TestProxy_LargeErrorBodyForwardedIntact(t *testing.T) {
	payload := `{"message":"` + strings.Repeat("x", 100<<10) + `"}`
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(payload))
	})
	env.login(t)

	srv := httptest.NewServer(env.engine)
	t.Cleanup(srv.Close)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/station/list", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: testSID})

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	got, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, len(payload), len(got), "超过预读上限的响应体不应被截断")
	assert.JSONEq(t, payload, string(got))

	last, ok := env.collector.Last()
	require.True(t, ok)
	assert.Equal(t, evcs.MsgServerError, last.Message, "预读部分不是完整 JSON 时使用兜底文案")
}

func TestProxy_BackendDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	env := setupConsoleWithURL(t, addr)
	w := env.do(http.MethodGet, "/api/order/list", "", false)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, float64(3001), decode(t, w)["code"])
	assert.Equal(t, []int{http.StatusBadGateway}, env.recorder.proxied)

	last, ok := env.collector.Last()
	require.True(t, ok)
	assert.Equal(t, evcs.MsgNetworkError, last.Message)
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "/api/tenant/1", joinPath("", "/api", "/tenant/1"))
	assert.Equal(t, "/base/api/tenant/", joinPath("/base", "/api", "/tenant/"))
	assert.Equal(t, "/api", joinPath("", "/api", ""))
}

// ==================== 页面与静态资源测试 ====================

func TestPage_GuardRedirectsToLogin(t *testing.T) {
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {})

	for _, p := range []string{"/dashboard", "/tenants/1", "/", "/nope"} {
		w := env.do(http.MethodGet, p, "", false)
		assert.Equal(t, http.StatusFound, w.Code, p)
		assert.Equal(t, "/login", w.Header().Get("Location"), p)
	}
}

func TestPage_LoginPageIsPublic(t *testing.T) {
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {})

	w := env.do(http.MethodGet, "/login", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "console")
}

func TestPage_LoggedIn(t *testing.T) {
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {})
	env.login(t)

	w := env.do(http.MethodGet, "/billing-plans/5/edit", "", true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "console")

	w = env.do(http.MethodGet, "/", "", true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = env.do(http.MethodGet, "/nope", "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatic_ServedWithoutLogin(t *testing.T) {
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {})

	w := env.do(http.MethodGet, "/assets/app.js", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	w = env.do(http.MethodGet, "/../../etc/passwd", "", false)
	assert.Equal(t, http.StatusFound, w.Code)
}

// ==================== Version 测试 ====================

func TestVersion(t *testing.T) {
	env := setupConsole(t, func(w http.ResponseWriter, r *http.Request) {})

	w := env.do(http.MethodGet, "/version.json", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.NoError(t, buildinfo.Write(env.version, buildinfo.Info{
		Commit: "a1b2c3d", Branch: "main", BuildTime: "2026-10-18T08:30:00.000Z", BuildNumber: "9",
	}))
	w = env.do(http.MethodGet, "/version.json", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-cache")

	resp := decode(t, w)
	assert.Equal(t, "a1b2c3d", resp["commit"])
	assert.Equal(t, "9", resp["buildNumber"])
}
