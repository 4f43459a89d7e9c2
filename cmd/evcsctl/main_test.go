package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/evcs-console/internal/export"
	"github.com/dumeirei/evcs-console/internal/session"
	"github.com/dumeirei/evcs-console/pkg/evcs"
)

const loginOK = `{"code":200,"success":true,"data":{"accessToken":"tok","user":{"id":7,"username":"admin","tenantId":3}}}`

type cli struct {
	t           *testing.T
	baseURL     string
	sessionFile string
}

func newCLI(t *testing.T, backend http.HandlerFunc) *cli {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return &cli{t: t, baseURL: srv.URL, sessionFile: filepath.Join(t.TempDir(), "session.json")}
}

func (c *cli) run(stdin string, args ...string) (string, string, error) {
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--base-url", c.baseURL, "--session-file", c.sessionFile}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (c *cli) session(key string) string {
	c.t.Helper()
	store, err := session.NewFileStore(c.sessionFile)
	require.NoError(c.t, err)
	v, err := store.Get(context.Background(), key)
	require.NoError(c.t, err)
	return v
}

func (c *cli) seed() {
	c.t.Helper()
	store, err := session.NewFileStore(c.sessionFile)
	require.NoError(c.t, err)
	ctx := context.Background()
	require.NoError(c.t, store.Set(ctx, evcs.KeyToken, "tok"))
	require.NoError(c.t, store.Set(ctx, evcs.KeyTenantID, "3"))
	require.NoError(c.t, store.Set(ctx, evcs.KeyUserID, "7"))
}

// ==================== login/logout/whoami 测试 ====================

func TestLogin_PersistsSession(t *testing.T) {
	c := newCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		_, _ = w.Write([]byte(loginOK))
	})

	out, _, err := c.run("", "login", "-u", "admin", "-p", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "已登录: admin")
	assert.Equal(t, "tok", c.session(evcs.KeyToken))
	assert.Equal(t, "3", c.session(evcs.KeyTenantID))
	assert.Equal(t, "7", c.session(evcs.KeyUserID))
}

func TestLogin_ReadsPasswordFromStdin(t *testing.T) {
	c := newCLI(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "from-stdin", body["password"])
		_, _ = w.Write([]byte(loginOK))
	})

	_, stderr, err := c.run("from-stdin\n", "login", "-u", "admin")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Password:")
}

func TestLogin_RequiresUsername(t *testing.T) {
	c := newCLI(t, func(w http.ResponseWriter, r *http.Request) {})

	_, _, err := c.run("", "login", "-p", "x")
	assert.Error(t, err)
}

func TestLogin_BusinessFailureNotified(t *testing.T) {
	c := newCLI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":2010,"success":false,"message":"用户名或密码错误"}`))
	})

	_, stderr, err := c.run("", "login", "-u", "admin", "-p", "bad")
	require.Error(t, err)
	_, isAPI := evcs.AsError(err)
	assert.True(t, isAPI)
	assert.Contains(t, stderr, "[error] 用户名或密码错误")
	assert.Empty(t, c.session(evcs.KeyToken))
}

func TestLogout_ClearsSession(t *testing.T) {
	c := newCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/logout", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":200,"success":true}`))
	})
	c.seed()

	out, _, err := c.run("", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "本地会话已清除")
	assert.Empty(t, c.session(evcs.KeyToken))
	assert.Empty(t, c.session(evcs.KeyTenantID))
}

func TestWhoami(t *testing.T) {
	c := newCLI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"success":true,"data":{"id":7,"username":"admin"}}`))
	})

	_, _, err := c.run("", "whoami")
	assert.Error(t, err)

	c.seed()
	out, _, err := c.run("", "whoami", "--remote")
	require.NoError(t, err)

	var got whoami
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "3", got.TenantID)
	assert.Equal(t, "7", got.UserID)
	require.NotNil(t, got.User)
	assert.Equal(t, "admin", got.User.Username)
}

// ==================== 资源命令测试 ====================

func TestTenantsList_SendsSessionHeadersAndQuery(t *testing.T) {
	c := newCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tenant/list", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get(evcs.HeaderAuthorization))
		assert.Equal(t, "3", r.Header.Get(evcs.HeaderTenantID))
		assert.Equal(t, "2", r.URL.Query().Get("current"))
		assert.Equal(t, "0", r.URL.Query().Get("status"))
		_, _ = w.Write([]byte(`{"code":200,"success":true,"data":{"records":[{"id":1,"tenantName":"t1"}],"total":1,"size":10,"pages":1}}`))
	})
	c.seed()

	out, _, err := c.run("", "tenants", "list", "--current", "2", "--status", "0")
	require.NoError(t, err)
	assert.Contains(t, out, `"total": 1`)
}

func TestTenantsTree_Local(t *testing.T) {
	c := newCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tenant/list", r.URL.Path, "本地组装不请求 /tenant/tree")
		_, _ = w.Write([]byte(`{"code":200,"data":{"records":[{"id":1,"tenantName":"root"},{"id":2,"tenantName":"child","parentId":1}],"total":2,"size":100,"pages":1}}`))
	})
	c.seed()

	out, _, err := c.run("", "tenants", "tree", "--local")
	require.NoError(t, err)
	assert.Contains(t, out, `"children"`)
	assert.Contains(t, out, `"tenantName": "child"`)
}

func TestTenantsChildren(t *testing.T) {
	c := newCLI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tenant/3/children", r.URL.Path)
		_, _ = w.Write([]byte(`{"code":200,"data":[{"id":4,"tenantName":"子租户","parentId":3}]}`))
	})
	c.seed()

	out, _, err := c.run("", "tenants", "children", "3")
	require.NoError(t, err)
	assert.Contains(t, out, `"parentId": 3`)
}

func TestChargersGet_InvalidID(t *testing.T) {
	c := newCLI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called")
	})
	c.seed()

	_, _, err := c.run("", "chargers", "get", "abc")
	assert.Error(t, err)
}

func TestUnauthorized_ClearsTokenAndHints(t *testing.T) {
	c := newCLI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	c.seed()

	_, stderr, err := c.run("", "stations", "get", "5")
	require.Error(t, err)
	assert.Contains(t, stderr, evcs.MsgUnauthorized)
	assert.Contains(t, stderr, "evcsctl login")
	assert.Empty(t, c.session(evcs.KeyToken))
}

// ==================== 订单导出测试 ====================

func TestOrdersExport_FallbackWorkbook(t *testing.T) {
	c := newCLI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/order/export":
			w.WriteHeader(http.StatusUnauthorized)
		case "/api/order/list":
			if r.URL.Query().Get("current") == "1" {
				_, _ = w.Write([]byte(`{"code":200,"success":true,"data":{"records":[{"id":1,"orderNo":"O1"},{"id":2,"orderNo":"O2"}],"total":2}}`))
				return
			}
			_, _ = w.Write([]byte(`{"code":200,"success":true,"data":{"records":[],"total":2}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	c.seed()

	file := filepath.Join(t.TempDir(), "orders.xlsx")
	out, stderr, err := c.run("", "orders", "export", "-o", file)
	require.NoError(t, err)
	assert.Contains(t, out, "已导出 2 条订单")
	assert.Contains(t, stderr, evcs.MsgDeveloping)
	assert.Equal(t, "tok", c.session(evcs.KeyToken))

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	summary, err := export.Inspect(data)
	require.NoError(t, err)
	assert.Equal(t, export.OrderSheet, summary.Sheets[0].Name)
}

func TestOrdersExport_NoFallback(t *testing.T) {
	c := newCLI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	c.seed()

	_, _, err := c.run("", "orders", "export", "--fallback=false", "-o", filepath.Join(t.TempDir(), "x.xlsx"))
	assert.Error(t, err)
}

// ==================== routes 测试 ====================

func TestRoutes(t *testing.T) {
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"routes", "--all"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "/login")
	assert.Contains(t, out.String(), "public")
	assert.Contains(t, out.String(), "-> /dashboard")
}
