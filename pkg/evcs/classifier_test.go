package evcs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== Classify 测试 ====================

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		developing bool
		serverMsg  string
		transport  string
		want       Classification
	}{
		{"401 fatal", 401, false, "token expired", "", Classification{Kind: KindUnauthorized, Level: LevelError, Message: MsgUnauthorized, Logout: true}},
		{"401 developing", 401, true, "", "", Classification{Kind: KindUnauthorized, Level: LevelWarning, Message: MsgDeveloping, Tolerated: true}},
		{"403", 403, false, "nope", "", Classification{Kind: KindForbidden, Level: LevelError, Message: MsgForbidden}},
		{"404", 404, true, "", "", Classification{Kind: KindNotFound, Level: LevelError, Message: MsgNotFound}},
		{"500 server message", 500, false, "数据库异常", "x", Classification{Kind: KindServer, Level: LevelError, Message: "数据库异常"}},
		{"500 generic", 500, false, "", "x", Classification{Kind: KindServer, Level: LevelError, Message: MsgServerError}},
		{"502 server message", 502, false, "网关错误", "status 502", Classification{Kind: KindHTTP, Level: LevelError, Message: "网关错误"}},
		{"502 transport message", 502, false, "", "status 502", Classification{Kind: KindHTTP, Level: LevelError, Message: "status 502"}},
		{"no response", 0, false, "", "dial tcp: refused", Classification{Kind: KindTransport, Level: LevelError, Message: "dial tcp: refused"}},
		{"no response fallback", 0, false, "", "", Classification{Kind: KindTransport, Level: LevelError, Message: MsgNetworkError}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.status, tt.developing, tt.serverMsg, tt.transport))
		})
	}
}

// ==================== 401 测试 ====================

func TestUnauthorized_FatalClearsTokenAndRedirectsOnce(t *testing.T) {
	c, sess, rec := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"code": 401, "message": "token expired"})
	}, Config{})
	ctx := context.Background()
	require.NoError(t, sess.Set(ctx, KeyToken, "tok"))
	require.NoError(t, sess.Set(ctx, KeyTenantID, "1"))

	_, err := c.ListTenants(ctx, TenantQuery{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	apiErr, _ := AsError(err)
	assert.False(t, apiErr.Tolerated)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	token, _ := sess.Get(ctx, KeyToken)
	assert.Empty(t, token)
	tenantID, _ := sess.Get(ctx, KeyTenantID)
	assert.Equal(t, "1", tenantID)
	assert.Equal(t, 1, rec.redirects)
	require.Len(t, rec.notes, 1)
	assert.Equal(t, MsgUnauthorized, rec.notes[0].Message)
	assert.Equal(t, LevelError, rec.notes[0].Level)
}

func TestUnauthorized_DevelopingEndpointTolerated(t *testing.T) {
	c, sess, rec := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, Config{})
	ctx := context.Background()
	require.NoError(t, sess.Set(ctx, KeyToken, "tok"))

	_, err := c.GetTenantStatistics(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	apiErr, _ := AsError(err)
	assert.True(t, apiErr.Tolerated)

	token, _ := sess.Get(ctx, KeyToken)
	assert.Equal(t, "tok", token)
	assert.Equal(t, 0, rec.redirects)
	assert.Equal(t, LevelWarning, rec.last().Level)
	assert.Equal(t, MsgDeveloping, rec.last().Message)
}

func TestUnauthorized_DevelopingPathSubstring(t *testing.T) {
	c, sess, rec := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, Config{DevelopingPaths: []string{"/dashboard/"}})
	ctx := context.Background()
	require.NoError(t, sess.Set(ctx, KeyToken, "tok"))

	_, err := c.GetDashboardStats(ctx)
	require.Error(t, err)
	token, _ := sess.Get(ctx, KeyToken)
	assert.Equal(t, "tok", token)
	assert.Equal(t, 0, rec.redirects)

	_, err = c.GetTenant(ctx, 1)
	require.Error(t, err)
	token, _ = sess.Get(ctx, KeyToken)
	assert.Empty(t, token)
	assert.Equal(t, 1, rec.redirects)
}

// ==================== 其他状态测试 ====================

func TestForbidden(t *testing.T) {
	c, _, rec := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "无权限"})
	}, Config{})

	err := c.DeleteUser(context.Background(), 1)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, MsgForbidden, rec.last().Message)
	assert.Equal(t, 0, rec.redirects)
}

func TestServerError_UsesServerMessage(t *testing.T) {
	c, _, rec := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "数据库异常", "traceId": "tr-9"})
	}, Config{})

	_, err := c.GetOrder(context.Background(), 1)
	assert.ErrorIs(t, err, ErrServer)
	apiErr, _ := AsError(err)
	assert.Equal(t, "tr-9", apiErr.TraceID)
	assert.Equal(t, "数据库异常", rec.last().Message)
}

func TestServerError_Generic(t *testing.T) {
	c, _, rec := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>oops</html>"))
	}, Config{})

	_, err := c.GetOrder(context.Background(), 1)
	assert.ErrorIs(t, err, ErrServer)
	assert.Equal(t, MsgServerError, rec.last().Message)
}

func TestOtherStatus_TransportMessage(t *testing.T) {
	c, _, rec := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, Config{})

	_, err := c.GetOrder(context.Background(), 1)
	assert.ErrorIs(t, err, ErrHTTP)
	assert.Equal(t, "Request failed with status code 502", rec.last().Message)
}

func TestNoResponse(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	rec := &recorder{}
	c, err := New(Config{BaseURL: addr}, WithNotifier(rec), WithNavigator(rec))
	require.NoError(t, err)

	_, err = c.ListOrders(context.Background(), OrderQuery{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)

	apiErr, _ := AsError(err)
	assert.Equal(t, 0, apiErr.Status)
	assert.NotNil(t, apiErr.Unwrap())
	assert.Contains(t, rec.last().Message, "/api/order/list")
	assert.Equal(t, 0, rec.redirects)
}

// ==================== 开发中接口匹配测试 ====================

func TestEndpointMatches(t *testing.T) {
	assert.True(t, EndpointChargerStatus.Matches("GET", "/charger/12/status"))
	assert.True(t, EndpointChargerStatus.Matches("get", "/charger/12/status?x=1"))
	assert.False(t, EndpointChargerStatus.Matches("GET", "/charger/abc/status"))
	assert.False(t, EndpointChargerStatus.Matches("POST", "/charger/12/status"))
	assert.False(t, EndpointChargerStatus.Matches("GET", "/charger/12"))
	assert.True(t, EndpointOrderExport.Matches("GET", "/order/export"))
}

func TestClient_IsDeveloping(t *testing.T) {
	c, err := New(Config{BaseURL: "http://backend", DevelopingPaths: []string{"/dashboard/"}})
	require.NoError(t, err)

	assert.True(t, c.IsDeveloping("GET", "/tenant/statistics"))
	assert.True(t, c.IsDeveloping("POST", "/charger/3/control"))
	assert.True(t, c.IsDeveloping("GET", "/dashboard/trend"))
	assert.False(t, c.IsDeveloping("GET", "/tenant/3"))
	assert.False(t, c.IsDeveloping("GET", "/order/list"))
}
