// Package router 控制台页面路由表与登录守卫
package router

import (
	"path"
	"strings"
)

// 固定路径
const (
	LoginPath = "/login"
	HomePath  = "/dashboard"
)

// Meta 页面元信息
type Meta struct {
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
}

// Route 页面路由
type Route struct {
	Path     string `json:"path"`
	Name     string `json:"name,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Meta     Meta   `json:"meta"`
	Public   bool   `json:"-"` // 无需登录
}

// table 登录页之外的页面都挂在布局壳下
var table = []Route{
	{Path: LoginPath, Name: "Login", Meta: Meta{Title: "登录"}, Public: true},
	{Path: "/", Redirect: HomePath},
	{Path: "/dashboard", Name: "Dashboard", Meta: Meta{Title: "仪表盘", Icon: "DataAnalysis"}},
	{Path: "/tenants", Name: "Tenants", Meta: Meta{Title: "租户管理", Icon: "OfficeBuilding"}},
	{Path: "/tenants/:id", Name: "TenantDetail", Meta: Meta{Title: "租户详情", Icon: "OfficeBuilding", Hidden: true}},
	{Path: "/tenants/tree", Name: "TenantTree", Meta: Meta{Title: "租户树形", Icon: "Tree", Hidden: true}},
	{Path: "/users", Name: "Users", Meta: Meta{Title: "用户管理", Icon: "User"}},
	{Path: "/users/:id", Name: "UserDetail", Meta: Meta{Title: "用户详情", Icon: "User", Hidden: true}},
	{Path: "/roles", Name: "Roles", Meta: Meta{Title: "角色管理", Icon: "Avatar", Hidden: true}},
	{Path: "/stations", Name: "Stations", Meta: Meta{Title: "充电站管理", Icon: "Location"}},
	{Path: "/stations/:id", Name: "StationDetail", Meta: Meta{Title: "充电站详情", Icon: "Location", Hidden: true}},
	{Path: "/chargers", Name: "Chargers", Meta: Meta{Title: "充电桩管理", Icon: "Monitor"}},
	{Path: "/chargers/:id", Name: "ChargerDetail", Meta: Meta{Title: "充电桩详情", Icon: "Monitor", Hidden: true}},
	{Path: "/orders", Name: "Orders", Meta: Meta{Title: "订单管理", Icon: "Document"}},
	{Path: "/orders/:id", Name: "OrderDetail", Meta: Meta{Title: "订单详情", Icon: "Document", Hidden: true}},
	{Path: "/orders/dashboard", Name: "OrderDashboard", Meta: Meta{Title: "订单统计", Icon: "DataAnalysis", Hidden: true}},
	{Path: "/billing-plans", Name: "BillingPlans", Meta: Meta{Title: "计费方案", Icon: "Coin"}},
	{Path: "/billing-plans/new", Name: "BillingPlanNew", Meta: Meta{Title: "新增计费方案", Icon: "Coin", Hidden: true}},
	{Path: "/billing-plans/:id/edit", Name: "BillingPlanEdit", Meta: Meta{Title: "编辑计费方案", Icon: "Coin", Hidden: true}},
	{Path: "/test", Name: "Test", Meta: Meta{Title: "认证测试", Icon: "Tools"}},
}

// Routes 路由表副本
func Routes() []Route {
	return append([]Route(nil), table...)
}

// Menu 侧边栏可见的页面
func Menu() []Route {
	var out []Route
	for _, r := range table {
		if r.Public || r.Redirect != "" || r.Meta.Hidden {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Match 路由匹配结果
type Match struct {
	Route  Route
	Params map[string]string
}

// Resolve 把路径匹配到路由，静态段优先于参数段
func Resolve(p string) (Match, bool) {
	segs := split(Clean(p))

	best, bestScore := -1, -1
	var bestParams map[string]string
	for i, r := range table {
		score, params, ok := matchRoute(split(r.Path), segs)
		if ok && score > bestScore {
			best, bestScore, bestParams = i, score, params
		}
	}
	if best < 0 {
		return Match{}, false
	}
	return Match{Route: table[best], Params: bestParams}, true
}

// matchRoute 返回命中的静态段数量
func matchRoute(pattern, segs []string) (int, map[string]string, bool) {
	if len(pattern) != len(segs) {
		return 0, nil, false
	}
	score := 0
	var params map[string]string
	for i, s := range pattern {
		if strings.HasPrefix(s, ":") {
			if segs[i] == "" {
				return 0, nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[s[1:]] = segs[i]
			continue
		}
		if s != segs[i] {
			return 0, nil, false
		}
		score++
	}
	return score, params, true
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Clean 规范化页面路径
func Clean(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}

// Decision 守卫结论
type Decision struct {
	Allow    bool
	Redirect string
}

// Guard 导航守卫：登录页之外的目标都要求存在令牌
// 令牌存在只是必要条件，权限由后端逐个请求判断
func Guard(to, token string) Decision {
	if Clean(to) == LoginPath {
		return Decision{Allow: true}
	}
	if token == "" {
		return Decision{Redirect: LoginPath}
	}
	return Decision{Allow: true}
}
