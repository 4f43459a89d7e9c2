// Package jwt 解析后端签发的访问令牌
package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 后端访问令牌声明
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	TenantID int64  `json:"tenantId"`
	jwt.RegisteredClaims
}

// Config 解析配置
type Config struct {
	Secret string // 为空时只读取声明，不校验签名
	Issuer string
}

// Inspector 令牌解析器
type Inspector struct {
	config *Config
	parser *jwt.Parser
}

// 预定义错误
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenNotActive = errors.New("token not active yet")
)

// NewInspector 创建令牌解析器
func NewInspector(config *Config) *Inspector {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(config.Issuer))
	}
	return &Inspector{
		config: config,
		parser: jwt.NewParser(opts...),
	}
}

// Verifies 是否校验签名
func (i *Inspector) Verifies() bool {
	return i.config.Secret != ""
}

// Parse 解析令牌
func (i *Inspector) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if !i.Verifies() {
		if _, _, err := i.parser.ParseUnverified(tokenString, claims); err != nil {
			return nil, ErrTokenMalformed
		}
		if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
			return nil, ErrTokenExpired
		}
		return claims, nil
	}

	token, err := i.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(i.config.Secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotActive
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Inspect 读取租户与用户 ID，签名符合 evcs.TokenInspector
func (i *Inspector) Inspect(tokenString string) (tenantID, userID string, ok bool) {
	claims, err := i.Parse(tokenString)
	if err != nil {
		return "", "", false
	}
	if claims.TenantID != 0 {
		tenantID = strconv.FormatInt(claims.TenantID, 10)
	}
	if claims.UserID != 0 {
		userID = strconv.FormatInt(claims.UserID, 10)
	}
	return tenantID, userID, tenantID != "" || userID != ""
}

// TTL 令牌剩余有效期，无过期时间时返回 0
func (c *Claims) TTL(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
