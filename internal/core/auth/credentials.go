package auth

import (
	"strings"

	"user-directory-api/pkg/utils"
)

// Credentials 用户名(小写) -> bcrypt 哈希。为空时不做密码校验（开发模式）
type Credentials map[string]string

// NewCredentials 用户名统一转小写（viper 读出的 key 本身就是小写）
func NewCredentials(users map[string]string) Credentials {
	c := make(Credentials, len(users))
	for u, h := range users {
		c[strings.ToLower(strings.TrimSpace(u))] = h
	}
	return c
}

func (c Credentials) Open() bool { return len(c) == 0 }

func (c Credentials) Verify(username, password string) bool {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return false
	}
	if c.Open() {
		return true
	}
	hash, ok := c[username]
	if !ok {
		return false
	}
	return utils.CheckPassword(password, hash)
}
