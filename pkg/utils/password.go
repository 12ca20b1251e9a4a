package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword 生成 auth.users 里用的 bcrypt 哈希；超过 72 字节的密码直接拒绝，不做截断
func HashPassword(pw string) (string, error) {
	if pw == "" {
		return "", fmt.Errorf("hash password: empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// CheckPassword 哈希格式不对也当作不匹配
func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
