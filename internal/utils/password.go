package utils

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes bcrypt 只接受 72 字节以内的密码
const MaxPasswordBytes = 72

// PasswordFits reports whether bcrypt can hash password.
func PasswordFits(password string) bool {
	return len(password) <= MaxPasswordBytes
}

// HashPassword 生成 bcrypt 哈希
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash 校验密码
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
