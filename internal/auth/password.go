package auth

import "golang.org/x/crypto/bcrypt"

func HashPassword(senha string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares in constant time via bcrypt.
func CheckPassword(senha, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(senha)) == nil
}
