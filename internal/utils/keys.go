package utils

import "golang.org/x/crypto/bcrypt"

// HashAgentKey returns the bcrypt hash of an agent API key using the
// given cost. Only the hash is stored in pms_instances.
func HashAgentKey(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyAgentKey safely compares a stored bcrypt hash and a presented key.
func VerifyAgentKey(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
