package utils

import (
	"crypto/rand"
	"math/big"
)

const codeCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandomCode returns n characters drawn from lower-case letters and digits.
func RandomCode(n int) string {
	code := make([]byte, n)
	max := big.NewInt(int64(len(codeCharset)))
	for i := range code {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		code[i] = codeCharset[idx.Int64()]
	}
	return string(code)
}

func TaskCode() string {
	return "task-" + RandomCode(3)
}

func InviteCode() string {
	return RandomCode(8)
}
