package utils

import (
	crand "crypto/rand"
	"encoding/hex"
	"hash/fnv"
	"math/rand"
)

// GenerateID создает короткий уникальный ID сессии (16 символов hex).
func GenerateID() string {
	b := make([]byte, 8)
	if _, err := crand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// StringToSeed превращает строку (токен сессии) в сид.
// Одинаковый токен даёт одинаковый энкаунтер.
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

// IntInRange возвращает целое в отрезке [min, max] включительно.
func IntInRange(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}

// FloatInRange возвращает число в полуинтервале [min, max).
func FloatInRange(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rng.Float64()*(max-min)
}
