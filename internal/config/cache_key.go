package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the Redis key holding the active JWT JTI for a user.
func (r *CacheKeyStruct) UserSessionKey(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

var CacheKey = NewCacheKeyStruct()
