package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key holding a user's active session jti.
func (r *CacheKeyStruct) UserSessionKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// GradingChannel returns the Redis PubSub channel carrying grading events
// for one exam's submissions.
func (r *CacheKeyStruct) GradingChannel(examID string) string {
	return fmt.Sprintf("exam:%s:grading", examID)
}

var CacheKey = NewCacheKeyStruct()
