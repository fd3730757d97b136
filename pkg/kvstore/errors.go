package kvstore

import "errors"

var (
	ErrEmptyKey          = errors.New("empty key")
	ErrHealthcheckFailed = errors.New("kv store healthcheck failed")
)
