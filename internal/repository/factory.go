package repository

import "log"

// NewStateStore picks the blob-store backend by name. The engines only ever
// see StateRepositoryI, so swapping backends is a config change.
func NewStateStore(backend string, pgCfg DBConfig, redisAddr, redisPassword string) StateRepositoryI {
	switch backend {
	case "", "postgres":
		return NewStateRepo(pgCfg)
	case "redis":
		return NewRedisStateRepo(redisAddr, redisPassword)
	default:
		log.Fatal("unknown state store backend: " + backend)
		return nil
	}
}
