package common

import (
	"fmt"
	"strconv"
)

const (
	DBTypeFile   = "file"
	DBTypePure   = "pure"
	DBTypeMemory = "memory"

	DefaultDBPath       = "controller.db"
	DefaultHttpHostPort = ":1080"
	DefaultAdminRate    = 1.0
	DefaultAdminBurst   = 5
)

// Config is the process configuration read from the environment.
type Config struct {
	DBType       string
	DBPath       string
	HttpHostPort string
	GrpcHostPort string
	AdminRate    float64
	AdminBurst   int
}

func LoadConfig() (Config, error) {
	cfg := Config{
		DBType:       EnvOrDefault(EnvKeyHCDBType, DBTypeFile),
		DBPath:       EnvOrDefault(EnvKeyHCDbPath, DefaultDBPath),
		HttpHostPort: EnvOrDefault(EnvKeyHCHttpHostPort, DefaultHttpHostPort),
		GrpcHostPort: EnvOrDefault(EnvKeyHCGrpcHostPort, ""),
		AdminRate:    DefaultAdminRate,
		AdminBurst:   DefaultAdminBurst,
	}

	switch cfg.DBType {
	case DBTypeFile, DBTypePure, DBTypeMemory:
	default:
		return cfg, fmt.Errorf("unknown %s: %q", EnvKeyHCDBType, cfg.DBType)
	}

	if raw := EnvOrDefault(EnvKeyHCAdminRate, ""); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r <= 0 {
			return cfg, fmt.Errorf("invalid %s %q, should be a positive float64 value", EnvKeyHCAdminRate, raw)
		}
		cfg.AdminRate = r
	}

	if raw := EnvOrDefault(EnvKeyHCAdminBurst, ""); raw != "" {
		b, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || b <= 0 {
			return cfg, fmt.Errorf("invalid %s %q, should be a positive int value", EnvKeyHCAdminBurst, raw)
		}
		cfg.AdminBurst = int(b)
	}

	return cfg, nil
}
