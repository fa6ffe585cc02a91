// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package env identifies the runtime environment. It is read once at
// startup from S3BRIDGE_ENV (or the ENV config key) and defaults to local.
package env

import (
	"os"

	"github.com/spf13/viper"
)

const (
	Local      = "local"
	Production = "production"
	Testing    = "testing"
)

var Env string

func IsLocal() bool {
	return Env == Local
}

func IsProduction() bool {
	return Env == Production
}

func IsTesting() bool {
	return Env == Testing
}

func init() {
	Env = viper.GetString("ENV")
	if Env == "" {
		Env = os.Getenv("S3BRIDGE_ENV")
	}
	if Env == "" {
		Env = Local
	}
}
