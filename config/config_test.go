package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/finmind/finmind-go/config"
)

func TestBaseConfigDefaults(t *testing.T) {
	cfg := &config.BaseConfig{}

	assert.Equal(t, ":3000", cfg.GetServer().GetAddr())
	assert.Equal(t, "http://localhost:8000", cfg.GetBaseURL())
	assert.Equal(t, "/login", cfg.GetLoginRoute())
	assert.Equal(t, "/dashboard", cfg.GetDefaultRoute())
	assert.Equal(t, "token", cfg.GetCredentialKey())
	assert.Equal(t, "rejected_route", cfg.GetSession().GetRejectedRouteKey())
	assert.Equal(t, "views", cfg.GetViews().GetDirFS())
	assert.Equal(t, 30*time.Second, cfg.GetGateway().GetTimeout())
	assert.Equal(t, "sqlite", cfg.GetPersistence().GetDriver())
}

func TestBaseConfigOverrides(t *testing.T) {
	cfg := &config.BaseConfig{
		Server:  &config.Server{Addr: ":8080"},
		Gateway: &config.Gateway{BaseURL: "https://api.internal", TimeoutExpression: "10s"},
		Session: &config.Session{LoginRoute: "/signin"},
	}

	assert.Equal(t, ":8080", cfg.GetServer().GetAddr())
	assert.Equal(t, "https://api.internal", cfg.GetBaseURL())
	assert.Equal(t, 10*time.Second, cfg.GetGateway().GetTimeout())
	assert.Equal(t, "/signin", cfg.GetLoginRoute())
}

func TestBaseConfigValidate(t *testing.T) {
	assert.NoError(t, (&config.BaseConfig{}).Validate())

	bad := &config.BaseConfig{
		Gateway: &config.Gateway{BaseURL: "::not a url::"},
	}
	assert.Error(t, bad.Validate())
}

func TestGatewayTimeoutPanicsOnBadExpression(t *testing.T) {
	g := &config.Gateway{TimeoutExpression: "not-a-duration"}
	assert.Panics(t, func() {
		g.GetTimeout()
	})
}
