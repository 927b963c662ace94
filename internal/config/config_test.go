package config

import (
	"testing"
	"time"

	"github.com/fjod/go_cart/cart-recovery-service/internal/decision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 30*time.Second, cfg.PollInterval)
				assert.Equal(t, 60*time.Second, cfg.InactivityThreshold)
				assert.Equal(t, "42,43,44", cfg.CandidateUsers)
				assert.Equal(t, "localhost:7070", cfg.CartServiceAddr)
				assert.Equal(t, "localhost:3550", cfg.CatalogServiceAddr)
				assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
				assert.Equal(t, "log", cfg.DeliveryChannel)
				assert.Equal(t, ":8090", cfg.HTTPAddr)
				assert.Equal(t, decision.DefaultSendRule, cfg.SendRule())
				assert.Equal(t, decision.DefaultPercentRule, cfg.PercentRule())
				assert.False(t, cfg.UsesMongo())
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"POLL_INTERVAL":      "5s",
				"CANDIDATE_SOURCE":   "mongo",
				"KAFKA_BROKERS":      "k1:9092,k2:9092",
				"DELIVERY_RATE":      "2.5",
				"DECISION_SEND_RULE": "cart_value > 1.0",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5*time.Second, cfg.PollInterval)
				assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
				assert.Equal(t, 2.5, cfg.DeliveryRate)
				assert.Equal(t, "cart_value > 1.0", cfg.SendRule())
				assert.True(t, cfg.UsesMongo())
			},
		},
		{
			name:  "flags override env",
			env:   map[string]string{"HTTP_ADDR": ":9000", "POLL_INTERVAL": "5s"},
			flags: []string{"-a", ":7777", "-u", "1,2"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":7777", cfg.HTTPAddr)
				assert.Equal(t, "1,2", cfg.CandidateUsers)
				assert.Equal(t, 5*time.Second, cfg.PollInterval)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.flags, tt.env)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown channel", map[string]string{"DELIVERY_CHANNEL": "pigeon"}, "DELIVERY_CHANNEL"},
		{"resend without key", map[string]string{"DELIVERY_CHANNEL": "resend"}, "RESEND_API_KEY"},
		{"remote without url", map[string]string{"DECISION_STRATEGY": "remote"}, "DECISION_MODEL_URL"},
		{"zero interval", map[string]string{"POLL_INTERVAL": "0s"}, "POLL_INTERVAL"},
		{"zero request timeout", map[string]string{"REQUEST_TIMEOUT": "0s"}, "REQUEST_TIMEOUT"},
		{"zero decision timeout", map[string]string{"DECISION_TIMEOUT": "0s"}, "DECISION_TIMEOUT"},
		{"negative shutdown timeout", map[string]string{"SHUTDOWN_TIMEOUT": "-1s"}, "SHUTDOWN_TIMEOUT"},
		{"bad duration", map[string]string{"POLL_INTERVAL": "soon"}, "parse env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(nil, tt.env)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_UnknownFlag(t *testing.T) {
	_, err := Load([]string{"-zzz"}, map[string]string{})
	assert.Error(t, err)
}

func TestLoad_ZeroTimeoutsReportedTogether(t *testing.T) {
	_, err := Load(nil, map[string]string{"REQUEST_TIMEOUT": "0s", "DECISION_TIMEOUT": "0s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")
	assert.Contains(t, err.Error(), "DECISION_TIMEOUT")
}
