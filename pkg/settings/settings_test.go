package settings

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s, err := Defaults()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8001/api", s.Client.BaseURL)
	assert.Equal(t, time.Duration(0), s.Client.Timeout)
	assert.Equal(t, ThemeAuto, s.Client.Theme)
	assert.Equal(t, ":8001", s.Server.Listen)
	assert.Equal(t, StoreMemory, s.Server.Store)
	assert.Equal(t, AnswererEcho, s.Server.Answerer)
	assert.NoError(t, s.Validate())
}

func TestLoadOverlaysViper(t *testing.T) {
	v := viper.New()
	v.Set("base-url", "http://study.example/api")
	v.Set("timeout", "5s")
	v.Set("theme", "dark")
	v.Set("store", "sqlite")
	v.Set("sqlite-path", "/tmp/x.db")

	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "http://study.example/api", s.Client.BaseURL)
	assert.Equal(t, 5*time.Second, s.Client.Timeout)
	assert.Equal(t, ThemeDark, s.Client.Theme)
	assert.Equal(t, StoreSQLite, s.Server.Store)
	assert.Equal(t, "/tmp/x.db", s.Server.SQLitePath)
	// untouched keys keep their defaults
	assert.Equal(t, "go-go-golems/scholar", s.Client.UserAgent)
	assert.Equal(t, AnswererEcho, s.Server.Answerer)
}

func TestLoadUnsetTimeoutFlagWaitsForever(t *testing.T) {
	flags := pflag.NewFlagSet("scholar", pflag.ContinueOnError)
	flags.Duration("timeout", 0, "")
	flags.String("user-agent", "", "")
	v := viper.New()
	require.NoError(t, v.BindPFlags(flags))

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), s.Client.Timeout)
	assert.Equal(t, "go-go-golems/scholar", s.Client.UserAgent)

	require.NoError(t, flags.Parse([]string{"--timeout", "90s"}))
	s, err = Load(v)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, s.Client.Timeout)
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	for key, value := range map[string]string{
		"theme":    "neon",
		"store":    "postgres",
		"answerer": "oracle",
		"base-url": "",
	} {
		v := viper.New()
		v.Set(key, value)
		_, err := Load(v)
		assert.Error(t, err, key)
	}
}

func TestLoadNilViper(t *testing.T) {
	s, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8001/api", s.Client.BaseURL)
}
