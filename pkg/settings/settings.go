// Package settings holds the client and server configuration. Defaults come
// from the embedded default-settings.yaml and are overridden by viper (config
// file, SCHOLAR_* environment variables and bound flags).
package settings

import (
	_ "embed"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed "default-settings.yaml"
var defaultSettingsYAML []byte

type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type StoreKind string

const (
	StoreMemory StoreKind = "memory"
	StoreSQLite StoreKind = "sqlite"
)

type AnswererKind string

const (
	AnswererEcho   AnswererKind = "echo"
	AnswererOpenAI AnswererKind = "openai"
)

type ClientSettings struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"-"`
	UserAgent string        `yaml:"user_agent"`
	Theme     Theme         `yaml:"theme"`
	// Transcript is a file receiving every appended message as a JSON line.
	Transcript string `yaml:"transcript"`
}

// UnmarshalYAML reads timeout as whole seconds.
func (cs *ClientSettings) UnmarshalYAML(value *yaml.Node) error {
	aux := struct {
		BaseURL    string `yaml:"base_url"`
		Timeout    *int   `yaml:"timeout,omitempty"`
		UserAgent  string `yaml:"user_agent"`
		Theme      Theme  `yaml:"theme"`
		Transcript string `yaml:"transcript"`
	}{}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	cs.BaseURL = aux.BaseURL
	cs.UserAgent = aux.UserAgent
	cs.Theme = aux.Theme
	cs.Transcript = aux.Transcript
	if aux.Timeout != nil {
		cs.Timeout = time.Duration(*aux.Timeout) * time.Second
	}
	return nil
}

type ServerSettings struct {
	Listen        string       `yaml:"listen"`
	Store         StoreKind    `yaml:"store"`
	SQLitePath    string       `yaml:"sqlite_path"`
	Answerer      AnswererKind `yaml:"answerer"`
	OpenAIAPIKey  string       `yaml:"openai_api_key"`
	OpenAIBaseURL string       `yaml:"openai_base_url"`
}

type Settings struct {
	Client ClientSettings `yaml:"client"`
	Server ServerSettings `yaml:"server"`
}

// Defaults parses the embedded default settings.
func Defaults() (*Settings, error) {
	ret := &Settings{}
	if err := yaml.Unmarshal(defaultSettingsYAML, ret); err != nil {
		return nil, errors.Wrap(err, "could not parse default settings")
	}
	return ret, nil
}

// Load returns the defaults overlaid with every key set in v. Keys are the
// flag names: base-url, timeout, user-agent, theme, transcript, listen,
// store, sqlite-path, answerer, openai-api-key, openai-base-url.
func Load(v *viper.Viper) (*Settings, error) {
	ret, err := Defaults()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return ret, ret.Validate()
	}

	setString(v, "base-url", &ret.Client.BaseURL)
	setString(v, "user-agent", &ret.Client.UserAgent)
	setString(v, "transcript", &ret.Client.Transcript)
	if v.IsSet("theme") {
		ret.Client.Theme = Theme(v.GetString("theme"))
	}
	if v.IsSet("timeout") {
		ret.Client.Timeout = v.GetDuration("timeout")
	}

	setString(v, "listen", &ret.Server.Listen)
	setString(v, "sqlite-path", &ret.Server.SQLitePath)
	setString(v, "openai-api-key", &ret.Server.OpenAIAPIKey)
	setString(v, "openai-base-url", &ret.Server.OpenAIBaseURL)
	if v.IsSet("store") {
		ret.Server.Store = StoreKind(v.GetString("store"))
	}
	if v.IsSet("answerer") {
		ret.Server.Answerer = AnswererKind(v.GetString("answerer"))
	}

	return ret, ret.Validate()
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func (s *Settings) Validate() error {
	if s.Client.BaseURL == "" {
		return errors.New("base-url must not be empty")
	}
	if s.Client.Timeout < 0 {
		return errors.Errorf("invalid timeout %s", s.Client.Timeout)
	}
	switch s.Client.Theme {
	case ThemeAuto, ThemeDark, ThemeLight:
	default:
		return errors.Errorf("unknown theme %q", s.Client.Theme)
	}
	switch s.Server.Store {
	case StoreMemory, StoreSQLite:
	default:
		return errors.Errorf("unknown store %q", s.Server.Store)
	}
	switch s.Server.Answerer {
	case AnswererEcho, AnswererOpenAI:
	default:
		return errors.Errorf("unknown answerer %q", s.Server.Answerer)
	}
	return nil
}
