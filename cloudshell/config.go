package cloudshell

import (
	"fmt"
	"time"

	"github.com/qualisystems/cloudshell-rest-go/logger"
	"github.com/qualisystems/cloudshell-rest-go/resilience"
	"github.com/qualisystems/cloudshell-rest-go/validation"
)

const (
	// DefaultPort is the packaging API port on a standard installation.
	DefaultPort = 9000
	// DefaultDomain is the CloudShell domain used when none is given.
	DefaultDomain = "Global"
)

// Config holds the connection parameters for a CloudShell server.
// The client reads nothing else: no environment variables, no files.
// Use the config package to fill this struct from YAML/.env if desired.
type Config struct {
	// Host is the CloudShell server host name or address.
	Host string `yaml:"host" mapstructure:"host" validate:"required"`

	// Port is the packaging API port. Defaults to 9000.
	Port int `yaml:"port" mapstructure:"port" validate:"gte=1,lte=65535"`

	// Username and Password are the login credentials.
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`

	// Domain is the CloudShell domain. Defaults to "Global".
	Domain string `yaml:"domain" mapstructure:"domain"`

	// Scheme selects http or https. Defaults to http.
	Scheme string `yaml:"scheme" mapstructure:"scheme" validate:"oneof=http https"`

	// Timeout is the per-request timeout. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Retry enables retry with backoff for transport failures and 5xx
	// responses. Nil (the default) means exactly one attempt per call.
	Retry *resilience.RetryConfig `yaml:"-" mapstructure:"-"`

	// Logger receives structured debug logs for every call. Nil means silent.
	Logger *logger.Logger `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Domain == "" {
		c.Domain = DefaultDomain
	}
	if c.Scheme == "" {
		c.Scheme = "http"
	}
}

// Validate checks that the configuration is valid. Call after ApplyDefaults.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// apiURL returns the base URL of the packaging API.
func (c *Config) apiURL() string {
	return fmt.Sprintf("%s://%s:%d/Api", c.Scheme, c.Host, c.Port)
}
