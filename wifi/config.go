package wifi

// Security is the access point's password security mode. It is accepted
// as configuration for completeness but does not currently select an
// auth command variant; the join command is the same for all modes.
type Security int

const (
	SecurityOpen Security = iota
	SecurityWEP
	SecurityWPAPSK
	SecurityWPA2PSK
	SecurityWPAWPA2PSK
)

// Config carries everything a Driver needs at construction time.
type Config struct {
	// Dialer opens the serial transport. Required.
	Dialer Dialer
	// SSID is the access point name. Required.
	SSID string
	// Password is the access point password. Empty for open networks.
	Password string
	// Security is the access point security mode. Recorded, not acted on.
	Security Security
	// ResponseBufferSize is the capacity of the driver-owned response
	// buffer. A transaction whose formatted request or declared
	// Content-Length exceeds it fails. Defaults to MaxPacketSize.
	ResponseBufferSize int
	// Settings is the serial line configuration applied once at
	// construction. Zero value means DefaultSettings.
	Settings Settings
}

func (c *Config) setDefaults() {
	if c.ResponseBufferSize == 0 {
		c.ResponseBufferSize = MaxPacketSize
	}
	if c.Settings == (Settings{}) {
		c.Settings = DefaultSettings()
	}
}

func (c *Config) validate() error {
	if c.Dialer == nil {
		return ErrNoDialer
	}
	if c.SSID == "" {
		return ErrNoCredentials
	}
	return nil
}

// ConfigBuilder assembles a Config fluently and validates it on Build.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder returns a builder preloaded with defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.config.Dialer = d
	return b
}

func (b *ConfigBuilder) WithAccessPoint(ssid, password string) *ConfigBuilder {
	b.config.SSID = ssid
	b.config.Password = password
	return b
}

func (b *ConfigBuilder) WithSecurity(s Security) *ConfigBuilder {
	b.config.Security = s
	return b
}

func (b *ConfigBuilder) WithResponseBufferSize(n int) *ConfigBuilder {
	b.config.ResponseBufferSize = n
	return b
}

func (b *ConfigBuilder) WithSettings(s Settings) *ConfigBuilder {
	b.config.Settings = s
	return b
}

// Build applies defaults and validates the assembled Config.
func (b *ConfigBuilder) Build() (Config, error) {
	config := b.config
	config.setDefaults()
	if err := config.validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}
