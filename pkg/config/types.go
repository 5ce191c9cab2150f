package config

// Mode constants select which components run in this process.
const (
	ModeServer   = "server"
	ModeReporter = "reporter"
	ModeBoth     = "both"
)

// Config is the root configuration structure
type Config struct {
	Mode     string         `yaml:"mode" default:"both" validate:"required"`
	Server   ServerConfig   `yaml:"server"`
	Reporter ReporterConfig `yaml:"reporter"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the aggregation server component
type ServerConfig struct {
	HTTP HTTPConfig `yaml:"http"`
}

// HTTPConfig configures the HTTP server
type HTTPConfig struct {
	Addr string `yaml:"addr" default:":8080" validate:"required"`
}

// ReporterConfig configures the reporter node component
type ReporterConfig struct {
	// ID identifies this node in submissions and liveness tracking.
	ID string `yaml:"id" default:"reporter-1" validate:"required"`
	// Schedule is a cron expression with a seconds field. The default fires
	// at the top of every minute, right after a bucket closes.
	Schedule string `yaml:"schedule" default:"0 * * * * *" validate:"required"`
	// Source selects the external market data endpoint.
	Source SourceConfig `yaml:"source"`
	// SubmitURL is the aggregation server to submit to. Ignored in mode
	// "both", where submissions go directly to the in-process engine.
	SubmitURL string `yaml:"submit_url" validate:"omitempty,url"`
}

// SourceConfig configures the market data source
type SourceConfig struct {
	APIURL string `yaml:"api_url" default:"https://api.binance.com" validate:"required,url"`
	Symbol string `yaml:"symbol" default:"BTCUSDT" validate:"required"`
}

// MetricsConfig configures the Prometheus metrics endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr" default:":9091"`
}

// LoggingConfig configures logging output
type LoggingConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" default:"json" validate:"oneof=json text"`
	Output string `yaml:"output" default:"stdout"`
}
