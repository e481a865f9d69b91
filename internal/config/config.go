package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/planbiir/gpxding/internal/export"
	"github.com/planbiir/gpxding/internal/reduce"
)

// ErrHelp is returned by Load when -h/--help was given
var ErrHelp = pflag.ErrHelp

// Config holds all command line configuration
type Config struct {
	Digits      int     `mapstructure:"digits"`
	NoElevation bool    `mapstructure:"no-elevation"`
	Minimal     bool    `mapstructure:"minimal"`
	Nearby      float64 `mapstructure:"nearby"`
	Precision   float64 `mapstructure:"precision"`
	Quiet       bool    `mapstructure:"quiet"`
	Spike       float64 `mapstructure:"spike"`
	Split       bool    `mapstructure:"split"`

	Output      string `mapstructure:"output"`
	Format      string `mapstructure:"format"`
	StatsJSON   bool   `mapstructure:"stats-json"`
	Detailed    bool   `mapstructure:"stats"`
	MetricsFile string `mapstructure:"metrics-file"`
	LogLevel    string `mapstructure:"log-level"`
	LogFormat   string `mapstructure:"log-format"`
	Version     bool   `mapstructure:"version"`

	// Files are the positional arguments
	Files []string `mapstructure:"-"`
}

// NewFlagSet declares every flag with its default. The short options
// match the classic gpxding command line.
func NewFlagSet(name string, output io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.SortFlags = false

	defaults := reduce.DefaultConfig()

	fs.IntP("digits", "d", 5, "number of decimal digits for coordinates (1-9)")
	fs.BoolP("no-elevation", "e", false, "omit elevation info")
	fs.BoolP("minimal", "m", false, "use minimal <gpx> (not compatible with all apps/devices)")
	fs.Float64P("nearby", "n", defaults.NearbyMeters, "remove nearby points within this many meters (0-100, 0 disables)")
	fs.Float64P("precision", "p", defaults.EpsilonMeters, "precision in meters (0-100)")
	fs.BoolP("quiet", "q", false, "quiet")
	fs.Float64P("spike", "s", defaults.SpikeFactor, "remove spikes with this factor (0-10, 0 disables)")
	fs.BoolP("split", "t", false, "split gpx file into individual tracks")
	fs.StringP("output", "o", "", "output file (default: <input>_reduced.<ext>, single input only)")
	fs.StringP("format", "f", string(export.GPX), "output format: gpx, geojson or polyline")
	fs.Bool("stats", false, "show track lengths and leg distribution")
	fs.Bool("stats-json", false, "print statistics as JSON")
	fs.String("metrics-file", "", "write Prometheus metrics to this textfile")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.String("log-format", "text", "log format: text or json")
	fs.StringP("config", "c", "", "optional YAML config file")
	fs.Bool("version", false, "show version information")

	fs.Usage = func() {
		fmt.Fprintf(output, "gpxding - reduce the number of points in GPX tracks\n\n")
		fmt.Fprintf(output, "usage: %s [options] file.gpx [file.gpx ...]\n\n", name)
		fmt.Fprintf(output, "examples:\n")
		fmt.Fprintf(output, "  %s track.gpx\n", name)
		fmt.Fprintf(output, "  %s -p 5 -s 2 -n 3 \"My Activity.gpx\"\n", name)
		fmt.Fprintf(output, "  %s -f geojson -o ride.geojson ride.gpx\n\n", name)
		fmt.Fprintf(output, "options:\n")
		fs.PrintDefaults()
	}

	return fs
}

// PrintUsage writes the help text to w
func PrintUsage(w io.Writer) {
	NewFlagSet("gpxding", w).Usage()
}

// Load parses args, then layers the optional config file and GPXDING_*
// environment variables under any flags that were set explicitly.
func Load(args []string, output io.Writer) (*Config, error) {
	fs := NewFlagSet("gpxding", output)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// Environment variables: GPXDING_NO_ELEVATION → no-elevation
	v.SetEnvPrefix("GPXDING")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Files = fs.Args()

	if cfg.Version {
		return &cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every option against its range.
func (c *Config) Validate() error {
	var errs []string

	if c.Digits < 1 || c.Digits > 9 {
		errs = append(errs, fmt.Sprintf("digits must be 1-9, got %d", c.Digits))
	}
	if !(c.Nearby >= 0 && c.Nearby <= 100) {
		errs = append(errs, fmt.Sprintf("nearby must be 0-100 m, got %v", c.Nearby))
	}
	if !(c.Precision >= 0 && c.Precision <= 100) {
		errs = append(errs, fmt.Sprintf("precision must be 0-100 m, got %v", c.Precision))
	}
	if !(c.Spike >= 0 && c.Spike <= 10) {
		errs = append(errs, fmt.Sprintf("spike factor must be 0-10, got %v", c.Spike))
	}
	if _, err := export.ParseFormat(c.Format); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Output != "" && len(c.Files) > 1 {
		errs = append(errs, "output can only be set for a single input file")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", reduce.ErrInvalidParameter, strings.Join(errs, "\n  - "))
	}
	return nil
}

// ReduceConfig maps the options onto the pipeline configuration
func (c *Config) ReduceConfig() reduce.Config {
	return reduce.Config{
		SpikeFactor:   c.Spike,
		NearbyMeters:  c.Nearby,
		EpsilonMeters: c.Precision,
		Elevation:     !c.NoElevation,
	}
}

// OutputFormat returns the validated output format
func (c *Config) OutputFormat() export.Format {
	f, err := export.ParseFormat(c.Format)
	if err != nil {
		return export.GPX
	}
	return f
}

// IsHelp reports whether err came from -h/--help
func IsHelp(err error) bool {
	return errors.Is(err, ErrHelp)
}
