package darkgraph

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// Series describes one chart: which element of the response feeds it and how
// long each bucket lasts.
type Series struct {
	ID            string `mapstructure:"id"`
	Name          string `mapstructure:"name"`
	Title         string `mapstructure:"title"`
	BucketSeconds int    `mapstructure:"bucket_seconds"`
}

// Config is everything the engine consumes from the outside.
type Config struct {
	URL         *url.URL
	Probe       bool
	Series      []Series
	Graph       Dimensions
	HTML        Dimensions
	Interval    time.Duration
	Timeout     time.Duration
	StrictOrder bool
	Layout      string
	LogFile     string
	LogLevel    string
	MetricsAddr string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("probe", false)
	v.SetDefault("graph.width", GRAPH_WIDTH)
	v.SetDefault("graph.height", GRAPH_HEIGHT)
	v.SetDefault("graph.bar_gap", BAR_GAP)
	v.SetDefault("html.width", HTML_GRAPH_WIDTH)
	v.SetDefault("html.height", HTML_GRAPH_HEIGHT)
	v.SetDefault("html.bar_gap", HTML_BAR_GAP)
	v.SetDefault("poll.interval", ReloadDuration())
	v.SetDefault("poll.timeout", time.Duration(0))
	v.SetDefault("poll.strict_order", false)
	v.SetDefault("ui.layout", "grid")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("metrics.listen", "")
}

// LoadConfig reads and validates the configuration held by v.
func LoadConfig(v *viper.Viper) (*Config, error) {
	raw := v.GetString("url")
	if raw == "" {
		raw = DEFAULT_URL
	}
	// a bare host is enough when probing, variants get their scheme later
	if v.GetBool("probe") && !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid url %q: scheme and host required", raw)
	}

	c := &Config{
		URL:         u,
		Probe:       v.GetBool("probe"),
		Interval:    v.GetDuration("poll.interval"),
		Timeout:     v.GetDuration("poll.timeout"),
		StrictOrder: v.GetBool("poll.strict_order"),
		Layout:      v.GetString("ui.layout"),
		LogFile:     v.GetString("log.file"),
		LogLevel:    v.GetString("log.level"),
		MetricsAddr: v.GetString("metrics.listen"),
	}
	c.Graph = dimensionsOf(v, "graph")
	c.HTML = dimensionsOf(v, "html")
	if v.IsSet("series") {
		if err := v.UnmarshalKey("series", &c.Series); err != nil {
			return nil, fmt.Errorf("invalid series list: %w", err)
		}
	} else {
		c.Series = DefaultSeries()
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// dimensionsOf reads the width/height/bar_gap triple under prefix key by key,
// so environment overrides of a single field are honoured.
func dimensionsOf(v *viper.Viper, prefix string) Dimensions {
	return Dimensions{
		Width:  v.GetInt(prefix + ".width"),
		Height: v.GetInt(prefix + ".height"),
		Gap:    v.GetInt(prefix + ".bar_gap"),
	}
}

// Validate checks the invariants the renderer relies on.
func (c *Config) Validate() error {
	var err error
	for _, d := range []struct {
		name string
		dims Dimensions
	}{{"graph", c.Graph}, {"html", c.HTML}} {
		if d.dims.Width <= 0 || d.dims.Height <= 0 {
			err = multierr.Append(err, fmt.Errorf("%s: width and height must be positive", d.name))
		}
		if d.dims.Gap < 0 {
			err = multierr.Append(err, fmt.Errorf("%s: bar_gap must not be negative", d.name))
		}
	}
	if c.Interval <= 0 {
		err = multierr.Append(err, errors.New("poll.interval must be positive"))
	}
	if c.Timeout < 0 {
		err = multierr.Append(err, errors.New("poll.timeout must not be negative"))
	}
	if c.Layout != "grid" && c.Layout != "tabs" {
		err = multierr.Append(err, fmt.Errorf("ui.layout must be grid or tabs, got %q", c.Layout))
	}
	if len(c.Series) == 0 {
		err = multierr.Append(err, errors.New("at least one series is required"))
	}
	seen := make(map[string]bool)
	for i, s := range c.Series {
		if s.Name == "" {
			err = multierr.Append(err, fmt.Errorf("series %d: name is required", i))
			continue
		}
		if seen[s.Name] {
			err = multierr.Append(err, fmt.Errorf("series %q listed twice", s.Name))
		}
		seen[s.Name] = true
		if s.BucketSeconds <= 0 {
			err = multierr.Append(err, fmt.Errorf("series %q: bucket_seconds must be positive", s.Name))
		}
	}
	return err
}
