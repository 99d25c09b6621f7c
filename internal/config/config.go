package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/smart-doorbell/internal/logger"
)

// Config holds the doorbell runtime settings.
type Config struct {
	// DecisionTimeout is how long a ring waits for accept or reject.
	DecisionTimeout time.Duration `yaml:"decision_timeout"`
	// RevertDelay is how long a denial message stays before the display shows "locked" again.
	RevertDelay time.Duration `yaml:"revert_delay"`
	// ClockInterval is the refresh period of the clock label.
	ClockInterval time.Duration `yaml:"clock_interval"`
	// Camera configures the video frame feed.
	Camera Camera `yaml:"camera"`
	// LogLevel is the minimum level written to the log.
	LogLevel string `yaml:"log_level"`
	// LogFile is an optional file receiving log lines in addition to the window's event log.
	LogFile string `yaml:"log_file,omitempty"`
	// SingleInstance refuses to start while another doorbell process holds the camera.
	SingleInstance bool `yaml:"single_instance"`
}

// Camera holds the frame source settings.
type Camera struct {
	// Source selects the frame source: "synthetic" or "images".
	Source string `yaml:"source"`
	// Path is the image directory for the "images" source.
	Path string `yaml:"path,omitempty"`
	// Width is the frame width in pixels.
	Width int `yaml:"width"`
	// Height is the frame height in pixels.
	Height int `yaml:"height"`
	// PollInterval is how often the feed pulls a frame from the source.
	PollInterval time.Duration `yaml:"poll_interval"`
}

const (
	// DefaultConfigFilename is the default filename for doorbell settings.
	DefaultConfigFilename = "doorbell-settings.yaml"

	// DefaultDecisionTimeout is the default decision window.
	DefaultDecisionTimeout = 30 * time.Second

	// DefaultRevertDelay is the default delay before a denial message reverts to "locked".
	DefaultRevertDelay = 10 * time.Second

	// DefaultClockInterval is the default clock refresh period.
	DefaultClockInterval = time.Second

	// DefaultPollInterval is the default frame polling period.
	DefaultPollInterval = 10 * time.Millisecond

	// DefaultFrameWidth is the default frame width.
	DefaultFrameWidth = 64

	// DefaultFrameHeight is the default frame height.
	DefaultFrameHeight = 36

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// SourceSynthetic selects the generated test pattern.
	SourceSynthetic = "synthetic"

	// SourceImages selects a looping directory of images.
	SourceImages = "images"

	// DefaultFilePermissions is the default file permission for settings files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownSource is returned for an unsupported camera source.
	errUnknownSource = errors.New("unknown camera source")
	// errImagePathRequired is returned when the images source has no directory.
	errImagePathRequired = errors.New("camera path must be provided for the images source")
	// errBadDimensions is returned for non-positive frame dimensions.
	errBadDimensions = errors.New("camera width and height must be positive")
	// errBadLogLevel is returned for an unparsable log level.
	errBadLogLevel = errors.New("unknown log level")
)

// Default returns settings populated with defaults.
func Default() *Config {
	cfg := new(Config)
	cfg.SingleInstance = true

	// Defaults never fail validation.
	_ = Validate(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates it.
// An empty path means the default filename; a missing default file yields Default().
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults for zero values and checks the remaining fields.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	if settings.DecisionTimeout <= 0 {
		settings.DecisionTimeout = DefaultDecisionTimeout
	}

	if settings.RevertDelay <= 0 {
		settings.RevertDelay = DefaultRevertDelay
	}

	if settings.ClockInterval <= 0 {
		settings.ClockInterval = DefaultClockInterval
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(settings.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errBadLogLevel, settings.LogLevel)
	}

	return validateCamera(&settings.Camera)
}

func validateCamera(camera *Camera) error {
	if camera.Source == "" {
		camera.Source = SourceSynthetic
	}

	if camera.PollInterval <= 0 {
		camera.PollInterval = DefaultPollInterval
	}

	if camera.Width == 0 && camera.Height == 0 {
		camera.Width, camera.Height = DefaultFrameWidth, DefaultFrameHeight
	}

	if camera.Width <= 0 || camera.Height <= 0 {
		return errBadDimensions
	}

	switch camera.Source {
	case SourceSynthetic:
		return nil
	case SourceImages:
		if camera.Path == "" {
			return errImagePathRequired
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownSource, camera.Source)
	}
}
