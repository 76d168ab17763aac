package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the overlay daemon
type Config struct {
	// Server configuration
	Port int `envconfig:"PORT" default:"10001"`

	// Sensing process connection
	GazeStreamURL        string        `envconfig:"GAZE_STREAM_URL" default:"ws://localhost:8765"`
	ReconnectDelay       time.Duration `envconfig:"RECONNECT_DELAY" default:"3s"`
	MaxReconnectAttempts int           `envconfig:"MAX_RECONNECT_ATTEMPTS" default:"5"`

	// Host page. DEVTOOLS_URL wins over following the Chromium log. HEADLESS
	// runs the controller against an in-memory page with no browser attached.
	DevToolsURL     string `envconfig:"DEVTOOLS_URL"`
	ChromiumLogPath string `envconfig:"CHROMIUM_LOG_PATH" default:"/var/log/supervisord/chromium"`
	Headless        bool   `envconfig:"HEADLESS" default:"false"`

	// Empty keeps settings in memory for the lifetime of the process.
	SettingsDBPath string `envconfig:"SETTINGS_DB_PATH" default:"gaze-overlay.db"`

	// Click resolution
	BlinkDebounce  time.Duration `envconfig:"BLINK_DEBOUNCE" default:"1200ms"`
	ProbeOffset    float64       `envconfig:"PROBE_OFFSET" default:"15"`
	ProbeDiagonal  float64       `envconfig:"PROBE_DIAGONAL" default:"10"`
	VocabularyFile string        `envconfig:"VOCABULARY_FILE"`

	// Pointer projection
	CalibrationOffsetX float64       `envconfig:"CALIBRATION_OFFSET_X" default:"0.02"`
	CalibrationOffsetY float64       `envconfig:"CALIBRATION_OFFSET_Y" default:"0.05"`
	StatusAutoHide     time.Duration `envconfig:"STATUS_AUTO_HIDE" default:"3s"`
	ScrollStep         float64       `envconfig:"SCROLL_STEP" default:"300"`

	// OS cursor mirroring through xdotool
	XdotoolMirror bool    `envconfig:"XDOTOOL_MIRROR" default:"false"`
	DisplayNum    int     `envconfig:"DISPLAY_NUM" default:"1"`
	MirrorOffsetX int     `envconfig:"MIRROR_OFFSET_X" default:"0"`
	MirrorOffsetY int     `envconfig:"MIRROR_OFFSET_Y" default:"0"`
	MirrorScale   float64 `envconfig:"MIRROR_SCALE" default:"1"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, err
	}
	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validate(config *Config) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	u, err := url.Parse(config.GazeStreamURL)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		return fmt.Errorf("GAZE_STREAM_URL must be a ws:// or wss:// URL")
	}
	if config.ReconnectDelay <= 0 {
		return fmt.Errorf("RECONNECT_DELAY must be greater than 0")
	}
	if config.MaxReconnectAttempts < 1 {
		return fmt.Errorf("MAX_RECONNECT_ATTEMPTS must be at least 1")
	}
	if !config.Headless && config.DevToolsURL == "" && config.ChromiumLogPath == "" {
		return fmt.Errorf("DEVTOOLS_URL or CHROMIUM_LOG_PATH is required unless HEADLESS is set")
	}
	if config.BlinkDebounce <= 0 {
		return fmt.Errorf("BLINK_DEBOUNCE must be greater than 0")
	}
	if config.ProbeOffset <= 0 || config.ProbeDiagonal <= 0 {
		return fmt.Errorf("PROBE_OFFSET and PROBE_DIAGONAL must be greater than 0")
	}
	if config.CalibrationOffsetX < 0 || config.CalibrationOffsetX >= 0.5 {
		return fmt.Errorf("CALIBRATION_OFFSET_X must be in [0, 0.5)")
	}
	if config.CalibrationOffsetY < 0 || config.CalibrationOffsetY >= 0.5 {
		return fmt.Errorf("CALIBRATION_OFFSET_Y must be in [0, 0.5)")
	}
	if config.StatusAutoHide <= 0 {
		return fmt.Errorf("STATUS_AUTO_HIDE must be greater than 0")
	}
	if config.ScrollStep <= 0 {
		return fmt.Errorf("SCROLL_STEP must be greater than 0")
	}
	if config.DisplayNum < 0 {
		return fmt.Errorf("DISPLAY_NUM must be greater than 0")
	}
	if config.MirrorScale <= 0 {
		return fmt.Errorf("MIRROR_SCALE must be greater than 0")
	}

	return nil
}
