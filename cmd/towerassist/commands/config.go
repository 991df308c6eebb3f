package commands

import (
	"errors"
	"fmt"
	"os"
	"towerassist/internal/overtime"
	"towerassist/internal/report"
	"towerassist/internal/tower"
	"towerassist/lib/configutil"
)

type Config struct {
	BaseUrl       string `json:"base_url"`
	Host          string `json:"host"`
	UserAgent     string `json:"user_agent"`
	SessionCookie string `json:"session_cookie"`

	// CookieDb is the path to a Firefox cookies.sqlite, it is searched for
	// in the home directory when empty.
	CookieDb     string `json:"cookie_db"`
	CookieDomain string `json:"cookie_domain"`
	// TeamGuid and RememberToken skip the cookie database when both are set.
	TeamGuid      string `json:"team_guid"`
	RememberToken string `json:"remember_token"`

	Timezone          string `json:"timezone"`
	OvertimeStartHour int    `json:"overtime_start_hour"`
	OvertimeTitle     string `json:"overtime_title"`
	Placeholder       string `json:"placeholder"`
	NoConfirm         bool   `json:"no_confirm"`

	RequestsPerSecond float64 `json:"requests_per_second"`
	// HttpDumpDir receives every http exchange when running verbosely.
	HttpDumpDir string `json:"http_dump_dir"`
}

func defaultConfig() Config {
	return Config{
		BaseUrl:           tower.DefaultBaseUrl,
		UserAgent:         tower.DefaultUserAgent,
		SessionCookie:     tower.DefaultSessionCookie,
		CookieDomain:      "tower.im",
		OvertimeStartHour: overtime.DefaultStartHour,
		OvertimeTitle:     overtime.DefaultTitle,
		Placeholder:       report.DefaultPlaceholder,
		RequestsPerSecond: 2,
	}
}

// loadConfig reads the config file, a missing file leaves the defaults.
func loadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadConfig(path, defaultConfig())
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if cfg.OvertimeStartHour < 0 || cfg.OvertimeStartHour > 23 {
		return Config{}, fmt.Errorf("read config %s: overtime_start_hour %d is not an hour", path, cfg.OvertimeStartHour)
	}
	return cfg, nil
}
