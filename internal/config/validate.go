package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var outputModes = []string{"plain", "pretty", "markdown", "json"}

// CheckConfigValidity reports every problem in v at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error

	su := strings.TrimSpace(v.GetString("server_url"))
	if su == "" {
		errs = append(errs, errors.New("server_url is required"))
	} else if u, err := url.Parse(su); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("server_url %q must be an http(s) URL", su))
	}

	if d, err := time.ParseDuration(v.GetString("timeout")); err != nil || d <= 0 {
		errs = append(errs, fmt.Errorf("timeout %q must be a positive duration", v.GetString("timeout")))
	}

	switch strings.ToLower(v.GetString("history.backend")) {
	case "sqlite":
		if strings.TrimSpace(v.GetString("data_dir")) == "" {
			errs = append(errs, errors.New("data_dir is required for the sqlite history backend"))
		}
	case "mem":
	default:
		errs = append(errs, fmt.Errorf("history.backend %q must be sqlite or mem", v.GetString("history.backend")))
	}
	if v.GetInt("history.size") <= 0 {
		errs = append(errs, errors.New("history.size must be greater than 0"))
	}

	mode := strings.ToLower(v.GetString("output.mode"))
	known := false
	for _, m := range outputModes {
		if m == mode {
			known = true
		}
	}
	if !known {
		errs = append(errs, fmt.Errorf("output.mode %q must be one of %s", mode, strings.Join(outputModes, ", ")))
	}
	if v.GetInt("output.width") <= 0 {
		errs = append(errs, errors.New("output.width must be greater than 0"))
	}
	return errors.Join(errs...)
}
