package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. PANEL_API for "api".
const EnvPrefix = "PANEL"

// NewViper returns a viper bound to PANEL_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadWithIncludes reads base config and merges includes in order.
func LoadWithIncludes(base string, includes []string) (*viper.Viper, error) {
	v := NewViper()
	if base != "" {
		v.SetConfigFile(base)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	for _, inc := range includes {
		iv := viper.New()
		iv.SetConfigFile(inc)
		if err := iv.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("include %s: %w", inc, err)
		}
		if err := v.MergeConfigMap(iv.AllSettings()); err != nil {
			return nil, fmt.Errorf("include %s: %w", inc, err)
		}
	}
	return v, nil
}

func mergeMaps(a, b map[string]any) map[string]any {
	for k, vb := range b {
		if ma, ok := a[k].(map[string]any); ok {
			if mb, ok2 := vb.(map[string]any); ok2 {
				a[k] = mergeMaps(ma, mb)
				continue
			}
		}
		a[k] = vb
	}
	return a
}

// ApplyProfile overlays profiles.<name> onto the rest of the config.
// The profiles key itself is dropped from the result.
func ApplyProfile(v *viper.Viper, profile string) (*viper.Viper, error) {
	if profile == "" {
		return v, nil
	}
	prof := v.Sub("profiles")
	if prof == nil {
		return nil, fmt.Errorf("profiles not found")
	}
	p := prof.Sub(profile)
	if p == nil {
		return nil, fmt.Errorf("profile %s not found", profile)
	}
	base := v.AllSettings()
	delete(base, "profiles")
	nv := viper.New()
	if err := nv.MergeConfigMap(mergeMaps(base, p.AllSettings())); err != nil {
		return nil, err
	}
	return nv, nil
}

// ExpandEnv replaces ${VAR} in every string value, as the services do when
// they load the same file.
func ExpandEnv(v *viper.Viper) {
	for _, k := range v.AllKeys() {
		if s, ok := v.Get(k).(string); ok && strings.Contains(s, "$") {
			v.Set(k, os.ExpandEnv(s))
		}
	}
}
