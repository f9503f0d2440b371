package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vk/propreg/internal/app"
	"github.com/vk/propreg/internal/config"
	"github.com/vk/propreg/internal/ctxlog"
	"github.com/vk/propreg/internal/hcl"
)

// EnvPrefix prefixes the environment variables settings are read from, e.g.
// PROPREG_LOG_LEVEL or PROPREG_NAMING_SUFFIX.
const EnvPrefix = "PROPREG"

// flagKeys maps flag names to settings keys.
var flagKeys = map[string]string{
	"dir":        "dir",
	"packages":   "packages",
	"marker":     "marker",
	"tags":       "build_tags",
	"strict":     "strict",
	"log-level":  "log.level",
	"log-format": "log.format",
	"trace":      "trace.enabled",
}

func addSettingsFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringP("config", "c", "", "settings file (default: propreg.hcl in the module root, when present)")
	f.StringP("dir", "C", "", "module root to load packages from")
	f.StringSlice("packages", nil, "package patterns to scan (default ./...)")
	f.String("marker", "", "property marker type as importpath.TypeName")
	f.StringSlice("tags", nil, "build tags used when loading packages")
	f.Bool("strict", false, "fail when invalid property declarations are found")
	f.String("log-level", "", "log level: debug, info, warn or error")
	f.String("log-format", "", "log format: text or json")
	f.Bool("trace", false, "record OpenTelemetry spans")
}

// resolveSettings layers defaults, the settings file, PROPREG_* environment
// variables and flags, in increasing order of precedence, and validates the
// result.
func resolveSettings(cmd *cobra.Command) (*config.Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	flags := cmd.Flags()
	if err := v.BindPFlag("config", flags.Lookup("config")); err != nil {
		return nil, err
	}
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, err
		}
	}

	base := config.Default()
	if dir := v.GetString("dir"); dir != "" {
		base.Dir = dir
	}
	fromFile, err := loadSettingsFile(cmd.Context(), v.GetString("config"), base)
	if err != nil {
		return nil, err
	}

	keys, err := settingsKeys(fromFile)
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	for key, value := range keys {
		v.SetDefault(key, value)
	}
	settings := &config.Settings{}
	err = v.Unmarshal(settings, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if err := config.Validate(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// loadSettingsFile applies the settings file over base. An explicit path
// must exist; the default one is optional.
func loadSettingsFile(ctx context.Context, path string, base *config.Settings) (*config.Settings, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(base.Dir, config.DefaultSettingsFile)
	}

	// The app logger does not exist yet: settings decide its level.
	ctx = ctxlog.WithLogger(ctx, discardLogger)
	s, err := hcl.NewLoader(app.Tool, app.Version).Load(ctx, path, base)
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return base, nil
	}
	return s, err
}

// settingsKeys flattens s into dotted viper keys.
func settingsKeys(s *config.Settings) (map[string]any, error) {
	var nested map[string]any
	if err := mapstructure.Decode(s, &nested); err != nil {
		return nil, err
	}

	flat := make(map[string]any)
	if err := flatten("", nested, flat); err != nil {
		return nil, err
	}
	return flat, nil
}

func flatten(prefix string, m map[string]any, out map[string]any) error {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := v.(map[string]any); ok {
			if err := flatten(key, child, out); err != nil {
				return err
			}
			continue
		}
		sub, ok, err := structMap(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if ok {
			if err := flatten(key, sub, out); err != nil {
				return err
			}
			continue
		}
		out[key] = v
	}
	return nil
}

// structMap decodes a nested settings struct left as a value by
// mapstructure.Decode.
func structMap(v any) (map[string]any, bool, error) {
	switch v.(type) {
	case config.Naming, config.Output, config.Log, config.Trace:
		var m map[string]any
		if err := mapstructure.Decode(v, &m); err != nil {
			return nil, false, err
		}
		return m, true, nil
	}
	return nil, false, nil
}

var discardLogger = slog.New(slog.DiscardHandler)
