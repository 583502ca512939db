package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/unitgen/log"
	"github.com/ardnew/unitgen/pkg"
	"github.com/ardnew/unitgen/profile"
)

// configFileMode is the permission mode of the written configuration file.
const configFileMode os.FileMode = 0o600

// Init writes the current values of the global flags to the configuration
// file, in a form read back as flag defaults.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	if _, err := os.Stat(confPath); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(pkg.ErrFileExists)
	}

	data, err := yaml.Marshal(i.config(ktx))
	if err != nil {
		return ErrWriteConfig.Wrap(pkg.ErrYAMLMarshal.Wrap(err))
	}

	if err := os.WriteFile(confPath, data, configFileMode); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// config returns the set global flags in declaration order.
func (i *Init) config(ktx *kong.Context) yaml.MapSlice {
	skip := []string{"help", "version", profile.Tag + "-"}

	var conf yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || hasAnyPrefix(flag.Name, skip) {
			continue
		}

		if v := configValue(ktx.FlagValue(flag)); v != nil {
			conf = append(conf, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return conf
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}

	return false
}

// configValue returns v as a YAML-encodable value, or nil if v is empty.
func configValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case bool:
		return v
	case time.Duration:
		return v.String()
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.String:
		if rv.Len() == 0 {
			return nil
		}

		return rv.String()
	case reflect.Slice:
		if rv.Len() == 0 {
			return nil
		}

		list := make([]any, rv.Len())
		for i := range list {
			list[i] = configValue(rv.Index(i).Interface())
		}

		return list
	default:
		return v
	}
}
