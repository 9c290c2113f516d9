package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// LoadEnv loads environment variables into the config struct.
// It uses `env` struct tags to determine which variables to read.
func LoadEnv(config *AppConfig) error {
	log.Debug().Msg("Loading environment variables")

	sections := []interface{}{
		&config.App,
		&config.Server,
		&config.Storage,
		&config.JWT,
		&config.Logging,
		&config.CORS,
		&config.Security,
		&config.Scanner,
	}

	for _, section := range sections {
		if err := processStructEnv(section); err != nil {
			return err
		}
	}

	return nil
}

// processStructEnv overrides struct fields from environment variables
// named by their `env` tags
func processStructEnv(s interface{}) error {
	val := reflect.ValueOf(s).Elem()
	typ := val.Type()

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		envValue, exists := os.LookupEnv(envName)
		if !exists {
			continue
		}

		switch fieldVal.Kind() {
		case reflect.String:
			fieldVal.SetString(envValue)

		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if field.Type == reflect.TypeOf(time.Duration(0)) {
				duration, err := time.ParseDuration(envValue)
				if err != nil {
					return fmt.Errorf("invalid duration for %s: %w", envName, err)
				}
				fieldVal.Set(reflect.ValueOf(duration))
			} else {
				intValue, err := strconv.ParseInt(envValue, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid integer for %s: %w", envName, err)
				}
				fieldVal.SetInt(intValue)
			}

		case reflect.Bool:
			boolValue, err := strconv.ParseBool(envValue)
			if err != nil {
				return fmt.Errorf("invalid boolean for %s: %w", envName, err)
			}
			fieldVal.SetBool(boolValue)

		case reflect.Float32, reflect.Float64:
			floatValue, err := strconv.ParseFloat(envValue, 64)
			if err != nil {
				return fmt.Errorf("invalid float for %s: %w", envName, err)
			}
			fieldVal.SetFloat(floatValue)

		case reflect.Slice:
			if field.Type.Elem().Kind() == reflect.String {
				parts := strings.Split(envValue, ",")
				for i := range parts {
					parts[i] = strings.TrimSpace(parts[i])
				}
				fieldVal.Set(reflect.ValueOf(parts))
			}

		default:
			// Unsupported kinds are left untouched
		}
	}

	return nil
}
