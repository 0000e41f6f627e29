package harness

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/bitly/go-simplejson"
	"github.com/mitchellh/mapstructure"
)

// ErrInvalidConfig is returned for configurations Run cannot execute.
var ErrInvalidConfig = errors.New("invalid config")

// Config describes one metered-concurrency run.
type Config struct {
	// Permits is the capacity of the shared semaphore.
	Permits int64 `mapstructure:"permits"`
	// Workers is the number of goroutines contending for it.
	Workers int `mapstructure:"workers"`
	// Backoff is the linear backoff unit of Acquire.
	Backoff time.Duration `mapstructure:"backoff"`
	// MaxBackoff caps one backoff interval; zero means uncapped.
	MaxBackoff time.Duration `mapstructure:"max_backoff"`
	// Hold is how long each worker keeps its permit.
	Hold time.Duration `mapstructure:"hold"`
}

// DefaultConfig returns four permits shared by ten workers, each holding
// one for two seconds, with a one millisecond backoff unit.
func DefaultConfig() Config {
	return Config{
		Permits: 4,
		Workers: 10,
		Backoff: time.Millisecond,
		Hold:    2 * time.Second,
	}
}

// Validate reports the first unusable field.
func (c Config) Validate() error {
	switch {
	case c.Permits <= 0:
		return fmt.Errorf("%w: permits must be positive, got %d", ErrInvalidConfig, c.Permits)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	case c.Backoff < 0:
		return fmt.Errorf("%w: backoff must not be negative, got %v", ErrInvalidConfig, c.Backoff)
	case c.MaxBackoff < 0:
		return fmt.Errorf("%w: max_backoff must not be negative, got %v", ErrInvalidConfig, c.MaxBackoff)
	case c.Hold < 0:
		return fmt.Errorf("%w: hold must not be negative, got %v", ErrInvalidConfig, c.Hold)
	}
	return nil
}

// Decode overlays raw onto base. Durations may be given as strings
// ("50ms") or as integer nanoseconds; numbers may be strings.
// Unknown keys are rejected.
func Decode(raw map[string]any, base Config) (Config, error) {
	cfg := base
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			jsonNumberHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return base, err
	}
	if err := dec.Decode(raw); err != nil {
		return base, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// jsonNumberHook turns the json.Number values produced by simplejson into
// int64 or float64 before the duration hook sees them as strings.
func jsonNumberHook(f reflect.Type, _ reflect.Type, data any) (any, error) {
	if f != reflect.TypeOf(json.Number("")) {
		return data, nil
	}
	n := data.(json.Number)
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	return n.Float64()
}

// LoadFile reads a JSON object from path and overlays it onto base.
func LoadFile(path string, base Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, err
	}
	defer f.Close()

	js, err := simplejson.NewFromReader(f)
	if err != nil {
		return base, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	raw, err := js.Map()
	if err != nil {
		return base, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return Decode(raw, base)
}
