// Package parfile reads pulsar parameter files written in TOML and applies
// their absolute-phase reference values to a component's parameters.
package parfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/pulsar/internal/absphase"
	"github.com/papapumpkin/pulsar/internal/mjd"
	"github.com/papapumpkin/pulsar/internal/param"
)

// Sentinel errors for par file loading.
var (
	// ErrNoFile indicates the par file does not exist.
	ErrNoFile = errors.New("par file not found")
	// ErrBadValue indicates a key holds a value of the wrong type or range.
	ErrBadValue = errors.New("invalid par file value")
)

// File is the decoded contents of a par file. TZRMJD is kept as written so a
// string value reaches the MJD parser without passing through float64.
type File struct {
	PSR          string `toml:"PSR"`
	TZRMJD       any    `toml:"TZRMJD"`
	TZRSITE      string `toml:"TZRSITE"`
	TZRFRQ       any    `toml:"TZRFRQ"`
	TZRMJDScale  string `toml:"TZRMJD_SCALE"`
	TZRMJDFrozen *bool  `toml:"TZRMJD_FROZEN"`

	// Path is the file the values were read from, if any.
	Path string `toml:"-"`
}

// Load reads and decodes the par file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoFile, path)
		}
		return nil, fmt.Errorf("reading par file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse decodes par file contents.
func Parse(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing par file: %w", err)
	}
	return &f, nil
}

// Apply stores the file's reference values in p. Keys absent from the file
// leave the corresponding parameter untouched, so Setup can default them.
func (f *File) Apply(p *absphase.Params) error {
	scale := mjd.UTC
	if f.TZRMJDScale != "" {
		s, err := mjd.ParseScale(f.TZRMJDScale)
		if err != nil {
			return fmt.Errorf("TZRMJD_SCALE: %w", err)
		}
		scale = s
	}

	if f.TZRMJD != nil {
		text, err := mjdText(f.TZRMJD)
		if err != nil {
			return err
		}
		if err := p.TZRMJD.SetString(text, scale); err != nil {
			return fmt.Errorf("%w: %w", ErrBadValue, err)
		}
	}
	if f.TZRMJDFrozen != nil {
		p.TZRMJD.SetFrozen(*f.TZRMJDFrozen)
	}

	if f.TZRSITE != "" {
		p.TZRSITE.Set(f.TZRSITE)
	}

	if f.TZRFRQ != nil {
		mhz, err := number(absphase.ParamTZRFRQ, f.TZRFRQ)
		if err != nil {
			return err
		}
		if mhz < 0 {
			return fmt.Errorf("%w: TZRFRQ: negative frequency %g", ErrBadValue, mhz)
		}
		p.TZRFRQ.Set(param.MHz(mhz))
	}
	return nil
}

func mjdText(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: TZRMJD: unsupported type %T", ErrBadValue, v)
	}
}

func number(key string, v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case string:
		n, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %q", ErrBadValue, key, x)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s: unsupported type %T", ErrBadValue, key, v)
	}
}
