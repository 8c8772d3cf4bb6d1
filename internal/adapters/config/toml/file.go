package toml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Keys of Values. They match the CLI flag names so one viper key serves the
// flag, its CHECK_EFY_* variable and the config file entry.
const (
	KeySender         = "sender"
	KeyAccountID      = "account-id"
	KeyAuthToken      = "auth-token"
	KeyRecipients     = "recipients"
	KeySession        = "session"
	KeyURL            = "url"
	KeySessionLink    = "session-link"
	KeyRequestTimeout = "request-timeout"
	KeyDelayMean      = "delay-mean"
	KeyDelayStdDev    = "delay-stddev"
	KeySendRate       = "send-rate"
	KeyLogFile        = "log-file"
	KeyLogLevel       = "log-level"
	KeyVerbose        = "verbose"
)

const (
	configDirName   = "check-efy"
	configFileName  = "config.toml"
	secretsDirName  = "secrets"
	configFileMode  = 0o600
	configDirMode   = 0o700
	tempFilePattern = ".config-*.toml.tmp"
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigExists   = errors.New("config file already exists")
)

// Values holds the settings present in a config file, keyed by flag name.
type Values map[string]any

// Template is the content written by WriteTemplate.
type Template struct {
	Sender             string
	Session            string
	URL                string
	SessionLink        string
	RequestTimeout     time.Duration
	DelayMeanMinutes   float64
	DelayStdDevMinutes float64
	SendRate           float64
	LogFile            string
	LogLevel           string
}

type File struct {
	path string
	mu   sync.Mutex
}

func NewFile(path string) *File {
	return &File{path: filepath.Clean(path)}
}

func (f *File) Path() string { return f.path }

// DefaultPath is $XDG_CONFIG_HOME/check-efy/config.toml or the platform equivalent.
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// DefaultSecretsDir is where the file secret store keeps credentials.
func DefaultSecretsDir() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, secretsDirName), nil
}

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(base, configDirName), nil
}

// Load decodes the file strictly: unknown keys and newer schema versions are errors.
func (f *File) Load(ctx context.Context) (Values, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, f.path)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var file fileSchema
	decoder := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("decode config file %s: %w\n%s", f.path, err, strict.String())
		}
		return nil, fmt.Errorf("decode config file %s: %w", f.path, err)
	}
	if err := file.validateVersion(); err != nil {
		return nil, err
	}
	file.applyDefaults()

	return file.values()
}

// WriteTemplate writes t atomically. An existing file is kept unless force is set.
func (f *File) WriteTemplate(ctx context.Context, t Template, force bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !force {
		if _, err := os.Stat(f.path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, f.path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat config file: %w", err)
		}
	}

	return f.writeSchema(templateSchema(t))
}

func (f *File) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(f.path), configDirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode config file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(f.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}

	if err := tempFile.Chmod(configFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp config file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}

	if err := os.Rename(tempName, f.path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(f.path, configFileMode); err != nil {
		return fmt.Errorf("chmod config file: %w", err)
	}

	return nil
}
