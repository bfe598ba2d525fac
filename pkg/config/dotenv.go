package config

import (
	"os"

	"github.com/joho/godotenv"
)

// DotEnvLoader implements Provider with .env file support
type DotEnvLoader struct {
	*Loader
	envFiles []string
}

// NewDotEnvLoader creates a new configuration loader with .env file support
func NewDotEnvLoader(envFiles ...string) Provider {
	// Default to .env file in current directory if none specified
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	return &DotEnvLoader{
		Loader:   &Loader{envLoader: &OSEnvLoader{}},
		envFiles: envFiles,
	}
}

// NewDotEnvLoaderWithEnv creates a loader with custom environment loader and .env support
func NewDotEnvLoaderWithEnv(envLoader EnvLoader, envFiles ...string) Provider {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	return &DotEnvLoader{
		Loader:   &Loader{envLoader: envLoader},
		envFiles: envFiles,
	}
}

// Load loads configuration from .env file(s) and environment variables.
// Missing files are skipped silently; a file that exists but cannot be
// parsed fails the load. godotenv.Overload is used so values in later
// files win over earlier ones and over the inherited environment.
func (d *DotEnvLoader) Load() (*Config, error) {
	for _, envFile := range d.envFiles {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Overload(envFile); err != nil {
			return nil, NewEnvFileError(envFile, err)
		}
	}

	// Read back from the process environment, which now includes
	// everything the .env files contributed
	return d.LoadFromEnv()
}

// EnvFileError represents an error loading a .env file
type EnvFileError struct {
	FilePath string
	Err      error
}

func NewEnvFileError(filePath string, err error) *EnvFileError {
	return &EnvFileError{
		FilePath: filePath,
		Err:      err,
	}
}

func (e *EnvFileError) Error() string {
	return "failed to load .env file '" + e.FilePath + "': " + e.Err.Error()
}

func (e *EnvFileError) Unwrap() error {
	return e.Err
}

// LoadWithEnvFile is a convenience function to load configuration with .env file support
func LoadWithEnvFile(envFiles ...string) (*Config, error) {
	loader := NewDotEnvLoader(envFiles...)
	return loader.Load()
}
