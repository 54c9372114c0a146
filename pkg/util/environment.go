package util

import (
	"os"
	"strconv"
	"strings"
)

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// GetEnvironmentVariable looks name up in env, falling back to defaultValue when unset or empty
func GetEnvironmentVariable(env map[string]string, name string, defaultValue string) string {
	if value := env[name]; value != "" {
		return value
	}

	return defaultValue
}

func GetEnvironmentInt(env map[string]string, name string, defaultValue int) (int, error) {
	value := env[name]
	if value == "" {
		return defaultValue, nil
	}

	return strconv.Atoi(value)
}
