package utils

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"
)

const (
	ENV           = "ENV"
	PORT          = "PORT"
	MONGODB_URI   = "MONGODB_URI"
	MYSQL_URI     = "MYSQL_URI"
	REDIS_URI     = "REDIS_URI"
	JWT_SECRET    = "JWT_SECRET"
	SMTP_HOST     = "SMTP_HOST"
	SMTP_PORT     = "SMTP_PORT"
	SMTP_USERNAME = "SMTP_USERNAME"
	SMTP_PASSWORD = "SMTP_PASSWORD"
	SMTP_FROM     = "SMTP_FROM"

	ENV_DEVELOPMENT = "development"
	ENV_HOMOLOG     = "homolog"
	ENV_RELEASE     = "production"
)

var allowedKeys = []string{
	ENV, PORT, MONGODB_URI, MYSQL_URI, REDIS_URI, JWT_SECRET,
	SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, SMTP_FROM,
}

var requiredKeys = []string{ENV, PORT, MONGODB_URI, JWT_SECRET}

var allowedEnvValues = []string{ENV_DEVELOPMENT, ENV_HOMOLOG, ENV_RELEASE}

// LoadEnvVariables loads the env file at path and panics on any problem.
func LoadEnvVariables(path string) {
	if err := LoadEnvFile(path); err != nil {
		panic(err.Error())
	}
}

// LoadEnvFile reads KEY=VALUE lines from path into the process
// environment. Blank lines and # comments are skipped, values may be
// wrapped in single or double quotes.
func LoadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("[ENV] Erreur à l'ouverture du fichier %s: %w", path, err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return fmt.Errorf("[ENV] Erreur à la lecture des informations du fichier %s: %w", path, err)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("[ENV] Le fichier %s est vide", path)
	}

	foundKeys := make(map[string]bool)
	for _, key := range requiredKeys {
		foundKeys[key] = false
	}

	scanner := bufio.NewScanner(file)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("[ENV] Format invalide à la ligne %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := unquote(strings.TrimSpace(parts[1]))

		if !slices.Contains(allowedKeys, key) {
			return fmt.Errorf("[ENV] Clé '%s' non autorisée. Clés autorisées: %s",
				key, strings.Join(allowedKeys, ", "))
		}

		if key == ENV && !slices.Contains(allowedEnvValues, value) {
			return fmt.Errorf("[ENV] Valeur invalide pour ENV: %s. Valeurs autorisées: %s",
				value, strings.Join(allowedEnvValues, ", "))
		}

		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("[ENV] Erreur lors de la définition de %s: %w", key, err)
		}

		if _, exists := foundKeys[key]; exists && value != "" {
			foundKeys[key] = true
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("[ENV] Erreur à la lecture du fichier %s: %w", path, err)
	}

	var missingKeys []string
	for _, key := range requiredKeys {
		if !foundKeys[key] {
			missingKeys = append(missingKeys, key)
		}
	}

	if len(missingKeys) > 0 {
		return fmt.Errorf("[ENV] Variables d'environnement obligatoires absentes: %s",
			strings.Join(missingKeys, ", "))
	}

	return nil
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	if (strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"")) ||
		(strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'")) {
		return value[1 : len(value)-1]
	}
	return value
}

func IsRelease() bool {
	return os.Getenv(ENV) == ENV_RELEASE
}
