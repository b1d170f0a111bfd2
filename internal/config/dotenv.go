package config

import "github.com/joho/godotenv"

// LoadDotEnv reads the given .env files (".env" when none are given) into
// the process environment. Variables that are already set keep their
// values, so the real environment always wins over the file.
func LoadDotEnv(filenames ...string) error {
	return godotenv.Load(filenames...)
}
