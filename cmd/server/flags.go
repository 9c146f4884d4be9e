package main

import (
	"flag"
	"fmt"
	"os"
)

type Config struct {
	Port           int
	Host           string
	LogLevel       string
	LogFormat      string
	StorageBackend string
	StoragePath    string
	RedisAddr      string
	PostgresDSN    string
	Version        bool
}

func ParseFlags() *Config {
	config := &Config{}

	flag.IntVar(&config.Port, "port", 8080, "Server port")
	flag.StringVar(&config.Host, "host", "0.0.0.0", "Server host")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&config.LogFormat, "log-format", "json", "Log format (json, text)")
	flag.StringVar(&config.StorageBackend, "storage", "file", "Rule storage backend (file, redis, postgres)")
	flag.StringVar(&config.StoragePath, "storage-path", "./data", "Base path for the file backend")
	flag.StringVar(&config.RedisAddr, "redis-addr", "localhost:6379", "Redis address for the redis backend")
	flag.StringVar(&config.PostgresDSN, "postgres-dsn", "", "Postgres DSN for the postgres backend")
	flag.BoolVar(&config.Version, "version", false, "Show version information")

	flag.Parse()

	if config.Version {
		info := GetBuildInfo()
		fmt.Printf("tablens-server %s (commit %s, built %s, %s, %s)\n",
			info.Version, info.GitCommit, info.BuildDate, info.GoVersion, info.Platform)
		os.Exit(0)
	}

	return config
}
