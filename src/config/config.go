// Package config provides configuration management for the failsift application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultBuildLimit is how many recent failed builds a run analyzes
// when no explicit limit is given.
const DefaultBuildLimit = 5

// Config holds the application configuration.
type Config struct {
	// JenkinsURL is the base URL of the Jenkins instance, without a trailing slash.
	JenkinsURL string
	// JenkinsUser is the username for HTTP basic auth.
	JenkinsUser string
	// JenkinsToken is the API token paired with JenkinsUser.
	JenkinsToken string
	// JobName is the Jenkins job whose failed builds are analyzed.
	JobName string

	// DeepSeekAPIKey authenticates AI analysis calls. It may be empty here;
	// the analyst rejects an empty key at construction time.
	DeepSeekAPIKey string
	// DeepSeekBaseURL overrides the DeepSeek API endpoint. Empty means the default.
	DeepSeekBaseURL string
	// DeepSeekModel overrides the chat model. Empty means the default.
	DeepSeekModel string

	// BuildLimit is the default number of failed builds per run.
	BuildLimit int

	// Brokers lists Kafka/Redpanda seed brokers for report publishing.
	// Empty means publishing is disabled.
	Brokers []string
	// PostgresDSN is the connection string for the report archive.
	// Empty means archiving is disabled.
	PostgresDSN string
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	jenkinsURL := os.Getenv("JENKINS_URL")
	if jenkinsURL == "" {
		return nil, fmt.Errorf("JENKINS_URL environment variable is required")
	}

	jenkinsUser := os.Getenv("JENKINS_USER")
	if jenkinsUser == "" {
		return nil, fmt.Errorf("JENKINS_USER environment variable is required")
	}

	jenkinsToken := os.Getenv("JENKINS_TOKEN")
	if jenkinsToken == "" {
		return nil, fmt.Errorf("JENKINS_TOKEN environment variable is required")
	}

	jobName := os.Getenv("JOB_NAME")
	if jobName == "" {
		return nil, fmt.Errorf("JOB_NAME environment variable is required")
	}

	limit := DefaultBuildLimit
	if raw := os.Getenv("FAILSIFT_LIMIT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("FAILSIFT_LIMIT must be a positive integer, got %q", raw)
		}
		limit = parsed
	}

	var brokers []string
	if raw := os.Getenv("FAILSIFT_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return &Config{
		JenkinsURL:      strings.TrimRight(jenkinsURL, "/"),
		JenkinsUser:     jenkinsUser,
		JenkinsToken:    jenkinsToken,
		JobName:         jobName,
		DeepSeekAPIKey:  os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekBaseURL: os.Getenv("DEEPSEEK_BASE_URL"),
		DeepSeekModel:   os.Getenv("DEEPSEEK_MODEL"),
		BuildLimit:      limit,
		Brokers:         brokers,
		PostgresDSN:     os.Getenv("FAILSIFT_PG_DSN"),
	}, nil
}

// MustLoadFromEnv loads configuration from environment variables and panics on error.
// This is useful for initialization in main() where configuration errors should be fatal.
func MustLoadFromEnv() *Config {
	cfg, err := LoadFromEnv()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
