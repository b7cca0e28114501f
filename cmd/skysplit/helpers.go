package main

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"skysplit/internal/config"
	"skysplit/internal/fetch"
)

func fetchOptions(cfg *config.Config) fetch.Options {
	return fetch.Options{
		MaxAttempts: cfg.Retry.MaxAttempts,
		Backoff:     time.Duration(cfg.Retry.BackoffSeconds) * time.Second,
		MaxBackoff:  time.Duration(cfg.Retry.MaxBackoffSeconds) * time.Second,
		Timeout:     time.Duration(cfg.Retry.TimeoutSeconds) * time.Second,
		APIKey:      cfg.API.Key,
	}
}

var statusTitle = cases.Title(language.Und)

// titleCase renders a ledger status label for table output.
func titleCase(value string) string {
	return statusTitle.String(value)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
