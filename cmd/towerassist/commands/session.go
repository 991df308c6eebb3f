package commands

import (
	"context"
	"fmt"
	"os"
	"towerassist/internal/cookiestore"
	"towerassist/internal/tower"
	"towerassist/lib/restyutil"
	libtelemetry "towerassist/lib/telemetry"
)

// readCredentials prefers credentials from the config and falls back to the
// Firefox cookie database.
func readCredentials(ctx context.Context, cfg Config) (tower.Credentials, error) {
	if cfg.TeamGuid != "" && cfg.RememberToken != "" {
		return tower.Credentials{TeamGuid: cfg.TeamGuid, RememberToken: cfg.RememberToken}, nil
	}

	store := cookiestore.NewFirefox(cfg.CookieDb)
	if cfg.CookieDb == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return tower.Credentials{}, fmt.Errorf("%w: %w", tower.ErrCredentialMissing, err)
		}
		store, err = cookiestore.FindFirefox(home)
		if err != nil {
			return tower.Credentials{}, fmt.Errorf("%w: %w", tower.ErrCredentialMissing, err)
		}
	}
	tel.ReportDebug("reading cookies", "path", store.Path(), "domain", cfg.CookieDomain)

	cookies, err := store.Cookies(ctx, cfg.CookieDomain)
	if err != nil {
		return tower.Credentials{}, fmt.Errorf("%w: %w", tower.ErrCredentialMissing, err)
	}
	return tower.CredentialsFromCookies(cookies)
}

func sessionOptions(cfg Config) tower.Options {
	opts := tower.Options{
		BaseUrl:           cfg.BaseUrl,
		Host:              cfg.Host,
		UserAgent:         cfg.UserAgent,
		SessionCookie:     cfg.SessionCookie,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Telemetry:         tel,
		Tracer:            libtelemetry.Tracer("towerassist/tower"),
	}
	if verbose && cfg.HttpDumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(cfg.HttpDumpDir)
		if err != nil {
			tel.ReportWarning("http_dump", err)
		} else {
			opts.Dump = output
		}
	}
	return opts
}

// connect establishes a session or exits, nothing can run without one.
func connect(ctx context.Context) (*tower.Session, tower.MemberDirectory) {
	creds, err := readCredentials(ctx, config)
	if err != nil {
		fatal("failed to read tower credentials", err)
	}
	session, directory, err := tower.Bootstrap(ctx, creds, sessionOptions(config))
	if err != nil {
		fatal("failed to establish tower session", err)
	}
	return session, directory
}
