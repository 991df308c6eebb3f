package commands

import (
	"context"
	"testing"
	"towerassist/internal/tower"
	"towerassist/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestReadCredentialsFromConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.TeamGuid = "team"
	cfg.RememberToken = "token"
	cfg.CookieDb = "/does/not/exist.sqlite"

	creds, err := readCredentials(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, tower.Credentials{TeamGuid: "team", RememberToken: "token"}, creds)
}

func TestReadCredentialsMissingDatabase(t *testing.T) {
	cfg := defaultConfig()
	cfg.CookieDb = "/does/not/exist.sqlite"

	_, err := readCredentials(context.Background(), cfg)
	require.ErrorIs(t, err, tower.ErrCredentialMissing)
}

func TestSessionOptions(t *testing.T) {
	cfg := defaultConfig()
	cfg.Host = "tower.im"
	opts := sessionOptions(cfg)
	require.Equal(t, cfg.BaseUrl, opts.BaseUrl)
	require.Equal(t, "tower.im", opts.Host)
	require.Equal(t, 2.0, opts.RequestsPerSecond)
	require.NotNil(t, opts.Telemetry)
	require.Nil(t, opts.Dump)
}

func TestReadCredentialsFromCookieDatabase(t *testing.T) {
	cfg := defaultConfig()
	cfg.CookieDb = testutil.SqliteFixture(
		t, "cookies.sqlite",
		`create table moz_cookies (id integer primary key, name text, value text, host text, path text, creationTime integer)`,
		`insert into moz_cookies (name, value, host, path, creationTime) values
			('remember_team_guid', 'team', '.tower.im', '/', 1),
			('remember_token', 'token', 'tower.im', '/', 2)`,
	)

	creds, err := readCredentials(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, tower.Credentials{TeamGuid: "team", RememberToken: "token"}, creds)
}
