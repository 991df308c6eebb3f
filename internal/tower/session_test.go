package tower

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"towerassist/internal/components/telemetry"
	"towerassist/internal/tower/towertest"

	"github.com/stretchr/testify/require"
)

func testOptions(srv *towertest.Server, tel telemetry.API) Options {
	return Options{BaseUrl: srv.URL, Telemetry: tel}
}

func testCreds(srv *towertest.Server) Credentials {
	return Credentials{TeamGuid: srv.TeamGuid, RememberToken: srv.RememberToken}
}

func bootstrapTest(t *testing.T, srv *towertest.Server) (*Session, MemberDirectory) {
	t.Helper()
	session, directory, err := Bootstrap(context.Background(), testCreds(srv), testOptions(srv, telemetry.NewRecorder()))
	require.NoError(t, err)
	return session, directory
}

func TestBootstrap(t *testing.T) {
	srv := towertest.New(t)
	session, directory := bootstrapTest(t, srv)

	require.Equal(t, srv.TeamGuid, session.TeamId())
	require.Equal(t, srv.MemberGuid, session.MemberId())
	require.Equal(t, srv.ConnGuid, session.ConnGuid())
	require.Equal(t, srv.CsrfToken, session.CsrfToken())
	require.Equal(t, "_tower2_session="+srv.SessionValue, session.SessionCookie())

	require.Equal(t, 3, directory.Len())
	id, ok := directory.Lookup("Alice")
	require.True(t, ok)
	require.Equal(t, "ali00001", id)
	id, ok = directory.Lookup("Bob & Co")
	require.True(t, ok)
	require.Equal(t, "bob00001", id)

	// the established session is accepted by endpoints that check every credential
	_, err := session.WeeklyFields(context.Background(), Week{Year: 2024, Number: 9})
	require.NoError(t, err)
}

func TestBootstrapMissingMarkers(t *testing.T) {
	srv := towertest.New(t)

	table := []struct {
		name   string
		marker string
	}{
		{name: "csrf token", marker: `name="csrf-token"`},
		{name: "conn guid", marker: `id="conn-guid"`},
		{name: "member guid", marker: `id="member-guid"`},
	}

	for _, testCase := range table {
		t.Run(testCase.name, func(t *testing.T) {
			srv.MembersPage = strings.ReplaceAll(srv.RenderMembersPage(), testCase.marker, `data-removed="true"`)

			tel := telemetry.NewRecorder()
			session, _, err := Bootstrap(context.Background(), testCreds(srv), testOptions(srv, tel))
			require.Nil(t, session)
			require.ErrorIs(t, err, ErrMarkupMismatch)
			require.Len(t, tel.Find("broken", "tower: session.bootstrap"), 1)
		})
	}
}

func TestBootstrapRejectedCredentials(t *testing.T) {
	srv := towertest.New(t)

	creds := testCreds(srv)
	creds.RememberToken = "stale"
	session, _, err := Bootstrap(context.Background(), creds, testOptions(srv, telemetry.NewRecorder()))
	require.Nil(t, session)
	require.ErrorIs(t, err, ErrSessionEstablishmentFailed)
}

func TestBootstrapMissingCredential(t *testing.T) {
	srv := towertest.New(t)

	for _, creds := range []Credentials{
		{TeamGuid: "", RememberToken: "x"},
		{TeamGuid: "x", RememberToken: ""},
	} {
		_, _, err := Bootstrap(context.Background(), creds, testOptions(srv, telemetry.NewRecorder()))
		require.ErrorIs(t, err, ErrCredentialMissing)
	}
	require.Empty(t, srv.Gets())
}

func TestBootstrapTransportError(t *testing.T) {
	srv := towertest.New(t)
	opts := testOptions(srv, telemetry.NewRecorder())
	srv.Close()

	_, _, err := Bootstrap(context.Background(), testCreds(srv), opts)
	require.ErrorIs(t, err, ErrTransport)
}

func TestBootstrapEmptyDirectory(t *testing.T) {
	srv := towertest.New(t)
	srv.Members = nil

	tel := telemetry.NewRecorder()
	session, directory, err := Bootstrap(context.Background(), testCreds(srv), testOptions(srv, tel))
	require.NoError(t, err)
	require.NotNil(t, session)
	require.Equal(t, 0, directory.Len())
	require.Len(t, tel.Find("warning", "tower: session.directory"), 1)
}

func TestCredentialsFromCookies(t *testing.T) {
	creds, err := CredentialsFromCookies([]*http.Cookie{
		{Name: "other", Value: "1"},
		{Name: "remember_team_guid", Value: "team"},
		{Name: "remember_token", Value: "old"},
		{Name: "remember_token", Value: "new"},
	})
	require.NoError(t, err)
	require.Equal(t, Credentials{TeamGuid: "team", RememberToken: "new"}, creds)

	_, err = CredentialsFromCookies([]*http.Cookie{{Name: "remember_token", Value: "x"}})
	require.True(t, errors.Is(err, ErrCredentialMissing))
	require.Contains(t, err.Error(), "remember_team_guid")
}
