package tower

import (
	"context"
	"fmt"
	"net/http"
	"towerassist/internal/components/assert"
	"towerassist/internal/components/telemetry"
	"towerassist/internal/extract"

	"github.com/go-resty/resty/v2"
)

const (
	report_session_bootstrap = "session.bootstrap"
	report_session_directory = "session.directory"
	report_session_request   = "session.request"
)

// Session is an established, authenticated session. It can only be obtained
// from Bootstrap, so every Session carries all of its fields.
type Session struct {
	teamId        string
	memberId      string
	connGuid      string
	csrfToken     string
	sessionCookie string

	http      *resty.Client
	extractor extract.Extractor
	tel       telemetry.API
}

func (s *Session) TeamId() string        { return s.teamId }
func (s *Session) MemberId() string      { return s.memberId }
func (s *Session) ConnGuid() string      { return s.connGuid }
func (s *Session) CsrfToken() string     { return s.csrfToken }
func (s *Session) SessionCookie() string { return s.sessionCookie }

// AbsoluteUrl resolves a site-relative path against the session's base url.
func (s *Session) AbsoluteUrl(path string) string {
	if len(path) > 0 && path[0] != '/' {
		return path
	}
	return s.http.BaseURL + path
}

// sessionBuilder holds a half-established session, it never escapes this package.
type sessionBuilder struct {
	creds         Credentials
	teamId        string
	memberId      string
	connGuid      string
	csrfToken     string
	sessionCookie string
}

func (b sessionBuilder) cookieHeader() string {
	if b.sessionCookie == "" {
		return b.creds.cookieHeader()
	}
	return b.creds.cookieHeader() + "; " + b.sessionCookie
}

func (b sessionBuilder) complete(httpClient *resty.Client, e extract.Extractor, tel telemetry.API) *Session {
	assert.NotEmptyStr(b.teamId)
	assert.NotEmptyStr(b.memberId)
	assert.NotEmptyStr(b.connGuid)
	assert.NotEmptyStr(b.csrfToken)
	assert.NotEmptyStr(b.sessionCookie)

	httpClient.SetHeader("Cookie", b.cookieHeader())
	httpClient.SetHeader("X-CSRF-Token", b.csrfToken)

	return &Session{
		teamId:        b.teamId,
		memberId:      b.memberId,
		connGuid:      b.connGuid,
		csrfToken:     b.csrfToken,
		sessionCookie: b.sessionCookie,
		http:          httpClient,
		extractor:     e,
		tel:           tel,
	}
}

// Bootstrap turns remembered credentials into an established Session by
// loading the team members page once. The member directory scraped from that
// same page is returned alongside it.
func Bootstrap(ctx context.Context, creds Credentials, opts Options) (*Session, MemberDirectory, error) {
	assert.NotNil(opts.Telemetry)

	err := creds.validate()
	if err != nil {
		return nil, MemberDirectory{}, err
	}

	opts = opts.withDefaults()
	tel := telemetry.NewScopedAPI("tower", opts.Telemetry)

	httpClient, err := newHttpClient(opts, tel)
	if err != nil {
		return nil, MemberDirectory{}, err
	}

	b := sessionBuilder{creds: creds, teamId: creds.TeamGuid}

	res, err := httpClient.R().
		SetContext(ctx).
		SetHeader("Cookie", b.cookieHeader()).
		Get(membersPath(b.teamId))
	if err != nil {
		tel.ReportBroken(report_session_bootstrap, err)
		return nil, MemberDirectory{}, fmt.Errorf("%w: get members page: %w", ErrTransport, err)
	}
	switch {
	case res.StatusCode() == http.StatusUnauthorized || res.StatusCode() == http.StatusForbidden:
		return nil, MemberDirectory{}, fmt.Errorf("%w: members page returned %s", ErrSessionEstablishmentFailed, res.Status())
	case res.IsError():
		return nil, MemberDirectory{}, fmt.Errorf("%w: members page returned %s", ErrTransport, res.Status())
	}

	cookie := findCookie(res.Cookies(), opts.SessionCookie)
	if cookie == nil {
		return nil, MemberDirectory{}, fmt.Errorf(
			"%w: response did not set %s, the remembered credentials were probably rejected",
			ErrSessionEstablishmentFailed, opts.SessionCookie,
		)
	}
	b.sessionCookie = fmt.Sprintf("%s=%s", cookie.Name, cookie.Value)

	body := res.String()
	for _, field := range []struct {
		pattern extract.Pattern
		target  *string
	}{
		{pattern: csrfTokenPattern, target: &b.csrfToken},
		{pattern: connGuidPattern, target: &b.connGuid},
		{pattern: memberGuidPattern, target: &b.memberId},
	} {
		value, err := extract.First(opts.Extractor, body, field.pattern)
		if err != nil {
			tel.ReportBroken(report_session_bootstrap, err)
			return nil, MemberDirectory{}, fmt.Errorf("%w: members page: %w", ErrMarkupMismatch, err)
		}
		*field.target = value
	}

	directory := newMemberDirectory(opts.Extractor.Extract(body, memberRowPattern))
	tel.ReportCount(report_session_directory, int64(directory.Len()))
	if directory.Len() == 0 {
		tel.ReportWarning(report_session_directory, "members page listed no members")
	}

	session := b.complete(httpClient, opts.Extractor, tel)
	tel.ReportDebug(
		"session established",
		"team", session.teamId,
		"member", session.memberId,
		"members", directory.Len(),
	)
	return session, directory, nil
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range cookies {
		if c.Name == name && c.Value != "" {
			found = c
		}
	}
	return found
}

// get issues a GET against a site-relative path carrying conn_guid, any
// failure or non-2xx status is an ErrTransport.
func (s *Session) get(ctx context.Context, path string, query map[string]string, accept string) (*resty.Response, error) {
	req := s.http.R().
		SetContext(ctx).
		SetQueryParam("conn_guid", s.connGuid).
		SetQueryParams(query)
	if accept != "" {
		req.SetHeader("Accept", accept)
	}
	res, err := req.Get(path)
	if err != nil {
		s.tel.ReportBroken(report_session_request, err, "GET", path)
		return nil, fmt.Errorf("%w: get %s: %w", ErrTransport, path, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: get %s: %s", ErrTransport, path, res.Status())
	}
	return res, nil
}

// postForm issues a form POST, the body is handed back whatever the status.
func (s *Session) postForm(ctx context.Context, path string, form map[string]string) (*resty.Response, error) {
	values := map[string]string{"conn_guid": s.connGuid}
	for k, v := range form {
		values[k] = v
	}
	res, err := s.http.R().
		SetContext(ctx).
		SetHeader("Accept", acceptJson).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetFormData(values).
		Post(path)
	if err != nil {
		s.tel.ReportBroken(report_session_request, err, "POST", path)
		return nil, fmt.Errorf("%w: post %s: %w", ErrTransport, path, err)
	}
	return res, nil
}
