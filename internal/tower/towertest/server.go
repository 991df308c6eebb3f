// Package towertest serves a small imitation of the Tower pages and endpoints
// that towerassist scrapes, for use in tests.
package towertest

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

type Member struct {
	Id   string
	Name string
}

type Field struct {
	Key   string
	Value string
	Label string
}

type Entry struct {
	Title   string
	Content string
}

type Event struct {
	Guid    string
	Time    string
	Content string
}

// Request is a recorded state changing request.
type Request struct {
	Method string
	Path   string
	Form   url.Values
	Header http.Header
}

// Server is a fake Tower. Exported fields may be changed between requests,
// the zero values of the response overrides mean "behave normally".
type Server struct {
	*httptest.Server

	TeamGuid      string
	RememberToken string
	MemberGuid    string
	ConnGuid      string
	CsrfToken     string
	SessionValue  string

	Members []Member
	Fields  []Field
	// Reports maps a week ("2024-09") to the entries already submitted for it.
	Reports map[string][]Entry
	Events  []Event

	// MembersPage replaces the rendered members page when set.
	MembersPage string
	// SubmitResponse replaces the weekly report submission response body.
	SubmitResponse string
	// EventResponse replaces the calendar event creation response body.
	EventResponse string
	// CommentResponse replaces the comment response body.
	CommentResponse string
	// EditFormResponse replaces the edit form json body.
	EditFormResponse string

	mu       sync.Mutex
	requests []Request
	gets     []string
}

// New starts a fake Tower that is closed when the test ends.
func New(t testing.TB) *Server {
	s := &Server{
		TeamGuid:      "team0001",
		RememberToken: "remembered",
		MemberGuid:    "me000001",
		ConnGuid:      "conn0001",
		CsrfToken:     "csrf/token+value==",
		SessionValue:  "session0001",
		Members: []Member{
			{Id: "me000001", Name: "Me"},
			{Id: "ali00001", Name: "Alice"},
			{Id: "bob00001", Name: "Bob &amp; Co"},
		},
		Fields: []Field{
			{Key: "question_guid", Value: "q-monday", Label: "Monday"},
			{Key: "question_guid", Value: "q-tuesday", Label: "Tuesday"},
		},
		Reports: map[string][]Entry{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /teams/{team}/members/", s.handleMembers)
	mux.HandleFunc("GET /users/sign_in", s.handleSignIn)
	mux.HandleFunc("GET /members/{member}/weekly_reports/{week}/", s.handleReports)
	mux.HandleFunc("GET /members/{member}/weekly_reports/{week}/edit", s.handleEditForm)
	mux.HandleFunc("POST /members/{member}/weekly_reports/{week}", s.handleSubmit)
	mux.HandleFunc("GET /teams/{team}/calendar_events/", s.handleEvents)
	mux.HandleFunc("POST /teams/{team}/calendar_events", s.handleCreateEvent)
	mux.HandleFunc("POST /teams/{team}/calendar_events/{event}/comments", s.handleComment)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Posts returns every POST received so far.
func (s *Server) Posts() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Gets returns the path of every GET received so far.
func (s *Server) Gets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.gets))
	copy(out, s.gets)
	return out
}

func (s *Server) remembered(r *http.Request) bool {
	team, err := r.Cookie("remember_team_guid")
	if err != nil || team.Value != s.TeamGuid {
		return false
	}
	token, err := r.Cookie("remember_token")
	return err == nil && token.Value == s.RememberToken
}

func (s *Server) authorized(r *http.Request) bool {
	if !s.remembered(r) {
		return false
	}
	session, err := r.Cookie("_tower2_session")
	if err != nil || session.Value != s.SessionValue {
		return false
	}
	if r.Method == http.MethodPost {
		return r.Header.Get("X-CSRF-Token") == s.CsrfToken &&
			r.PostFormValue("conn_guid") == s.ConnGuid
	}
	return r.URL.Query().Get("conn_guid") == s.ConnGuid
}

func (s *Server) recordGet(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets = append(s.gets, r.URL.Path)
}

func (s *Server) recordPost(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Form:   r.PostForm,
		Header: r.Header.Clone(),
	})
}

// RenderMembersPage renders the members page the way it is normally served.
func (s *Server) RenderMembersPage() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<!DOCTYPE html><html><head>
<meta content="authenticity_token" name="csrf-param" />
<meta content="%s" name="csrf-token" />
</head><body>
<input type="hidden" id="conn-guid" value="%s">
<input type="hidden" id="member-guid" value="%s">
<ul class="members">
`, s.CsrfToken, s.ConnGuid, s.MemberGuid)
	for _, m := range s.Members {
		fmt.Fprintf(&b, `<li class="member"><a href="/members/%s" title="%s" class="link-member">%s</a></li>
`, m.Id, m.Name, m.Name)
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	s.recordGet(r)
	if r.PathValue("team") != s.TeamGuid || !s.remembered(r) {
		http.Redirect(w, r, "/users/sign_in", http.StatusFound)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "_tower2_session",
		Value:    s.SessionValue,
		Path:     "/",
		HttpOnly: true,
	})
	page := s.MembersPage
	if page == "" {
		page = s.RenderMembersPage()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, page)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	s.recordGet(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<html><body><form action="/users/sign_in"></form></body></html>`)
}

func (s *Server) renderEditForm() string {
	var b strings.Builder
	b.WriteString(`<form class="form-weekly-report" method="post">
<input name="utf8" type="hidden" value="&#x2713;" />
<input type="hidden" name="authenticity_token" value="` + s.CsrfToken + `" />
<input type="hidden" name="_method" value="patch" />
`)
	for _, f := range s.Fields {
		fmt.Fprintf(&b, `<div class="question">
  <input type="hidden" name="%s" value="%s" />
  <label class="question-title">
    %s
  </label>
  <div class="editor" contenteditable="true"></div>
</div>
`, f.Key, f.Value, html.EscapeString(f.Label))
	}
	b.WriteString("</form>")
	return b.String()
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	s.recordGet(r)
	if !s.authorized(r) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if s.EditFormResponse != "" {
		fmt.Fprint(w, s.EditFormResponse)
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"html": s.renderEditForm()})
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	s.recordGet(r)
	if !s.authorized(r) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	week := strings.TrimPrefix(r.PathValue("week"), "@")

	var b strings.Builder
	b.WriteString(`<div class="weekly-reports">`)
	s.mu.Lock()
	entries := s.Reports[week]
	s.mu.Unlock()
	if len(entries) > 0 {
		b.WriteString(`<dl class="report">`)
		for _, e := range entries {
			fmt.Fprintf(
				&b, "<dt><i class=\"icon twr twr-quote-left\"></i>%s</dt>\n<dd class=\"editor-style\">%s</dd>\n",
				html.EscapeString(e.Title), e.Content,
			)
		}
		b.WriteString(`</dl>`)
	} else {
		b.WriteString(`<div class="empty">nothing yet</div>`)
	}
	b.WriteString(`</div>`)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, b.String())
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	s.recordPost(r)

	w.Header().Set("Content-Type", "application/json")
	if s.SubmitResponse != "" {
		fmt.Fprint(w, s.SubmitResponse)
		return
	}

	var items []map[string]string
	err := json.Unmarshal([]byte(r.PostFormValue("data")), &items)
	if err != nil || len(items) != len(s.Fields) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"success":false,"message":"invalid data"}`)
		return
	}
	entries := make([]Entry, len(items))
	for i, item := range items {
		entries[i] = Entry{Title: s.Fields[i].Label, Content: html.EscapeString(item["content"])}
	}
	s.mu.Lock()
	s.Reports[strings.TrimPrefix(r.PathValue("week"), "@")] = entries
	s.mu.Unlock()

	fmt.Fprint(w, `{"success":true}`)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.recordGet(r)
	if !s.authorized(r) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	var b strings.Builder
	b.WriteString(`<div class="calendar-events">`)
	for _, e := range s.Events {
		fmt.Fprintf(
			&b, "<div class=\"event\" data-guid=\"%s\">\n<span class=\"event-time\">%s</span>\n<span class=\"event-content\">%s</span>\n</div>\n",
			e.Guid, html.EscapeString(e.Time), e.Content,
		)
	}
	b.WriteString(`</div>`)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, b.String())
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	s.recordPost(r)

	w.Header().Set("Content-Type", "application/json")
	if s.EventResponse != "" {
		fmt.Fprint(w, s.EventResponse)
		return
	}
	guid := fmt.Sprintf("event%04d", len(s.Posts()))
	s.mu.Lock()
	s.Events = append(s.Events, Event{
		Guid:    guid,
		Time:    r.PostFormValue("starts_at") + " - " + r.PostFormValue("ends_at"),
		Content: html.EscapeString(r.PostFormValue("content")),
	})
	s.mu.Unlock()
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"url":     fmt.Sprintf("/teams/%s/calendar_events/%s", s.TeamGuid, guid),
	})
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	s.recordPost(r)

	w.Header().Set("Content-Type", "application/json")
	if s.CommentResponse != "" {
		fmt.Fprint(w, s.CommentResponse)
		return
	}
	fmt.Fprint(w, `{"success":true}`)
}
