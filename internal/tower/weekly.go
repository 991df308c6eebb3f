package tower

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"towerassist/internal/extract"
	"towerassist/lib/htmlutil"
)

const (
	report_weekly_fields  = "weekly.fields"
	report_weekly_reports = "weekly.reports"
	report_weekly_submit  = "weekly.submit"
)

// WeeklyField is one question of the weekly report form. Key and Value are
// the hidden input's name and value, Label is the human readable question.
type WeeklyField struct {
	Key   string
	Value string
	Label string
}

// ReportEntry is one answered question of an already submitted report.
// Content is raw HTML.
type ReportEntry struct {
	Title   string
	Content string
}

// Text renders Content as plain text.
func (e ReportEntry) Text() string {
	return htmlutil.FragmentText(e.Content)
}

// SubmissionResult is the interpreted response of a state changing post.
type SubmissionResult struct {
	Success bool
	RawBody string
}

// WeeklyFields loads the ordered questions of the weekly report form.
func (s *Session) WeeklyFields(ctx context.Context, week Week) ([]WeeklyField, error) {
	res, err := s.get(ctx, weeklyEditPath(s.memberId, week), nil, acceptJson)
	if err != nil {
		return nil, err
	}

	var envelope map[string]any
	err = json.Unmarshal(res.Body(), &envelope)
	if err != nil {
		s.tel.ReportBroken(report_weekly_fields, err)
		return nil, fmt.Errorf("%w: edit form is not a json object: %w", ErrUnexpectedResponseShape, err)
	}
	form, ok := envelope["html"].(string)
	if !ok {
		s.tel.ReportBroken(report_weekly_fields, "edit form has no html string", res.String())
		return nil, fmt.Errorf("%w: edit form has no html string", ErrUnexpectedResponseShape)
	}

	fields := ParseWeeklyFields(s.extractor, form)
	if len(fields) == 0 {
		s.tel.ReportWarning(report_weekly_fields, "edit form contains no fields", week.String())
	}
	return fields, nil
}

// ParseWeeklyFields extracts the report questions out of the edit form html
// in document order.
func ParseWeeklyFields(e extract.Extractor, form string) []WeeklyField {
	var fields []WeeklyField
	for _, row := range e.Extract(form, weeklyFieldPattern) {
		key := html.UnescapeString(row[0])
		if ignoredFieldNames[key] {
			continue
		}
		fields = append(fields, WeeklyField{
			Key:   key,
			Value: html.UnescapeString(row[1]),
			Label: htmlutil.NormalizeSpace(row[2]),
		})
	}
	return fields
}

// WeeklyReports loads what was already submitted for the given week. The
// result is empty when nothing has been submitted yet.
func (s *Session) WeeklyReports(ctx context.Context, week Week) ([]ReportEntry, error) {
	res, err := s.get(ctx, weeklyReportsPath(s.memberId, week), map[string]string{"pjax": "1"}, "")
	if err != nil {
		return nil, err
	}

	body := res.String()
	titles := s.extractor.Extract(body, reportTitlePattern)
	contents := s.extractor.Extract(body, reportContentPattern)
	if len(titles) != len(contents) {
		s.tel.ReportBroken(report_weekly_reports, "title and content counts differ", len(titles), len(contents))
		return nil, fmt.Errorf(
			"%w: report page has %d titles but %d contents",
			ErrMarkupMismatch, len(titles), len(contents),
		)
	}

	entries := make([]ReportEntry, len(titles))
	for i := range titles {
		entries[i] = ReportEntry{
			Title:   html.UnescapeString(strings.TrimSpace(titles[i][0])),
			Content: strings.TrimSpace(contents[i][0]),
		}
	}
	return entries, nil
}

// EncodeAnswers builds the submission payload, a json array holding
// {"content": answer, key: value} for every field in order.
func EncodeAnswers(fields []WeeklyField, answers []string) (string, error) {
	if len(fields) != len(answers) {
		return "", fmt.Errorf("%w: %d fields, %d answers", ErrAlignmentViolation, len(fields), len(answers))
	}
	items := make([]map[string]string, len(fields))
	for i, f := range fields {
		items[i] = map[string]string{
			f.Key:     f.Value,
			"content": answers[i],
		}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SubmitWeekly posts the answers for the given week. A response that is not
// a literal success is not an error, it comes back with Success false.
func (s *Session) SubmitWeekly(ctx context.Context, week Week, fields []WeeklyField, answers []string) (SubmissionResult, error) {
	data, err := EncodeAnswers(fields, answers)
	if err != nil {
		return SubmissionResult{}, err
	}

	res, err := s.postForm(ctx, weeklySubmitPath(s.memberId, week), map[string]string{
		"data": data,
	})
	if err != nil {
		return SubmissionResult{}, err
	}

	result := SubmissionResult{
		Success: succeeded(res.Body()),
		RawBody: res.String(),
	}
	if !result.Success {
		s.tel.ReportWarning(report_weekly_submit, "submission not accepted", res.Status(), result.RawBody)
	}
	return result, nil
}

// succeeded is true only for a json object whose "success" is the boolean true.
func succeeded(body []byte) bool {
	var parsed map[string]any
	err := json.Unmarshal(body, &parsed)
	if err != nil {
		return false
	}
	ok, _ := parsed["success"].(bool)
	return ok
}
