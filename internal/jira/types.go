package jira

import (
	"encoding/json"
	"strings"

	"github.com/spec-kit/ticket-sla/internal/domain"
)

type searchResponse struct {
	Issues []issuePayload `json:"issues"`
}

type issuePayload struct {
	Key       string          `json:"key"`
	Fields    json.RawMessage `json:"fields"`
	Changelog struct {
		Histories []historyPayload `json:"histories"`
	} `json:"changelog"`
}

type named struct {
	Name string `json:"name"`
}

type person struct {
	DisplayName string `json:"displayName"`
}

type project struct {
	Name           string `json:"name"`
	ProjectTypeKey string `json:"projectTypeKey"`
}

type fieldsPayload struct {
	Summary        string   `json:"summary"`
	IssueType      *named   `json:"issuetype"`
	Status         *named   `json:"status"`
	Project        *project `json:"project"`
	Priority       *named   `json:"priority"`
	Resolution     *named   `json:"resolution"`
	Assignee       *person  `json:"assignee"`
	Reporter       *person  `json:"reporter"`
	Creator        *person  `json:"creator"`
	Created        string   `json:"created"`
	Updated        string   `json:"updated"`
	ResolutionDate *string  `json:"resolutiondate"`
	Components     []named  `json:"components"`
}

type historyPayload struct {
	ID      string        `json:"id"`
	Created string        `json:"created"`
	Items   []itemPayload `json:"items"`
}

type itemPayload struct {
	Field      string  `json:"field"`
	FromString *string `json:"fromString"`
	ToString   *string `json:"toString"`
}

func (c *Client) toIssue(raw issuePayload) (domain.Issue, error) {
	var f fieldsPayload
	if err := json.Unmarshal(raw.Fields, &f); err != nil {
		return domain.Issue{}, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(raw.Fields, &all); err != nil {
		return domain.Issue{}, err
	}

	issue := domain.Issue{
		Key:               raw.Key,
		Summary:           f.Summary,
		Assignee:          "Unassigned",
		Created:           f.Created,
		Updated:           f.Updated,
		Resolved:          f.ResolutionDate,
		SourceDetection:   customFieldString(all[c.sourceField]),
		InvestigationType: customFieldString(all[c.investigationField]),
	}
	if f.IssueType != nil {
		issue.IssueType = f.IssueType.Name
	}
	if f.Status != nil {
		issue.Status = f.Status.Name
	}
	if f.Project != nil {
		issue.ProjectName = f.Project.Name
		issue.ProjectType = f.Project.ProjectTypeKey
	}
	if f.Priority != nil {
		issue.Priority = &f.Priority.Name
	}
	if f.Resolution != nil {
		issue.Resolution = &f.Resolution.Name
	}
	if f.Assignee != nil {
		issue.Assignee = f.Assignee.DisplayName
	}
	if f.Reporter != nil {
		issue.Reporter = f.Reporter.DisplayName
	}
	if f.Creator != nil {
		issue.Creator = f.Creator.DisplayName
	}
	for _, comp := range f.Components {
		issue.Components = append(issue.Components, comp.Name)
	}

	issue.Histories = make([]domain.HistoryEntry, 0, len(raw.Changelog.Histories))
	for _, h := range raw.Changelog.Histories {
		entry := domain.HistoryEntry{ID: h.ID, Created: h.Created}
		for _, it := range h.Items {
			item := domain.ChangeItem{Field: it.Field, FromString: it.FromString}
			if it.ToString != nil {
				item.ToString = *it.ToString
			}
			entry.Items = append(entry.Items, item)
		}
		issue.Histories = append(issue.Histories, entry)
	}
	return issue, nil
}

// customFieldString renders a custom field value: plain strings, option
// objects ({"value": ...} or {"name": ...}) and arrays of either.
func customFieldString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var opt struct {
		Value string `json:"value"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(raw, &opt); err == nil {
		if opt.Value != "" {
			return opt.Value
		}
		return opt.Name
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, el := range list {
			if v := customFieldString(el); v != "" {
				parts = append(parts, v)
			}
		}
		return strings.Join(parts, ", ")
	}
	return strings.Trim(string(raw), `"`)
}
