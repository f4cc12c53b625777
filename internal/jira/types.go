package jira

type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty"`
	AccountType  string `json:"accountType,omitempty"`
	Active       bool   `json:"active"`
}

type Issue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields Fields `json:"fields"`
}

type Fields struct {
	Summary   string       `json:"summary"`
	IssueType IssueType    `json:"issuetype"`
	Project   Project      `json:"project"`
	Parent    *Parent      `json:"parent,omitempty"`
	Assignee  *User        `json:"assignee,omitempty"`
	Status    Status       `json:"status"`
	DueDate   string       `json:"duedate,omitempty"`
	Comment   *CommentPage `json:"comment,omitempty"`
}

type IssueType struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subtask bool   `json:"subtask"`
}

type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Parent is the abbreviated issue Jira embeds in a child's fields.
type Parent struct {
	ID     string       `json:"id"`
	Key    string       `json:"key"`
	Fields ParentFields `json:"fields"`
}

type ParentFields struct {
	Summary   string    `json:"summary"`
	IssueType IssueType `json:"issuetype"`
}

type Status struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CommentPage struct {
	Comments   []Comment `json:"comments"`
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      int       `json:"total"`
}

type Comment struct {
	ID      string `json:"id"`
	Author  *User  `json:"author,omitempty"`
	Body    Node   `json:"body"`
	Created string `json:"created"`
	Updated string `json:"updated,omitempty"`
}

// Node is one node of an Atlassian Document Format tree. The comment body
// itself is a node of type "doc".
type Node struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Marks   []Mark         `json:"marks,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Content []Node         `json:"content,omitempty"`
}

type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

type SearchRequest struct {
	JQL        string   `json:"jql"`
	StartAt    int      `json:"startAt"`
	MaxResults int      `json:"maxResults,omitempty"`
	Fields     []string `json:"fields,omitempty"`
}

type SearchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}
