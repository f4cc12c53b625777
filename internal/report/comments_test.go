package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duailibe/jira-report/internal/jira"
)

func text(s string) jira.Node { return jira.Node{Type: "text", Text: s} }

func link(s string) jira.Node {
	return jira.Node{Type: "text", Text: s, Marks: []jira.Mark{{Type: "link", Attrs: map[string]any{"href": s}}}}
}

func hardBreak() jira.Node { return jira.Node{Type: "hardBreak"} }

func paragraph(content ...jira.Node) jira.Node {
	return jira.Node{Type: "paragraph", Content: content}
}

func codeBlock(s string) jira.Node {
	return jira.Node{Type: "codeBlock", Content: []jira.Node{text(s)}}
}

func doc(blocks ...jira.Node) jira.Node {
	return jira.Node{Type: "doc", Content: blocks}
}

func comment(id, created string, body jira.Node) jira.Comment {
	return jira.Comment{ID: id, Author: kim, Body: body, Created: created}
}

func withComments(issue jira.Issue, comments ...jira.Comment) jira.Issue {
	issue.Fields.Comment = &jira.CommentPage{Comments: comments, Total: len(comments)}
	return issue
}

func TestFilterKeepsMarkerCommentsFromDate(t *testing.T) {
	issue := withComments(taskIssue("T1", "P", "E1"),
		comment("c1", "2024-03-04T10:15:00.000+0900", doc(paragraph(text("#REPORT# 완료")))),
		comment("c2", "2024-03-03T23:59:00.000+0900", doc(paragraph(text("#REPORT# 어제")))),
		comment("c3", "2024-03-05T00:01:00.000+0900", doc(paragraph(text("#REPORT# 내일")))),
		comment("c4", "2024-03-04T11:00:00.000+0900", doc(paragraph(text("그냥 댓글")))),
		comment("c5", "2024-03-04T12:00:00.000+0900", doc(paragraph(text("#REPORT#")))),
	)
	filter := CommentFilter{Marker: DefaultMarker, Location: seoul}

	entries := filter.Filter(mustDate(t, "2024-03-04"), []jira.Issue{issue, taskIssue("T2", "P", "E1")})
	require.Len(t, entries, 2)
	assert.Equal(t, "c1", entries[0].Comment.ID)
	assert.Equal(t, "완료", entries[0].Text)
	assert.Equal(t, "c5", entries[1].Comment.ID)
	assert.Equal(t, "", entries[1].Text)
	assert.Equal(t, "T1", entries[0].Issue.ID)
}

func TestFilterComparesDaysInLocation(t *testing.T) {
	// 2024-03-03 16:30 UTC is already 2024-03-04 in Seoul.
	issue := withComments(taskIssue("T1", "P", "E1"),
		comment("c1", "2024-03-03T16:30:00.000+0000", doc(paragraph(text("#REPORT# 배포")))),
		comment("c2", "not a timestamp", doc(paragraph(text("#REPORT# 배포")))),
	)
	filter := CommentFilter{Marker: DefaultMarker, Location: seoul}

	entries := filter.Filter(mustDate(t, "2024-03-04"), []jira.Issue{issue})
	require.Len(t, entries, 1)
	assert.Equal(t, "c1", entries[0].Comment.ID)
}

func TestFilterRequiresMarkerUpFront(t *testing.T) {
	issue := withComments(taskIssue("T1", "P", "E1"),
		comment("c1", "2024-03-04T10:00:00.000+0900", doc(paragraph(text("참고")), paragraph(text("#REPORT# 늦은 마커")))),
	)
	entries := CommentFilter{Marker: DefaultMarker, Location: seoul}.Filter(mustDate(t, "2024-03-04"), []jira.Issue{issue})
	assert.Empty(t, entries)
}

func TestExtractText(t *testing.T) {
	cases := []struct {
		name string
		body jira.Node
		want string
	}{
		{
			name: "hard breaks split lines",
			body: doc(paragraph(text("#REPORT# 로그인 수정"), hardBreak(), text("배포 완료"))),
			want: "로그인 수정\n배포 완료",
		},
		{
			name: "links stay on the line",
			body: doc(paragraph(text("#REPORT# PR "), link("https://example.com/pr/1"), text(" 머지"))),
			want: "PR https://example.com/pr/1 머지",
		},
		{
			name: "break before a link is dropped",
			body: doc(paragraph(text("#REPORT# PR: "), hardBreak(), link("https://example.com/pr/2"), hardBreak(), text("리뷰 대기"))),
			want: "PR: https://example.com/pr/2\n리뷰 대기",
		},
		{
			name: "breaks before blank runs wait for real text",
			body: doc(paragraph(text("#REPORT# 하나"), hardBreak(), text("  "), hardBreak(), link("https://example.com/a"))),
			want: "하나https://example.com/a",
		},
		{
			name: "trailing break adds no empty line",
			body: doc(paragraph(text("#REPORT# 끝"), hardBreak())),
			want: "끝",
		},
		{
			name: "later paragraphs",
			body: doc(paragraph(text("#REPORT#")), paragraph(text("첫째")), paragraph(text("  ")), paragraph(text("둘째"))),
			want: "첫째\n둘째",
		},
		{
			name: "code block lines",
			body: doc(paragraph(text("#REPORT# 로그")), codeBlock("line 1\r\n\nline 2")),
			want: "로그\nline 1\nline 2",
		},
		{
			name: "text before the marker is ignored",
			body: doc(paragraph(text("메모")), paragraph(text("#REPORT# 본문"))),
			want: "본문",
		},
		{
			name: "unknown blocks are skipped",
			body: doc(paragraph(text("#REPORT# 항목")), jira.Node{Type: "bulletList"}),
			want: "항목",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractText(ParseBlocks(tc.body), DefaultMarker))
		})
	}
}

func TestParseBlocks(t *testing.T) {
	blocks := ParseBlocks(doc(
		paragraph(text("a"), hardBreak(), link("b"), jira.Node{Type: "mention"}),
		codeBlock("x"),
	))
	assert.Equal(t, []Block{
		Paragraph{Inlines: []Inline{TextRun{Text: "a"}, HardBreak{}, TextRun{Text: "b", Link: true}}},
		CodeBlock{Text: "x"},
	}, blocks)
}

func TestGroupByUser(t *testing.T) {
	lee := &jira.User{AccountID: "acc-lee", DisplayName: "이영희"}
	leeIssue := taskIssue("T2", "P", "E1")
	leeIssue.Fields.Assignee = lee
	unassigned := taskIssue("T3", "P", "E1")
	unassigned.Fields.Assignee = nil

	entries := []CommentEntry{
		{Issue: taskIssue("T1", "P", "E1"), Text: "kim 1"},
		{Issue: leeIssue, Text: "lee 1"},
		{Issue: unassigned, Text: "nobody"},
		{Issue: taskIssue("T4", "P", "E1"), Text: "kim 2"},
	}

	groups := GroupByUser(entries, []string{"acc-lee", "acc-park", "acc-kim", "acc-lee"})
	require.Len(t, groups, 2)
	assert.Equal(t, "acc-lee", groups[0].User.AccountID)
	assert.Equal(t, "이영희", groups[0].User.DisplayName)
	require.Len(t, groups[0].Entries, 1)
	assert.Equal(t, "acc-kim", groups[1].User.AccountID)
	require.Len(t, groups[1].Entries, 2)
	assert.Equal(t, "kim 1", groups[1].Entries[0].Text)
	assert.Equal(t, "kim 2", groups[1].Entries[1].Text)

	assert.Empty(t, GroupByUser(nil, []string{"acc-kim"}))
}
