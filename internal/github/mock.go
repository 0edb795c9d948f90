package github

import "context"

// MockAPI implements API for tests. Pages index into SearchPages /
// ListPages; out-of-range pages return empty results, matching the real
// API's behavior.
type MockAPI struct {
	Milestones []Milestone

	// SearchPages holds one slice of results per page, page numbers
	// starting at 1 like the real API's.
	SearchPages [][]PullRequest
	SearchTotal int

	// ListPages holds one slice per page for ListClosedPRs, starting at
	// page 1.
	ListPages [][]PullRequest

	// CommitPRs maps a commit SHA to its matching pull requests.
	CommitPRs map[string][]PullRequest

	// CreatedPRs and CreatedReleases record mutations.
	CreatedPRs      []CreatedPR
	CreatedReleases []CreatedRelease

	// Err is returned from every call when set.
	Err error
}

// CreatedPR records one CreatePR call.
type CreatedPR struct {
	Title, Head, Base, Body string
}

// CreatedRelease records one CreateRelease call.
type CreatedRelease struct {
	Tag, Name, Body string
}

func (m *MockAPI) ListMilestones(ctx context.Context) ([]Milestone, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Milestones, nil
}

func (m *MockAPI) SearchClosedPRs(ctx context.Context, milestoneTitle string, page int) ([]PullRequest, int, error) {
	if m.Err != nil {
		return nil, 0, m.Err
	}
	if page < 1 || page > len(m.SearchPages) {
		return nil, m.SearchTotal, nil
	}
	return m.SearchPages[page-1], m.SearchTotal, nil
}

func (m *MockAPI) ListClosedPRs(ctx context.Context, page int) ([]PullRequest, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if page < 1 || page > len(m.ListPages) {
		return nil, nil
	}
	return m.ListPages[page-1], nil
}

func (m *MockAPI) PRsForCommit(ctx context.Context, sha, base string) ([]PullRequest, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.CommitPRs[sha], nil
}

func (m *MockAPI) CreatePR(ctx context.Context, title, head, base, body string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.CreatedPRs = append(m.CreatedPRs, CreatedPR{Title: title, Head: head, Base: base, Body: body})
	return "https://github.com/osbuild/osbuild/pull/1", nil
}

func (m *MockAPI) CreateRelease(ctx context.Context, tag, name, body string) error {
	if m.Err != nil {
		return m.Err
	}
	m.CreatedReleases = append(m.CreatedReleases, CreatedRelease{Tag: tag, Name: name, Body: body})
	return nil
}
