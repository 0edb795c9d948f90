// Package github provides the narrow slice of the GitHub API the release
// playbook needs: milestone listing, pull request listing and search, pull
// request creation and release creation.
//
// This is deliberately not a general GitHub client. The [API] interface
// exists so the news aggregator and the playbook can be tested against
// [MockAPI] without network access; [Client] is the production
// implementation on top of google/go-github.
package github

import (
	"context"
	"fmt"

	gogithub "github.com/google/go-github/v39/github"
	"golang.org/x/oauth2"
)

// PageSize is the number of results requested per page, matching the
// original tool's search page size.
const PageSize = 20

// Milestone is a release grouping on GitHub.
type Milestone struct {
	Number int
	Title  string
	URL    string
}

// PullRequest carries the fields the news aggregator renders.
type PullRequest struct {
	Number          int
	Title           string
	Body            string
	URL             string
	State           string
	MilestoneNumber int
}

// API is the GitHub access contract consumed by the aggregator and the
// playbook.
type API interface {
	// ListMilestones returns all milestones of the repository in API order.
	ListMilestones(ctx context.Context) ([]Milestone, error)

	// SearchClosedPRs returns one page of closed pull requests attached to
	// the named milestone, plus the API-reported total across all pages.
	// Pages are numbered from 1; page 0 means "unpaginated" to the API and
	// returns the first page again.
	SearchClosedPRs(ctx context.Context, milestoneTitle string, page int) ([]PullRequest, int, error)

	// ListClosedPRs returns one page of the repository's closed pull
	// requests. Pages are numbered from 1; an out-of-range page yields an
	// empty slice.
	ListClosedPRs(ctx context.Context, page int) ([]PullRequest, error)

	// PRsForCommit returns the closed pull requests on the given base
	// branch that contain the commit.
	PRsForCommit(ctx context.Context, sha, base string) ([]PullRequest, error)

	// CreatePR opens a pull request and returns its URL.
	CreatePR(ctx context.Context, title, head, base, body string) (string, error)

	// CreateRelease creates a (non-draft, non-prerelease) GitHub release.
	CreateRelease(ctx context.Context, tag, name, body string) error
}

// Client implements API against api.github.com.
type Client struct {
	gh    *gogithub.Client
	owner string
	repo  string
}

// NewClient creates a Client for owner/repo. An empty token yields an
// unauthenticated client, which works but is subject to a much stricter
// rate limit.
func NewClient(ctx context.Context, owner, repo, token string) *Client {
	var gh *gogithub.Client
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		gh = gogithub.NewClient(oauth2.NewClient(ctx, src))
	} else {
		gh = gogithub.NewClient(nil)
	}
	return &Client{gh: gh, owner: owner, repo: repo}
}

func (c *Client) ListMilestones(ctx context.Context) ([]Milestone, error) {
	opts := &gogithub.MilestoneListOptions{State: "all"}
	ghMilestones, _, err := c.gh.Issues.ListMilestones(ctx, c.owner, c.repo, opts)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}

	milestones := make([]Milestone, 0, len(ghMilestones))
	for _, m := range ghMilestones {
		milestones = append(milestones, Milestone{
			Number: m.GetNumber(),
			Title:  m.GetTitle(),
			URL:    m.GetHTMLURL(),
		})
	}
	return milestones, nil
}

func (c *Client) SearchClosedPRs(ctx context.Context, milestoneTitle string, page int) ([]PullRequest, int, error) {
	query := fmt.Sprintf("milestone:%q type:pr repo:%s/%s", milestoneTitle, c.owner, c.repo)
	opts := &gogithub.SearchOptions{
		ListOptions: gogithub.ListOptions{Page: page, PerPage: PageSize},
	}

	result, _, err := c.gh.Search.Issues(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("searching pull requests: %w", err)
	}

	prs := make([]PullRequest, 0, len(result.Issues))
	for _, issue := range result.Issues {
		prs = append(prs, PullRequest{
			Number:          issue.GetNumber(),
			Title:           issue.GetTitle(),
			Body:            issue.GetBody(),
			URL:             issue.GetHTMLURL(),
			State:           issue.GetState(),
			MilestoneNumber: issue.GetMilestone().GetNumber(),
		})
	}
	return prs, result.GetTotal(), nil
}

func (c *Client) ListClosedPRs(ctx context.Context, page int) ([]PullRequest, error) {
	opts := &gogithub.PullRequestListOptions{
		State:       "closed",
		ListOptions: gogithub.ListOptions{Page: page, PerPage: PageSize},
	}

	ghPRs, _, err := c.gh.PullRequests.List(ctx, c.owner, c.repo, opts)
	if err != nil {
		return nil, fmt.Errorf("listing closed pull requests: %w", err)
	}
	return convertPRs(ghPRs), nil
}

func (c *Client) PRsForCommit(ctx context.Context, sha, base string) ([]PullRequest, error) {
	opts := &gogithub.PullRequestListOptions{State: "closed", Base: base}
	ghPRs, _, err := c.gh.PullRequests.ListPullRequestsWithCommit(ctx, c.owner, c.repo, sha, opts)
	if err != nil {
		return nil, fmt.Errorf("looking up pull requests for commit %s: %w", sha, err)
	}
	return convertPRs(ghPRs), nil
}

func (c *Client) CreatePR(ctx context.Context, title, head, base, body string) (string, error) {
	newPR := &gogithub.NewPullRequest{
		Title:               gogithub.String(title),
		Head:                gogithub.String(head),
		Base:                gogithub.String(base),
		Body:                gogithub.String(body),
		MaintainerCanModify: gogithub.Bool(true),
		Draft:               gogithub.Bool(false),
	}

	pr, _, err := c.gh.PullRequests.Create(ctx, c.owner, c.repo, newPR)
	if err != nil {
		return "", fmt.Errorf("creating pull request: %w", err)
	}
	return pr.GetHTMLURL(), nil
}

func (c *Client) CreateRelease(ctx context.Context, tag, name, body string) error {
	release := &gogithub.RepositoryRelease{
		TagName:    gogithub.String(tag),
		Name:       gogithub.String(name),
		Body:       gogithub.String(body),
		Draft:      gogithub.Bool(false),
		Prerelease: gogithub.Bool(false),
	}

	_, _, err := c.gh.Repositories.CreateRelease(ctx, c.owner, c.repo, release)
	if err != nil {
		return fmt.Errorf("creating release %s: %w", tag, err)
	}
	return nil
}

func convertPRs(ghPRs []*gogithub.PullRequest) []PullRequest {
	prs := make([]PullRequest, 0, len(ghPRs))
	for _, pr := range ghPRs {
		prs = append(prs, PullRequest{
			Number:          pr.GetNumber(),
			Title:           pr.GetTitle(),
			Body:            pr.GetBody(),
			URL:             pr.GetHTMLURL(),
			State:           pr.GetState(),
			MilestoneNumber: pr.GetMilestone().GetNumber(),
		})
	}
	return prs
}
