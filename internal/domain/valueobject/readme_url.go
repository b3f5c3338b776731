package valueobject

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	domainerrors "wilddocs/internal/domain/errors/domain"
)

const (
	// MinPathPartsForRepoURL is the minimum number of path parts required for a repository URL.
	MinPathPartsForRepoURL = 2

	// DefaultBranch is assumed when a bare repository URL names no branch.
	DefaultBranch = "main"

	githubHost      = "github.com"
	githubBaseURL   = "https://github.com"
	rawContentURL   = "https://raw.githubusercontent.com"
	blobSegment     = "blob"
	readmeFile      = "README.md"
	readmeSuffix    = "/" + readmeFile
	readmeURLFormat = "%s/%s/%s/blob/%s/README.md"
)

// ReadmeURLErrorKind classifies why a README URL could not be produced.
type ReadmeURLErrorKind int

// README URL error kinds.
const (
	ReadmeURLErrorInvalidHost ReadmeURLErrorKind = iota + 1
	ReadmeURLErrorInvalidURL
	ReadmeURLErrorInvalidRepositoryPath
	ReadmeURLErrorMalformedReadmeURL
)

// String returns the name of the kind.
func (k ReadmeURLErrorKind) String() string {
	switch k {
	case ReadmeURLErrorInvalidHost:
		return "InvalidHost"
	case ReadmeURLErrorInvalidURL:
		return "InvalidUrl"
	case ReadmeURLErrorInvalidRepositoryPath:
		return "InvalidRepositoryPath"
	case ReadmeURLErrorMalformedReadmeURL:
		return "MalformedReadmeUrl"
	default:
		return fmt.Sprintf("ReadmeURLErrorKind(%d)", int(k))
	}
}

func (k ReadmeURLErrorKind) sentinel() error {
	switch k {
	case ReadmeURLErrorInvalidHost:
		return domainerrors.ErrInvalidHost
	case ReadmeURLErrorInvalidURL:
		return domainerrors.ErrInvalidURL
	case ReadmeURLErrorInvalidRepositoryPath:
		return domainerrors.ErrInvalidRepositoryPath
	case ReadmeURLErrorMalformedReadmeURL:
		return domainerrors.ErrMalformedReadmeURL
	default:
		return domainerrors.ErrInvalidInput
	}
}

// ReadmeURLError is returned by NewReadmeURL. Its message is meant to be shown
// to the user as is; callers branch on Kind or on the wrapped sentinel error.
type ReadmeURLError struct {
	Kind  ReadmeURLErrorKind
	Input string
}

// Error returns the user-facing message for the failure kind.
func (e *ReadmeURLError) Error() string {
	return e.Kind.sentinel().Error()
}

// Unwrap exposes the sentinel error so errors.Is works against domain errors.
func (e *ReadmeURLError) Unwrap() error {
	return e.Kind.sentinel()
}

// ReadmeErrorKind extracts the failure kind from err, if err came from NewReadmeURL.
func ReadmeErrorKind(err error) (ReadmeURLErrorKind, bool) {
	var readmeErr *ReadmeURLError
	if errors.As(err, &readmeErr) {
		return readmeErr.Kind, true
	}
	return 0, false
}

// ReadmeURL identifies the README.md of a GitHub repository at a branch.
// Its string form is always https://github.com/{owner}/{repo}/blob/{branch}/README.md
// and is used both as a display link and as the ingestion request payload.
type ReadmeURL struct {
	owner  string
	repo   string
	branch string
}

// NewReadmeURL validates rawURL as a GitHub URL and rewrites it into the
// canonical README blob URL.
//
// A URL that already points at blob/{branch}/README.md keeps its branch; any
// other repository URL falls back to DefaultBranch. Query strings, fragments and
// path segments past {owner}/{repo} that do not form a README location are ignored.
func NewReadmeURL(rawURL string) (ReadmeURL, error) {
	cleaned := strings.TrimRight(strings.TrimSpace(rawURL), "/")

	if !strings.Contains(cleaned, githubHost) {
		return ReadmeURL{}, newReadmeURLError(ReadmeURLErrorInvalidHost, rawURL)
	}

	parsedURL, err := url.Parse(cleaned)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return ReadmeURL{}, newReadmeURLError(ReadmeURLErrorInvalidURL, rawURL)
	}

	segments := pathSegments(parsedURL.EscapedPath())
	if len(segments) < MinPathPartsForRepoURL {
		return ReadmeURL{}, newReadmeURLError(ReadmeURLErrorInvalidRepositoryPath, rawURL)
	}

	blobIndex := slices.Index(segments, blobSegment)
	readmeIndex := slices.Index(segments, readmeFile)
	if blobIndex >= 0 && readmeIndex >= 0 {
		if blobIndex < MinPathPartsForRepoURL || readmeIndex != blobIndex+2 {
			return ReadmeURL{}, newReadmeURLError(ReadmeURLErrorMalformedReadmeURL, rawURL)
		}
		return ReadmeURL{owner: segments[0], repo: segments[1], branch: segments[blobIndex+1]}, nil
	}

	return ReadmeURL{owner: segments[0], repo: strings.TrimSuffix(segments[1], readmeSuffix), branch: DefaultBranch}, nil
}

// MustReadmeURL is like NewReadmeURL but panics on invalid input.
// Intended for constants and tests.
func MustReadmeURL(rawURL string) ReadmeURL {
	readme, err := NewReadmeURL(rawURL)
	if err != nil {
		panic(fmt.Sprintf("invalid README URL %q: %v", rawURL, err))
	}
	return readme
}

// ValidateReadmeURL reports whether rawURL can be normalized, without keeping the result.
func ValidateReadmeURL(rawURL string) error {
	_, err := NewReadmeURL(rawURL)
	return err
}

func newReadmeURLError(kind ReadmeURLErrorKind, input string) *ReadmeURLError {
	return &ReadmeURLError{Kind: kind, Input: input}
}

// pathSegments splits a URL path on "/" and drops empty segments.
func pathSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// String returns the canonical README blob URL.
func (r ReadmeURL) String() string {
	if r.IsZero() {
		return ""
	}
	return fmt.Sprintf(readmeURLFormat, githubBaseURL, r.owner, r.repo, r.branch)
}

// Owner returns the repository owner or organization.
func (r ReadmeURL) Owner() string {
	return r.owner
}

// Repo returns the repository name.
func (r ReadmeURL) Repo() string {
	return r.repo
}

// Branch returns the branch the README is read from.
func (r ReadmeURL) Branch() string {
	return r.branch
}

// FullName returns "owner/repo".
func (r ReadmeURL) FullName() string {
	if r.IsZero() {
		return ""
	}
	return r.owner + "/" + r.repo
}

// RepositoryURL returns https://github.com/{owner}/{repo}, the link the backend
// reports a project under once its README has been ingested.
func (r ReadmeURL) RepositoryURL() string {
	if r.IsZero() {
		return ""
	}
	return githubBaseURL + "/" + r.FullName()
}

// RawURL returns the raw.githubusercontent.com location of the README file.
func (r ReadmeURL) RawURL() string {
	if r.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s", rawContentURL, r.owner, r.repo, r.branch, readmeFile)
}

// IsDefaultBranch reports whether the README is read from DefaultBranch.
func (r ReadmeURL) IsDefaultBranch() bool {
	return r.branch == DefaultBranch
}

// IsZero reports whether r is the zero value.
func (r ReadmeURL) IsZero() bool {
	return r.owner == "" && r.repo == "" && r.branch == ""
}

// Equal compares two README URLs.
func (r ReadmeURL) Equal(other ReadmeURL) bool {
	return r == other
}

// MarshalText encodes the canonical URL, so a ReadmeURL serializes as a plain string.
func (r ReadmeURL) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText normalizes text into r.
func (r *ReadmeURL) UnmarshalText(text []byte) error {
	parsed, err := NewReadmeURL(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
