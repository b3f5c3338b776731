package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"wilddocs/internal/application/common/slogger"
	"wilddocs/internal/application/dto"
	"wilddocs/internal/domain/valueobject"
)

const (
	// DefaultPollInterval is the default time to wait between project list checks.
	DefaultPollInterval = 2 * time.Second

	// DefaultMaxWait is the default maximum time to wait for a project to be listed.
	DefaultMaxWait = 5 * time.Minute
)

// ErrPollingTimeout is returned when a project is not listed within the maximum wait.
var ErrPollingTimeout = errors.New("polling timeout exceeded")

// Progress status constants for JSON output.
const (
	progressStatusPolling = "polling"
)

// PollerConfig configures the behavior of a Poller.
// Zero values for fields will use defaults from DefaultPollInterval and DefaultMaxWait.
type PollerConfig struct {
	Interval time.Duration
	MaxWait  time.Duration
}

// ProjectLister lists ingested projects.
type ProjectLister interface {
	ListProjects(ctx context.Context) ([]dto.Project, error)
}

// Poller waits for a submitted README to show up in the project list.
type Poller struct {
	lister   ProjectLister
	interval time.Duration
	maxWait  time.Duration
}

// progressUpdate is written as one JSON line per unsuccessful poll.
type progressUpdate struct {
	Status        string `json:"status"`
	RepositoryURL string `json:"repository_url"`
	Elapsed       string `json:"elapsed"`
	PollCount     int    `json:"poll_count"`
	LastError     string `json:"last_error,omitempty"`
}

// NewPoller creates a new Poller with the given lister and configuration.
// If config is nil or has zero values, defaults are used.
func NewPoller(lister ProjectLister, config *PollerConfig) (*Poller, error) {
	if lister == nil {
		return nil, errors.New("client cannot be nil")
	}

	interval := DefaultPollInterval
	maxWait := DefaultMaxWait

	if config != nil {
		if config.Interval > 0 {
			interval = config.Interval
		}
		if config.MaxWait > 0 {
			maxWait = config.MaxWait
		}
	}

	return &Poller{
		lister:   lister,
		interval: interval,
		maxWait:  maxWait,
	}, nil
}

// WaitForProject polls the project list until a project whose link matches
// readme's repository URL appears. Transient list failures are retried until
// the maximum wait elapses; authorization failures end polling immediately.
//
// Progress updates are written as JSON lines to progressWriter:
//
//	{"status":"polling","repository_url":"https://github.com/o/r","elapsed":"2s","poll_count":1}
func (p *Poller) WaitForProject(
	ctx context.Context,
	readme valueobject.ReadmeURL,
	progressWriter io.Writer,
) (*dto.Project, error) {
	repositoryURL := readme.RepositoryURL()
	startTime := time.Now()
	pollCount := 0

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		update := progressUpdate{Status: progressStatusPolling, RepositoryURL: repositoryURL}

		projects, err := p.lister.ListProjects(ctx)
		switch {
		case err == nil:
			if project, ok := dto.FindProject(projects, repositoryURL); ok {
				return &project, nil
			}
		case ctx.Err() != nil:
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		case isPermanent(err):
			return nil, err
		default:
			update.LastError = err.Error()
			slogger.Debug(ctx, "Project list poll failed", slogger.Fields{
				"repository_url": repositoryURL,
				"error":          err.Error(),
			})
		}

		pollCount++
		elapsed := time.Since(startTime)
		update.Elapsed = elapsed.Round(time.Millisecond).String()
		update.PollCount = pollCount
		if progressWriter != nil {
			if err := json.NewEncoder(progressWriter).Encode(update); err != nil {
				slogger.Debug(ctx, "Failed to write poll progress", slogger.Fields{
					"repository_url": repositoryURL,
					"error":          err.Error(),
				})
			}
		}

		if elapsed >= p.maxWait {
			return nil, ErrPollingTimeout
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
