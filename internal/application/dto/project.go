package dto

import "wilddocs/internal/domain/valueobject"

// Project is an ingested repository as listed by the backend. ReadmeURL holds
// the repository link (https://github.com/{owner}/{repo}) despite its name.
type Project struct {
	Name        string `json:"name"`
	ReadmeURL   string `json:"readmeUrl"`
	Description string `json:"description"`
}

// ProcessGitHubRequest asks the backend to ingest a repository README.
type ProcessGitHubRequest struct {
	RepoURL valueobject.ReadmeURL `json:"repo_url"`
}

// ProcessResponse reports the outcome of an ingestion request.
type ProcessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AddProjectResult pairs a submitted README URL with the backend outcome.
type AddProjectResult struct {
	ReadmeURL     valueobject.ReadmeURL `json:"readme_url"`
	RepositoryURL string                `json:"repository_url"`
	Success       bool                  `json:"success"`
	Message       string                `json:"message"`
}

// FindProject returns the project listed under repositoryURL.
func FindProject(projects []Project, repositoryURL string) (Project, bool) {
	for _, p := range projects {
		if p.ReadmeURL == repositoryURL {
			return p, true
		}
	}
	return Project{}, false
}
