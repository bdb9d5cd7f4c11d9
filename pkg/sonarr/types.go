package sonarr

// Series is a Sonarr library entry.
type Series struct {
	ID              int64            `json:"id"`
	Title           string           `json:"title"`
	SortTitle       string           `json:"sortTitle"`
	Year            int              `json:"year"`
	TVDBID          int64            `json:"tvdbId"`
	Path            string           `json:"path"`
	AlternateTitles []AlternateTitle `json:"alternateTitles"`
}

// AlternateTitle is an alias Sonarr knows a series under.
type AlternateTitle struct {
	Title        string `json:"title"`
	SeasonNumber int    `json:"seasonNumber"`
}

// SystemStatus is the reply from /api/v3/system/status.
type SystemStatus struct {
	AppName string `json:"appName"`
	Version string `json:"version"`
}

// ImportMode tells Sonarr whether to copy or move a file into its library.
type ImportMode string

const (
	ImportModeMove ImportMode = "Move"
	ImportModeCopy ImportMode = "Copy"
)

// Command is a Sonarr command resource as returned by /api/v3/command.
type Command struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"` // queued, started, completed, failed
	Message string `json:"message"`
}

// Finished reports whether the command reached a terminal state.
func (c *Command) Finished() bool {
	return c.Status == "completed" || c.Status == "failed" || c.Status == "aborted"
}

// scanRequest is the body for a DownloadedEpisodesScan command.
type scanRequest struct {
	Name             string `json:"name"`
	Path             string `json:"path"`
	ImportMode       string `json:"importMode"`
	DownloadClientID string `json:"downloadClientId,omitempty"`
}
