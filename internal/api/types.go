package api

// TranscriptRequest is the body of POST /transcript.
type TranscriptRequest struct {
	URL string `json:"url"`
}

// TranscriptResponse is the uniform envelope every transcript request gets
// back, success or not.
type TranscriptResponse struct {
	Success    bool   `json:"success"`
	Transcript string `json:"transcript,omitempty"`
	VideoID    string `json:"videoId,omitempty"`
	Title      string `json:"title,omitempty"`
	Method     string `json:"method,omitempty"`
	Error      string `json:"error,omitempty"`
}

// VideoRequest is the body of POST /videos.
type VideoRequest struct {
	URL          string `json:"url"`
	IsSearchable bool   `json:"isSearchable"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}
