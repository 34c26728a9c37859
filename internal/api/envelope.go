package api

// Envelope statuses. fail marks client errors (4xx), error marks server
// errors (5xx).
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Envelope wraps every JSON response body.
type Envelope struct {
	Status   string   `json:"status"`
	Data     any      `json:"data"`
	Messages []string `json:"messages"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
