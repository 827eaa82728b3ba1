package contracts

type CreateProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Budget      int64  `json:"budget"`
	Deadline    string `json:"deadline"`
	Freelancer  string `json:"freelancer"`
}

type ApproveWorkRequest struct {
	Rating *int `json:"rating,omitempty"`
}

type DisputeProjectRequest struct {
	Reason string `json:"reason"`
}

type ResolveDisputeRequest struct {
	Outcome          string `json:"outcome"`
	ClientAmount     int64  `json:"client_amount,omitempty"`
	FreelancerAmount int64  `json:"freelancer_amount,omitempty"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Status string       `json:"status"`
	Error  ErrorPayload `json:"error"`
}

type ErrorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
