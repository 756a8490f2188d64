package service

// Broadcaster pushes live events to admin dashboard watchers. The WebSocket
// hub implements it; services treat it as optional.
type Broadcaster interface {
	ResponseSubmitted(templateID, responseID string, totalResponses int64)
	ResponsesDeleted(templateID string, totalResponses int64)
}
