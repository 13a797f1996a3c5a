package conversationrequests

// CreateConversationRequest creates a new intake conversation. UserID is the
// external owner reference; omitted for anonymous sessions.
type CreateConversationRequest struct {
	UserID   *uint             `json:"user_id,omitempty"`
	Title    *string           `json:"title,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// TurnUserInfo carries the demographics a turn hands to the analyzer.
type TurnUserInfo struct {
	Age      *int     `json:"age,omitempty"`
	Gender   string   `json:"gender,omitempty"`
	HeightCm *float64 `json:"height_cm,omitempty"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
	Location string   `json:"location,omitempty"`
}

// TurnRequest is one user message posted to a conversation. Latitude and
// longitude scope a subsequent doctor search when the turn triggers one.
type TurnRequest struct {
	Text      string        `json:"text"`
	UserID    *uint         `json:"user_id,omitempty"`
	UserInfo  *TurnUserInfo `json:"user_info,omitempty"`
	Latitude  *float64      `json:"latitude,omitempty"`
	Longitude *float64      `json:"longitude,omitempty"`
}
