package model

import "time"

// ConversationTurn is one utterance in a voice session transcript
type ConversationTurn struct {
	Role      string    `json:"role" bson:"role"` // "assistant" or "user"
	Content   string    `json:"content" bson:"content"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// VoiceConversation stores a finished voice session: the raw transcript plus
// the structured data extracted from it. The interview reference is weak —
// deleting the form nulls it but keeps the conversation.
type VoiceConversation struct {
	ID            string             `json:"id" bson:"_id,omitempty"`
	SessionID     string             `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	InterviewID   string             `json:"interviewId,omitempty" bson:"interviewId,omitempty"`
	Messages      []ConversationTurn `json:"messages" bson:"messages"`
	ExtractedInfo map[string]string  `json:"extractedInfo,omitempty" bson:"extractedInfo,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CandidateName returns the extracted candidate name, if analysis ran.
func (c *VoiceConversation) CandidateName() string {
	return c.ExtractedInfo["name"]
}

// CandidateQualification returns the extracted qualification.
func (c *VoiceConversation) CandidateQualification() string {
	return c.ExtractedInfo["qualification"]
}

// CandidateExperience returns the extracted experience summary.
func (c *VoiceConversation) CandidateExperience() string {
	return c.ExtractedInfo["experience"]
}

// Analyzed reports whether extraction has populated any data.
func (c *VoiceConversation) Analyzed() bool {
	return len(c.ExtractedInfo) > 0
}
