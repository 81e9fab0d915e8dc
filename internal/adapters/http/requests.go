package httpadapter

import "github.com/ballotline/manifesto-qa/internal/core/domain"

type searchRequest struct {
	Query   string `json:"query" validate:"required"`
	PartyID string `json:"partyId"`
	TopK    int    `json:"topK" validate:"gte=0"`
}

type answerRequest struct {
	Question string                    `json:"question" validate:"required"`
	PartyID  string                    `json:"partyId"`
	History  []domain.ConversationTurn `json:"history" validate:"dive"`
}

type analyzeRequest struct {
	PartyID string `json:"partyId" validate:"required"`
}

type compareRequest struct {
	PartyIDs []string `json:"partyIds" validate:"min=2,dive,required"`
	Topic    string   `json:"topic"`
}
