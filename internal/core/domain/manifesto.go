package domain

import (
	"fmt"
	"time"
)

type ManifestoStatus string

const (
	StatusUploaded   ManifestoStatus = "uploaded"
	StatusProcessing ManifestoStatus = "processing"
	StatusReady      ManifestoStatus = "ready"
	StatusFailed     ManifestoStatus = "failed"
)

// Chunk is the unit of indexing and retrieval. ChunkID is derived from the
// party id and the 0-based chunk index, so re-ingesting a party produces the
// same ids and overwrites prior vectors.
type Chunk struct {
	ChunkID    string `json:"chunkId"`
	PartyID    string `json:"partyId"`
	PartyName  string `json:"partyName"`
	Text       string `json:"text"`
	ChunkIndex int    `json:"chunkIndex"`
}

func ChunkID(partyID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", partyID, index)
}

// Manifesto is the fully processed in-memory document: extracted text plus
// its ordered chunk sequence. Built completely before it is stored, never
// mutated afterwards.
type Manifesto struct {
	PartyID     string    `json:"partyId"`
	PartyName   string    `json:"partyName"`
	Text        string    `json:"text"`
	Chunks      []Chunk   `json:"chunks"`
	PageCount   int       `json:"pageCount"`
	ProcessedAt time.Time `json:"processedAt"`
}

// ManifestoSummary is the list-endpoint projection.
type ManifestoSummary struct {
	PartyID     string    `json:"partyId"`
	PartyName   string    `json:"partyName"`
	ChunkCount  int       `json:"chunkCount"`
	ProcessedAt time.Time `json:"processedAt"`
}

// ManifestoRecord is the durable metadata row backing the upload lifecycle.
type ManifestoRecord struct {
	PartyID     string          `json:"partyId"`
	PartyName   string          `json:"partyName"`
	Filename    string          `json:"filename"`
	StoragePath string          `json:"storagePath"`
	PageCount   int             `json:"pageCount"`
	ChunkCount  int             `json:"chunkCount"`
	Status      ManifestoStatus `json:"status"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
