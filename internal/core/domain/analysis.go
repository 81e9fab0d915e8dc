package domain

// ManifestoAnalysis is the structured key-point extraction for one stored
// manifesto. Analysis is the generator's output verbatim.
type ManifestoAnalysis struct {
	PartyID    string `json:"partyId"`
	PartyName  string `json:"partyName"`
	Analysis   string `json:"analysis"`
	TextLength int    `json:"textLength"`
}

// ManifestoComparison contrasts two or more manifestos on a topic.
type ManifestoComparison struct {
	Topic      string   `json:"topic"`
	PartyNames []string `json:"partiesCompared"`
	Comparison string   `json:"comparison"`
}
