package entities

// TranscriptLine is one spoken segment of an asset's transcript
type TranscriptLine struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Contains reports whether position falls inside the line's window
func (l TranscriptLine) Contains(position float64) bool {
	return position >= l.Start && position <= l.End
}
