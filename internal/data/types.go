package data

import "encoding/json"

// MatchSet is a deduplicated list of matches for one field, in the order
// each value first appeared in the text.
type MatchSet []string

// MarshalJSON keeps empty sets as [] so clients never see null.
func (m MatchSet) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(m))
}

func (m MatchSet) Contains(v string) bool {
	for _, s := range m {
		if s == v {
			return true
		}
	}
	return false
}

type VisitingCard struct {
	Emails    MatchSet `json:"emails"`
	Phones    MatchSet `json:"phones"`
	Addresses MatchSet `json:"addresses"`
}

type Passport struct {
	PassportNumbers MatchSet `json:"passport_numbers"`
	DateOfBirth     MatchSet `json:"date_of_birth"`
	MRZ             MatchSet `json:"mrz"`
}

// Extracted holds both profiles. Both are always filled; callers pick the
// one matching the document they uploaded.
type Extracted struct {
	VisitingCard VisitingCard `json:"visiting_card"`
	Passport     Passport     `json:"passport"`
}

type EngineResult struct {
	Raw       string    `json:"raw"`
	Cleaned   string    `json:"cleaned"`
	Extracted Extracted `json:"extracted"`
}

type CombinedResult struct {
	CleanedText string    `json:"cleaned_text"`
	Extracted   Extracted `json:"extracted"`
}

type Report struct {
	OCRResults     map[string]EngineResult `json:"ocr_results"`
	CombinedResult CombinedResult          `json:"combined_result"`
}
