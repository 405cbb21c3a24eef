package data

import (
	"regexp"
	"strings"
)

var (
	emailRegex    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRegex    = regexp.MustCompile(`(?:\+880|\+88|01|\+?\d{1,3})[\s\-]?\d{8,11}`)
	passportRegex = regexp.MustCompile(`\b[A-Z]{1,2}[0-9]{7,8}\b`)
	dobRegex      = regexp.MustCompile(`\b\d{2}[/\-]\d{2}[/\-]\d{4}\b`)
	mrzRegex      = regexp.MustCompile(`P[A-Z<]{20,44}`)
	lineSplit     = regexp.MustCompile(`[,.]`)
)

var addressKeywords = []string{"road", "street", "avenue", "house", "floor", "block", "dhaka", "bangladesh"}

// All extractors expect text that already went through Normalize.

func ExtractEmails(text string) MatchSet {
	return unique(emailRegex.FindAllString(text, -1))
}

// ExtractPhones is deliberately permissive: the bare 1-3 digit prefix branch
// also matches long digit runs such as passport or account numbers.
func ExtractPhones(text string) MatchSet {
	return unique(phoneRegex.FindAllString(text, -1))
}

// ExtractAddresses keeps comma/period separated segments that mention a
// known address keyword.
func ExtractAddresses(text string) MatchSet {
	var kept []string
	for _, line := range lineSplit.Split(text, -1) {
		lower := strings.ToLower(line)
		for _, k := range addressKeywords {
			if strings.Contains(lower, k) {
				kept = append(kept, strings.TrimSpace(line))
				break
			}
		}
	}
	return unique(kept)
}

func ExtractPassportNumbers(text string) MatchSet {
	return unique(passportRegex.FindAllString(text, -1))
}

// ExtractDateOfBirth returns every DD/MM/YYYY or DD-MM-YYYY shaped token.
// Nothing checks that the date is actually a birth date.
func ExtractDateOfBirth(text string) MatchSet {
	return unique(dobRegex.FindAllString(text, -1))
}

func ExtractMRZ(text string) MatchSet {
	return unique(mrzRegex.FindAllString(text, -1))
}

// ExtractAll runs every extractor. There is no document classification step.
func ExtractAll(text string) Extracted {
	return Extracted{
		VisitingCard: VisitingCard{
			Emails:    ExtractEmails(text),
			Phones:    ExtractPhones(text),
			Addresses: ExtractAddresses(text),
		},
		Passport: Passport{
			PassportNumbers: ExtractPassportNumbers(text),
			DateOfBirth:     ExtractDateOfBirth(text),
			MRZ:             ExtractMRZ(text),
		},
	}
}

func unique(values []string) MatchSet {
	seen := make(map[string]bool, len(values))
	out := make(MatchSet, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
