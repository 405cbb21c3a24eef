package engine

import (
	"bytes"
	"encoding/json"
	"strings"
)

type paddleItemKind int

const (
	paddleUnknown paddleItemKind = iota
	// [region, [text, confidence]]
	paddleLine
	// [[region, [text, confidence]], ...], one list per page
	paddleNested
	// {"rec_texts": [...], ...}, the page dict returned by PaddleOCR 3.x
	paddlePage
)

func (k paddleItemKind) String() string {
	switch k {
	case paddleLine:
		return "line"
	case paddleNested:
		return "nested"
	case paddlePage:
		return "page"
	default:
		return "unknown"
	}
}

type paddleItem struct {
	kind  paddleItemKind
	texts []string
}

// decodePaddleOutput flattens every recognised item into text fragments in
// order and reports how many top-level items were skipped.
func decodePaddleOutput(raw json.RawMessage) (texts []string, skipped int) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, 0
	}
	for _, raw := range items {
		item := classifyPaddleItem(raw)
		if item.kind == paddleUnknown {
			skipped++
			continue
		}
		texts = append(texts, item.texts...)
	}
	return texts, skipped
}

// classifyPaddleItem checks the line shape first: JSON has no tuples, so a
// line and a page of lines are both arrays and only the inner layout tells
// them apart. A non-empty array without a single line in it is unknown; that
// covers recognition-only pages of [text, confidence] pairs.
func classifyPaddleItem(raw json.RawMessage) paddleItem {
	if isNull(raw) {
		return paddleItem{kind: paddleUnknown}
	}
	if text, ok := paddleLineText(raw); ok {
		return paddleItem{kind: paddleLine, texts: []string{text}}
	}

	var subItems []json.RawMessage
	if err := json.Unmarshal(raw, &subItems); err == nil {
		texts := make([]string, 0, len(subItems))
		for _, sub := range subItems {
			if text, ok := paddleLineText(sub); ok {
				texts = append(texts, text)
			}
		}
		if len(subItems) > 0 && len(texts) == 0 {
			return paddleItem{kind: paddleUnknown}
		}
		return paddleItem{kind: paddleNested, texts: texts}
	}

	var page struct {
		RecTexts []string `json:"rec_texts"`
	}
	if err := json.Unmarshal(raw, &page); err == nil && page.RecTexts != nil {
		return paddleItem{kind: paddlePage, texts: page.RecTexts}
	}

	return paddleItem{kind: paddleUnknown}
}

// paddleLineText reads the text out of [region, [text, ...]].
func paddleLineText(raw json.RawMessage) (string, bool) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) < 2 {
		return "", false
	}
	if !isPaddleRegion(fields[0]) {
		return "", false
	}
	var rec []json.RawMessage
	if err := json.Unmarshal(fields[1], &rec); err != nil || len(rec) == 0 {
		return "", false
	}
	return scalarText(rec[0])
}

// isPaddleRegion reports whether raw is a box of [x, y] points.
func isPaddleRegion(raw json.RawMessage) bool {
	var points [][]json.Number
	if err := json.Unmarshal(raw, &points); err != nil || len(points) == 0 {
		return false
	}
	for _, pt := range points {
		if len(pt) < 2 {
			return false
		}
	}
	return true
}

// scalarText accepts a JSON string or number.
func scalarText(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err == nil {
		return strings.TrimSpace(n.String()), true
	}
	return "", false
}
