package fdb

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	groupOpenTag  = "<gr-id>"
	groupCloseTag = "</gr-id>"

	// unassignedByte has no character in Windows-1251 even where a decoder
	// table maps it to a C1 control.
	unassignedByte = 0x98
)

// ignorable characters are interleaved with the hex digits of a payload.
var ignorable = strings.NewReplacer(",", "", "\\", "", "\r", "", "\n", "", " ", "")

// Tags is the output of the tag decoder.
type Tags struct {
	// Snippets holds one "<id>\n<text></id>" fragment per non-empty tag span, in scan order.
	Snippets []string
	// GroupText is the decoded <gr-id> payload, empty when the span is absent.
	GroupText string
	// Failed counts spans whose payload was not valid hex.
	Failed int
}

// Joined concatenates the snippets the way the question extractor expects them.
func (t Tags) Joined() string {
	return strings.Join(t.Snippets, "\n")
}

// tagSpan is one "<digits>body</digits>" occurrence.
type tagSpan struct {
	ID   string
	Body string
}

// scanTagSpans tokenizes text into numeric tag spans. The closing tag must carry
// the same digits as the opening one and the first such closing tag ends the span.
// An opening tag without a matching close is skipped and scanning resumes right
// after its '<'.
func scanTagSpans(text string) []tagSpan {
	var spans []tagSpan
	pos := 0
	for pos < len(text) {
		open := strings.IndexByte(text[pos:], '<')
		if open < 0 {
			break
		}
		start := pos + open
		id, bodyStart, ok := readOpenTag(text, start)
		if !ok {
			pos = start + 1
			continue
		}
		closeTag := "</" + id + ">"
		end := strings.Index(text[bodyStart:], closeTag)
		if end < 0 {
			pos = start + 1
			continue
		}
		spans = append(spans, tagSpan{ID: id, Body: text[bodyStart : bodyStart+end]})
		pos = bodyStart + end + len(closeTag)
	}
	return spans
}

// readOpenTag parses "<digits>" at text[start] and returns the digits and the
// offset right after the tag.
func readOpenTag(text string, start int) (string, int, bool) {
	i := start + 1
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == start+1 || i >= len(text) || text[i] != '>' {
		return "", 0, false
	}
	return text[start+1 : i], i + 1, true
}

// decodeOutcome keeps a failed decode distinguishable from an empty payload.
type decodeOutcome struct {
	text   string
	failed bool
}

func (o decodeOutcome) String() string {
	if o.failed {
		return ""
	}
	return o.text
}

func cleanDigest(body string) string {
	return ignorable.Replace(body)
}

func decodeDigest(digest string) decodeOutcome {
	raw, err := hex.DecodeString(digest)
	if err != nil {
		return decodeOutcome{failed: true}
	}
	return decodeOutcome{text: DecodeLegacy(raw)}
}

// DecodeLegacy converts Windows-1251 bytes to text. Bytes without a mapping in
// the codepage are dropped.
func DecodeLegacy(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		if c < utf8.RuneSelf {
			b.WriteByte(c)
			continue
		}
		r := charmap.Windows1251.DecodeByte(c)
		if c == unassignedByte || r == utf8.RuneError {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EncodeLegacy converts text to Windows-1251 bytes. Runes outside the codepage
// are dropped.
func EncodeLegacy(text string) []byte {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		if c, ok := charmap.Windows1251.EncodeRune(r); ok && c != unassignedByte {
			out = append(out, c)
		}
	}
	return out
}

// DecodeTags extracts every numeric tag span from text and decodes its hex
// payload. Malformed payloads never stop the scan.
func DecodeTags(text string) Tags {
	var tags Tags
	for _, span := range scanTagSpans(text) {
		digest := cleanDigest(span.Body)
		if digest == "" {
			continue
		}
		outcome := decodeDigest(digest)
		if outcome.failed {
			tags.Failed++
		}
		tags.Snippets = append(tags.Snippets, "<"+span.ID+">\n"+outcome.String()+"</"+span.ID+">")
	}
	tags.GroupText = decodeGroupText(text)
	return tags
}

func decodeGroupText(text string) string {
	start := strings.Index(text, groupOpenTag)
	if start < 0 {
		return ""
	}
	bodyStart := start + len(groupOpenTag)
	end := strings.Index(text[bodyStart:], groupCloseTag)
	if end < 0 {
		return ""
	}
	return decodeDigest(cleanDigest(text[bodyStart : bodyStart+end])).String()
}
