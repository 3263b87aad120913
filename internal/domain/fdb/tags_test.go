package fdb

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// hexPayload encodes text in the legacy codepage and sprinkles ignorable characters into it.
func hexPayload(text string) string {
	digest := strings.ToUpper(hex.EncodeToString(EncodeLegacy(text)))
	var b strings.Builder
	for i := 0; i < len(digest); i += 2 {
		b.WriteString(digest[i : i+2])
		switch (i / 2) % 4 {
		case 1:
			b.WriteString(",")
		case 2:
			b.WriteString("\r\n")
		case 3:
			b.WriteString(" \\")
		}
	}
	return b.String()
}

func TestScanTagSpans(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []tagSpan
	}{
		{
			name: "single span across lines",
			in:   "head <12>AB\nCD</12> tail",
			want: []tagSpan{{ID: "12", Body: "AB\nCD"}},
		},
		{
			name: "closing digits must match opening digits",
			in:   "<1>AA</2>BB</1>",
			want: []tagSpan{{ID: "1", Body: "AA</2>BB"}},
		},
		{
			name: "non greedy body",
			in:   "<3>A</3><3>B</3>",
			want: []tagSpan{{ID: "3", Body: "A"}, {ID: "3", Body: "B"}},
		},
		{
			name: "unterminated tag is skipped",
			in:   "<7>dangling <8>ok</8>",
			want: []tagSpan{{ID: "8", Body: "ok"}},
		},
		{
			name: "non numeric tags are ignored",
			in:   "<gr-id>00</gr-id><a>1</a><>2</>",
			want: nil,
		},
		{
			name: "nested different number stays in body",
			in:   "<1><2>x</2></1>",
			want: []tagSpan{{ID: "1", Body: "<2>x</2>"}},
		},
	}

	for _, tc := range tests {
		got := scanTagSpans(tc.in)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s: spans mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}

func TestDecodeTagsHexRoundTrip(t *testing.T) {
	text := "<question>Сколько будет 2+2?</question>\ntype=1\n<a_1>Четыре</a_1>"
	input := "<5>" + hexPayload(text) + "</5>"

	tags := DecodeTags(input)
	if len(tags.Snippets) != 1 {
		t.Fatalf("expected one snippet got %d", len(tags.Snippets))
	}
	want := "<5>\n" + text + "</5>"
	if tags.Snippets[0] != want {
		t.Fatalf("expected %q got %q", want, tags.Snippets[0])
	}
	if tags.Failed != 0 {
		t.Fatalf("expected no failures got %d", tags.Failed)
	}
}

func TestDecodeTagsRecoversFromMalformedHex(t *testing.T) {
	input := "<1>ZZ</1><2>ABC</2><3>" + hexPayload("ok") + "</3>"

	tags := DecodeTags(input)
	want := []string{"<1>\n</1>", "<2>\n</2>", "<3>\nok</3>"}
	if diff := cmp.Diff(want, tags.Snippets); diff != "" {
		t.Fatalf("snippets mismatch (-want +got):\n%s", diff)
	}
	if tags.Failed != 2 {
		t.Fatalf("expected 2 failed spans got %d", tags.Failed)
	}
}

func TestDecodeTagsSkipsEmptyDigest(t *testing.T) {
	tags := DecodeTags("<1> ,\r\n\\ </1><2>" + hexPayload("x") + "</2>")
	if len(tags.Snippets) != 1 || tags.Snippets[0] != "<2>\nx</2>" {
		t.Fatalf("unexpected snippets %q", tags.Snippets)
	}
}

func TestDecodeOutcomeKeepsFailureDistinct(t *testing.T) {
	empty := decodeDigest("")
	if empty.failed || empty.String() != "" {
		t.Fatalf("empty digest should decode to empty text, got %+v", empty)
	}
	bad := decodeDigest("0G")
	if !bad.failed {
		t.Fatalf("expected failure for non hex digest")
	}
	if bad.String() != "" {
		t.Fatalf("failed outcome should render as empty text")
	}
}

func TestDecodeGroupText(t *testing.T) {
	input := "<gr-id>" + hexPayload("Группа А") + "</gr-id><gr-id>" + hexPayload("second") + "</gr-id>"
	if got := DecodeTags(input).GroupText; got != "Группа А" {
		t.Fatalf("expected first group span, got %q", got)
	}
	if got := DecodeTags("<1>00</1>").GroupText; got != "" {
		t.Fatalf("expected empty group text, got %q", got)
	}
}

func TestDecodeLegacyDropsUnmappedBytes(t *testing.T) {
	// 0x98 has no mapping in Windows-1251.
	raw := []byte{0xCF, 0x98, 0xF0, 'i'}
	if got := DecodeLegacy(raw); got != "Прi" {
		t.Fatalf("expected %q got %q", "Прi", got)
	}
}
