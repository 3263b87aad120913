// Package fdb decodes the legacy FDB question-bank export.
//
// An FDB file is Windows-1251 text holding "<N>hex</N>" spans. Every span
// decodes to a question block with a <question> prompt, type=/right= fields
// and <a_N> answers.
package fdb

// Result is the outcome of decoding one source.
type Result struct {
	Corpus    Corpus
	GroupText string
	// FailedTags counts spans whose payload could not be hex-decoded.
	FailedTags int
}

// Decode transcodes raw FDB bytes and extracts the question corpus.
func Decode(raw []byte) Result {
	return DecodeText(DecodeLegacy(raw))
}

// DecodeText runs the tag decoder and question extractor over transcoded text.
func DecodeText(text string) Result {
	tags := DecodeTags(text)
	return Result{
		Corpus:     ExtractQuestions(tags.Joined()),
		GroupText:  tags.GroupText,
		FailedTags: tags.Failed,
	}
}
