// Package textnorm converts Traditional Chinese transcripts into
// Simplified Chinese.
package textnorm

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/longbridgeapp/opencc"
	"github.com/pemistahl/lingua-go"
)

// Normalizer applies the t2s conversion whisper output needs before it
// is pasted as Simplified Chinese input.
type Normalizer struct {
	cc  *opencc.OpenCC
	det lingua.LanguageDetector
}

// New loads the conversion dictionaries and the language detector.
func New() (*Normalizer, error) {
	cc, err := opencc.New("t2s")
	if err != nil {
		return nil, fmt.Errorf("load t2s converter: %w", err)
	}
	det := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.Chinese, lingua.English, lingua.Japanese, lingua.Korean).
		Build()
	return &Normalizer{cc: cc, det: det}, nil
}

// Normalize converts text to Simplified Chinese when the session
// language asks for it. For "auto" the conversion only applies when
// the text itself reads as Chinese, so Japanese kanji stay untouched.
// Running Normalize on its own output changes nothing: t2s maps
// Simplified characters to themselves.
func (n *Normalizer) Normalize(text, language string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	switch language {
	case "zh":
	case "auto":
		if !n.looksChinese(text) {
			return text, nil
		}
	default:
		return text, nil
	}

	out, err := n.cc.Convert(text)
	if err != nil {
		return "", fmt.Errorf("convert t2s: %w", err)
	}
	return out, nil
}

// looksChinese reports whether the transcript reads as Chinese.
func (n *Normalizer) looksChinese(text string) bool {
	if lang, ok := n.det.DetectLanguageOf(text); ok {
		return lang == lingua.Chinese
	}
	// the detector gives up on very short input; fall back to script
	return containsHan(text)
}

func containsHan(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
