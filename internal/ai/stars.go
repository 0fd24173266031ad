package ai

import (
	"regexp"
	"strconv"
	"strings"
)

// The evaluation prompt asks for "점수: X/5" but models drift; accept the
// common variants before giving up. The digit must stand alone: "점수: 100점"
// or "3/50" carries no extractable 0-5 score and must read as unknown.
var (
	fractionRe = regexp.MustCompile(`(?:^|\D)([0-5])\s*/\s*5(?:\D|$)`)
	scoreRe    = regexp.MustCompile(`점수\s*[:：]\s*([0-5])(?:\D|$)`)
)

// ExtractStars pulls a 0-5 star score out of evaluation feedback.
// ok is false when no score is extractable; the caller must treat the
// grade as unknown rather than failing.
func ExtractStars(feedback string) (int, bool) {
	if m := fractionRe.FindStringSubmatch(feedback); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, true
	}
	if m := scoreRe.FindStringSubmatch(feedback); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, true
	}
	if n := strings.Count(feedback, "★"); n >= 1 && n <= 5 {
		return n, true
	}
	return 0, false
}
