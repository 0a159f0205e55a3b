package render

import (
	"strings"
	"unicode"
)

// Wrap breaks text into lines of at most width runes. Words are split on
// whitespace, hyphenated words are further split after their hyphens, and the
// pieces are packed greedily. A piece longer than width fills the rest of the
// current line and continues on the next ones. Empty or blank text yields no
// lines.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var (
		lines []string
		line  []rune
	)
	flush := func() {
		if len(line) > 0 {
			lines = append(lines, string(line))
			line = line[:0:0]
		}
	}

	for _, word := range strings.Fields(text) {
		for i, chunk := range hyphenChunks([]rune(word)) {
			sep := 0
			if i == 0 && len(line) > 0 {
				sep = 1
			}

			switch {
			case len(line)+sep+len(chunk) <= width:
				if sep > 0 {
					line = append(line, ' ')
				}
				line = append(line, chunk...)
				continue
			case len(chunk) <= width:
				flush()
				line = append(line, chunk...)
				continue
			}

			if len(line) > 0 {
				if space := width - len(line) - sep; space > 0 {
					if sep > 0 {
						line = append(line, ' ')
					}
					end := longCut(chunk, space)
					line = append(line, chunk[:end]...)
					chunk = chunk[end:]
				}
				flush()
			}
			for len(chunk) > width {
				end := longCut(chunk, width)
				lines = append(lines, string(chunk[:end]))
				chunk = chunk[end:]
			}
			line = append(line, chunk...)
		}
	}
	flush()

	return lines
}

// longCut returns how many runes of an oversized piece go on a line with n
// free columns, preferring to end just after the last hyphen that fits.
func longCut(chunk []rune, n int) int {
	for h := n - 1; h > 0; h-- {
		if chunk[h] != '-' {
			continue
		}
		for _, r := range chunk[:h] {
			if r != '-' {
				return h + 1
			}
		}
		break
	}
	return n
}

// hyphenChunks splits a word after each hyphen that joins two letter runs,
// keeping the hyphen on the left piece: "state-of-the-art" becomes
// "state-", "of-", "the-", "art". Short prefixes such as "e-mail" stay whole.
func hyphenChunks(word []rune) [][]rune {
	var (
		chunks [][]rune
		start  int
	)
	for i, r := range word {
		if r == '-' && breakAfterHyphen(word, i) {
			chunks = append(chunks, word[start:i+1])
			start = i + 1
		}
	}
	return append(chunks, word[start:])
}

func breakAfterHyphen(word []rune, i int) bool {
	letter := func(j int) bool {
		return j >= 0 && j < len(word) && unicode.IsLetter(word[j])
	}
	hyphen := func(j int) bool {
		return j >= 0 && j < len(word) && word[j] == '-'
	}

	before := (letter(i-1) && letter(i-2)) || (letter(i-1) && hyphen(i-2) && letter(i-3))
	after := letter(i+1) && (letter(i+2) || (hyphen(i+2) && letter(i+3)))
	return before && after
}
