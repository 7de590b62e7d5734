package render

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Clean убирает html-теги и лишние пробелы; названия и spec приходят из админки как есть.
func Clean(input string) string {
	text := tagPattern.ReplaceAllString(html.UnescapeString(input), " ")
	return strings.Join(strings.Fields(text), " ")
}

// Truncate сокращает строку до length символов по границе слова и ставит "…".
func Truncate(input string, length int) string {
	if length <= 0 || utf8.RuneCountInString(input) <= length {
		return input
	}

	var builder strings.Builder
	total := 0
	for i, word := range strings.Fields(input) {
		n := utf8.RuneCountInString(word)
		if i > 0 {
			n++
		}
		if total+n > length-1 {
			break
		}
		if i > 0 {
			builder.WriteString(" ")
		}
		builder.WriteString(word)
		total += n
	}
	if total == 0 {
		// одно длинное слово режем по символам
		runes := []rune(input)
		return string(runes[:length-1]) + "…"
	}
	return builder.String() + "…"
}

func cell(input string, length int) string {
	return orDash(Truncate(Clean(input), length))
}
