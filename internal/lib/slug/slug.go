package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Таблица транслитерации турецких символов, у которых нет подходящей
// декомпозиции (ı, İ и пары с седилью/бреве)
var turkishReplacer = strings.NewReplacer(
	"ç", "c", "ğ", "g", "ı", "i", "ö", "o", "ş", "s", "ü", "u",
	"Ç", "C", "Ğ", "G", "İ", "I", "Ö", "O", "Ş", "S", "Ü", "U",
)

var whitespaceRe = regexp.MustCompile(`\s+`)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make возвращает детерминированное имя, пригодное для файла или URL:
// турецкая транслитерация, сброс диакритики, пробелы схлопываются в "-".
// Make идемпотентна: Make(Make(s)) == Make(s).
func Make(s string) string {
	converted := turkishReplacer.Replace(s)

	if folded, _, err := transform.String(foldTransformer, converted); err == nil {
		converted = folded
	}

	return whitespaceRe.ReplaceAllString(converted, "-")
}
