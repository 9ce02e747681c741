package trend

import "unicode"

// ExtractHashtags возвращает различные токены вида "#" + буквы/цифры в порядке первого появления.
// Регистр значим: #Go и #go - разные токены.
func ExtractHashtags(text string) []string {
	var (
		tokens []string
		seen   = make(map[string]struct{})
	)

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '#' {
			continue
		}
		j := i + 1
		for j < len(runes) && isTokenRune(runes[j]) {
			j++
		}
		if j == i+1 {
			continue
		}

		token := string(runes[i:j])
		if _, ok := seen[token]; !ok {
			seen[token] = struct{}{}
			tokens = append(tokens, token)
		}
		// следующий '#' сразу за токеном начинает новый токен
		i = j - 1
	}
	return tokens
}

func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
