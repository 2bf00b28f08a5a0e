// Package textstat computes the deterministic text statistics behind
// note metadata and the derived summaries. There is no model involved;
// the same content always yields the same output.
package textstat

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Words per minute assumed when estimating read time.
const readingSpeed = 200

// Derive returns the word count (whitespace tokens) and the read time
// in minutes, rounded up. Empty content derives to zeroes.
func Derive(content string) (wordCount, readTime int) {
	wordCount = len(strings.Fields(content))
	if wordCount > 0 {
		readTime = (wordCount + readingSpeed - 1) / readingSpeed
	}
	return wordCount, readTime
}

// Summarize extracts up to maxSentences leading sentences, capped at
// maxRunes characters.
func Summarize(content string, maxSentences, maxRunes int) string {
	if maxSentences <= 0 {
		maxSentences = 2
	}
	if maxRunes <= 0 {
		maxRunes = 280
	}

	text := strings.Join(strings.Fields(content), " ")
	if text == "" {
		return ""
	}

	count := 0
	end := len(text)
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count == maxSentences {
				end = i + 1
				break
			}
		}
	}
	summary := text[:end]

	runes := []rune(summary)
	if len(runes) > maxRunes {
		summary = strings.TrimRight(string(runes[:maxRunes]), " ") + "…"
	}
	return summary
}

// Insights produces short derived strings about the content: size,
// read time and the most recurring terms. Ordering is stable for a
// fixed input (frequency desc, then alphabetical).
func Insights(content string) []string {
	words, minutes := Derive(content)
	if words == 0 {
		return nil
	}

	insights := []string{
		fmt.Sprintf("Word count: %d", words),
		fmt.Sprintf("Estimated read time: %d min", minutes),
	}

	if terms := topTerms(content, 3); len(terms) > 0 {
		insights = append(insights, "Frequent terms: "+strings.Join(terms, ", "))
	}
	return insights
}

// topTerms returns up to n lowercased terms of at least 4 letters,
// ranked by frequency with an alphabetical tie-break.
func topTerms(content string, n int) []string {
	freq := make(map[string]int)
	for _, field := range strings.Fields(content) {
		term := strings.ToLower(strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		}))
		if len([]rune(term)) < 4 {
			continue
		}
		freq[term]++
	}

	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}
