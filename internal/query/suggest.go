package query

const (
	// SuggestPerSource - сколько подсказок берем из имен, сортов винограда и тегов
	SuggestPerSource = 5
	// SuggestLimit - общий предел подсказок
	SuggestLimit = 10
)

// MergeSuggestions склеивает подсказки в порядке источников (имена, виноград, теги),
// убирает повторы и обрезает до SuggestLimit
func MergeSuggestions(sources ...[]string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, SuggestLimit)
	for _, src := range sources {
		for _, s := range src {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
			if len(out) == SuggestLimit {
				return out
			}
		}
	}
	return out
}
