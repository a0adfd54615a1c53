package ask

// TruncationMarker is appended to any turn cut at the char limit.
const TruncationMarker = "…"

// Condense trims history to the last historyLimit turns and truncates each
// turn's content to charLimit characters, marking cuts. Pure: the input
// slice is never modified. Content already within both limits passes
// through unchanged, so condensing is idempotent on condensed output.
func Condense(history []ConversationTurn, historyLimit, charLimit int) []string {
	if historyLimit <= 0 || len(history) == 0 {
		return nil
	}
	start := len(history) - historyLimit
	if start < 0 {
		start = 0
	}
	out := make([]string, 0, len(history)-start)
	for _, turn := range history[start:] {
		content := turn.Content
		if charLimit > 0 {
			runes := []rune(content)
			if len(runes) > charLimit {
				content = string(runes[:charLimit]) + TruncationMarker
			}
		}
		out = append(out, content)
	}
	return out
}
