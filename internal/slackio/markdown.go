package slackio

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	mdLink    = regexp.MustCompile(`\[([^\]\n]+)\]\((https?://[^)\s]+)\)`)
	mdBold    = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)
	mdHeading = regexp.MustCompile(`(?m)^#{1,6}[ \t]+(.+?)[ \t]*#*$`)
)

// ToMrkdwn rewrites common Markdown emitted by the model into Slack mrkdwn.
// Code spans and fences are left untouched.
func ToMrkdwn(text string) string {
	segments := splitCode(text)
	var b strings.Builder
	for _, seg := range segments {
		if seg.code {
			b.WriteString(seg.text)
			continue
		}
		s := mdLink.ReplaceAllString(seg.text, "<$2|$1>")
		s = mdHeading.ReplaceAllStringFunc(s, heading)
		s = mdBold.ReplaceAllString(s, "*$1*")
		b.WriteString(s)
	}
	return b.String()
}

// heading renders a Markdown heading as a bold line. Bold markers inside the
// heading are dropped since mrkdwn cannot nest them.
func heading(line string) string {
	m := mdHeading.FindStringSubmatch(line)
	return "*" + strings.ReplaceAll(m[1], "**", "") + "*"
}

type segment struct {
	text string
	code bool
}

// splitCode cuts text into alternating prose and code (fenced or inline)
// segments. Unbalanced markers leave the remainder as prose.
func splitCode(text string) []segment {
	var out []segment
	for len(text) > 0 {
		i := strings.IndexByte(text, '`')
		if i < 0 {
			out = append(out, segment{text: text})
			break
		}
		if i > 0 {
			out = append(out, segment{text: text[:i]})
			text = text[i:]
		}
		marker := "`"
		if strings.HasPrefix(text, "```") {
			marker = "```"
		}
		end := strings.Index(text[len(marker):], marker)
		if end < 0 {
			out = append(out, segment{text: text})
			break
		}
		n := len(marker) + end + len(marker)
		out = append(out, segment{text: text[:n], code: true})
		text = text[n:]
	}
	return out
}

// FixMarkdown closes an unbalanced code fence and unbalanced inline code so
// Slack does not swallow the rest of the message.
func FixMarkdown(text string) string {
	if strings.Count(text, "```")%2 != 0 {
		text += "\n```"
	}
	return fixInlineCode(text)
}

func fixInlineCode(text string) string {
	var builder strings.Builder
	inCodeBlock := false
	inlineOpen := false

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if i+2 < len(runes) && string(runes[i:i+3]) == "```" {
			if inlineOpen {
				builder.WriteRune('`')
				inlineOpen = false
			}
			inCodeBlock = !inCodeBlock
			builder.WriteString("```")
			i += 2
			continue
		}

		if !inCodeBlock && runes[i] == '`' {
			inlineOpen = !inlineOpen
		}
		builder.WriteRune(runes[i])
	}

	if inlineOpen {
		builder.WriteRune('`')
	}
	return builder.String()
}

// FitMarkdown truncates text to maxLen runes with its code markers balanced.
// The cut moves back until the closing markers FixMarkdown adds fit too.
func FitMarkdown(text string, maxLen int) string {
	limit := maxLen
	for {
		fixed := FixMarkdown(Truncate(text, limit))
		over := utf8.RuneCountInString(fixed) - maxLen
		if over <= 0 || limit == 0 {
			return fixed
		}
		limit = max(limit-over, 0)
	}
}

// Truncate cuts text to at most maxLen runes, ending in "..." when cut.
func Truncate(text string, maxLen int) string {
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string([]rune(text)[:maxLen])
	}
	return string([]rune(text)[:maxLen-3]) + "..."
}
