package slackio

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/clementine-bot/clementine/internal/config"
	"github.com/clementine-bot/clementine/internal/domain"
)

// Block ids of the answer layout.
const (
	BlockAnswer       = "answer"
	BlockSources      = "sources"
	BlockAIDisclaimer = "ai_disclaimer"
)

const DefaultAIDisclosure = "ⓘ This response was generated by AI. Always verify important information."

// Formatter renders a chat response for Slack.
type Formatter interface {
	Format(resp *domain.ChatResponse) Message
}

type FormatterOptions struct {
	Rich           bool
	DocsBaseURL    string
	ShowDisclosure bool
	DisclosureText string
	EnableFeedback bool
}

// NewFormatter picks the block layout or plain text from opts.Rich.
func NewFormatter(opts FormatterOptions) Formatter {
	if !opts.Rich {
		return &PlainFormatter{DocsBaseURL: opts.DocsBaseURL}
	}
	text := strings.TrimSpace(opts.DisclosureText)
	if text == "" {
		text = DefaultAIDisclosure
	}
	return &BlockFormatter{
		DocsBaseURL:    opts.DocsBaseURL,
		ShowDisclosure: opts.ShowDisclosure,
		DisclosureText: text,
		EnableFeedback: opts.EnableFeedback,
	}
}

// PlainFormatter appends up to three sources as mrkdwn links.
type PlainFormatter struct {
	DocsBaseURL string
}

func (f *PlainFormatter) Format(resp *domain.ChatResponse) Message {
	sources := topSources(resp.Citations, f.DocsBaseURL)
	if len(sources) == 0 {
		return Message{Text: resp.Text}
	}

	links := make([]string, len(sources))
	for i, s := range sources {
		links[i] = link(s)
	}
	return Message{Text: resp.Text + "\n\n*Sources:*\n" + strings.Join(links, "\n")}
}

// BlockFormatter renders the answer section, a condensed sources line, the
// AI disclosure and feedback buttons.
type BlockFormatter struct {
	DocsBaseURL    string
	ShowDisclosure bool
	DisclosureText string
	EnableFeedback bool
}

func (f *BlockFormatter) Format(resp *domain.ChatResponse) Message {
	sources := topSources(resp.Citations, f.DocsBaseURL)

	answer := FitMarkdown(ToMrkdwn(resp.Text), config.MaxSectionTextLen)
	if answer == "" {
		answer = domain.NoResponseText
	}
	blocks := []slack.Block{Section(BlockAnswer, answer)}

	if len(sources) > 0 {
		links := make([]string, len(sources))
		for i, s := range sources {
			links[i] = link(s)
		}
		blocks = append(blocks, ContextLine(BlockSources, "*Sources:* "+strings.Join(links, " • ")))
	}

	if f.ShowDisclosure {
		blocks = append(blocks, ContextLine(BlockAIDisclaimer, f.DisclosureText))
	}

	if f.EnableFeedback && resp.InteractionID != "" {
		blocks = append(blocks, FeedbackButtons(resp.InteractionID))
	}

	return Message{Text: fallbackText(resp.Text, sources), Blocks: blocks}
}

func fallbackText(answer string, sources []domain.Citation) string {
	if len(sources) == 0 {
		return answer
	}
	titles := make([]string, len(sources))
	for i, s := range sources {
		titles[i] = s.Title
	}
	return fmt.Sprintf("%s (Sources: %s)", answer, strings.Join(titles, ", "))
}

// topSources keeps the first three citations with a URL, rewriting relative
// URLs against baseURL.
func topSources(citations []domain.Citation, baseURL string) []domain.Citation {
	out := make([]domain.Citation, 0, config.MaxCitations)
	for _, c := range citations {
		if len(out) == config.MaxCitations {
			break
		}
		url := strings.TrimSpace(c.URL)
		if url == "" {
			continue
		}
		title := strings.TrimSpace(c.Title)
		if title == "" {
			title = "Source"
		}
		out = append(out, domain.Citation{URL: ResolveURL(baseURL, url), Title: title})
	}
	return out
}

// ResolveURL prefixes a relative citation URL with baseURL. Absolute URLs
// and an empty baseURL leave the URL unchanged.
func ResolveURL(baseURL, url string) string {
	if baseURL == "" || strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(url, "/")
}

func link(c domain.Citation) string {
	title := strings.NewReplacer("|", "¦", ">", "›", "<", "‹").Replace(c.Title)
	return fmt.Sprintf("<%s|%s>", c.URL, title)
}
