package slackio

import "github.com/slack-go/slack"

func Mrkdwn(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.MarkdownType, text, false, false)
}

func PlainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, true, false)
}

// Section is a mrkdwn section with an optional block id.
func Section(blockID, text string) *slack.SectionBlock {
	var opts []slack.SectionBlockOption
	if blockID != "" {
		opts = append(opts, slack.SectionBlockOptionBlockID(blockID))
	}
	return slack.NewSectionBlock(Mrkdwn(text), nil, nil, opts...)
}

// ContextLine is a context block holding a single mrkdwn element.
func ContextLine(blockID, text string) *slack.ContextBlock {
	return slack.NewContextBlock(blockID, Mrkdwn(text))
}

func Button(actionID, value, text string) *slack.ButtonBlockElement {
	return slack.NewButtonBlockElement(actionID, value, PlainText(text))
}

// Option builds a select or checkbox option whose label is its value.
func Option(value string) *slack.OptionBlockObject {
	return slack.NewOptionBlockObject(value, PlainText(value), nil)
}

// BlockID returns the block_id of any block type the bot produces or reads
// back from Slack.
func BlockID(b slack.Block) string {
	switch v := b.(type) {
	case *slack.SectionBlock:
		return v.BlockID
	case *slack.ContextBlock:
		return v.BlockID
	case *slack.ActionBlock:
		return v.BlockID
	case *slack.DividerBlock:
		return v.BlockID
	case *slack.HeaderBlock:
		return v.BlockID
	case *slack.InputBlock:
		return v.BlockID
	case *slack.ImageBlock:
		return v.BlockID
	case *slack.RichTextBlock:
		return v.BlockID
	case *slack.FileBlock:
		return v.BlockID
	}
	return ""
}
