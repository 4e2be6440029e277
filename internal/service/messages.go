package service

import "fmt"

const NoContextMessage = "I couldn't find any recent conversation context to answer your question about."

// SnagMessage is shown in place of an answer when the chat call fails. It
// never includes error detail.
func SnagMessage(botName string) string {
	return fmt.Sprintf("Oops, %s hit a snag. Please try again in a moment.", botName)
}
