package service

import (
	"math/rand/v2"
	"slices"
)

var defaultLoadingMessages = []string{
	"🔍 Let me go check on that for you...",
	"🤔 Good question, let me find out!",
	"✨ Sure! Let me look that up for you!",
	"🔎 Digging into this now...",
	"💭 Hmm, let me think about that...",
	"🚀 On it! Searching for answers...",
	"🔧 Let me pull up the details...",
	"📚 Checking my knowledge base...",
	"⚡ Working on it right now...",
	"🎯 Hunting down that information...",
	"🔬 Investigating this for you...",
	"💡 Interesting! Let me see what I can find...",
	"🕵️ Detective mode: ON. Searching...",
	"📖 Flipping through the docs...",
	"🎪 Hold tight, the magic is happening...",
	"⚙️ Cranking the gears to find your answer...",
	"🌟 Great question! Searching now...",
	"🧠 Putting on my thinking cap...",
	"🔭 Scanning the horizon for answers...",
	"⏰ Just a moment while I gather that info...",
	"🎨 Crafting the perfect response...",
	"📡 Transmitting request to the knowledge base...",
	"🍊 Squeezing some fresh insights for you...",
	"🎲 Rolling the dice on this search...",
	"🌈 Following the rainbow to your answer...",
}

// LoadingMessages picks the placeholder text posted before each answer.
type LoadingMessages struct {
	messages []string
}

func DefaultLoadingMessages() *LoadingMessages {
	return &LoadingMessages{messages: slices.Clone(defaultLoadingMessages)}
}

func (l *LoadingMessages) Random() string {
	return l.messages[rand.IntN(len(l.messages))]
}
