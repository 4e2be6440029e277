package service

import "github.com/google/uuid"

var sessionNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// DeterministicSessionID maps a channel and thread to the same session id
// across restarts. Top-level messages pass their own timestamp as thread.
func DeterministicSessionID(channel, thread string) string {
	return uuid.NewSHA1(sessionNamespace, []byte(channel+"_"+thread)).String()
}

// FreshSessionID is used by the ask command, where every question is a
// one-shot analysis with no remote conversation state.
func FreshSessionID() string {
	return uuid.NewString()
}
