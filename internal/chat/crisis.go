package chat

import "strings"

// crisisKeywords flag messages that need an immediate helpline
// response alongside the usual reply.
var crisisKeywords = []string{
	"suicide",
	"kill myself",
	"end my life",
	"want to die",
	"self harm",
	"hurt myself",
	"no reason to live",
}

// IndiaHelplines are surfaced whenever a crisis message is detected.
var IndiaHelplines = map[string]string{
	"AASRA":                 "91-9820466726",
	"Kiran Mental Health":   "1800-599-0019",
	"Vandrevala Foundation": "+91-9999666555",
}

// DetectCrisis reports whether the message contains crisis language.
func DetectCrisis(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range crisisKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
