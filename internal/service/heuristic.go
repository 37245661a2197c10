package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/petalflow/assistant/internal/domain"
)

// The heuristic tier: a deterministic keyword classifier used whenever the
// language-understanding backend is unreachable or not configured. Priority
// order matters; greeting keywords win over everything else.

var (
	greetingPhrases = []string{"good morning", "good afternoon", "good evening", "good day"}
	greetingWords   = []string{"hello", "hi", "hey", "moin"}
	orderWords      = []string{"order", "flower", "flowers", "rose", "roses", "bouquet", "tulip", "tulips", "sunflower", "sunflowers"}
	helpWords       = []string{"help", "features"}
	goodbyeWords    = []string{"bye", "goodbye", "farewell"}
)

func heuristicAnalyze(utterance string) domain.IntentResult {
	lower := strings.ToLower(utterance)
	words := tokenize(lower)

	switch {
	case matchesAnyPhrase(lower, greetingPhrases) || matchesAnyWord(words, greetingWords):
		return domain.IntentResult{
			Intent:     domain.IntentGreeting,
			Entities:   map[string]string{},
			Confidence: 0.95,
			Response:   "Hello! I'm your personal assistant. How can I help you today?",
			Action:     "greet_user",
			NextStep:   "await_user_request",
		}
	case matchesAnyWord(words, orderWords):
		entities := map[string]string{}
		if r := extractRecipient(lower); r != "" {
			entities[domain.EntityRecipient] = r
		}
		if f := extractFlowerType(lower); f != "" {
			entities[domain.EntityFlowerType] = f
		}
		if a := extractDeliveryAddress(utterance); a != "" {
			entities[domain.EntityDeliveryAddress] = a
		}
		return domain.IntentResult{
			Intent:     domain.IntentOrderFlowers,
			Entities:   entities,
			Confidence: 0.85,
			Response:   "Happy to help with a flower order! I still need a few details like the delivery address.",
			Action:     "collect_order_details",
			NextStep:   "ask_delivery_address",
		}
	case matchesAnyWord(words, helpWords) || strings.Contains(lower, "what can you"):
		return domain.IntentResult{
			Intent:     domain.IntentHelp,
			Entities:   map[string]string{},
			Confidence: 0.98,
			Response: "I can help you with:\n\n" +
				"- ordering flowers\n" +
				"- scheduling meetings (soon)\n" +
				"- sending emails (soon)\n" +
				"- checking the weather (soon)\n\n" +
				"Try: \"order red roses for my friend\"",
			Action:   "show_help",
			NextStep: "await_user_request",
		}
	case matchesAnyWord(words, goodbyeWords):
		return domain.IntentResult{
			Intent:     domain.IntentGoodbye,
			Entities:   map[string]string{},
			Confidence: 0.9,
			Response:   "Goodbye! I'm here whenever you need me.",
			Action:     "say_goodbye",
			NextStep:   "await_user_request",
		}
	default:
		return domain.IntentResult{
			Intent:     domain.IntentGeneralChat,
			Entities:   map[string]string{},
			Confidence: 0.6,
			Response:   fmt.Sprintf("I heard: %q\n\nI'm still learning. Say 'help' to see what I can do, or ask me about flowers.", utterance),
			Action:     "general_response",
			NextStep:   "await_user_request",
		}
	}
}

// orderContinuation reinterprets a turn as order slot input while a draft is
// being collected: the user is answering a slot prompt, so slot-bearing text
// without order keywords still belongs to the order. Returns ok=false when
// the text carries no extractable slot, leaving the turn to its original
// intent.
func orderContinuation(utterance string, uc *domain.UserContext) (domain.IntentResult, bool) {
	if uc.ConversationState != domain.StateCollecting {
		return domain.IntentResult{}, false
	}

	lower := strings.ToLower(utterance)
	entities := map[string]string{}
	if r := extractRecipient(lower); r != "" {
		entities[domain.EntityRecipient] = r
	}
	if f := extractFlowerType(lower); f != "" {
		entities[domain.EntityFlowerType] = f
	}
	if a := extractDeliveryAddress(utterance); a != "" {
		entities[domain.EntityDeliveryAddress] = a
	}
	if len(entities) == 0 {
		return domain.IntentResult{}, false
	}

	return domain.IntentResult{
		Intent:     domain.IntentOrderFlowers,
		Entities:   entities,
		Confidence: 0.75,
		Response:   "Got it, noted.",
		Action:     "collect_order_details",
		NextStep:   "ask_missing_slots",
	}, true
}

// recipientKeywords maps relationship keywords to canonical recipient labels,
// checked in order so "girlfriend" wins over "friend".
var recipientKeywords = []struct {
	keyword string
	label   string
}{
	{"girlfriend", "girlfriend"},
	{"boyfriend", "boyfriend"},
	{"friend", "friend"},
	{"mother", "mother"},
	{"mom", "mother"},
	{"father", "father"},
	{"dad", "father"},
	{"wife", "wife"},
	{"husband", "husband"},
	{"sister", "sister"},
	{"brother", "brother"},
}

// extractRecipient maps relationship keywords to a canonical recipient label.
// Returns "" rather than guessing when nothing matches.
func extractRecipient(lower string) string {
	for _, rk := range recipientKeywords {
		if strings.Contains(lower, rk.keyword) {
			return rk.label
		}
	}
	return ""
}

var flowerColors = []string{"red", "white", "pink", "yellow", "blue"}

// extractFlowerType maps product-family and color keywords to a canonical
// product descriptor. Returns "" rather than guessing when nothing matches.
func extractFlowerType(lower string) string {
	switch {
	case strings.Contains(lower, "rose"):
		for _, color := range flowerColors {
			if strings.Contains(lower, color) {
				return color + " roses"
			}
		}
		return "roses"
	case strings.Contains(lower, "tulip"):
		return "tulips"
	case strings.Contains(lower, "sunflower"):
		return "sunflowers"
	case strings.Contains(lower, "lil"):
		return "lilies"
	}
	return ""
}

var addressPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bdeliver(?:y)?\s+to\s+([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\bship\s+to\s+([^,.;!?]+)`),
	regexp.MustCompile(`(?i)\baddress\s*(?:is|:)\s*([^,.;!?]+)`),
}

// extractDeliveryAddress pulls a delivery address out of the raw text.
func extractDeliveryAddress(text string) string {
	for _, re := range addressPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

var nonLetters = regexp.MustCompile(`[^a-z0-9']+`)

func tokenize(lower string) []string {
	return strings.Fields(nonLetters.ReplaceAllString(lower, " "))
}

func matchesAnyWord(words []string, keywords []string) bool {
	for _, w := range words {
		for _, kw := range keywords {
			if w == kw {
				return true
			}
		}
	}
	return false
}

func matchesAnyPhrase(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
