package chat

import "strings"

// cannedReply maps a set of trigger keywords to the assistant's answer.
// The first entry whose keyword appears in the (lowercased) message wins.
type cannedReply struct {
	keywords []string
	answer   string
}

var cannedReplies = []cannedReply{
	{
		keywords: []string{"hotel", "stay", "accommodation", "ryokan"},
		answer:   "You can browse hotels and ryokan under Experiences, filter by prefecture, and add them to a day of your itinerary.",
	},
	{
		keywords: []string{"restaurant", "food", "eat", "dinner", "lunch"},
		answer:   "Check the restaurant category in Experiences. Each listing shows the price and reviews from other travelers.",
	},
	{
		keywords: []string{"itinerary", "plan", "trip", "board"},
		answer:   "Create an itinerary from your profile, set the travel days, and drag experiences onto each day's board.",
	},
	{
		keywords: []string{"offline", "download", "pdf", "export"},
		answer:   "Open an itinerary and use Save offline to keep it on your device, or Export PDF to get a printable version.",
	},
	{
		keywords: []string{"budget", "price", "cost", "yen"},
		answer:   "Each day board supports a daily budget. The totals are summed from the prices of the experiences you add.",
	},
	{
		keywords: []string{"transport", "train", "jr", "pass", "shinkansen"},
		answer:   "We do not sell transport tickets, but the exported PDF shows addresses and map coordinates for route planning.",
	},
	{
		keywords: []string{"hello", "hi", "hey", "konnichiwa"},
		answer:   "Hi! Ask me about hotels, restaurants, itineraries or offline export and I will point you in the right direction.",
	},
}

const fallbackReply = "Sorry, I did not understand that. Try asking about hotels, restaurants, itineraries, budgets or offline export."

// MatchReply picks the canned answer for a user message.
func MatchReply(message string) string {
	msg := strings.ToLower(message)
	for _, reply := range cannedReplies {
		for _, kw := range reply.keywords {
			if strings.Contains(msg, kw) {
				return reply.answer
			}
		}
	}
	return fallbackReply
}
