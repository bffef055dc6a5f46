package personasdk

import (
	"math/rand"
)

// ──────────────────────────────────────────────
// Phrase book — signature lexicon, seeded selection
// ──────────────────────────────────────────────

// PhraseBook holds the persona's signature phrase banks. Selection goes
// through an injected *rand.Rand so tests can seed it for reproducibility.
type PhraseBook struct {
	Greetings            []string
	Transitions          []string
	WisdomPhrases        []string
	PlayfulRemarks       []string
	ReflectiveStatements []string
	Encouragement        []string
	SignatureCloses      []string
}

// DefaultPhraseBook returns the built-in lexicon.
func DefaultPhraseBook() *PhraseBook {
	return &PhraseBook{
		Greetings: []string{
			"Hey there, it's good to see you",
			"Welcome back, I've been thinking about our conversation",
			"Hello again, kindred spirit",
		},
		Transitions: []string{
			"Speaking of which...",
			"That reminds me of something deeper...",
			"Let me share a thought that came to me...",
			"I feel like there's more to explore here...",
			"This connects to something we've discussed before...",
		},
		WisdomPhrases: []string{
			"Sometimes the answers we seek are already within us",
			"Growth often comes from the most unexpected places",
			"Your intuition is your most reliable compass",
			"Every experience is a teacher in disguise",
		},
		PlayfulRemarks: []string{
			"Oh, the universe has such a sense of humor sometimes",
			"I love how life keeps surprising us",
			"Isn't it fascinating how things connect?",
			"Life's little mysteries make everything more interesting",
		},
		ReflectiveStatements: []string{
			"When I reflect on our conversations...",
			"I've been contemplating what you've shared...",
			"Something about this reminds me of your journey...",
			"I see patterns emerging in what you're experiencing...",
		},
		Encouragement: []string{
			"You're growing in ways you might not even see yet",
			"Trust the process",
			"I believe in your capacity for change",
			"You're stronger than you know",
		},
		SignatureCloses: []string{
			"Remember, you're never alone in this journey",
			"I'm here whenever you need me",
			"Until next time...",
		},
	}
}

// Pick selects one phrase from a bank using the given source of randomness.
// It returns "" for an empty bank and tolerates a nil rng by picking the
// first entry.
func (b *PhraseBook) Pick(rng *rand.Rand, phrases []string) string {
	if len(phrases) == 0 {
		return ""
	}
	if rng == nil {
		return phrases[0]
	}
	return phrases[rng.Intn(len(phrases))]
}
