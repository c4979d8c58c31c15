package questions

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write practice questions for Czech pupils preparing for the CERMAT entrance exams (Czech language and mathematics).

Rules:
- Write every question, option, explanation and hint in Czech.
- Return exactly the requested number of questions.
- Mix the question types: MULTIPLE_CHOICE with 4 options, TRUE_FALSE with the options "Ano" and "Ne", and at most one FILL_IN with no options.
- correctAnswer must be character-for-character identical to one of the options when options are given.
- A FILL_IN answer must be a single word or number with no surrounding text.
- Write math in plain text (use / for fractions and * for multiplication).
- The hint helps without giving the answer away.
- Do not repeat any question from the "already asked" list.`

// difficultyGuide describes the expected level for each difficulty.
func difficultyGuide(d Difficulty) string {
	switch d {
	case DifficultyEasy:
		return "Easy: basic recall and one-step tasks, suitable for warming up."
	case DifficultyHard:
		return "Hard: multi-step tasks and traps typical of the hardest exam items."
	default:
		return "Medium: the typical level of the entrance exam."
	}
}

// buildUserMessage renders the generation request.
func buildUserMessage(req Request, maxPrior int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Subject: %s\n", req.Subject.DisplayName())
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Difficulty: %s\n", difficultyGuide(req.Difficulty))
	fmt.Fprintf(&b, "Number of questions: %d\n", req.Count)

	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildPrior(req.PriorQuestions, maxPrior))

	return b.String()
}

// buildPrior lists the most recent prior questions, or "None".
func buildPrior(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
