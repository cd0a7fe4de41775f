// Package insights turns a month of transactions into short budgeting
// advice from a language model.
package insights

import (
	"strings"

	"wealthway/internal/core"
)

// FallbackMessage is shown whenever no advice could be generated.
const FallbackMessage = "I couldn't analyze your data right now, but keep tracking those transactions to build a healthy financial habit!"

const emptySummary = "No transactions recorded yet."

const promptTemplate = `
    I am looking at my finances for this month. Based on the following list of income and expenses, please provide 3 brief, actionable financial tips or observations. 
    Compare my income vs my spending and offer advice on saving or budgeting better.
    Keep it encouraging, concise, and professional.
    
    Transactions:
    {{summary}}
  `

// BuildSummary renders one line per transaction, in input order:
// "2024-03-05: EXPENSE - Coffee ($4.5)".
func BuildSummary(txs []core.Transaction) string {
	lines := make([]string, 0, len(txs))
	for _, tx := range txs {
		lines = append(lines, tx.Date+": "+strings.ToUpper(string(tx.Type))+" - "+tx.Name+" ($"+tx.Amount.String()+")")
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt embeds the summary of txs in the advice request.
func BuildPrompt(txs []core.Transaction) string {
	summary := BuildSummary(txs)
	if summary == "" {
		summary = emptySummary
	}
	return strings.Replace(promptTemplate, "{{summary}}", summary, 1)
}
