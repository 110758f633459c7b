// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "math/rand"

// =============================================================================
// QUICK MESSAGES
// =============================================================================

// QuickMessage is a one-tap conversation starter shown on an empty chat.
type QuickMessage struct {
	Title       string
	Description string
	FullMessage string
}

// QuickMessages is the full starter pool, Swedish tax and accounting topics.
var QuickMessages = []QuickMessage{
	{
		Title:       "Travel Deductions",
		Description: "Check if you are eligible for travel deductions",
		FullMessage: "Can you help me understand what travel deductions (Reseavdrag) I'm eligible for? Please explain the conditions and how to calculate them.",
	},
	{
		Title:       "VAT Returns",
		Description: "Learn about VAT declaration process",
		FullMessage: "Please explain in detail about VAT (moms) declarations in Sweden. When should I file and what should I include?",
	},
	{
		Title:       "Income Declaration",
		Description: "Help with annual income tax declaration",
		FullMessage: "Can you help me understand the annual income tax declaration (inkomstdeklaration)? What do I need to report and what are the deadlines?",
	},
	{
		Title:       "Employer Contributions",
		Description: "Understanding Swedish employer obligations",
		FullMessage: "Please explain employer contributions (arbetsgivaravgifter) in Sweden. What are the rates and when should I pay?",
	},
	{
		Title:       "Home Office Deduction",
		Description: "Deductions for working from home",
		FullMessage: "What tax deductions can I claim for working from home (hemmakontorsavdrag)? Which expenses can be included?",
	},
	{
		Title:       "Corporate Tax Rate",
		Description: "Current Swedish corporate tax rates",
		FullMessage: "What is the current corporate tax rate in Sweden and are there any special considerations for small businesses?",
	},
	{
		Title:       "Dividend Taxation",
		Description: "Tax rules for dividend income",
		FullMessage: "Can you explain dividend taxation in Sweden? What rates apply and are there any exemptions?",
	},
	{
		Title:       "K2 vs K3 Standards",
		Description: "Differences between accounting standards",
		FullMessage: "What's the difference between K2 and K3 accounting standards? Which one should I choose for my company?",
	},
	{
		Title:       "Start a Company",
		Description: "Tax implications of starting a business",
		FullMessage: "What tax aspects should I consider when registering a company in Sweden? What's important to know at the start?",
	},
	{
		Title:       "Preliminary Tax",
		Description: "Understanding preliminary tax payments",
		FullMessage: "Please explain preliminary tax (preliminärskatt). How do I calculate it correctly and when should I pay?",
	},
	{
		Title:       "Expense Reports",
		Description: "Proper expense documentation",
		FullMessage: "How should I properly prepare expense reports (utläggsrapporter) for tax purposes? What documents are needed?",
	},
	{
		Title:       "Tax Account Overview",
		Description: "How Swedish tax account works",
		FullMessage: "Can you explain how the tax account (skattekonto) works in Sweden? How do I manage it?",
	},
	{
		Title:       "Capital Gains Tax",
		Description: "Tax on investment profits",
		FullMessage: "What is the capital gains tax (kapitalvinstskatt) when selling assets? Please explain any exemptions.",
	},
	{
		Title:       "Payroll Taxes",
		Description: "Understanding payroll tax obligations",
		FullMessage: "What payroll taxes (löneskatt) must an employer pay in Sweden?",
	},
	{
		Title:       "Tax Deduction Card",
		Description: "How to use your tax deduction card",
		FullMessage: "How does the tax deduction card (skattsedel) work and how should I use it correctly?",
	},
	{
		Title:       "Business Travel",
		Description: "Tax rules for business trips",
		FullMessage: "What are the tax rules for business travel expenses (tjänsteresa) in Sweden? What can be deducted?",
	},
	{
		Title:       "Annual Report Filing",
		Description: "Requirements for annual reports",
		FullMessage: "What are the requirements for a company's annual report (årsredovisning)? What must be included?",
	},
	{
		Title:       "Tax Calendar",
		Description: "Important tax dates and deadlines",
		FullMessage: "What are the main tax dates and deadlines I should remember throughout the year in Sweden?",
	},
	{
		Title:       "F-Tax Registration",
		Description: "Register for F-tax as self-employed",
		FullMessage: "Can you explain F-tax (F-skatt) for sole traders? How do I register and what benefits does it provide?",
	},
	{
		Title:       "VAT Registration",
		Description: "When and how to register for VAT",
		FullMessage: "When do I need to register for VAT (momsregistrering)? What's the threshold and what's the procedure?",
	},
}

// RandomQuickMessages picks n distinct starters at random.
func RandomQuickMessages(n int) []QuickMessage {
	if n > len(QuickMessages) {
		n = len(QuickMessages)
	}
	perm := rand.Perm(len(QuickMessages))
	out := make([]QuickMessage, n)
	for i := 0; i < n; i++ {
		out[i] = QuickMessages[perm[i]]
	}
	return out
}
