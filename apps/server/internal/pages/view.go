package pages

//go:generate templ generate

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"war-lite/apps/server/internal/forms"
	"war-lite/war"
)

type faqEntry struct {
	Question string
	Answer   string
}

var faqEntries = []faqEntry{
	{Question: "Can I win real money on this website?", Answer: "No. War is played for fun only."},
	{Question: "How does a war start?", Answer: "When both flipped cards have the same rank, each player lays cards face down and flips again."},
	{Question: "What happens if I run out of cards during a war?", Answer: "You lose the game."},
	{Question: "Do suits matter?", Answer: "No. Only the rank decides who takes the pile."},
}

// RegisterView is the state of the registration form.
type RegisterView struct {
	Username string
	Email    string
	Errors   forms.ValidationErrors
}

// registerField describes one input of the registration form.
type registerField struct {
	Name  string
	Label string
	Type  string
	Value string
	Error *forms.FieldError
}

func (v RegisterView) fields() []registerField {
	return []registerField{
		{Name: "username", Label: "Username", Type: "text", Value: v.Username, Error: v.Errors.Field("username")},
		{Name: "email", Label: "Email", Type: "email", Value: v.Email, Error: v.Errors.Field("email")},
		{Name: "password1", Label: "Password", Type: "password", Error: v.Errors.Field("password1")},
		{Name: "password2", Label: "Password confirmation", Type: "password", Error: v.Errors.Field("password2")},
	}
}

// capitalize title-cases s. A Caser keeps state, so each call gets its own.
func capitalize(s string) string {
	return cases.Title(language.English).String(s)
}

func suitCode(code int) string {
	return strconv.Itoa(code)
}

func roundLine(rd war.Round) string {
	var b strings.Builder
	for i, f := range rd.Flips {
		if i > 0 {
			b.WriteString(" | war | ")
		}
		fmt.Fprintf(&b, "%s vs %s", f.A.Label(), f.B.Label())
	}
	fmt.Fprintf(&b, " : side %s takes %d cards", rd.Winner, rd.Won)
	if rd.Forfeit {
		b.WriteString(" (forfeit)")
	}
	fmt.Fprintf(&b, " [%d/%d]", rd.PileA, rd.PileB)
	return b.String()
}

func summaryLine(snap war.Snapshot) string {
	return fmt.Sprintf("Round %d, wars %d, piles %d/%d", snap.Round, snap.Wars, len(snap.PileA), len(snap.PileB))
}

func gameOverLine(winner war.Side) string {
	if winner == war.SideNone {
		return "Game over: draw"
	}
	return fmt.Sprintf("Game over: side %s wins", winner)
}
